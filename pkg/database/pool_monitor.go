package database

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"doggtalk/pkg/logger"
	"doggtalk/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SQLStatser 提供数据库连接池统计，*sql.DB 实现该接口
type SQLStatser interface {
	Stats() sql.DBStats
}

// RedisStatser 提供 Redis 连接池统计，*redis.Client 实现该接口
type RedisStatser interface {
	PoolStats() *redis.PoolStats
}

// PoolMonitor 连接池监控器，定期把两个连接池的状态写入指标
type PoolMonitor struct {
	sqlDB     SQLStatser
	rdb       RedisStatser
	collector *metrics.MetricsCollector
	interval  time.Duration

	mu   sync.RWMutex
	last PoolSnapshot
}

// PoolSnapshot 连接池快照
type PoolSnapshot struct {
	Timestamp       time.Time     `json:"timestamp"`
	OpenConnections int           `json:"open_connections"`
	InUse           int           `json:"in_use"`
	Idle            int           `json:"idle"`
	WaitCount       int64         `json:"wait_count"`
	WaitDuration    time.Duration `json:"wait_duration"`
	RedisTotal      uint32        `json:"redis_total"`
	RedisIdle       uint32        `json:"redis_idle"`
	RedisTimeouts   uint32        `json:"redis_timeouts"`
}

// NewPoolMonitor 创建连接池监控器
func NewPoolMonitor(sqlDB SQLStatser, rdb RedisStatser, collector *metrics.MetricsCollector, interval time.Duration) *PoolMonitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &PoolMonitor{
		sqlDB:     sqlDB,
		rdb:       rdb,
		collector: collector,
		interval:  interval,
	}
}

// Run 阻塞采集直到 ctx 取消
func (pm *PoolMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(pm.interval)
	defer ticker.Stop()

	pm.Collect()
	for {
		select {
		case <-ticker.C:
			pm.Collect()
		case <-ctx.Done():
			return nil
		}
	}
}

// Collect 采集一次
func (pm *PoolMonitor) Collect() PoolSnapshot {
	stats := pm.sqlDB.Stats()
	snapshot := PoolSnapshot{
		Timestamp:       time.Now(),
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		WaitCount:       stats.WaitCount,
		WaitDuration:    stats.WaitDuration,
	}
	if pm.rdb != nil {
		rs := pm.rdb.PoolStats()
		snapshot.RedisTotal = rs.TotalConns
		snapshot.RedisIdle = rs.IdleConns
		snapshot.RedisTimeouts = rs.Timeouts
	}

	pm.mu.Lock()
	prev := pm.last
	pm.last = snapshot
	pm.mu.Unlock()

	pm.collector.UpdateDBConnections(snapshot.OpenConnections, snapshot.InUse, snapshot.Idle, snapshot.WaitCount)
	pm.collector.UpdateRedisConnections(snapshot.RedisTotal, snapshot.RedisIdle, snapshot.RedisTimeouts)

	if snapshot.RedisTimeouts > prev.RedisTimeouts {
		logger.Log.Warn("redis pool acquire timeouts",
			zap.Uint32("timeouts", snapshot.RedisTimeouts-prev.RedisTimeouts))
	}
	if snapshot.WaitCount > prev.WaitCount {
		logger.Log.Debug("database pool waited",
			zap.Int64("waits", snapshot.WaitCount-prev.WaitCount),
			zap.Duration("wait_duration", snapshot.WaitDuration))
	}
	return snapshot
}

// Last 最近一次快照
func (pm *PoolMonitor) Last() PoolSnapshot {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.last
}
