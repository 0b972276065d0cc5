package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"doggtalk/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type fakeSQL struct{ stats sql.DBStats }

func (f fakeSQL) Stats() sql.DBStats { return f.stats }

type fakeRedis struct{ stats redis.PoolStats }

func (f fakeRedis) PoolStats() *redis.PoolStats { return &f.stats }

func TestPoolMonitorCollect(t *testing.T) {
	pm := NewPoolMonitor(
		fakeSQL{stats: sql.DBStats{OpenConnections: 5, InUse: 3, Idle: 2, WaitCount: 1}},
		fakeRedis{stats: redis.PoolStats{TotalConns: 4, IdleConns: 1, Timeouts: 2}},
		metrics.NewMetricsCollector(prometheus.NewRegistry()),
		time.Second,
	)

	snap := pm.Collect()
	assert.Equal(t, 3, snap.InUse)
	assert.Equal(t, uint32(4), snap.RedisTotal)
	assert.Equal(t, uint32(2), snap.RedisTimeouts)
	assert.Equal(t, snap, pm.Last())
}

func TestPoolMonitorRunStops(t *testing.T) {
	pm := NewPoolMonitor(fakeSQL{}, nil, metrics.NewMetricsCollector(prometheus.NewRegistry()), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pm.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}
