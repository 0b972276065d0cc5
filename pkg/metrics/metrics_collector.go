package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 论坛业务指标
	forumActionsTotal *prometheus.CounterVec
	ledgerOpsTotal    *prometheus.CounterVec
	counterDriftTotal *prometheus.CounterVec

	// 连接池指标
	dbConnections    *prometheus.GaugeVec
	dbWaitCount      prometheus.Gauge
	redisConnections *prometheus.GaugeVec
	redisTimeouts    prometheus.Gauge
}

// NewMetricsCollector 创建指标收集器
// reg 为 nil 时注册到 prometheus.DefaultRegisterer
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &MetricsCollector{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status", "code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		forumActionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forum_actions_total",
				Help: "Forum state changes by entity and action",
			},
			[]string{"entity", "action"},
		),

		ledgerOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "like_ledger_ops_total",
				Help: "Like ledger operations by kind, op and affected flag",
			},
			[]string{"kind", "op", "affected"},
		),

		counterDriftTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forum_counter_drift_total",
				Help: "Counter adjustments that failed after the primary change was applied",
			},
			[]string{"field"},
		),

		dbConnections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_connections",
				Help: "Database pool connections by state",
			},
			[]string{"state"},
		),

		dbWaitCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_wait_total",
				Help: "Total number of connections waited for",
			},
		),

		redisConnections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "redis_connections",
				Help: "Redis pool connections by state",
			},
			[]string{"state"},
		),

		redisTimeouts: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "redis_pool_timeouts_total",
				Help: "Times a redis connection could not be acquired in time",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求
// status 为传输层状态码，code 为业务码
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint string, status, code int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status), strconv.Itoa(code)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordForumAction 记录帖子/回复的状态变更、点赞等动作
func (m *MetricsCollector) RecordForumAction(entity, action string) {
	m.forumActionsTotal.WithLabelValues(entity, action).Inc()
}

// RecordLedgerOp 记录点赞账本操作
func (m *MetricsCollector) RecordLedgerOp(kind, op string, affected bool) {
	m.ledgerOpsTotal.WithLabelValues(kind, op, strconv.FormatBool(affected)).Inc()
}

// RecordCounterDrift 记录计数漂移
func (m *MetricsCollector) RecordCounterDrift(field string) {
	m.counterDriftTotal.WithLabelValues(field).Inc()
}

// UpdateDBConnections 更新数据库连接池指标
func (m *MetricsCollector) UpdateDBConnections(open, inUse, idle int, waitCount int64) {
	m.dbConnections.WithLabelValues("open").Set(float64(open))
	m.dbConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(idle))
	m.dbWaitCount.Set(float64(waitCount))
}

// UpdateRedisConnections 更新 Redis 连接池指标
func (m *MetricsCollector) UpdateRedisConnections(total, idle, timeouts uint32) {
	m.redisConnections.WithLabelValues("total").Set(float64(total))
	m.redisConnections.WithLabelValues("idle").Set(float64(idle))
	m.redisTimeouts.Set(float64(timeouts))
}
