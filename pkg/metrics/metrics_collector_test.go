package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector(t *testing.T) {
	m := NewMetricsCollector(prometheus.NewRegistry())

	m.RecordHTTPRequest("POST", "/sdk/topic/like", 200, 0, 12*time.Millisecond)
	m.RecordHTTPRequest("POST", "/sdk/topic/like", 200, 0, 8*time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/sdk/topic/like", "200", "0")))

	m.RecordLedgerOp("topic", "like", true)
	m.RecordLedgerOp("topic", "like", false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerOpsTotal.WithLabelValues("topic", "like", "true")))

	m.RecordForumAction("reply", "delete")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.forumActionsTotal.WithLabelValues("reply", "delete")))

	m.RecordCounterDrift("topic.reply_count")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.counterDriftTotal.WithLabelValues("topic.reply_count")))

	m.UpdateDBConnections(5, 2, 3, 7)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dbConnections.WithLabelValues("in_use")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.dbWaitCount))

	m.UpdateRedisConnections(4, 1, 2)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.redisConnections.WithLabelValues("total")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.redisTimeouts))
}
