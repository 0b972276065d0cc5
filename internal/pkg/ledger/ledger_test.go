package ledger

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (Ledger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLedger(rdb), mr
}

func TestKindKey(t *testing.T) {
	assert.Equal(t, "topiclike:12", KindTopic.Key(12))
	assert.Equal(t, "replylike:7", KindReply.Key(7))
}

func TestLikeIdempotent(t *testing.T) {
	l, mr := newTestLedger(t)
	ctx := context.Background()

	affected, err := l.Like(ctx, KindTopic, 1, 42)
	require.NoError(t, err)
	assert.True(t, affected)

	affected, err = l.Like(ctx, KindTopic, 1, 42)
	require.NoError(t, err)
	assert.False(t, affected)

	members, err := mr.ZMembers("topiclike:1")
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, members)

	score, err := mr.ZScore("topiclike:1", "42")
	require.NoError(t, err)
	assert.Greater(t, score, float64(0))
}

func TestUnlike(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	affected, err := l.Unlike(ctx, KindReply, 3, 42)
	require.NoError(t, err)
	assert.False(t, affected)

	_, err = l.Like(ctx, KindReply, 3, 42)
	require.NoError(t, err)
	liked, err := l.IsLiked(ctx, KindReply, 3, 42)
	require.NoError(t, err)
	assert.True(t, liked)

	affected, err = l.Unlike(ctx, KindReply, 3, 42)
	require.NoError(t, err)
	assert.True(t, affected)

	liked, err = l.IsLiked(ctx, KindReply, 3, 42)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestIsLikedBatch(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	for _, id := range []uint64{10, 30} {
		_, err := l.Like(ctx, KindTopic, id, 5)
		require.NoError(t, err)
	}
	// 其他用户的点赞不影响结果
	_, err := l.Like(ctx, KindTopic, 20, 6)
	require.NoError(t, err)

	got, err := l.IsLikedBatch(ctx, KindTopic, []uint64{10, 20, 30}, 5)
	require.NoError(t, err)
	assert.Equal(t, map[uint64]bool{10: true, 20: false, 30: true}, got)

	got, err = l.IsLikedBatch(ctx, KindTopic, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLedgerRedisDown(t *testing.T) {
	l, mr := newTestLedger(t)
	mr.Close()

	_, err := l.Like(context.Background(), KindTopic, 1, 1)
	assert.Error(t, err)
	_, err = l.IsLikedBatch(context.Background(), KindTopic, []uint64{1}, 1)
	assert.Error(t, err)
}

// roundTripHook 统计发往 Redis 的往返次数
type roundTripHook struct{ trips int }

func (h *roundTripHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *roundTripHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.trips++
		return next(ctx, cmd)
	}
}

func (h *roundTripHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		h.trips++
		return next(ctx, cmds)
	}
}

func TestIsLikedBatchSingleRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	l := NewRedisLedger(rdb)
	ctx := context.Background()

	_, err := l.Like(ctx, KindReply, 1, 9)
	require.NoError(t, err)

	hook := &roundTripHook{}
	rdb.AddHook(hook)

	got, err := l.IsLikedBatch(ctx, KindReply, []uint64{1, 2, 3, 4}, 9)
	require.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Equal(t, 1, hook.trips)
}
