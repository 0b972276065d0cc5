package ledger

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Kind 点赞对象类型
type Kind string

const (
	KindTopic Kind = "topic"
	KindReply Kind = "reply"
)

// Key 每个对象一个有序集合，成员为用户ID，分值为点赞时间
func (k Kind) Key(id uint64) string {
	return string(k) + "like:" + strconv.FormatUint(id, 10)
}

// Ledger 点赞账本，幂等点赞/取消的唯一依据
type Ledger interface {
	// Like 用户未点赞时写入，返回是否新增
	Like(ctx context.Context, kind Kind, id, userID uint64) (bool, error)
	// Unlike 移除点赞，返回是否确有移除
	Unlike(ctx context.Context, kind Kind, id, userID uint64) (bool, error)
	IsLiked(ctx context.Context, kind Kind, id, userID uint64) (bool, error)
	// IsLikedBatch 一次往返查询多个对象
	IsLikedBatch(ctx context.Context, kind Kind, ids []uint64, userID uint64) (map[uint64]bool, error)
}

type redisLedger struct {
	rdb redis.Cmdable
	now func() time.Time
}

// NewRedisLedger 基于 Redis 有序集合的账本
func NewRedisLedger(rdb redis.Cmdable) Ledger {
	return &redisLedger{rdb: rdb, now: time.Now}
}

func (l *redisLedger) Like(ctx context.Context, kind Kind, id, userID uint64) (bool, error) {
	n, err := l.rdb.ZAddNX(ctx, kind.Key(id), redis.Z{
		Score:  float64(l.now().Unix()),
		Member: strconv.FormatUint(userID, 10),
	}).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (l *redisLedger) Unlike(ctx context.Context, kind Kind, id, userID uint64) (bool, error) {
	n, err := l.rdb.ZRem(ctx, kind.Key(id), strconv.FormatUint(userID, 10)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (l *redisLedger) IsLiked(ctx context.Context, kind Kind, id, userID uint64) (bool, error) {
	err := l.rdb.ZScore(ctx, kind.Key(id), strconv.FormatUint(userID, 10)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *redisLedger) IsLikedBatch(ctx context.Context, kind Kind, ids []uint64, userID uint64) (map[uint64]bool, error) {
	result := make(map[uint64]bool, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	member := strconv.FormatUint(userID, 10)
	cmds := make([]*redis.FloatCmd, len(ids))
	_, err := l.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.ZScore(ctx, kind.Key(id), member)
		}
		return nil
	})
	// 未点赞的成员返回 redis.Nil，Exec 会把它作为首个错误返回
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	for i, id := range ids {
		err := cmds[i].Err()
		switch {
		case err == nil:
			result[id] = true
		case errors.Is(err, redis.Nil):
			result[id] = false
		default:
			return nil, err
		}
	}
	return result, nil
}
