package database

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// Transactor 控制主变更与计数调整是否处于同一事务
// 关闭时 RunInTx 直接执行 fn，各语句独立提交
type Transactor struct {
	db      *gorm.DB
	enabled bool
}

func NewTransactor(db *gorm.DB, enabled bool) *Transactor {
	return &Transactor{db: db, enabled: enabled}
}

// Enabled 是否启用事务
func (t *Transactor) Enabled() bool {
	return t.enabled
}

// RunInTx 在事务中执行 fn，事务句柄通过 ctx 传递给仓储
func (t *Transactor) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn 返回 ctx 中的事务句柄，没有则返回 db
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
