package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type counterRow struct {
	ID    uint64 `gorm:"primaryKey"`
	Value int
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&counterRow{}))
	require.NoError(t, db.Create(&counterRow{ID: 1}).Error)
	return db
}

func bump(ctx context.Context, db *gorm.DB) error {
	return Conn(ctx, db).Model(&counterRow{}).Where("id = ?", 1).
		UpdateColumn("value", gorm.Expr("value + 1")).Error
}

func valueOf(t *testing.T, db *gorm.DB) int {
	var row counterRow
	require.NoError(t, db.First(&row, 1).Error)
	return row.Value
}

func TestTransactorRollback(t *testing.T) {
	db := openSQLite(t)
	tx := NewTransactor(db, true)

	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		require.NoError(t, bump(ctx, db))
		return errors.New("counter failed")
	})
	assert.Error(t, err)
	assert.Equal(t, 0, valueOf(t, db))
}

func TestTransactorDisabledKeepsPartialWrites(t *testing.T) {
	db := openSQLite(t)
	tx := NewTransactor(db, false)

	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		require.NoError(t, bump(ctx, db))
		return errors.New("counter failed")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, valueOf(t, db))
}
