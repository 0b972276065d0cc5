package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"doggtalk/internal/domain/forum/model"
	pkgModel "doggtalk/pkg/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// 计数调整必须是单条原子 UPDATE，不能先读后写
func TestCounterStatements(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	topics := &topicRepository{db: db, now: func() time.Time { return now }}
	replies := &replyRepository{db: db, now: func() time.Time { return now }}
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `dg_topics` SET `like_count`=like_count + 1 WHERE id = ?")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, topics.AdjustLikeCount(ctx, 7, pkgModel.CountIncr))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `dg_topics` SET `refreshed_at`=?,`reply_count`=reply_count + 1 WHERE id = ?")).
		WithArgs(now, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, topics.AdjustReplyCount(ctx, 7, pkgModel.CountIncr))

	// 删除回复不刷新 refreshed_at
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `dg_topics` SET `reply_count`=CASE WHEN reply_count > 0 THEN reply_count - 1 ELSE 0 END WHERE id = ?")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, topics.AdjustReplyCount(ctx, 7, pkgModel.CountDecr))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `dg_replies` SET `like_count`=CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END WHERE id = ?")).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, replies.AdjustLikeCount(ctx, 9, pkgModel.CountDecr))

	assert.NoError(t, mock.ExpectationsWereMet())
}

// 状态更新带上未删除条件，重复删除影响 0 行
func TestUpdateToppedSkipsDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	replies := &replyRepository{db: db, now: time.Now}
	ctx := context.Background()

	stmt := regexp.QuoteMeta("UPDATE `dg_replies` SET `topped`=? WHERE id = ? AND topped > ?")
	mock.ExpectExec(stmt).WithArgs(-2, 9, -2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(stmt).WithArgs(-2, 9, -2).WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := replies.UpdateTopped(ctx, 9, model.ToppedDeleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = replies.UpdateTopped(ctx, 9, model.ToppedDeleted)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCounterStatementError(t *testing.T) {
	db, mock := newMockDB(t)
	topics := &topicRepository{db: db, now: time.Now}

	mock.ExpectExec("UPDATE `dg_topics`").WillReturnError(assert.AnError)
	err := topics.AdjustLikeCount(context.Background(), 1, pkgModel.CountIncr)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
