// Package testkit 提供 sqlite 内存库与 miniredis，供各领域测试使用
package testkit

import (
	"testing"

	appModel "doggtalk/internal/domain/app/model"
	forumModel "doggtalk/internal/domain/forum/model"
	managerModel "doggtalk/internal/domain/manager/model"
	userModel "doggtalk/internal/domain/user/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models 全部持久化模型
func Models() []any {
	return []any{
		&appModel.App{},
		&userModel.User{},
		&managerModel.Manager{},
		&forumModel.Topic{},
		&forumModel.Reply{},
	}
}

// NewDB 每个测试独立的内存库
// 单连接保证所有语句落在同一个 :memory: 实例上
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

// NewRedis 启动 miniredis 并返回客户端
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

// SeedApp 写入一个租户
func SeedApp(t *testing.T, db *gorm.DB, name string) *appModel.App {
	t.Helper()
	app := &appModel.App{AppKey: "key-" + name, AppSecret: "secret-" + name, Name: name}
	require.NoError(t, db.Create(app).Error)
	return app
}

// SeedUser 写入一个用户
func SeedUser(t *testing.T, db *gorm.DB, appID uint64, account string, status int8) *userModel.User {
	t.Helper()
	user := &userModel.User{
		AppID:       appID,
		Source:      userModel.SourceSync,
		Account:     account,
		DisplayName: account,
		Status:      status,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
