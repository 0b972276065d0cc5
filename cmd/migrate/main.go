package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"doggtalk/internal/pkg/config"
	"doggtalk/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "DoggTalk 数据库迁移",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, EnvVars: []string{"DOGGTALK_CONFIG"}},
			&cli.StringFlag{Name: "dir", Value: "migrations", Usage: "迁移文件根目录，按驱动区分子目录"},
		},
		Action: up,
		Commands: []*cli.Command{
			{Name: "up", Usage: "执行全部未应用的迁移", Action: up},
			{Name: "down", Usage: "回滚一个版本", Action: down},
			{
				Name:      "force",
				Usage:     "dirty 状态下强制设置版本",
				ArgsUsage: "<version>",
				Action:    force,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newMigrate(c *cli.Context) (*migrate.Migrate, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.App.Env, cfg.Log.Level); err != nil {
		return nil, err
	}

	source := "file://" + strings.TrimSuffix(c.String("dir"), "/") + "/" + cfg.Database.Driver
	return migrate.New(source, databaseURL(cfg.Database))
}

// databaseURL 转换为 golang-migrate 识别的地址
// mysql 的 DSN 不带 scheme，需要补上前缀
func databaseURL(cfg config.DatabaseConfig) string {
	if cfg.Driver == "mysql" && !strings.HasPrefix(cfg.URL, "mysql://") {
		return "mysql://" + cfg.URL
	}
	return cfg.URL
}

func up(c *cli.Context) error {
	m, err := newMigrate(c)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			logger.Log.Error("database is dirty, fix it and run `migrate force <version>`", zap.Int("version", dirty.Version))
		}
		return err
	}
	logVersion(m, "migration successful")
	return nil
}

func down(c *cli.Context) error {
	m, err := newMigrate(c)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	logVersion(m, "rollback successful")
	return nil
}

func force(c *cli.Context) error {
	var version int
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &version); err != nil {
		return fmt.Errorf("invalid version %q", c.Args().First())
	}

	m, err := newMigrate(c)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Force(version); err != nil {
		return err
	}
	logVersion(m, "version forced")
	return nil
}

func logVersion(m *migrate.Migrate, msg string) {
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		logger.Log.Warn("read migration version failed", zap.Error(err))
		return
	}
	logger.Log.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
}
