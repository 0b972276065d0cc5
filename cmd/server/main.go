// DoggTalk 多租户论坛服务
//
// @title DoggTalk API
// @version 1.0
// @description 多租户论坛后端：/sdk 为终端用户接口，/mgr 为管理端接口
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"fmt"
	"os"

	"doggtalk/internal/domain/manager/repository"
	"doggtalk/internal/domain/manager/service"
	"doggtalk/internal/pkg/config"
	"doggtalk/pkg/database"
	"doggtalk/pkg/logger"
	"doggtalk/pkg/utils"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "doggtalk",
		Usage: "DoggTalk forum server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径，缺省按 APP_ENV 查找 configs/config[.env].yaml",
				EnvVars: []string{"DOGGTALK_CONFIG"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "启动 HTTP 服务",
				Action: serve,
			},
			{
				Name:  "manager",
				Usage: "管理员账号维护",
				Subcommands: []*cli.Command{
					{
						Name:  "create",
						Usage: "创建管理员",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "username", Required: true},
							&cli.StringFlag{Name: "password", Required: true},
						},
						Action: createManager,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Error("exit with error", zap.Error(err))
		logger.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup 加载配置并初始化日志
func setup(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.App.Env, cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

func createManager(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.InitDatabase(cfg.Database, false)
	if err != nil {
		return err
	}

	tokens := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL())
	svc := service.NewManagerService(repository.NewManagerRepository(db), tokens)
	m, err := svc.CreateManager(c.Context, c.String("username"), c.String("password"))
	if err != nil {
		return err
	}
	logger.Log.Info("manager created", zap.Uint64("id", m.ID), zap.String("username", m.Username))
	return nil
}
