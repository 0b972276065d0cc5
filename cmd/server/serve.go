package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "doggtalk/docs"
	_ "doggtalk/internal/domain/app"
	_ "doggtalk/internal/domain/common"
	_ "doggtalk/internal/domain/forum"
	_ "doggtalk/internal/domain/manager"
	_ "doggtalk/internal/domain/user"

	"doggtalk/internal/pkg/config"
	"doggtalk/internal/pkg/ledger"
	"doggtalk/internal/pkg/middleware"
	"doggtalk/internal/pkg/registry"
	"doggtalk/internal/pkg/uploader"
	"doggtalk/internal/pkg/validate"
	"doggtalk/pkg/database"
	"doggtalk/pkg/logger"
	"doggtalk/pkg/metrics"
	"doggtalk/pkg/response"
	"doggtalk/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

func serve(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.Mode)
	if err := validate.Register(); err != nil {
		return err
	}

	// 1. 连接池在启动时创建一次，通过 ModuleContext 注入各模块
	db, err := database.InitDatabase(cfg.Database, cfg.App.Debug)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := database.InitRedis(cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	collector := metrics.NewMetricsCollector(nil)
	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)

	moduleCtx := &registry.ModuleContext{
		Config:     cfg,
		DB:         db,
		Redis:      rdb,
		Router:     newRouter(cfg, collector, limiter),
		Ledger:     ledger.NewRedisLedger(rdb),
		Transactor: database.NewTransactor(db, cfg.Forum.TransactionalCounters),
		Tokens:     utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL()),
		Metrics:    collector,
	}
	if cfg.OSS.Enabled() {
		u, err := uploader.NewAliyunOSSUploader(cfg.OSS)
		if err != nil {
			return err
		}
		moduleCtx.Uploader = u
	}

	// 2. 初始化所有业务模块
	if err := registry.InitModules(moduleCtx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           moduleCtx.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 3. 运行直到收到退出信号
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Log.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return database.NewPoolMonitor(sqlDB, rdb, collector, 15*time.Second).Run(gctx)
	})
	g.Go(func() error {
		return cleanupVisitors(gctx, limiter)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Log.Info("server exited")
	return nil
}

func newRouter(cfg *config.Config, collector *metrics.MetricsCollector, limiter *middleware.IPRateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.RecoveryMiddleware(),
		middleware.SecurityHeadersMiddleware(),
		middleware.CorsMiddleware(cfg.Server.CorsOrigins),
		middleware.MetricsMiddleware(collector),
		middleware.RateLimitMiddleware(limiter),
		middleware.TimeoutMiddleware(cfg.Server.RequestTimeout),
	)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.App.Debug {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return r
}

// cleanupVisitors 定期清理长时间未访问的限流器
func cleanupVisitors(ctx context.Context, limiter *middleware.IPRateLimiter) error {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := limiter.Cleanup(3 * time.Minute); n > 0 {
				logger.Log.Debug("rate limiter visitors evicted", zap.Int("count", n))
			}
		case <-ctx.Done():
			return nil
		}
	}
}
