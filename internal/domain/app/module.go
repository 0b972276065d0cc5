package app

import (
	"doggtalk/internal/domain/app/handler"
	"doggtalk/internal/domain/app/repository"
	"doggtalk/internal/domain/app/service"
	"doggtalk/internal/pkg/middleware"
	"doggtalk/internal/pkg/registry"
	"doggtalk/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AppModule 应用（租户）模块
type AppModule struct{}

func init() {
	registry.Register(&AppModule{})
}

func (m *AppModule) Name() string {
	return "app"
}

func (m *AppModule) Priority() int {
	// 其他模块均依赖租户
	return 1
}

func (m *AppModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	appRepo := repository.NewAppRepository(ctx.DB)
	appService := service.NewAppService(appRepo, ctx.Config.App.KeySalt)
	appHandler := handler.NewAppHandler(appService, ctx.Config.Forum.MaxPageCount)

	// 2. 路由注册
	setupRoutes(ctx.Router, appHandler, ctx.Tokens)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AppHandler, tokens *utils.TokenManager) {
	r.GET("/sdk/home", h.Home)

	mgr := r.Group("/mgr/app")
	mgr.Use(middleware.MgrAuth(tokens))
	{
		mgr.POST("/create", h.Create)
		mgr.GET("/detail", h.Detail)
		mgr.GET("/list", h.List)
		mgr.GET("/list/all", h.ListAll)
	}
}
