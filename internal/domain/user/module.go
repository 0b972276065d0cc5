package user

import (
	appRepo "doggtalk/internal/domain/app/repository"
	"doggtalk/internal/domain/user/handler"
	"doggtalk/internal/domain/user/repository"
	"doggtalk/internal/domain/user/service"
	"doggtalk/internal/pkg/middleware"
	"doggtalk/internal/pkg/registry"
	"doggtalk/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	return 5
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	idGen, err := utils.NewIDGenerator(ctx.Config.App.NodeID)
	if err != nil {
		return err
	}
	userRepo := repository.NewUserRepository(ctx.DB)
	userService := service.NewUserService(userRepo, appRepo.NewAppRepository(ctx.DB), ctx.Tokens, idGen)
	userHandler := handler.NewUserHandler(userService, ctx.Config.Forum.MaxPageCount)

	// 2. 路由注册
	setupRoutes(ctx.Router, userHandler, ctx.Tokens)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler, tokens *utils.TokenManager) {
	sdk := r.Group("/sdk/user")
	{
		sdk.POST("/login/sync", h.SyncLogin)

		auth := sdk.Group("")
		auth.Use(middleware.SDKAuth(tokens))
		auth.GET("/detail", h.Detail)
		auth.POST("/update/profile", h.UpdateProfile)
	}

	mgr := r.Group("/mgr/user")
	mgr.Use(middleware.MgrAuth(tokens))
	{
		mgr.POST("/create", h.MgrCreate)
		mgr.GET("/detail", h.MgrDetail)
		mgr.GET("/list", h.MgrList)
		mgr.POST("/update/profile", h.MgrUpdateProfile)
		mgr.POST("/update/status", h.MgrUpdateStatus)
	}
}
