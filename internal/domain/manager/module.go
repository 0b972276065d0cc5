package manager

import (
	"doggtalk/internal/domain/manager/handler"
	"doggtalk/internal/domain/manager/repository"
	"doggtalk/internal/domain/manager/service"
	"doggtalk/internal/pkg/registry"
)

// ManagerModule 管理员模块
type ManagerModule struct{}

func init() {
	registry.Register(&ManagerModule{})
}

func (m *ManagerModule) Name() string {
	return "manager"
}

func (m *ManagerModule) Priority() int {
	return 1
}

func (m *ManagerModule) Init(ctx *registry.ModuleContext) error {
	managerService := service.NewManagerService(repository.NewManagerRepository(ctx.DB), ctx.Tokens)
	managerHandler := handler.NewManagerHandler(managerService)

	ctx.Router.POST("/mgr/manager/login", managerHandler.Login)
	return nil
}
