package registry

import (
	"sort"

	"doggtalk/internal/pkg/config"
	"doggtalk/internal/pkg/ledger"
	"doggtalk/internal/pkg/uploader"
	"doggtalk/pkg/database"
	"doggtalk/pkg/metrics"
	"doggtalk/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ModuleContext 模块初始化所需的上下文
// 连接池等句柄在启动时创建一次，通过此结构注入各模块
type ModuleContext struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *redis.Client
	Router     *gin.Engine
	Ledger     ledger.Ledger
	Transactor *database.Transactor
	Tokens     *utils.TokenManager
	Metrics    *metrics.MetricsCollector
	Uploader   uploader.Uploader // 未配置对象存储时为 nil
}

// Module 模块接口
type Module interface {
	// Name 返回模块名称
	Name() string

	// Init 初始化模块（依赖注入、路由注册等）
	Init(ctx *ModuleContext) error

	// Priority 返回初始化优先级（数字越小越先初始化）
	Priority() int
}

// moduleRegistry 全局模块注册表
var moduleRegistry = make(map[string]Module)

// Register 注册模块
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules 获取所有已注册的模块
func GetModules() map[string]Module {
	return moduleRegistry
}

// InitModules 按优先级初始化所有模块
func InitModules(ctx *ModuleContext) error {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}

	// 同优先级按名称排序，保证路由注册顺序稳定
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Priority() != modules[j].Priority() {
			return modules[i].Priority() < modules[j].Priority()
		}
		return modules[i].Name() < modules[j].Name()
	})

	for _, module := range modules {
		if err := module.Init(ctx); err != nil {
			return err
		}
	}

	return nil
}
