package common

import (
	commonHandler "doggtalk/internal/pkg/common"
	"doggtalk/internal/pkg/middleware"
	"doggtalk/internal/pkg/registry"
	"doggtalk/pkg/logger"
	"doggtalk/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	// 未配置对象存储时不开放上传
	if ctx.Uploader == nil {
		logger.Log.Info("oss not configured, upload disabled")
		return nil
	}
	setupRoutes(ctx.Router, commonHandler.NewUploadHandler(ctx.Uploader), ctx.Tokens)
	return nil
}

func setupRoutes(r *gin.Engine, h *commonHandler.UploadHandler, tokens *utils.TokenManager) {
	// 图标、头像等素材上传，仅管理端可用
	r.POST("/mgr/upload", middleware.MgrAuth(tokens), h.UploadFile)
}
