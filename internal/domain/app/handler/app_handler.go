package handler

import (
	"doggtalk/internal/domain/app/model"
	"doggtalk/internal/domain/app/service"
	"doggtalk/pkg/response"
	"doggtalk/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AppHandler struct {
	service      service.AppService
	maxPageCount int
}

func NewAppHandler(s service.AppService, maxPageCount int) *AppHandler {
	return &AppHandler{service: s, maxPageCount: maxPageCount}
}

// HomeInput 终端首页参数
type HomeInput struct {
	AppKey string `form:"app_key" binding:"required"`
}

// CreateInput 创建应用
type CreateInput struct {
	Name    string `json:"name" binding:"required,max=64"`
	IconURL string `json:"icon_url" binding:"httpurl"`
}

// DetailInput 应用详情
type DetailInput struct {
	AppID uint64 `form:"app_id" binding:"required"`
}

// Home 终端获取应用信息
// @Summary 应用首页
// @Tags SDK
// @Param app_key query string true "App Key"
// @Success 200 {object} response.Response{data=model.AppSimple}
// @Router /sdk/home [get]
func (h *AppHandler) Home(c *gin.Context) {
	var input HomeInput
	if err := c.ShouldBindQuery(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}

	app, err := h.service.GetAppByKey(c.Request.Context(), input.AppKey)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"app": app.ToSimple()})
}

// Create 创建应用
// @Summary 创建应用
// @Tags MGR
// @Accept json
// @Produce json
// @Param input body CreateInput true "应用信息"
// @Success 200 {object} response.Response
// @Router /mgr/app/create [post]
func (h *AppHandler) Create(c *gin.Context) {
	var input CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}

	app, err := h.service.CreateApp(c.Request.Context(), input.Name, input.IconURL)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"app_id": app.ID})
}

// Detail 应用详情，包含密钥
func (h *AppHandler) Detail(c *gin.Context) {
	var input DetailInput
	if err := c.ShouldBindQuery(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}

	app, err := h.service.GetApp(c.Request.Context(), input.AppID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"app": app})
}

// List 分页获取应用
func (h *AppHandler) List(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.InvalidParams(c, err)
		return
	}
	if err := p.Normalize(h.maxPageCount); err != nil {
		response.InvalidParams(c, err)
		return
	}

	apps, total, err := h.service.GetApps(c.Request.Context(), p)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"total": total, "apps": apps})
}

// ListAll 全部应用的简要信息
func (h *AppHandler) ListAll(c *gin.Context) {
	apps, err := h.service.GetAllApps(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	if apps == nil {
		apps = []model.AppSimple{}
	}
	response.Success(c, gin.H{"apps": apps})
}
