package handler

import (
	"doggtalk/internal/domain/user/model"
	"doggtalk/internal/domain/user/repository"
	"doggtalk/internal/domain/user/service"
	"doggtalk/internal/pkg/middleware"
	"doggtalk/pkg/response"
	"doggtalk/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service      service.UserService
	maxPageCount int
}

// NewUserHandler 创建处理器
func NewUserHandler(s service.UserService, maxPageCount int) *UserHandler {
	return &UserHandler{service: s, maxPageCount: maxPageCount}
}

// SyncLoginInput 同步登录输入
type SyncLoginInput struct {
	AppID       uint64 `json:"app_id" binding:"required"`
	Account     string `json:"account" binding:"required,max=64"`
	DisplayName string `json:"display_name" binding:"required,max=64"`
	AvatarURL   string `json:"avatar_url" binding:"httpurl"`
	SafeSign    string `json:"safe_sign" binding:"required"`
}

// ProfileInput 资料输入
type ProfileInput struct {
	DisplayName string `json:"display_name" binding:"required,max=64"`
	AvatarURL   string `json:"avatar_url" binding:"httpurl"`
	Gender      int8   `json:"gender" binding:"min=0,max=2"`
}

func (in ProfileInput) toService() service.ProfileInput {
	return service.ProfileInput{DisplayName: in.DisplayName, AvatarURL: in.AvatarURL, Gender: in.Gender}
}

// CreateInput 管理端创建本地用户
type CreateInput struct {
	AppID uint64 `json:"app_id" binding:"required"`
	ProfileInput
}

// MgrProfileInput 管理端修改资料
type MgrProfileInput struct {
	AppID  uint64 `json:"app_id" binding:"required"`
	UserID uint64 `json:"user_id" binding:"required"`
	ProfileInput
}

// DetailInput 管理端用户详情
type DetailInput struct {
	AppID  uint64 `form:"app_id" binding:"required"`
	UserID uint64 `form:"user_id" binding:"required"`
}

// ListInput 管理端用户列表，source 缺省为全部来源
type ListInput struct {
	AppID  uint64 `form:"app_id" binding:"required"`
	Source *int8  `form:"source" binding:"omitempty,min=-1,max=1"`
	utils.Pagination
}

// StatusInput 管理端修改用户状态
type StatusInput struct {
	AppID  uint64 `json:"app_id" binding:"required"`
	UserID uint64 `json:"user_id" binding:"required"`
	Status *int8  `json:"status" binding:"required,min=0,max=1"`
}

// SyncLogin 接入方同步登录
// @Summary 同步登录
// @Tags SDK
// @Accept json
// @Produce json
// @Param input body SyncLoginInput true "登录参数"
// @Success 200 {object} response.Response
// @Router /sdk/user/login/sync [post]
func (h *UserHandler) SyncLogin(c *gin.Context) {
	var input SyncLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}

	res, err := h.service.SyncLogin(c.Request.Context(), service.SyncLoginInput{
		AppID:       input.AppID,
		Account:     input.Account,
		DisplayName: input.DisplayName,
		AvatarURL:   input.AvatarURL,
		SafeSign:    input.SafeSign,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"token":     res.Token,
		"expire_at": res.ExpireAt.Unix(),
		"user":      res.User.ToSimple(),
	})
}

// Detail 当前用户详情
func (h *UserHandler) Detail(c *gin.Context) {
	appID, userID, _ := middleware.SDKIdentity(c)
	user, err := h.service.GetUser(c.Request.Context(), appID, userID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

// UpdateProfile 当前用户修改资料
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}

	appID, userID, _ := middleware.SDKIdentity(c)
	user, err := h.service.UpdateProfile(c.Request.Context(), appID, userID, input.toService())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

// MgrCreate 创建本地用户
// @Summary 创建本地用户
// @Tags MGR
// @Accept json
// @Produce json
// @Param input body CreateInput true "用户资料"
// @Success 200 {object} response.Response
// @Router /mgr/user/create [post]
func (h *UserHandler) MgrCreate(c *gin.Context) {
	var input CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}

	user, err := h.service.CreateLocalUser(c.Request.Context(), input.AppID, input.toService())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"user_id": user.ID})
}

// MgrDetail 用户详情
func (h *UserHandler) MgrDetail(c *gin.Context) {
	var input DetailInput
	if err := c.ShouldBindQuery(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), input.AppID, input.UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

// MgrList 用户列表
func (h *UserHandler) MgrList(c *gin.Context) {
	var input ListInput
	if err := c.ShouldBindQuery(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}
	if err := input.Normalize(h.maxPageCount); err != nil {
		response.InvalidParams(c, err)
		return
	}

	source := repository.SourceAny
	if input.Source != nil {
		source = *input.Source
	}

	users, total, err := h.service.GetUsers(c.Request.Context(), input.AppID, source, input.Pagination)
	if err != nil {
		response.Fail(c, err)
		return
	}

	list := make([]model.UserSimple, 0, len(users))
	for i := range users {
		list = append(list, users[i].ToSimple())
	}
	response.Success(c, gin.H{"total": total, "users": list})
}

// MgrUpdateProfile 修改本地用户资料
func (h *UserHandler) MgrUpdateProfile(c *gin.Context) {
	var input MgrProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}

	user, err := h.service.UpdateLocalProfile(c.Request.Context(), input.AppID, input.UserID, input.toService())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

// MgrUpdateStatus 激活或挂起用户
func (h *UserHandler) MgrUpdateStatus(c *gin.Context) {
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}

	user, err := h.service.UpdateStatus(c.Request.Context(), input.AppID, input.UserID, *input.Status)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}
