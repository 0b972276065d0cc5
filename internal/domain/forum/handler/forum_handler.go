package handler

import (
	"context"

	"doggtalk/internal/domain/forum/model"
	"doggtalk/internal/domain/forum/service"
	"doggtalk/internal/pkg/middleware"
	"doggtalk/pkg/errcode"

	"github.com/gin-gonic/gin"
)

// ForumHandler 帖子与回复处理器
type ForumHandler struct {
	service      service.ForumService
	maxPageCount int
}

// NewForumHandler 创建处理器
func NewForumHandler(s service.ForumService, maxPageCount int) *ForumHandler {
	return &ForumHandler{service: s, maxPageCount: maxPageCount}
}

// sdkActor token 中的租户必须与请求中的 app_id 一致
func sdkActor(c *gin.Context, appID uint64) (service.Actor, error) {
	tokenApp, userID, ok := middleware.SDKIdentity(c)
	if !ok {
		return service.Actor{}, errcode.WithDetail(errcode.InvalidToken, "missing bearer token")
	}
	if tokenApp != appID {
		return service.Actor{}, errcode.New(errcode.NoPermission)
	}
	return service.Actor{AppID: appID, UserID: userID}, nil
}

// viewerOf 匿名访问返回 0
func viewerOf(c *gin.Context, appID uint64) (uint64, error) {
	tokenApp, userID, ok := middleware.SDKIdentity(c)
	if !ok {
		return 0, nil
	}
	if tokenApp != appID {
		return 0, errcode.New(errcode.NoPermission)
	}
	return userID, nil
}

func styleOr(s string, def model.VisibleStyle) model.VisibleStyle {
	if s == "" {
		return def
	}
	return model.VisibleStyle(s)
}

func orderOr(s string) model.OrderBy {
	if s == "" {
		return model.OrderByRefresh
	}
	return model.OrderBy(s)
}

// StatusInput 修改状态
type StatusInput struct {
	AppID  uint64 `json:"app_id" binding:"required"`
	Action string `json:"action" binding:"required,oneof=reset moveup hidden delete"`
}

// likeFunc 点赞与取消点赞共用同一套参数处理
type likeFunc func(ctx context.Context, actor service.Actor, id uint64) (*service.LikeResult, error)
