package handler

import (
	"doggtalk/internal/domain/forum/model"
	"doggtalk/internal/domain/forum/service"
	"doggtalk/pkg/response"
	"doggtalk/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReplyCreateInput 回复输入
type ReplyCreateInput struct {
	AppID   uint64 `json:"app_id" binding:"required"`
	TopicID uint64 `json:"topic_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// MgrReplyCreateInput 管理员代本地用户回复
type MgrReplyCreateInput struct {
	UserID uint64 `json:"user_id" binding:"required"`
	ReplyCreateInput
}

type ReplyListInput struct {
	AppID   uint64 `form:"app_id" binding:"required"`
	TopicID uint64 `form:"topic_id" binding:"required"`
	Style   string `form:"style" binding:"omitempty,oneof=all normal"`
	utils.Pagination
}

type ReplyStatusInput struct {
	ReplyID uint64 `json:"reply_id" binding:"required"`
	StatusInput
}

type ReplyLikeInput struct {
	AppID   uint64 `json:"app_id" binding:"required"`
	ReplyID uint64 `json:"reply_id" binding:"required"`
}

type MgrReplyLikeInput struct {
	UserID uint64 `json:"user_id" binding:"required"`
	ReplyLikeInput
}

// CreateReply 回复帖子
// @Summary 回复帖子
// @Tags SDK
// @Accept json
// @Produce json
// @Param input body ReplyCreateInput true "回复内容"
// @Success 200 {object} response.Response
// @Router /sdk/reply/create [post]
func (h *ForumHandler) CreateReply(c *gin.Context) {
	var input ReplyCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}
	actor, err := sdkActor(c, input.AppID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	reply, err := h.service.CreateReply(c.Request.Context(), actor, input.TopicID, input.Content)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"reply": reply.ToSimple()})
}

// ReplyList 回复列表，匿名可访问
func (h *ForumHandler) ReplyList(c *gin.Context) {
	h.replyList(c, model.StyleNormal)
}

func (h *ForumHandler) UpdateReplyStatus(c *gin.Context) {
	var input ReplyStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}
	actor, err := sdkActor(c, input.AppID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	h.updateReplyStatus(c, actor, input)
}

// LikeReply 点赞回复
// @Summary 点赞回复
// @Tags SDK
// @Accept json
// @Produce json
// @Param input body ReplyLikeInput true "回复"
// @Success 200 {object} response.Response
// @Router /sdk/reply/like [post]
func (h *ForumHandler) LikeReply(c *gin.Context) {
	h.toggleReplyLike(c, h.service.LikeReply)
}

func (h *ForumHandler) UnlikeReply(c *gin.Context) {
	h.toggleReplyLike(c, h.service.UnlikeReply)
}

// MgrCreateReply 代本地用户回复
func (h *ForumHandler) MgrCreateReply(c *gin.Context) {
	var input MgrReplyCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}

	actor := service.Actor{AppID: input.AppID, UserID: input.UserID, Manager: true}
	reply, err := h.service.CreateReply(c.Request.Context(), actor, input.TopicID, input.Content)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"reply_id": reply.ID})
}

func (h *ForumHandler) MgrReplyList(c *gin.Context) {
	h.replyList(c, model.StyleAll)
}

// MgrUpdateReplyStatus 重置、置顶、隐藏或删除回复
// @Summary 修改回复状态
// @Tags MGR
// @Accept json
// @Produce json
// @Param input body ReplyStatusInput true "动作"
// @Success 200 {object} response.Response
// @Router /mgr/reply/update/status [post]
func (h *ForumHandler) MgrUpdateReplyStatus(c *gin.Context) {
	var input ReplyStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}
	h.updateReplyStatus(c, service.Actor{AppID: input.AppID, Manager: true}, input)
}

// MgrLikeReply 代本地用户点赞回复
func (h *ForumHandler) MgrLikeReply(c *gin.Context) {
	h.mgrToggleReplyLike(c, h.service.LikeReply)
}

// MgrUnlikeReply 代本地用户取消点赞
func (h *ForumHandler) MgrUnlikeReply(c *gin.Context) {
	h.mgrToggleReplyLike(c, h.service.UnlikeReply)
}

func (h *ForumHandler) replyList(c *gin.Context, def model.VisibleStyle) {
	var input ReplyListInput
	if err := c.ShouldBindQuery(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}
	if err := input.Normalize(h.maxPageCount); err != nil {
		response.InvalidParams(c, err)
		return
	}
	viewerID, err := viewerOf(c, input.AppID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	items, total, err := h.service.ListReplies(c.Request.Context(), service.ReplyListInput{
		AppID:      input.AppID,
		TopicID:    input.TopicID,
		Style:      styleOr(input.Style, def),
		ViewerID:   viewerID,
		Pagination: input.Pagination,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"total": total, "replies": items})
}

func (h *ForumHandler) updateReplyStatus(c *gin.Context, actor service.Actor, input ReplyStatusInput) {
	reply, err := h.service.UpdateReplyStatus(c.Request.Context(), actor, input.ReplyID, model.StatusAction(input.Action))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"reply_id": reply.ID})
}

func (h *ForumHandler) toggleReplyLike(c *gin.Context, fn likeFunc) {
	var input ReplyLikeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}
	actor, err := sdkActor(c, input.AppID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	res, err := fn(c.Request.Context(), actor, input.ReplyID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, res)
}

func (h *ForumHandler) mgrToggleReplyLike(c *gin.Context, fn likeFunc) {
	var input MgrReplyLikeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}

	actor := service.Actor{AppID: input.AppID, UserID: input.UserID, Manager: true}
	res, err := fn(c.Request.Context(), actor, input.ReplyID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, res)
}
