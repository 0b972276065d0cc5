package handler

import (
	"doggtalk/internal/domain/forum/model"
	"doggtalk/internal/domain/forum/service"
	"doggtalk/pkg/response"
	"doggtalk/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TopicCreateInput 发帖输入
type TopicCreateInput struct {
	AppID    uint64 `json:"app_id" binding:"required"`
	Category uint64 `json:"category"`
	Title    string `json:"title" binding:"required,max=255"`
	Content  string `json:"content" binding:"required"`
}

// MgrTopicCreateInput 管理员代本地用户发帖
type MgrTopicCreateInput struct {
	UserID uint64 `json:"user_id" binding:"required"`
	TopicCreateInput
}

// TopicDetailInput 帖子详情
type TopicDetailInput struct {
	AppID   uint64 `form:"app_id" binding:"required"`
	TopicID uint64 `form:"topic_id" binding:"required"`
	Style   string `form:"style" binding:"omitempty,oneof=all normal"`
}

// TopicListInput 帖子列表，category 为 0 时不过滤
type TopicListInput struct {
	AppID    uint64 `form:"app_id" binding:"required"`
	Category uint64 `form:"category"`
	Style    string `form:"style" binding:"omitempty,oneof=all normal"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=create refresh"`
	utils.Pagination
}

// TopicStatusInput 修改帖子状态
type TopicStatusInput struct {
	TopicID uint64 `json:"topic_id" binding:"required"`
	StatusInput
}

// TopicLikeInput 点赞/取消点赞
type TopicLikeInput struct {
	AppID   uint64 `json:"app_id" binding:"required"`
	TopicID uint64 `json:"topic_id" binding:"required"`
}

// MgrTopicLikeInput 管理员代本地用户点赞
type MgrTopicLikeInput struct {
	UserID uint64 `json:"user_id" binding:"required"`
	TopicLikeInput
}

func (in TopicCreateInput) toService() service.TopicInput {
	return service.TopicInput{Category: in.Category, Title: in.Title, Content: in.Content}
}

// CreateTopic 发帖
// @Summary 发帖
// @Tags SDK
// @Accept json
// @Produce json
// @Param input body TopicCreateInput true "帖子内容"
// @Success 200 {object} response.Response
// @Router /sdk/topic/create [post]
func (h *ForumHandler) CreateTopic(c *gin.Context) {
	var input TopicCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}
	actor, err := sdkActor(c, input.AppID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	topic, err := h.service.CreateTopic(c.Request.Context(), actor, input.toService())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"topic": topic.ToSimple()})
}

// TopicDetail 帖子详情，匿名可访问，默认只看正常帖子
func (h *ForumHandler) TopicDetail(c *gin.Context) {
	h.topicDetail(c, model.StyleNormal)
}

// TopicList 帖子列表
// @Summary 帖子列表
// @Tags SDK
// @Produce json
// @Param app_id query int true "应用ID"
// @Param category query int false "分类"
// @Param style query string false "all | normal"
// @Param order_by query string false "create | refresh"
// @Param cursor query int false "偏移"
// @Param count query int false "数量"
// @Success 200 {object} response.Response
// @Router /sdk/topic/list [get]
func (h *ForumHandler) TopicList(c *gin.Context) {
	h.topicList(c, model.StyleNormal)
}

// UpdateTopicStatus 作者修改自己帖子的状态
func (h *ForumHandler) UpdateTopicStatus(c *gin.Context) {
	var input TopicStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}
	actor, err := sdkActor(c, input.AppID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	h.updateTopicStatus(c, actor, input)
}

// LikeTopic 点赞帖子
// @Summary 点赞帖子
// @Tags SDK
// @Accept json
// @Produce json
// @Param input body TopicLikeInput true "帖子"
// @Success 200 {object} response.Response
// @Router /sdk/topic/like [post]
func (h *ForumHandler) LikeTopic(c *gin.Context) {
	h.toggleTopicLike(c, h.service.LikeTopic)
}

// UnlikeTopic 取消点赞
func (h *ForumHandler) UnlikeTopic(c *gin.Context) {
	h.toggleTopicLike(c, h.service.UnlikeTopic)
}

// MgrCreateTopic 代本地用户发帖
// @Summary 代本地用户发帖
// @Tags MGR
// @Accept json
// @Produce json
// @Param input body MgrTopicCreateInput true "帖子内容"
// @Success 200 {object} response.Response
// @Router /mgr/topic/create [post]
func (h *ForumHandler) MgrCreateTopic(c *gin.Context) {
	var input MgrTopicCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}

	actor := service.Actor{AppID: input.AppID, UserID: input.UserID, Manager: true}
	topic, err := h.service.CreateTopic(c.Request.Context(), actor, input.toService())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"topic_id": topic.ID})
}

// MgrTopicDetail 管理端详情，默认包含隐藏帖子
func (h *ForumHandler) MgrTopicDetail(c *gin.Context) {
	h.topicDetail(c, model.StyleAll)
}

// MgrTopicList 管理端列表
func (h *ForumHandler) MgrTopicList(c *gin.Context) {
	h.topicList(c, model.StyleAll)
}

// MgrUpdateTopicStatus 重置、置顶、隐藏或删除帖子
// @Summary 修改帖子状态
// @Tags MGR
// @Accept json
// @Produce json
// @Param input body TopicStatusInput true "动作"
// @Success 200 {object} response.Response
// @Router /mgr/topic/update/status [post]
func (h *ForumHandler) MgrUpdateTopicStatus(c *gin.Context) {
	var input TopicStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}
	h.updateTopicStatus(c, service.Actor{AppID: input.AppID, Manager: true}, input)
}

// MgrLikeTopic 代本地用户点赞
func (h *ForumHandler) MgrLikeTopic(c *gin.Context) {
	h.mgrToggleTopicLike(c, h.service.LikeTopic)
}

func (h *ForumHandler) MgrUnlikeTopic(c *gin.Context) {
	h.mgrToggleTopicLike(c, h.service.UnlikeTopic)
}

func (h *ForumHandler) topicDetail(c *gin.Context, def model.VisibleStyle) {
	var input TopicDetailInput
	if err := c.ShouldBindQuery(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}
	viewerID, err := viewerOf(c, input.AppID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	item, err := h.service.GetTopic(c.Request.Context(), input.AppID, input.TopicID, styleOr(input.Style, def), viewerID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, item)
}

func (h *ForumHandler) topicList(c *gin.Context, def model.VisibleStyle) {
	var input TopicListInput
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

	items, total, err := h.service.ListTopics(c.Request.Context(), service.TopicListInput{
		AppID:      input.AppID,
		Category:   input.Category,
		Style:      styleOr(input.Style, def),
		OrderBy:    orderOr(input.OrderBy),
		ViewerID:   viewerID,
		Pagination: input.Pagination,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"total": total, "topics": items})
}

func (h *ForumHandler) updateTopicStatus(c *gin.Context, actor service.Actor, input TopicStatusInput) {
	topic, err := h.service.UpdateTopicStatus(c.Request.Context(), actor, input.TopicID, model.StatusAction(input.Action))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"topic_id": topic.ID})
}

func (h *ForumHandler) toggleTopicLike(c *gin.Context, fn likeFunc) {
	var input TopicLikeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}
	actor, err := sdkActor(c, input.AppID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	res, err := fn(c.Request.Context(), actor, input.TopicID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, res)
}

func (h *ForumHandler) mgrToggleTopicLike(c *gin.Context, fn likeFunc) {
	var input MgrTopicLikeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}

	actor := service.Actor{AppID: input.AppID, UserID: input.UserID, Manager: true}
	res, err := fn(c.Request.Context(), actor, input.TopicID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, res)
}
