package forum

import (
	appRepo "doggtalk/internal/domain/app/repository"
	"doggtalk/internal/domain/forum/handler"
	"doggtalk/internal/domain/forum/repository"
	"doggtalk/internal/domain/forum/service"
	userRepo "doggtalk/internal/domain/user/repository"
	"doggtalk/internal/pkg/middleware"
	"doggtalk/internal/pkg/registry"
	"doggtalk/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ForumModule 帖子与回复模块
type ForumModule struct{}

func init() {
	registry.Register(&ForumModule{})
}

func (m *ForumModule) Name() string {
	return "forum"
}

func (m *ForumModule) Priority() int {
	return 10
}

func (m *ForumModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	forumService := service.NewForumService(
		repository.NewTopicRepository(ctx.DB),
		repository.NewReplyRepository(ctx.DB),
		userRepo.NewUserRepository(ctx.DB),
		appRepo.NewAppRepository(ctx.DB),
		ctx.Ledger,
		ctx.Transactor,
		ctx.Metrics,
	)
	forumHandler := handler.NewForumHandler(forumService, ctx.Config.Forum.MaxPageCount)

	// 2. 路由注册
	setupRoutes(ctx.Router, forumHandler, ctx.Tokens)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ForumHandler, tokens *utils.TokenManager) {
	sdkTopic := r.Group("/sdk/topic")
	{
		public := sdkTopic.Group("")
		public.Use(middleware.SDKOptionalAuth(tokens))
		public.GET("/detail", h.TopicDetail)
		public.GET("/list", h.TopicList)

		auth := sdkTopic.Group("")
		auth.Use(middleware.SDKAuth(tokens))
		auth.POST("/create", h.CreateTopic)
		auth.POST("/update/status", h.UpdateTopicStatus)
		auth.POST("/like", h.LikeTopic)
		auth.POST("/unlike", h.UnlikeTopic)
	}

	sdkReply := r.Group("/sdk/reply")
	{
		public := sdkReply.Group("")
		public.Use(middleware.SDKOptionalAuth(tokens))
		public.GET("/list", h.ReplyList)

		auth := sdkReply.Group("")
		auth.Use(middleware.SDKAuth(tokens))
		auth.POST("/create", h.CreateReply)
		auth.POST("/update/status", h.UpdateReplyStatus)
		auth.POST("/like", h.LikeReply)
		auth.POST("/unlike", h.UnlikeReply)
	}

	mgrTopic := r.Group("/mgr/topic")
	mgrTopic.Use(middleware.MgrAuth(tokens))
	{
		mgrTopic.POST("/create", h.MgrCreateTopic)
		mgrTopic.GET("/detail", h.MgrTopicDetail)
		mgrTopic.GET("/list", h.MgrTopicList)
		mgrTopic.POST("/update/status", h.MgrUpdateTopicStatus)
		mgrTopic.POST("/like", h.MgrLikeTopic)
		mgrTopic.POST("/unlike", h.MgrUnlikeTopic)
	}

	mgrReply := r.Group("/mgr/reply")
	mgrReply.Use(middleware.MgrAuth(tokens))
	{
		mgrReply.POST("/create", h.MgrCreateReply)
		mgrReply.GET("/list", h.MgrReplyList)
		mgrReply.POST("/update/status", h.MgrUpdateReplyStatus)
		mgrReply.POST("/like", h.MgrLikeReply)
		mgrReply.POST("/unlike", h.MgrUnlikeReply)
	}
}
