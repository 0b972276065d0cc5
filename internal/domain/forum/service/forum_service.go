package service

import (
	"context"
	"errors"
	"time"

	appRepo "doggtalk/internal/domain/app/repository"
	"doggtalk/internal/domain/forum/model"
	"doggtalk/internal/domain/forum/repository"
	userModel "doggtalk/internal/domain/user/model"
	userRepo "doggtalk/internal/domain/user/repository"
	"doggtalk/internal/pkg/ledger"
	"doggtalk/pkg/database"
	"doggtalk/pkg/errcode"
	"doggtalk/pkg/logger"
	"doggtalk/pkg/metrics"
	"doggtalk/pkg/utils"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Actor 操作者
// 终端用户操作时 UserID 来自 token；管理员可代本地用户发帖、回复，修改状态时 UserID 为 0
type Actor struct {
	AppID   uint64
	UserID  uint64
	Manager bool
}

// Myself 当前浏览者相关的标记，匿名访问时不返回
type Myself struct {
	IsLiked bool `json:"is_liked"`
}

// TopicItem 列表/详情中的帖子
type TopicItem struct {
	Topic  model.TopicSimple     `json:"topic"`
	User   *userModel.UserSimple `json:"user"`
	Myself *Myself               `json:"myself,omitempty"`
}

// ReplyItem 列表中的回复
type ReplyItem struct {
	Reply  model.ReplySimple     `json:"reply"`
	User   *userModel.UserSimple `json:"user"`
	Myself *Myself               `json:"myself,omitempty"`
}

// LikeResult 点赞/取消结果，like_count 为调整后重新读取的值
type LikeResult struct {
	Affect    int    `json:"affect"`
	LikeCount uint64 `json:"like_count"`
}

// TopicListInput 帖子列表参数，ViewerID 为 0 表示匿名
type TopicListInput struct {
	AppID    uint64
	Category uint64
	Style    model.VisibleStyle
	OrderBy  model.OrderBy
	ViewerID uint64
	utils.Pagination
}

// ReplyListInput 回复列表参数
type ReplyListInput struct {
	AppID    uint64
	TopicID  uint64
	Style    model.VisibleStyle
	ViewerID uint64
	utils.Pagination
}

// TopicInput 发帖内容
type TopicInput struct {
	Category uint64
	Title    string
	Content  string
}

// ForumService 帖子与回复服务
type ForumService interface {
	CreateTopic(ctx context.Context, actor Actor, in TopicInput) (*model.Topic, error)
	GetTopic(ctx context.Context, appID, topicID uint64, style model.VisibleStyle, viewerID uint64) (*TopicItem, error)
	ListTopics(ctx context.Context, in TopicListInput) ([]TopicItem, int64, error)
	UpdateTopicStatus(ctx context.Context, actor Actor, topicID uint64, action model.StatusAction) (*model.Topic, error)
	LikeTopic(ctx context.Context, actor Actor, topicID uint64) (*LikeResult, error)
	UnlikeTopic(ctx context.Context, actor Actor, topicID uint64) (*LikeResult, error)

	CreateReply(ctx context.Context, actor Actor, topicID uint64, content string) (*model.Reply, error)
	ListReplies(ctx context.Context, in ReplyListInput) ([]ReplyItem, int64, error)
	UpdateReplyStatus(ctx context.Context, actor Actor, replyID uint64, action model.StatusAction) (*model.Reply, error)
	LikeReply(ctx context.Context, actor Actor, replyID uint64) (*LikeResult, error)
	UnlikeReply(ctx context.Context, actor Actor, replyID uint64) (*LikeResult, error)
}

type forumService struct {
	topics  repository.TopicRepository
	replies repository.ReplyRepository
	users   userRepo.UserRepository
	apps    appRepo.AppRepository
	ledger  ledger.Ledger
	tx      *database.Transactor
	metrics *metrics.MetricsCollector
	now     func() time.Time
}

// NewForumService 创建服务
func NewForumService(
	topics repository.TopicRepository,
	replies repository.ReplyRepository,
	users userRepo.UserRepository,
	apps appRepo.AppRepository,
	l ledger.Ledger,
	tx *database.Transactor,
	m *metrics.MetricsCollector,
) ForumService {
	return &forumService{
		topics:  topics,
		replies: replies,
		users:   users,
		apps:    apps,
		ledger:  l,
		tx:      tx,
		metrics: m,
		now:     time.Now,
	}
}

// checkActor 校验操作者属于该租户且已激活
// 管理员代操作时只允许本地用户
func (s *forumService) checkActor(ctx context.Context, actor Actor) (*userModel.User, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, database.Classify(err, errcode.AccountNotFound)
	}
	if user.AppID != actor.AppID {
		return nil, errcode.New(errcode.NoPermission)
	}
	if actor.Manager && !user.IsLocal() {
		return nil, errcode.WithDetail(errcode.NoPermission, "only local users can be operated by managers")
	}
	if !user.IsActive() {
		return nil, errcode.New(errcode.AccountNotActived)
	}
	return user, nil
}

// checkStatusActor 修改状态的权限：管理员不限；终端用户只能改自己的内容且不能置顶
func (s *forumService) checkStatusActor(ctx context.Context, actor Actor, authorID uint64, action model.StatusAction) error {
	if actor.Manager {
		return nil
	}
	user, err := s.checkActor(ctx, actor)
	if err != nil {
		return err
	}
	if user.ID != authorID {
		return errcode.WithDetail(errcode.NoPermission, "not the author")
	}
	if action == model.ActionMoveup {
		return errcode.WithDetail(errcode.NoPermission, "moveup requires manager")
	}
	return nil
}

// applyAction 状态机错误映射为业务错误
func (s *forumService) applyAction(cur model.Topped, action model.StatusAction, notFound errcode.Code) (model.Topped, error) {
	next, err := model.ApplyStatusAction(cur, action, s.now())
	switch {
	case errors.Is(err, model.ErrDeleted):
		return cur, errcode.New(notFound)
	case err != nil:
		return cur, errcode.Wrap(errcode.InvalidParams, err)
	}
	return next, nil
}

// adjustCounter 执行计数调整
// 未启用事务时主变更已提交，失败即产生漂移，只记录不修正
func (s *forumService) adjustCounter(ctx context.Context, field string, id uint64, committed bool, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	if committed {
		s.metrics.RecordCounterDrift(field)
		logger.Log.Error("counter adjustment failed after primary mutation",
			zap.String("field", field),
			zap.Uint64("id", id),
			zap.Error(err),
		)
	}
	return database.Classify(err, errcode.InvalidDatabase)
}

// authorsAndLikes 并发拼装作者信息与点赞标记
// 匿名浏览者不查询账本
func (s *forumService) authorsAndLikes(ctx context.Context, kind ledger.Kind, userIDs, ids []uint64, viewerID uint64) (map[uint64]*userModel.User, map[uint64]bool, error) {
	var authors map[uint64]*userModel.User
	var liked map[uint64]bool

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		m, err := s.users.GetByIDs(ctx, uniqueIDs(userIDs))
		if err != nil {
			return database.Classify(err, errcode.AccountNotFound)
		}
		authors = m
		return nil
	})
	if viewerID > 0 {
		p.Go(func(ctx context.Context) error {
			m, err := s.ledger.IsLikedBatch(ctx, kind, ids, viewerID)
			if err != nil {
				return errcode.Wrap(errcode.InvalidDatabase, err)
			}
			liked = m
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, nil, err
	}
	return authors, liked, nil
}

func simpleOf(authors map[uint64]*userModel.User, id uint64) *userModel.UserSimple {
	u, ok := authors[id]
	if !ok {
		return nil
	}
	simple := u.ToSimple()
	return &simple
}

func myselfOf(liked map[uint64]bool, viewerID, id uint64) *Myself {
	if viewerID == 0 {
		return nil
	}
	return &Myself{IsLiked: liked[id]}
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func affectOf(ok bool) int {
	if ok {
		return 1
	}
	return 0
}
