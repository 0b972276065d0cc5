package repository

import (
	"context"
	"time"

	"doggtalk/internal/domain/forum/model"
	"doggtalk/pkg/database"
	pkgModel "doggtalk/pkg/model"

	"gorm.io/gorm"
)

// TopicQuery 帖子列表查询条件，Category 为 0 时不过滤分类
type TopicQuery struct {
	AppID    uint64
	Category uint64
	Style    model.VisibleStyle
	OrderBy  model.OrderBy
	Offset   int
	Limit    int
}

// TopicRepository 帖子仓储
type TopicRepository interface {
	Create(ctx context.Context, topic *model.Topic) error
	GetByID(ctx context.Context, id uint64) (*model.Topic, error)
	GetList(ctx context.Context, q TopicQuery) ([]model.Topic, int64, error)
	UpdateTopped(ctx context.Context, id uint64, topped model.Topped) (int64, error)
	AdjustReplyCount(ctx context.Context, id uint64, op pkgModel.CountOp) error
	AdjustLikeCount(ctx context.Context, id uint64, op pkgModel.CountOp) error
}

type topicRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db, now: time.Now}
}

// Create 新帖状态为正常，refreshed_at 与创建时间一致
func (r *topicRepository) Create(ctx context.Context, topic *model.Topic) error {
	now := r.now()
	topic.Topped = model.ToppedNormal
	topic.CreatedAt = now
	topic.RefreshedAt = now
	return database.Conn(ctx, r.db).Create(topic).Error
}

// GetByID 返回原始记录，是否已删除由调用方判断
func (r *topicRepository) GetByID(ctx context.Context, id uint64) (*model.Topic, error) {
	var topic model.Topic
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&topic).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) GetList(ctx context.Context, q TopicQuery) ([]model.Topic, int64, error) {
	var topics []model.Topic
	var total int64

	query := database.Conn(ctx, r.db).Model(&model.Topic{}).Where("app_id = ?", q.AppID)
	if q.Category > 0 {
		query = query.Where("category = ?", q.Category)
	}
	cond, arg := q.Style.Where()
	query = query.Where(cond, arg)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order(q.OrderBy.Clause()).Offset(q.Offset).Limit(q.Limit).Find(&topics).Error; err != nil {
		return nil, 0, err
	}
	return topics, total, nil
}

// UpdateTopped 仅更新未删除的记录，返回受影响行数
// 并发删除时只有一个请求会得到 1
func (r *topicRepository) UpdateTopped(ctx context.Context, id uint64, topped model.Topped) (int64, error) {
	res := database.Conn(ctx, r.db).Model(&model.Topic{}).
		Where("id = ? AND topped > ?", id, model.ToppedDeleted).
		UpdateColumn("topped", topped)
	return res.RowsAffected, res.Error
}

// AdjustReplyCount 原子调整回复数，新增回复时同时刷新 refreshed_at
func (r *topicRepository) AdjustReplyCount(ctx context.Context, id uint64, op pkgModel.CountOp) error {
	columns := map[string]interface{}{
		"reply_count": op.Expr("reply_count"),
	}
	if op == pkgModel.CountIncr {
		columns["refreshed_at"] = r.now()
	}
	return database.Conn(ctx, r.db).Model(&model.Topic{}).Where("id = ?", id).
		UpdateColumns(columns).Error
}

func (r *topicRepository) AdjustLikeCount(ctx context.Context, id uint64, op pkgModel.CountOp) error {
	return database.Conn(ctx, r.db).Model(&model.Topic{}).Where("id = ?", id).
		UpdateColumn("like_count", op.Expr("like_count")).Error
}
