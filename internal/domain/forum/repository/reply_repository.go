package repository

import (
	"context"
	"time"

	"doggtalk/internal/domain/forum/model"
	"doggtalk/pkg/database"
	pkgModel "doggtalk/pkg/model"

	"gorm.io/gorm"
)

// ReplyRepository 回复仓储
type ReplyRepository interface {
	Create(ctx context.Context, reply *model.Reply) error
	GetByID(ctx context.Context, id uint64) (*model.Reply, error)
	GetListByTopic(ctx context.Context, topicID uint64, style model.VisibleStyle, offset, limit int) ([]model.Reply, int64, error)
	UpdateTopped(ctx context.Context, id uint64, topped model.Topped) (int64, error)
	AdjustLikeCount(ctx context.Context, id uint64, op pkgModel.CountOp) error
}

type replyRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db, now: time.Now}
}

func (r *replyRepository) Create(ctx context.Context, reply *model.Reply) error {
	reply.Topped = model.ToppedNormal
	reply.CreatedAt = r.now()
	return database.Conn(ctx, r.db).Create(reply).Error
}

func (r *replyRepository) GetByID(ctx context.Context, id uint64) (*model.Reply, error) {
	var reply model.Reply
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&reply).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

// GetListByTopic 置顶优先，其余按发布时间倒序
func (r *replyRepository) GetListByTopic(ctx context.Context, topicID uint64, style model.VisibleStyle, offset, limit int) ([]model.Reply, int64, error) {
	var replies []model.Reply
	var total int64

	cond, arg := style.Where()
	query := database.Conn(ctx, r.db).Model(&model.Reply{}).Where("topic_id = ?", topicID).Where(cond, arg)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order(model.OrderByCreate.Clause()).Offset(offset).Limit(limit).Find(&replies).Error; err != nil {
		return nil, 0, err
	}
	return replies, total, nil
}

// UpdateTopped 仅更新未删除的记录，返回受影响行数
// 并发删除时只有一个请求会得到 1
func (r *replyRepository) UpdateTopped(ctx context.Context, id uint64, topped model.Topped) (int64, error) {
	res := database.Conn(ctx, r.db).Model(&model.Reply{}).
		Where("id = ? AND topped > ?", id, model.ToppedDeleted).
		UpdateColumn("topped", topped)
	return res.RowsAffected, res.Error
}

func (r *replyRepository) AdjustLikeCount(ctx context.Context, id uint64, op pkgModel.CountOp) error {
	return database.Conn(ctx, r.db).Model(&model.Reply{}).Where("id = ?", id).
		UpdateColumn("like_count", op.Expr("like_count")).Error
}
