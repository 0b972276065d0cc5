package repository

import (
	"context"

	"doggtalk/internal/domain/user/model"
	"doggtalk/pkg/database"
	pkgModel "doggtalk/pkg/model"

	"gorm.io/gorm"
)

// SourceAny 列表不过滤来源
const SourceAny int8 = -1

// UserRepository 接口定义
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByAccount(ctx context.Context, appID uint64, source int8, account string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.User, error)
	GetList(ctx context.Context, appID uint64, source int8, offset, limit int) ([]model.User, int64, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdateStatus(ctx context.Context, id uint64, status int8) error
	AdjustTopicCount(ctx context.Context, id uint64, op pkgModel.CountOp) error
}

// userRepository 实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建新的仓库实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return database.Conn(ctx, r.db).Create(user).Error
}

// GetByID 根据ID获取用户
func (r *userRepository) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByAccount 根据租户、来源、账号获取用户
func (r *userRepository) GetByAccount(ctx context.Context, appID uint64, source int8, account string) (*model.User, error) {
	var user model.User
	err := database.Conn(ctx, r.db).
		Where("app_id = ? AND source = ? AND account = ?", appID, source, account).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDs 批量获取，用于列表拼装作者
func (r *userRepository) GetByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.User, error) {
	result := make(map[uint64]*model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var users []model.User
	if err := database.Conn(ctx, r.db).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		result[users[i].ID] = &users[i]
	}
	return result, nil
}

// GetList 获取用户列表（分页），source 为 SourceAny 时不过滤
func (r *userRepository) GetList(ctx context.Context, appID uint64, source int8, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := database.Conn(ctx, r.db).Model(&model.User{}).Where("app_id = ?", appID)
	if source != SourceAny {
		query = query.Where("source = ?", source)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("id desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateProfile 更新昵称、头像、性别
func (r *userRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	return database.Conn(ctx, r.db).Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"display_name": user.DisplayName,
		"avatar_url":   user.AvatarURL,
		"gender":       user.Gender,
	}).Error
}

func (r *userRepository) UpdateStatus(ctx context.Context, id uint64, status int8) error {
	return database.Conn(ctx, r.db).Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// AdjustTopicCount 原子调整发帖数
func (r *userRepository) AdjustTopicCount(ctx context.Context, id uint64, op pkgModel.CountOp) error {
	return database.Conn(ctx, r.db).Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("topic_count", op.Expr("topic_count")).Error
}
