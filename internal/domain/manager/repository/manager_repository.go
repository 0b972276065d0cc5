package repository

import (
	"context"

	"doggtalk/internal/domain/manager/model"
	"doggtalk/pkg/database"

	"gorm.io/gorm"
)

// ManagerRepository 接口定义
type ManagerRepository interface {
	Create(ctx context.Context, manager *model.Manager) error
	GetByID(ctx context.Context, id uint64) (*model.Manager, error)
	GetByUsername(ctx context.Context, username string) (*model.Manager, error)
}

type managerRepository struct {
	db *gorm.DB
}

func NewManagerRepository(db *gorm.DB) ManagerRepository {
	return &managerRepository{db: db}
}

func (r *managerRepository) Create(ctx context.Context, manager *model.Manager) error {
	return database.Conn(ctx, r.db).Create(manager).Error
}

func (r *managerRepository) GetByID(ctx context.Context, id uint64) (*model.Manager, error) {
	var manager model.Manager
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&manager).Error; err != nil {
		return nil, err
	}
	return &manager, nil
}

func (r *managerRepository) GetByUsername(ctx context.Context, username string) (*model.Manager, error) {
	var manager model.Manager
	if err := database.Conn(ctx, r.db).Where("username = ?", username).First(&manager).Error; err != nil {
		return nil, err
	}
	return &manager, nil
}
