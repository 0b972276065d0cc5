package repository

import (
	"context"

	"doggtalk/internal/domain/app/model"
	"doggtalk/pkg/database"

	"gorm.io/gorm"
)

// AppRepository 接口定义
type AppRepository interface {
	Create(ctx context.Context, app *model.App) error
	GetByID(ctx context.Context, id uint64) (*model.App, error)
	GetByKey(ctx context.Context, appKey string) (*model.App, error)
	GetList(ctx context.Context, offset, limit int) ([]model.App, int64, error)
	GetAll(ctx context.Context) ([]model.App, error)
}

type appRepository struct {
	db *gorm.DB
}

func NewAppRepository(db *gorm.DB) AppRepository {
	return &appRepository{db: db}
}

func (r *appRepository) Create(ctx context.Context, app *model.App) error {
	return database.Conn(ctx, r.db).Create(app).Error
}

func (r *appRepository) GetByID(ctx context.Context, id uint64) (*model.App, error) {
	var app model.App
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *appRepository) GetByKey(ctx context.Context, appKey string) (*model.App, error) {
	var app model.App
	if err := database.Conn(ctx, r.db).Where("app_key = ?", appKey).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// GetList 按创建倒序分页
func (r *appRepository) GetList(ctx context.Context, offset, limit int) ([]model.App, int64, error) {
	var apps []model.App
	var total int64

	db := database.Conn(ctx, r.db)
	if err := db.Model(&model.App{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("id desc").Offset(offset).Limit(limit).Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *appRepository) GetAll(ctx context.Context) ([]model.App, error) {
	var apps []model.App
	if err := database.Conn(ctx, r.db).Order("id desc").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}
