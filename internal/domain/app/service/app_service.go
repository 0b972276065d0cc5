package service

import (
	"context"

	"doggtalk/internal/domain/app/model"
	"doggtalk/internal/domain/app/repository"
	"doggtalk/pkg/database"
	"doggtalk/pkg/errcode"
	"doggtalk/pkg/utils"

	"github.com/google/uuid"
)

// AppService 应用服务接口
type AppService interface {
	CreateApp(ctx context.Context, name, iconURL string) (*model.App, error)
	GetApp(ctx context.Context, id uint64) (*model.App, error)
	GetAppByKey(ctx context.Context, appKey string) (*model.App, error)
	GetApps(ctx context.Context, p utils.Pagination) ([]model.App, int64, error)
	GetAllApps(ctx context.Context) ([]model.AppSimple, error)
}

type appService struct {
	repo    repository.AppRepository
	keySalt string
}

func NewAppService(repo repository.AppRepository, keySalt string) AppService {
	return &appService{repo: repo, keySalt: keySalt}
}

// CreateApp 生成 app_key 与 app_secret 后入库
func (s *appService) CreateApp(ctx context.Context, name, iconURL string) (*model.App, error) {
	key, err := utils.GenAppKey(s.keySalt)
	if err != nil {
		return nil, errcode.Wrap(errcode.Unexpected, err)
	}

	app := &model.App{
		AppKey:    key,
		AppSecret: uuid.New().String(),
		Name:      name,
		IconURL:   iconURL,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, database.Classify(err, errcode.AppNotFound)
	}
	return app, nil
}

func (s *appService) GetApp(ctx context.Context, id uint64) (*model.App, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, database.Classify(err, errcode.AppNotFound)
	}
	return app, nil
}

func (s *appService) GetAppByKey(ctx context.Context, appKey string) (*model.App, error) {
	app, err := s.repo.GetByKey(ctx, appKey)
	if err != nil {
		return nil, database.Classify(err, errcode.AppNotFound)
	}
	return app, nil
}

func (s *appService) GetApps(ctx context.Context, p utils.Pagination) ([]model.App, int64, error) {
	apps, total, err := s.repo.GetList(ctx, p.Cursor, p.Count)
	if err != nil {
		return nil, 0, database.Classify(err, errcode.AppNotFound)
	}
	return apps, total, nil
}

func (s *appService) GetAllApps(ctx context.Context) ([]model.AppSimple, error) {
	apps, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, database.Classify(err, errcode.AppNotFound)
	}
	simple := make([]model.AppSimple, 0, len(apps))
	for i := range apps {
		simple = append(simple, apps[i].ToSimple())
	}
	return simple, nil
}
