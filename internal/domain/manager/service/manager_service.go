package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"doggtalk/internal/domain/manager/model"
	"doggtalk/internal/domain/manager/repository"
	"doggtalk/pkg/database"
	"doggtalk/pkg/errcode"
	"doggtalk/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ManagerService 管理员服务接口
type ManagerService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error)
	CreateManager(ctx context.Context, username, password string) (*model.Manager, error)
}

type managerService struct {
	repo   repository.ManagerRepository
	tokens *utils.TokenManager
}

func NewManagerService(repo repository.ManagerRepository, tokens *utils.TokenManager) ManagerService {
	return &managerService{repo: repo, tokens: tokens}
}

// Login 用户名或密码错误统一返回 AccountOrPasswordFailed
func (s *managerService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	manager, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", time.Time{}, errcode.New(errcode.AccountOrPasswordFailed)
	}
	if err != nil {
		return "", time.Time{}, database.Classify(err, errcode.AccountNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(manager.Password), []byte(password)); err != nil {
		return "", time.Time{}, errcode.New(errcode.AccountOrPasswordFailed)
	}

	token, expireAt, err := s.tokens.GenerateToken(utils.TokenMgr, strconv.FormatUint(manager.ID, 10))
	if err != nil {
		return "", time.Time{}, errcode.Wrap(errcode.Unexpected, err)
	}
	return token, expireAt, nil
}

// CreateManager 创建管理员，密码以 bcrypt 哈希保存
func (s *managerService) CreateManager(ctx context.Context, username, password string) (*model.Manager, error) {
	if username == "" || len(password) < 8 {
		return nil, errcode.WithDetail(errcode.InvalidParams, "username required and password at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errcode.Wrap(errcode.Unexpected, err)
	}

	manager := &model.Manager{Username: username, Password: string(hashed)}
	if err := s.repo.Create(ctx, manager); err != nil {
		return nil, database.Classify(err, errcode.AccountNotFound)
	}
	return manager, nil
}
