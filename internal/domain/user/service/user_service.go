package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	appRepo "doggtalk/internal/domain/app/repository"
	"doggtalk/internal/domain/user/model"
	"doggtalk/internal/domain/user/repository"
	"doggtalk/pkg/database"
	"doggtalk/pkg/errcode"
	"doggtalk/pkg/utils"

	"gorm.io/gorm"
)

// SyncLoginInput 接入方同步登录参数
type SyncLoginInput struct {
	AppID       uint64
	Account     string
	DisplayName string
	AvatarURL   string
	SafeSign    string
}

// ProfileInput 资料
type ProfileInput struct {
	DisplayName string
	AvatarURL   string
	Gender      int8
}

// LoginResult 登录结果
type LoginResult struct {
	Token    string
	ExpireAt time.Time
	User     *model.User
}

// UserService 用户服务接口
type UserService interface {
	SyncLogin(ctx context.Context, in SyncLoginInput) (*LoginResult, error)
	GetUser(ctx context.Context, appID, userID uint64) (*model.User, error)
	UpdateProfile(ctx context.Context, appID, userID uint64, in ProfileInput) (*model.User, error)
	// 以下为管理端操作
	CreateLocalUser(ctx context.Context, appID uint64, in ProfileInput) (*model.User, error)
	UpdateLocalProfile(ctx context.Context, appID, userID uint64, in ProfileInput) (*model.User, error)
	GetUsers(ctx context.Context, appID uint64, source int8, p utils.Pagination) ([]model.User, int64, error)
	UpdateStatus(ctx context.Context, appID, userID uint64, status int8) (*model.User, error)
}

// userService 实现
type userService struct {
	repo   repository.UserRepository
	apps   appRepo.AppRepository
	tokens *utils.TokenManager
	idGen  *utils.IDGenerator
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, apps appRepo.AppRepository, tokens *utils.TokenManager, idGen *utils.IDGenerator) UserService {
	return &userService{repo: repo, apps: apps, tokens: tokens, idGen: idGen}
}

// SyncLogin 校验签名后创建或更新同步用户，并签发 token
func (s *userService) SyncLogin(ctx context.Context, in SyncLoginInput) (*LoginResult, error) {
	// 1. 校验签名
	app, err := s.apps.GetByID(ctx, in.AppID)
	if err != nil {
		return nil, database.Classify(err, errcode.AppNotFound)
	}
	expected := utils.SafeSign(strconv.FormatUint(in.AppID, 10), app.AppSecret, in.Account)
	if !utils.VerifySign(expected, in.SafeSign) {
		return nil, errcode.New(errcode.InvalidSign)
	}

	// 2. 不存在则注册，存在则同步资料
	user, err := s.repo.GetByAccount(ctx, app.ID, model.SourceSync, in.Account)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.User{
			AppID:       app.ID,
			Source:      model.SourceSync,
			Account:     in.Account,
			DisplayName: in.DisplayName,
			AvatarURL:   in.AvatarURL,
			Status:      model.StatusActive,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return nil, database.Classify(err, errcode.AccountNotFound)
		}
	case err != nil:
		return nil, database.Classify(err, errcode.AccountNotFound)
	default:
		user.DisplayName = in.DisplayName
		user.AvatarURL = in.AvatarURL
		if err := s.repo.UpdateProfile(ctx, user); err != nil {
			return nil, database.Classify(err, errcode.AccountNotFound)
		}
	}

	// 3. 生成 Token
	token, expireAt, err := s.tokens.GenerateToken(utils.TokenSDK, utils.SDKPayload(user.AppID, user.ID))
	if err != nil {
		return nil, errcode.Wrap(errcode.Unexpected, err)
	}
	return &LoginResult{Token: token, ExpireAt: expireAt, User: user}, nil
}

// GetUser 获取租户内的用户
func (s *userService) GetUser(ctx context.Context, appID, userID uint64) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, database.Classify(err, errcode.AccountNotFound)
	}
	if user.AppID != appID {
		return nil, errcode.New(errcode.NoPermission)
	}
	return user, nil
}

// UpdateProfile 用户更新自己的资料
func (s *userService) UpdateProfile(ctx context.Context, appID, userID uint64, in ProfileInput) (*model.User, error) {
	user, err := s.GetUser(ctx, appID, userID)
	if err != nil {
		return nil, err
	}
	return s.applyProfile(ctx, user, in)
}

// CreateLocalUser 管理端创建本地用户，账号由 snowflake 生成
func (s *userService) CreateLocalUser(ctx context.Context, appID uint64, in ProfileInput) (*model.User, error) {
	if _, err := s.apps.GetByID(ctx, appID); err != nil {
		return nil, database.Classify(err, errcode.AppNotFound)
	}

	user := &model.User{
		AppID:       appID,
		Source:      model.SourceLocal,
		Account:     s.idGen.GenAccount(),
		DisplayName: in.DisplayName,
		AvatarURL:   in.AvatarURL,
		Gender:      in.Gender,
		Status:      model.StatusActive,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, database.Classify(err, errcode.AccountNotFound)
	}
	return user, nil
}

// UpdateLocalProfile 管理端只能修改本地用户的资料
func (s *userService) UpdateLocalProfile(ctx context.Context, appID, userID uint64, in ProfileInput) (*model.User, error) {
	user, err := s.GetUser(ctx, appID, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsLocal() {
		return nil, errcode.New(errcode.NoPermission)
	}
	return s.applyProfile(ctx, user, in)
}

// GetUsers 获取用户列表（分页）
func (s *userService) GetUsers(ctx context.Context, appID uint64, source int8, p utils.Pagination) ([]model.User, int64, error) {
	users, total, err := s.repo.GetList(ctx, appID, source, p.Cursor, p.Count)
	if err != nil {
		return nil, 0, database.Classify(err, errcode.AccountNotFound)
	}
	return users, total, nil
}

// UpdateStatus 激活或挂起用户
func (s *userService) UpdateStatus(ctx context.Context, appID, userID uint64, status int8) (*model.User, error) {
	user, err := s.GetUser(ctx, appID, userID)
	if err != nil {
		return nil, err
	}
	if user.Status == status {
		return user, nil
	}
	if err := s.repo.UpdateStatus(ctx, user.ID, status); err != nil {
		return nil, database.Classify(err, errcode.AccountNotFound)
	}
	user.Status = status
	return user, nil
}

// applyProfile 资料无变化时不写库
func (s *userService) applyProfile(ctx context.Context, user *model.User, in ProfileInput) (*model.User, error) {
	if user.DisplayName == in.DisplayName && user.AvatarURL == in.AvatarURL && user.Gender == in.Gender {
		return user, nil
	}
	user.DisplayName = in.DisplayName
	user.AvatarURL = in.AvatarURL
	user.Gender = in.Gender
	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, database.Classify(err, errcode.AccountNotFound)
	}
	return user, nil
}
