package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appModel "doggtalk/internal/domain/app/model"
	appRepo "doggtalk/internal/domain/app/repository"
	"doggtalk/internal/domain/user/model"
	"doggtalk/internal/domain/user/repository"
	"doggtalk/internal/pkg/testkit"
	"doggtalk/pkg/errcode"
	pkgModel "doggtalk/pkg/model"
	"doggtalk/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 100
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByAccount(ctx context.Context, appID uint64, source int8, account string) (*model.User, error) {
	args := m.Called(ctx, appID, source, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uint64]*model.User), args.Error(1)
}

func (m *MockUserRepository) GetList(ctx context.Context, appID uint64, source int8, offset, limit int) ([]model.User, int64, error) {
	args := m.Called(ctx, appID, source, offset, limit)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id uint64, status int8) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUserRepository) AdjustTopicCount(ctx context.Context, id uint64, op pkgModel.CountOp) error {
	args := m.Called(ctx, id, op)
	return args.Error(0)
}

// MockAppRepository is a mock of AppRepository
type MockAppRepository struct {
	mock.Mock
}

func (m *MockAppRepository) Create(ctx context.Context, app *appModel.App) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockAppRepository) GetByID(ctx context.Context, id uint64) (*appModel.App, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appModel.App), args.Error(1)
}

func (m *MockAppRepository) GetByKey(ctx context.Context, appKey string) (*appModel.App, error) {
	args := m.Called(ctx, appKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appModel.App), args.Error(1)
}

func (m *MockAppRepository) GetList(ctx context.Context, offset, limit int) ([]appModel.App, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]appModel.App), args.Get(1).(int64), args.Error(2)
}

func (m *MockAppRepository) GetAll(ctx context.Context) ([]appModel.App, error) {
	args := m.Called(ctx)
	return args.Get(0).([]appModel.App), args.Error(1)
}

var testTokens = utils.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)

func newIDGen(t *testing.T) *utils.IDGenerator {
	g, err := utils.NewIDGenerator(1)
	require.NoError(t, err)
	return g
}

func TestSyncLogin(t *testing.T) {
	ctx := context.Background()
	app := &appModel.App{ID: 1, AppSecret: "s3cret"}
	sign := utils.SafeSign("1", "s3cret", "alice")

	t.Run("new user", func(t *testing.T) {
		users := new(MockUserRepository)
		apps := new(MockAppRepository)
		svc := NewUserService(users, apps, testTokens, newIDGen(t))

		apps.On("GetByID", ctx, uint64(1)).Return(app, nil)
		users.On("GetByAccount", ctx, uint64(1), model.SourceSync, "alice").Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Account == "alice" && u.Source == model.SourceSync && u.Status == model.StatusActive
		})).Return(nil)

		res, err := svc.SyncLogin(ctx, SyncLoginInput{AppID: 1, Account: "alice", DisplayName: "Alice", SafeSign: sign})
		require.NoError(t, err)
		assert.Equal(t, uint64(100), res.User.ID)

		claims, err := testTokens.ParseToken(res.Token, utils.TokenSDK)
		require.NoError(t, err)
		assert.Equal(t, "1@100", claims.V)
		users.AssertExpectations(t)
	})

	t.Run("existing user syncs profile", func(t *testing.T) {
		users := new(MockUserRepository)
		apps := new(MockAppRepository)
		svc := NewUserService(users, apps, testTokens, newIDGen(t))

		existing := &model.User{ID: 7, AppID: 1, Source: model.SourceSync, Account: "alice", DisplayName: "old"}
		apps.On("GetByID", ctx, uint64(1)).Return(app, nil)
		users.On("GetByAccount", ctx, uint64(1), model.SourceSync, "alice").Return(existing, nil)
		users.On("UpdateProfile", ctx, existing).Return(nil)

		res, err := svc.SyncLogin(ctx, SyncLoginInput{AppID: 1, Account: "alice", DisplayName: "new", SafeSign: sign})
		require.NoError(t, err)
		assert.Equal(t, "new", res.User.DisplayName)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("upper-case sign", func(t *testing.T) {
		users := new(MockUserRepository)
		apps := new(MockAppRepository)
		svc := NewUserService(users, apps, testTokens, newIDGen(t))

		existing := &model.User{ID: 7, AppID: 1, Source: model.SourceSync, Account: "alice", Status: model.StatusActive}
		apps.On("GetByID", ctx, uint64(1)).Return(app, nil)
		users.On("GetByAccount", ctx, uint64(1), model.SourceSync, "alice").Return(existing, nil)
		users.On("UpdateProfile", ctx, existing).Return(nil)

		res, err := svc.SyncLogin(ctx, SyncLoginInput{AppID: 1, Account: "alice", DisplayName: "Alice", SafeSign: strings.ToUpper(sign)})
		require.NoError(t, err)
		assert.Equal(t, uint64(7), res.User.ID)
	})

	t.Run("bad sign", func(t *testing.T) {
		users := new(MockUserRepository)
		apps := new(MockAppRepository)
		svc := NewUserService(users, apps, testTokens, newIDGen(t))
		apps.On("GetByID", ctx, uint64(1)).Return(app, nil)

		_, err := svc.SyncLogin(ctx, SyncLoginInput{AppID: 1, Account: "alice", SafeSign: "nope"})
		assert.Equal(t, errcode.InvalidSign, errcode.CodeOf(err))
	})

	t.Run("unknown app", func(t *testing.T) {
		users := new(MockUserRepository)
		apps := new(MockAppRepository)
		svc := NewUserService(users, apps, testTokens, newIDGen(t))
		apps.On("GetByID", ctx, uint64(9)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.SyncLogin(ctx, SyncLoginInput{AppID: 9, Account: "alice", SafeSign: sign})
		assert.Equal(t, errcode.AppNotFound, errcode.CodeOf(err))
	})

	t.Run("database down", func(t *testing.T) {
		users := new(MockUserRepository)
		apps := new(MockAppRepository)
		svc := NewUserService(users, apps, testTokens, newIDGen(t))
		apps.On("GetByID", ctx, uint64(1)).Return(nil, errors.New("connection refused"))

		_, err := svc.SyncLogin(ctx, SyncLoginInput{AppID: 1, Account: "alice", SafeSign: sign})
		assert.Equal(t, errcode.InvalidDatabase, errcode.CodeOf(err))
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func newSQLiteService(t *testing.T) (UserService, *gorm.DB) {
	db := testkit.NewDB(t)
	svc := NewUserService(repository.NewUserRepository(db), appRepo.NewAppRepository(db), testTokens, newIDGen(t))
	return svc, db
}

func TestLocalUsers(t *testing.T) {
	svc, db := newSQLiteService(t)
	ctx := context.Background()
	app := testkit.SeedApp(t, db, "demo")
	other := testkit.SeedApp(t, db, "other")
	synced := testkit.SeedUser(t, db, app.ID, "bob", model.StatusActive)

	local, err := svc.CreateLocalUser(ctx, app.ID, ProfileInput{DisplayName: "bot", Gender: model.GenderFemale})
	require.NoError(t, err)
	assert.Equal(t, model.SourceLocal, local.Source)
	assert.NotEmpty(t, local.Account)

	_, err = svc.CreateLocalUser(ctx, 404, ProfileInput{DisplayName: "x"})
	assert.Equal(t, errcode.AppNotFound, errcode.CodeOf(err))

	updated, err := svc.UpdateLocalProfile(ctx, app.ID, local.ID, ProfileInput{DisplayName: "bot2", AvatarURL: "https://cdn/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "bot2", updated.DisplayName)

	_, err = svc.UpdateLocalProfile(ctx, app.ID, synced.ID, ProfileInput{DisplayName: "hijack"})
	assert.Equal(t, errcode.NoPermission, errcode.CodeOf(err))

	_, err = svc.GetUser(ctx, other.ID, local.ID)
	assert.Equal(t, errcode.NoPermission, errcode.CodeOf(err))

	_, err = svc.GetUser(ctx, app.ID, 999)
	assert.Equal(t, errcode.AccountNotFound, errcode.CodeOf(err))

	users, total, err := svc.GetUsers(ctx, app.ID, repository.SourceAny, utils.Pagination{Count: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)

	users, total, err = svc.GetUsers(ctx, app.ID, model.SourceLocal, utils.Pagination{Count: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, local.ID, users[0].ID)
}

func TestUpdateStatus(t *testing.T) {
	svc, db := newSQLiteService(t)
	ctx := context.Background()
	app := testkit.SeedApp(t, db, "demo")
	u := testkit.SeedUser(t, db, app.ID, "carol", model.StatusActive)

	got, err := svc.UpdateStatus(ctx, app.ID, u.ID, model.StatusPending)
	require.NoError(t, err)
	assert.False(t, got.IsActive())

	reloaded, err := svc.GetUser(ctx, app.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, reloaded.Status)
}
