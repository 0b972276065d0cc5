package service

import (
	"context"
	"testing"
	"time"

	"doggtalk/internal/domain/manager/repository"
	"doggtalk/internal/pkg/testkit"
	"doggtalk/pkg/errcode"
	"doggtalk/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLogin(t *testing.T) {
	tokens := utils.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	svc := NewManagerService(repository.NewManagerRepository(testkit.NewDB(t)), tokens)
	ctx := context.Background()

	m, err := svc.CreateManager(ctx, "admin", "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", m.Password)

	token, _, err := svc.Login(ctx, "admin", "correct horse")
	require.NoError(t, err)
	claims, err := tokens.ParseToken(token, utils.TokenMgr)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.V)

	_, _, err = svc.Login(ctx, "admin", "wrong password")
	assert.Equal(t, errcode.AccountOrPasswordFailed, errcode.CodeOf(err))

	_, _, err = svc.Login(ctx, "nobody", "correct horse")
	assert.Equal(t, errcode.AccountOrPasswordFailed, errcode.CodeOf(err))

	_, err = svc.CreateManager(ctx, "admin", "correct horse")
	assert.Equal(t, errcode.InvalidDatabase, errcode.CodeOf(err))

	_, err = svc.CreateManager(ctx, "short", "1234")
	assert.Equal(t, errcode.InvalidParams, errcode.CodeOf(err))
}
