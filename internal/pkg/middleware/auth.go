package middleware

import (
	"strconv"
	"strings"

	"doggtalk/pkg/errcode"
	"doggtalk/pkg/response"
	"doggtalk/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	ctxAppID     = "appID"
	ctxUserID    = "userID"
	ctxManagerID = "managerID"
)

// bearerToken 解析 "Bearer <token>"
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func parseSDK(tokens *utils.TokenManager, token string) (uint64, uint64, error) {
	claims, err := tokens.ParseToken(token, utils.TokenSDK)
	if err != nil {
		return 0, 0, errcode.Wrap(errcode.InvalidToken, err)
	}
	appID, userID, err := utils.ParseSDKPayload(claims.V)
	if err != nil {
		return 0, 0, errcode.Wrap(errcode.InvalidToken, err)
	}
	return appID, userID, nil
}

// SDKAuth 终端用户认证中间件，token 载荷为 app_id@user_id
func SDKAuth(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Fail(c, errcode.WithDetail(errcode.InvalidToken, "missing bearer token"))
			c.Abort()
			return
		}

		appID, userID, err := parseSDK(tokens, token)
		if err != nil {
			response.Fail(c, err)
			c.Abort()
			return
		}

		c.Set(ctxAppID, appID)
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// SDKOptionalAuth 匿名可访问的接口，带 token 时解析身份
// 携带了非法 token 仍然拒绝
func SDKOptionalAuth(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		appID, userID, err := parseSDK(tokens, token)
		if err != nil {
			response.Fail(c, err)
			c.Abort()
			return
		}

		c.Set(ctxAppID, appID)
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// MgrAuth 管理员认证中间件
func MgrAuth(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Fail(c, errcode.WithDetail(errcode.InvalidToken, "missing bearer token"))
			c.Abort()
			return
		}

		claims, err := tokens.ParseToken(token, utils.TokenMgr)
		if err != nil {
			response.Fail(c, errcode.Wrap(errcode.InvalidToken, err))
			c.Abort()
			return
		}
		managerID, err := strconv.ParseUint(claims.V, 10, 64)
		if err != nil {
			response.Fail(c, errcode.Wrap(errcode.InvalidToken, err))
			c.Abort()
			return
		}

		c.Set(ctxManagerID, managerID)
		c.Next()
	}
}

// SDKIdentity 取出终端用户身份，匿名访问时 ok 为 false
func SDKIdentity(c *gin.Context) (appID, userID uint64, ok bool) {
	if _, exists := c.Get(ctxAppID); !exists {
		return 0, 0, false
	}
	return c.GetUint64(ctxAppID), c.GetUint64(ctxUserID), true
}

// ManagerID 取出管理员ID
func ManagerID(c *gin.Context) uint64 {
	return c.GetUint64(ctxManagerID)
}
