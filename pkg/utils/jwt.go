package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// token 类型标签
const (
	TokenSDK = "sdk"
	TokenMgr = "mgr"
)

var (
	ErrTokenType    = errors.New("token type mismatch")
	ErrTokenPayload = errors.New("malformed token payload")
)

// Claims 自定义JWT Claims
// Tc 为类型标签，V 为载荷（sdk: app_id@user_id，mgr: manager_id）
type Claims struct {
	Tc string `json:"tc"`
	V  string `json:"v"`
	jwt.RegisteredClaims
}

// TokenManager 签发与校验 token
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken 生成JWT Token
func (m *TokenManager) GenerateToken(tc, v string) (string, time.Time, error) {
	now := m.now()
	expireTime := now.Add(m.ttl)

	claims := Claims{
		Tc: tc,
		V:  v,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expireTime),
			Issuer:    "doggtalk",
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expireTime, nil
}

// ParseToken 验证JWT Token 并检查类型标签
func (m *TokenManager) ParseToken(tokenString, tc string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Tc != tc {
		return nil, ErrTokenType
	}
	return claims, nil
}

// SDKPayload 拼装 sdk token 载荷
func SDKPayload(appID, userID uint64) string {
	return fmt.Sprintf("%d@%d", appID, userID)
}

// ParseSDKPayload 解析 app_id@user_id
func ParseSDKPayload(v string) (appID, userID uint64, err error) {
	left, right, ok := strings.Cut(v, "@")
	if !ok {
		return 0, 0, ErrTokenPayload
	}
	if appID, err = strconv.ParseUint(left, 10, 64); err != nil {
		return 0, 0, ErrTokenPayload
	}
	if userID, err = strconv.ParseUint(right, 10, 64); err != nil {
		return 0, 0, ErrTokenPayload
	}
	return appID, userID, nil
}
