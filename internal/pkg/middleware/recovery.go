package middleware

import (
	"fmt"

	"doggtalk/pkg/errcode"
	"doggtalk/pkg/logger"
	"doggtalk/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware 捕获 panic，记录日志并返回 Unexpected
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(traceIDKey)),
					zap.Stack("stack"),
				)
				response.Fail(c, errcode.WithDetail(errcode.Unexpected, fmt.Sprint(r)))
				c.Abort()
			}
		}()
		c.Next()
	}
}
