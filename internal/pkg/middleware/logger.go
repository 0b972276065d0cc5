package middleware

import (
	"time"

	"doggtalk/pkg/logger"
	"doggtalk/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		cost := time.Since(start)
		status := c.Writer.Status()

		logger.Log.Info(path,
			zap.Int("status", status),
			zap.Int("code", c.GetInt(response.CodeKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("request_id", c.GetString(traceIDKey)),
			zap.Duration("cost", cost),
		)
	}
}
