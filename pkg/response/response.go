package response

import (
	"net/http"

	"doggtalk/pkg/errcode"
	"doggtalk/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
// 无论成功失败 HTTP 状态码均为 200，调用方以 code 判断结果
type Response struct {
	Code  int    `json:"code"`           // 业务码
	Error string `json:"error"`          // 错误描述，成功时为 "ok"
	Data  any    `json:"data,omitempty"` // 数据
}

// CodeKey 业务码写入 gin.Context 的键，供日志与指标中间件读取
const CodeKey = "responseCode"

// Success 成功响应
func Success(c *gin.Context, data any) {
	msg, _ := errcode.Success.Message()
	c.Set(CodeKey, int(errcode.Success))
	c.JSON(http.StatusOK, Response{
		Code:  int(errcode.Success),
		Error: msg,
		Data:  data,
	})
}

// Fail 业务失败响应 (HTTP 200, 业务码非 0)
func Fail(c *gin.Context, err error) {
	e := errcode.From(err)
	if e.Code == errcode.Unexpected || e.Code == errcode.InvalidDatabase {
		logger.Log.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Int("code", int(e.Code)),
			zap.String("detail", e.Detail),
		)
	}
	c.Set(CodeKey, int(e.Code))
	c.JSON(http.StatusOK, Response{
		Code:  int(e.Code),
		Error: errcode.Render(e.Code, e.Detail),
	})
}

// InvalidParams 参数绑定失败的快捷响应
func InvalidParams(c *gin.Context, err error) {
	Fail(c, errcode.Wrap(errcode.InvalidParams, err))
}
