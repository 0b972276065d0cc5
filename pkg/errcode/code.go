package errcode

import (
	_ "embed"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Code 业务状态码
type Code int

const (
	Success Code = 0

	// 内部错误 10xx
	InvalidDatabase Code = 1001

	// 请求错误 20xx
	InvalidParams Code = 2001
	InvalidSign   Code = 2002
	InvalidToken  Code = 2003

	// 账号错误 30xx
	AccountNotFound         Code = 3001
	AccountOrPasswordFailed Code = 3002
	NoPermission            Code = 3003
	AccountNotActived       Code = 3004

	// 应用错误 40xx
	AppNotFound Code = 4001

	// 帖子 / 回复错误 50xx, 51xx
	TopicNotFound Code = 5001
	ReplyNotFound Code = 5101

	Unexpected Code = 9999
)

//go:embed messages.json
var messageTable []byte

// Message 返回状态码对应的文案模板
func (c Code) Message() (string, bool) {
	res := gjson.GetBytes(messageTable, strconv.Itoa(int(c)))
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}

// Render 按文案表渲染错误信息
// 模板以冒号结尾时追加 detail，否则只返回模板；未登记的状态码直接返回 detail
func Render(c Code, detail string) string {
	text, ok := c.Message()
	if !ok {
		return detail
	}
	if strings.HasSuffix(text, ":") {
		return text + " " + detail
	}
	return text
}
