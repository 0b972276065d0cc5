package errcode

import (
	"errors"
	"fmt"
)

// Error 业务错误，跨越 service 边界的唯一错误类型
type Error struct {
	Code   Code
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("code=%d: %s", e.Code, Render(e.Code, e.Detail))
}

// Is 按状态码比较，便于 errors.Is(err, errcode.New(errcode.TopicNotFound))
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New 创建不带详情的业务错误
func New(code Code) *Error {
	return &Error{Code: code, Detail: "undefined"}
}

// WithDetail 创建带详情的业务错误
func WithDetail(code Code, detail string) *Error {
	return &Error{Code: code, Detail: detail}
}

// Wrap 将底层错误包装为业务错误，底层错误信息作为详情
func Wrap(code Code, err error) *Error {
	if err == nil {
		return New(code)
	}
	return &Error{Code: code, Detail: err.Error()}
}

// From 将任意错误归类为业务错误，未知错误视为 Unexpected
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(Unexpected, err)
}

// CodeOf 返回错误对应的状态码
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	return From(err).Code
}
