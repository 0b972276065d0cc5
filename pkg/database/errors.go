package database

import (
	"errors"

	"doggtalk/pkg/errcode"

	"gorm.io/gorm"
)

// Classify 把存储层错误归类为业务错误
// 记录不存在映射为 notFound，其余视为 InvalidDatabase 并附带驱动信息
func Classify(err error, notFound errcode.Code) error {
	if err == nil {
		return nil
	}
	var e *errcode.Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errcode.New(notFound)
	}
	return errcode.Wrap(errcode.InvalidDatabase, err)
}
