package model

import (
	"errors"
	"time"
)

// Topped 帖子/回复的状态兼排序字段
// <= -2 已删除，-1 隐藏，0 正常，> 0 置顶（值为置顶时间戳）
type Topped int64

const (
	ToppedDeleted Topped = -2
	ToppedHidden  Topped = -1
	ToppedNormal  Topped = 0
)

// Status 从 topped 拆出的显式状态
type Status string

const (
	StatusNormal  Status = "normal"
	StatusHidden  Status = "hidden"
	StatusDeleted Status = "deleted"
)

func (t Topped) Status() Status {
	switch {
	case t <= ToppedDeleted:
		return StatusDeleted
	case t < ToppedNormal:
		return StatusHidden
	default:
		return StatusNormal
	}
}

// PinnedAt 置顶时间，未置顶返回 nil
func (t Topped) PinnedAt() *time.Time {
	if t <= 0 {
		return nil
	}
	at := time.Unix(int64(t), 0)
	return &at
}

// IsActive 正常或置顶
func (t Topped) IsActive() bool {
	return t >= ToppedNormal
}

func (t Topped) IsDeleted() bool {
	return t <= ToppedDeleted
}

// StatusAction 状态变更动作
type StatusAction string

const (
	ActionReset  StatusAction = "reset"
	ActionMoveup StatusAction = "moveup"
	ActionHidden StatusAction = "hidden"
	ActionDelete StatusAction = "delete"
)

var (
	ErrDeleted       = errors.New("entity already deleted")
	ErrInvalidAction = errors.New("invalid status action")
)

func ParseStatusAction(s string) (StatusAction, error) {
	switch a := StatusAction(s); a {
	case ActionReset, ActionMoveup, ActionHidden, ActionDelete:
		return a, nil
	}
	return "", ErrInvalidAction
}

// ApplyStatusAction 计算动作后的 topped 值
// 已删除是终态，任何动作都返回 ErrDeleted
func ApplyStatusAction(cur Topped, action StatusAction, now time.Time) (Topped, error) {
	if cur.IsDeleted() {
		return cur, ErrDeleted
	}
	switch action {
	case ActionReset:
		return ToppedNormal, nil
	case ActionMoveup:
		return Topped(now.Unix()), nil
	case ActionHidden:
		return ToppedHidden, nil
	case ActionDelete:
		return ToppedDeleted, nil
	}
	return cur, ErrInvalidAction
}

// VisibleStyle 列表可见范围
type VisibleStyle string

const (
	// StyleAll 包含隐藏，不含删除
	StyleAll VisibleStyle = "all"
	// StyleNormal 仅正常与置顶
	StyleNormal VisibleStyle = "normal"
)

// Where 返回对应的过滤条件
func (s VisibleStyle) Where() (string, any) {
	if s == StyleNormal {
		return "topped >= ?", ToppedNormal
	}
	return "topped > ?", ToppedDeleted
}

// Allows 单条记录是否在该范围内可见
func (s VisibleStyle) Allows(t Topped) bool {
	if s == StyleNormal {
		return t.IsActive()
	}
	return !t.IsDeleted()
}

// OrderBy 帖子列表排序方式，置顶始终优先
type OrderBy string

const (
	OrderByCreate  OrderBy = "create"
	OrderByRefresh OrderBy = "refresh"
)

func (o OrderBy) Clause() string {
	if o == OrderByCreate {
		return "topped desc, created_at desc, id desc"
	}
	return "topped desc, refreshed_at desc, id desc"
}
