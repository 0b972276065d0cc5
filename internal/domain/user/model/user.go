package model

import "time"

// 用户来源
const (
	SourceLocal int8 = 0 // 管理端创建的本地用户
	SourceSync  int8 = 1 // 接入方同步登录
)

// 用户状态
const (
	StatusPending int8 = 0
	StatusActive  int8 = 1
)

// 性别
const (
	GenderUnknown int8 = 0
	GenderMale    int8 = 1
	GenderFemale  int8 = 2
)

// User 用户模型
type User struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	AppID       uint64    `gorm:"not null;uniqueIndex:uk_app_source_account,priority:1" json:"app_id"`
	Source      int8      `gorm:"not null;uniqueIndex:uk_app_source_account,priority:2" json:"source"`
	Account     string    `gorm:"size:64;not null;uniqueIndex:uk_app_source_account,priority:3" json:"account"`
	DisplayName string    `gorm:"size:64;not null" json:"display_name"`
	AvatarURL   string    `gorm:"size:255;not null;default:''" json:"avatar_url"`
	Gender      int8      `gorm:"not null;default:0" json:"gender"`
	Status      int8      `gorm:"not null" json:"status"`
	TopicCount  uint64    `gorm:"not null;default:0" json:"topic_count"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (User) TableName() string {
	return "dg_users"
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) IsLocal() bool {
	return u.Source == SourceLocal
}

// UserSimple 列表中展示的作者信息
type UserSimple struct {
	ID          uint64 `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Gender      int8   `json:"gender"`
}

func (u *User) ToSimple() UserSimple {
	return UserSimple{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Gender:      u.Gender,
	}
}
