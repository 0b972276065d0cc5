package model

import "time"

// Manager 管理员
type Manager struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"size:128;not null" json:"-"` // bcrypt 哈希，不返回给前端
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Manager) TableName() string {
	return "dg_managers"
}
