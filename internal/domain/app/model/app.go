package model

import "time"

// App 租户，一个应用拥有独立的用户、帖子与回复
type App struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	AppKey    string    `gorm:"size:64;not null;uniqueIndex" json:"app_key"`
	AppSecret string    `gorm:"size:64;not null" json:"app_secret"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	IconURL   string    `gorm:"size:255;not null;default:''" json:"icon_url"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (App) TableName() string {
	return "dg_apps"
}

// AppSimple 对终端公开的应用信息，不含密钥
type AppSimple struct {
	ID      uint64 `json:"id"`
	AppKey  string `json:"app_key"`
	Name    string `json:"name"`
	IconURL string `json:"icon_url"`
}

func (a *App) ToSimple() AppSimple {
	return AppSimple{
		ID:      a.ID,
		AppKey:  a.AppKey,
		Name:    a.Name,
		IconURL: a.IconURL,
	}
}
