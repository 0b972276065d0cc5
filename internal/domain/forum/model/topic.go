package model

import "time"

// Topic 帖子
type Topic struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	AppID       uint64    `gorm:"not null;index:idx_topic_app_category,priority:1" json:"app_id"`
	UserID      uint64    `gorm:"not null;index" json:"user_id"`
	Category    uint64    `gorm:"not null;default:0;index:idx_topic_app_category,priority:2" json:"category"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Topped      Topped    `gorm:"not null" json:"topped"`
	ReplyCount  uint64    `gorm:"not null;default:0" json:"reply_count"`
	LikeCount   uint64    `gorm:"not null;default:0" json:"like_count"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	RefreshedAt time.Time `gorm:"not null" json:"refreshed_at"`
}

func (Topic) TableName() string {
	return "dg_topics"
}

// TopicSimple 对外展示结构
type TopicSimple struct {
	ID          uint64     `json:"id"`
	UserID      uint64     `json:"user_id"`
	Category    uint64     `json:"category"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Topped      Topped     `json:"topped"`
	Status      Status     `json:"status"`
	PinnedAt    *time.Time `json:"pinned_at"`
	ReplyCount  uint64     `json:"reply_count"`
	LikeCount   uint64     `json:"like_count"`
	CreatedAt   time.Time  `json:"created_at"`
	RefreshedAt time.Time  `json:"refreshed_at"`
}

func (t *Topic) ToSimple() TopicSimple {
	return TopicSimple{
		ID:          t.ID,
		UserID:      t.UserID,
		Category:    t.Category,
		Title:       t.Title,
		Content:     t.Content,
		Topped:      t.Topped,
		Status:      t.Topped.Status(),
		PinnedAt:    t.Topped.PinnedAt(),
		ReplyCount:  t.ReplyCount,
		LikeCount:   t.LikeCount,
		CreatedAt:   t.CreatedAt,
		RefreshedAt: t.RefreshedAt,
	}
}
