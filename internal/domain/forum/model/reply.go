package model

import "time"

// Reply 回复
type Reply struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	AppID     uint64    `gorm:"not null" json:"app_id"`
	TopicID   uint64    `gorm:"not null;index" json:"topic_id"`
	UserID    uint64    `gorm:"not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Topped    Topped    `gorm:"not null" json:"topped"`
	LikeCount uint64    `gorm:"not null;default:0" json:"like_count"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Reply) TableName() string {
	return "dg_replies"
}

type ReplySimple struct {
	ID        uint64     `json:"id"`
	UserID    uint64     `json:"user_id"`
	Content   string     `json:"content"`
	Topped    Topped     `json:"topped"`
	Status    Status     `json:"status"`
	PinnedAt  *time.Time `json:"pinned_at"`
	LikeCount uint64     `json:"like_count"`
	CreatedAt time.Time  `json:"created_at"`
}

func (r *Reply) ToSimple() ReplySimple {
	return ReplySimple{
		ID:        r.ID,
		UserID:    r.UserID,
		Content:   r.Content,
		Topped:    r.Topped,
		Status:    r.Topped.Status(),
		PinnedAt:  r.Topped.PinnedAt(),
		LikeCount: r.LikeCount,
		CreatedAt: r.CreatedAt,
	}
}
