package models

import (
	"time"

	"gorm.io/datatypes"
)

// Conversation is a deliberation topic owned by a user. Comments attach to it
// and participants join it. Metadata holds schemaless per-conversation settings
// (moderation strictness, topic hints) controlled by the API layer.
type Conversation struct {
	ID          int64             `gorm:"primaryKey" json:"id"`
	Title       string            `gorm:"size:255;not null" json:"title"`
	Description string            `gorm:"type:text" json:"description"`
	IsArchived  bool              `gorm:"not null;default:false;index:ix_conversation_is_archived" json:"is_archived"`
	UserID      *int64            `gorm:"index:ix_conversation_user_id" json:"user_id"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	Created     time.Time         `gorm:"column:created;autoCreateTime;index:ix_conversation_created" json:"created"`
	Modified    time.Time         `gorm:"column:modified;autoUpdateTime" json:"modified"`
}

func (Conversation) TableName() string { return "conversations" }
