package models

import "time"

// Comment is a statement inside a conversation. ParentCommentID points at
// another comment when this one is a reply; replies are fetched by a separate
// query rather than expanded recursively.
type Comment struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	Text            string    `gorm:"type:text;not null" json:"text"`
	UserID          *int64    `gorm:"index:ix_comment_user_id" json:"user_id"`
	ConversationID  *int64    `gorm:"index:ix_comment_conversation_id" json:"conversation_id"`
	ParentCommentID *int64    `gorm:"index:ix_comment_parent_comment_id" json:"parent_comment_id"`
	Created         time.Time `gorm:"column:created;autoCreateTime;index:ix_comment_created" json:"created"`
	Modified        time.Time `gorm:"column:modified;autoUpdateTime" json:"modified"`
}

func (Comment) TableName() string { return "comments" }
