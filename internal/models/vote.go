package models

import "time"

// Vote records a single user's reaction to a comment. Value carries -1/0/1
// semantics. A user gets at most one vote per comment, enforced by the
// composite unique index.
type Vote struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Value     int       `gorm:"not null" json:"value"`
	UserID    *int64    `gorm:"index:ix_vote_user_id;uniqueIndex:uq_vote_user_comment" json:"user_id"`
	CommentID *int64    `gorm:"index:ix_vote_comment_id;uniqueIndex:uq_vote_user_comment" json:"comment_id"`
	Created   time.Time `gorm:"column:created;autoCreateTime;index:ix_vote_created" json:"created"`
	Modified  time.Time `gorm:"column:modified;autoUpdateTime" json:"modified"`
}

func (Vote) TableName() string { return "votes" }
