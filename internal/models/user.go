package models

import "time"

// User represents a registered account that can own conversations, comments and votes.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex:uq_user_email;not null" json:"email"`
	AuthToken string    `gorm:"size:2048;not null" json:"auth_token"`
	IsAdmin   bool      `gorm:"not null;default:false;index:ix_user_is_admin" json:"is_admin"`
	Created   time.Time `gorm:"column:created;autoCreateTime;index:ix_user_created" json:"created"`
	Modified  time.Time `gorm:"column:modified;autoUpdateTime" json:"modified"`
}

// TableName keeps the table name the rest of the platform expects.
func (User) TableName() string { return "users" }
