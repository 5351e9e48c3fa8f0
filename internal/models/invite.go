package models

import "time"

// Zinvite maps a short public code to a conversation. The code doubles as the
// external conversation id, so it must start with a digit to satisfy the
// frontend route pattern ^[0-9][0-9A-Za-z]+$.
type Zinvite struct {
	Code    string    `gorm:"column:zinvite;primaryKey;size:32" json:"zinvite"`
	ZID     int64     `gorm:"column:zid;not null;index:ix_zinvite_zid" json:"zid"`
	Created time.Time `gorm:"column:created;autoCreateTime" json:"created"`
}

func (Zinvite) TableName() string { return "zinvites" }

// Einvite is a single-use registration code sent to an email address.
type Einvite struct {
	Code    string    `gorm:"column:einvite;primaryKey;size:32" json:"einvite"`
	Email   string    `gorm:"size:255;not null;index:ix_einvite_email" json:"email"`
	Created time.Time `gorm:"column:created;autoCreateTime" json:"created"`
}

func (Einvite) TableName() string { return "einvites" }
