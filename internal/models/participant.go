package models

import "time"

// Participant scopes a user's membership in one conversation. UID is negative
// for anonymous participants, derived deterministically from a client token,
// so it never collides with authenticated (positive) user ids.
type Participant struct {
	PID       int64     `gorm:"column:pid;primaryKey" json:"pid"`
	ZID       int64     `gorm:"column:zid;not null;index:ix_participant_zid;uniqueIndex:uq_participant_zid_uid" json:"zid"`
	UID       int64     `gorm:"column:uid;not null;index:ix_participant_uid;uniqueIndex:uq_participant_zid_uid" json:"uid"`
	VoteCount int       `gorm:"not null;default:0" json:"vote_count"`
	Mod       int       `gorm:"column:mod;not null;default:0" json:"mod"`
	Created   time.Time `gorm:"column:created;autoCreateTime" json:"created"`
	Modified  time.Time `gorm:"column:modified;autoUpdateTime" json:"modified"`
}

func (Participant) TableName() string { return "participants" }
