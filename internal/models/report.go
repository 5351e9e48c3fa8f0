package models

import "time"

// ReportStatus is the closed set of states a report moves through.
// pending -> resolved and pending -> escalated are the only defined
// transitions; neither terminal state transitions back.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusEscalated ReportStatus = "escalated"
)

// Valid reports whether s is a member of the status domain.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusResolved, ReportStatusEscalated:
		return true
	}
	return false
}

// Report is a moderation flag raised by a user against a comment.
type Report struct {
	ID              int64        `gorm:"primaryKey" json:"id"`
	ReporterID      *int64       `gorm:"index:ix_report_reporter_id" json:"reporter_id"`
	TargetCommentID *int64       `gorm:"index:ix_report_target_comment_id" json:"target_comment_id"`
	Reason          string       `gorm:"type:text;not null" json:"reason"`
	Status          ReportStatus `gorm:"size:10;not null;default:pending;index:ix_report_status" json:"status"`
	ResolvedAt      *time.Time   `json:"resolved_at"`
	ResolutionNotes *string      `gorm:"type:text" json:"resolution_notes"`
	Created         time.Time    `gorm:"column:created;autoCreateTime;index:ix_report_created" json:"created"`
	Modified        time.Time    `gorm:"column:modified;autoUpdateTime" json:"modified"`
}

func (Report) TableName() string { return "reports" }
