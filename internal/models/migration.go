package models

import "time"

// MigrationRecord tracks an executed schema migration. ID is the migration
// file name and Hash the sha256 of its contents at execution time, used to
// detect drift after the fact.
type MigrationRecord struct {
	ID         string    `gorm:"primaryKey;size:255" json:"id"`
	Hash       string    `gorm:"size:1024;not null" json:"hash"`
	ExecutedAt time.Time `gorm:"column:executed_at;autoCreateTime;index:ix_migrations_executed_at" json:"executed_at"`
}

func (MigrationRecord) TableName() string { return "migrations" }

// All returns one instance of every model, in dependency order, for schema
// bootstrap.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Conversation{},
		&Comment{},
		&Vote{},
		&Report{},
		&Participant{},
		&Zinvite{},
		&Einvite{},
		&MigrationRecord{},
	}
}
