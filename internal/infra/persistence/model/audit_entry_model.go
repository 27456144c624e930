package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntryModel is the GORM-specific struct for the 'audit_entries' table.
// Rows are append-only.
type AuditEntryModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ActorRole         string    `gorm:"type:varchar(20);not null"`
	ActorID           uuid.UUID `gorm:"type:uuid;not null;index"`
	Action            string    `gorm:"type:varchar(50);not null"`
	SubjectCollection string    `gorm:"type:varchar(20);not null"`
	SubjectID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Decision          string    `gorm:"type:varchar(10);not null"`
	Reason            string    `gorm:"type:text"`
	CreatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}
