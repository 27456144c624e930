package model

import (
	"time"

	"github.com/google/uuid"
)

// ScanEventModel is the GORM-specific struct for the 'scan_events' table.
// Rows are append-only; there is no update or delete path.
type ScanEventModel struct {
	ID                   uuid.UUID    `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	QRID                 uuid.UUID    `gorm:"type:uuid;not null;index"`
	Site                 string       `gorm:"type:varchar(255);not null"`
	Post                 string       `gorm:"type:varchar(255);not null"`
	ScannedByRole        string       `gorm:"type:varchar(20);not null"`
	ScannedByID          uuid.UUID    `gorm:"type:uuid;not null;index"`
	ScannedByName        string       `gorm:"type:varchar(255);not null"`
	Latitude             float64      `gorm:"not null"`
	Longitude            float64      `gorm:"not null"`
	DistanceMeters       float64      `gorm:"not null"`
	ResolvedAddress      *AddressJSON `gorm:"type:jsonb"`
	AddressLookupSuccess bool         `gorm:"not null;default:false"`
	BoundLocation        bool         `gorm:"not null;default:false"`
	ScannedAt            time.Time    `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (ScanEventModel) TableName() string {
	return "scan_events"
}
