package model

import (
	"time"

	"github.com/google/uuid"
)

// QRLocationModel is the GORM-specific struct for the 'qr_locations' table.
// Latitude and longitude stay at (0,0) until the first scan binds them.
type QRLocationModel struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerRole    string       `gorm:"type:varchar(20);not null"`
	OwnerID      uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_qr_owner_site_post"`
	Site         string       `gorm:"type:varchar(255);not null;uniqueIndex:idx_qr_owner_site_post"`
	Post         string       `gorm:"type:varchar(255);not null;uniqueIndex:idx_qr_owner_site_post"`
	Latitude     float64      `gorm:"not null;default:0"`
	Longitude    float64      `gorm:"not null;default:0"`
	BoundAddress *AddressJSON `gorm:"type:jsonb"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (QRLocationModel) TableName() string {
	return "qr_locations"
}
