package entity

import (
	"time"

	"github.com/google/uuid"
)

// ScanEvent is one append-only attendance record. Events are never mutated
// or deleted; they are the audit trail of physical presence.
type ScanEvent struct {
	ID                   uuid.UUID
	QRID                 uuid.UUID
	Site                 string
	Post                 string
	ScannedByRole        Role
	ScannedByID          uuid.UUID
	ScannedByName        string
	Latitude             float64  // Scanner-reported GPS at scan time.
	Longitude            float64  // Scanner-reported GPS at scan time.
	DistanceMeters       float64  // Distance between the reported GPS and the bound fix.
	ResolvedAddress      *Address // Address of the bound fix; nil when lookup degraded.
	AddressLookupSuccess bool
	BoundLocation        bool // True on the scan that won the sentinel bind.
	ScannedAt            time.Time
}
