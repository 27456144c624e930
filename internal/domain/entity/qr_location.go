package entity

import (
	"time"

	"github.com/google/uuid"
)

// Sentinel coordinate value marking a QR location whose physical position has
// not been bound yet. A location leaves the sentinel exactly once, on the
// first successful scan.
const (
	SentinelLatitude  = 0.0
	SentinelLongitude = 0.0
)

// QRLocation is a QR code identity anchored to a site and post. Coordinates
// start at the sentinel and are bound to the first scanner's GPS fix; after
// that they are read-only.
type QRLocation struct {
	ID           uuid.UUID
	OwnerRole    Role      // RoleAdmin or RoleSupervisor.
	OwnerID      uuid.UUID // Issuing admin or supervisor.
	Site         string
	Post         string
	Latitude     float64  // Sentinel (0,0) until bound.
	Longitude    float64  // Sentinel (0,0) until bound.
	BoundAddress *Address // Reverse-geocoded address captured at bind time; nil if lookup failed.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsBound reports whether the location has left the sentinel state.
func (q *QRLocation) IsBound() bool {
	return q.Latitude != SentinelLatitude || q.Longitude != SentinelLongitude
}
