package usecase

import (
	"context"
	"time"

	"guardpost/internal/domain/entity"
	"guardpost/internal/domain/policy"

	"github.com/google/uuid"
)

// CreateQRInput represents the input for registering a QR code for one
// site and post.
type CreateQRInput struct {
	Site string `json:"site"`
	Post string `json:"post"`
}

// QRCodeOutput represents one registered QR code. ImagePNG is only
// populated when the caller asked for rendered images.
type QRCodeOutput struct {
	ID           uuid.UUID       `json:"id"`
	Site         string          `json:"site"`
	Post         string          `json:"post"`
	OwnerRole    string          `json:"owner_role"`
	Content      string          `json:"content"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	Bound        bool            `json:"bound"`
	BoundAddress *entity.Address `json:"bound_address,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	ImagePNG     []byte          `json:"-"`
}

// ListQRInput represents the input for listing an owner's QR codes.
type ListQRInput struct {
	Site          string `json:"site"`
	IncludeImages bool   `json:"include_images"`
}

// ScanInput represents a scan of a QR code at the scanner's reported GPS
// position.
type ScanInput struct {
	Content   string  `json:"content"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ScanOutput represents the recorded attendance event.
type ScanOutput struct {
	EventID              uuid.UUID       `json:"event_id"`
	Site                 string          `json:"site"`
	Post                 string          `json:"post"`
	DistanceMeters       float64         `json:"distance_meters"`
	ResolvedAddress      *entity.Address `json:"resolved_address,omitempty"`
	AddressLookupSuccess bool            `json:"address_lookup_success"`
	BoundLocation        bool            `json:"bound_location"`
	ScannedAt            time.Time       `json:"scanned_at"`
}

// ListScansInput represents the input for a scanner's attendance history.
type ListScansInput struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ScanRecord is one row of a scanner's attendance history.
type ScanRecord struct {
	EventID              uuid.UUID       `json:"event_id"`
	QRID                 uuid.UUID       `json:"qr_id"`
	Site                 string          `json:"site"`
	Post                 string          `json:"post"`
	Latitude             float64         `json:"latitude"`
	Longitude            float64         `json:"longitude"`
	DistanceMeters       float64         `json:"distance_meters"`
	ResolvedAddress      *entity.Address `json:"resolved_address,omitempty"`
	AddressLookupSuccess bool            `json:"address_lookup_success"`
	BoundLocation        bool            `json:"bound_location"`
	ScannedAt            time.Time       `json:"scanned_at"`
}

// AttendanceUsecase defines the interface for the QR lifecycle and the
// attendance ledger.
type AttendanceUsecase interface {
	// CreateQR registers a code for the actor's site and post, or returns
	// the existing one. The rendered PNG is always included.
	CreateQR(ctx context.Context, actor policy.Actor, input *CreateQRInput) (*QRCodeOutput, error)

	// ListQR returns the actor's registered codes, newest first.
	ListQR(ctx context.Context, actor policy.Actor, input *ListQRInput) ([]*QRCodeOutput, error)

	// Scan validates the scanned content against the actor's role, binds
	// the code's location on first scan, and appends a ledger event.
	Scan(ctx context.Context, actor policy.Actor, input *ScanInput) (*ScanOutput, error)

	// ListScans returns the actor's own attendance history, newest first.
	ListScans(ctx context.Context, actor policy.Actor, input *ListScansInput) ([]*ScanRecord, error)
}
