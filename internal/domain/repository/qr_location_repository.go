package repository

import (
	"context"
	"errors"

	"guardpost/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrQRLocationNotFound is returned when no QR location matches the given id
// or owner/site/post key.
var ErrQRLocationNotFound = errors.New("qr location not found")

// QRLocationRepository defines the operations for QR location persistence.
type QRLocationRepository interface {
	// Create persists a new QR location record.
	Create(ctx context.Context, loc *entity.QRLocation) error

	// FindByID retrieves a single QR location by its id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.QRLocation, error)

	// FindByOwnerSitePost retrieves the location an owner registered for a
	// given site and post, if any.
	FindByOwnerSitePost(ctx context.Context, ownerID uuid.UUID, site, post string) (*entity.QRLocation, error)

	// ListByOwner retrieves every location registered by one owner, newest
	// first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.QRLocation, error)

	// BindCoordinates atomically binds an unbound location to the given
	// coordinates. It reports true when this call performed the bind and
	// false when the location was already bound; callers losing the race
	// must reload the record.
	BindCoordinates(ctx context.Context, id uuid.UUID, latitude, longitude float64) (bool, error)

	// SetBoundAddress stores the reverse-geocoded address of a bound
	// location. Failing to store an address is not fatal to a scan.
	SetBoundAddress(ctx context.Context, id uuid.UUID, address *entity.Address) error
}
