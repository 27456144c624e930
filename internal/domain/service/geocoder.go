package service

import (
	"context"

	"guardpost/internal/domain/entity"
)

// Geocoder defines the interface for reverse geocoding coordinates into a
// structured address. Implementations call an external provider; callers
// must treat failures as non-fatal.
type Geocoder interface {
	// ReverseGeocode resolves coordinates into the nearest known address.
	ReverseGeocode(ctx context.Context, latitude, longitude float64) (*entity.Address, error)
}
