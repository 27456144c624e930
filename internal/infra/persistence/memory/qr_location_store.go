package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"guardpost/internal/domain/entity"
	domainerrors "guardpost/internal/domain/errors"
	"guardpost/internal/domain/repository"

	"github.com/google/uuid"
)

// QRLocationStore is an in-memory repository.QRLocationRepository.
type QRLocationStore struct {
	mu        sync.Mutex
	locations map[uuid.UUID]*entity.QRLocation
}

// NewQRLocationStore creates an empty QR location store.
func NewQRLocationStore() *QRLocationStore {
	return &QRLocationStore{locations: make(map[uuid.UUID]*entity.QRLocation)}
}

// Create persists a new QR location record.
func (s *QRLocationStore) Create(_ context.Context, loc *entity.QRLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.locations {
		if existing.OwnerID == loc.OwnerID && existing.Site == loc.Site && existing.Post == loc.Post {
			return domainerrors.ErrQRAlreadyRegistered
		}
	}

	s.locations[loc.ID] = cloneQRLocation(loc)

	return nil
}

// FindByID retrieves a single QR location by its id.
func (s *QRLocationStore) FindByID(_ context.Context, id uuid.UUID) (*entity.QRLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if loc, ok := s.locations[id]; ok {
		return cloneQRLocation(loc), nil
	}

	return nil, repository.ErrQRLocationNotFound
}

// FindByOwnerSitePost retrieves the location an owner registered for a
// given site and post.
func (s *QRLocationStore) FindByOwnerSitePost(_ context.Context, ownerID uuid.UUID, site, post string) (*entity.QRLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, loc := range s.locations {
		if loc.OwnerID == ownerID && loc.Site == site && loc.Post == post {
			return cloneQRLocation(loc), nil
		}
	}

	return nil, repository.ErrQRLocationNotFound
}

// ListByOwner retrieves every location registered by one owner, newest first.
func (s *QRLocationStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.QRLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]*entity.QRLocation, 0)
	for _, loc := range s.locations {
		if loc.OwnerID == ownerID {
			results = append(results, cloneQRLocation(loc))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	return results, nil
}

// BindCoordinates performs the one-time sentinel bind under the store
// mutex, so exactly one concurrent caller wins.
func (s *QRLocationStore) BindCoordinates(_ context.Context, id uuid.UUID, latitude, longitude float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.locations[id]
	if !ok {
		return false, repository.ErrQRLocationNotFound
	}
	if loc.IsBound() {
		return false, nil
	}

	loc.Latitude = latitude
	loc.Longitude = longitude
	loc.UpdatedAt = time.Now()

	return true, nil
}

// SetBoundAddress stores the reverse-geocoded address of a bound location.
func (s *QRLocationStore) SetBoundAddress(_ context.Context, id uuid.UUID, address *entity.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.locations[id]
	if !ok {
		return repository.ErrQRLocationNotFound
	}

	loc.BoundAddress = cloneAddress(address)
	loc.UpdatedAt = time.Now()

	return nil
}

func cloneQRLocation(loc *entity.QRLocation) *entity.QRLocation {
	cloned := *loc
	cloned.BoundAddress = cloneAddress(loc.BoundAddress)

	return &cloned
}

func cloneAddress(address *entity.Address) *entity.Address {
	if address == nil {
		return nil
	}

	cloned := *address

	return &cloned
}
