package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"guardpost/internal/domain/entity"
	"guardpost/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocation(ownerID uuid.UUID, site, post string) *entity.QRLocation {
	now := time.Now()

	return &entity.QRLocation{
		ID:        uuid.New(),
		OwnerRole: entity.RoleSupervisor,
		OwnerID:   ownerID,
		Site:      site,
		Post:      post,
		Latitude:  entity.SentinelLatitude,
		Longitude: entity.SentinelLongitude,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestQRLocationStore_CreateAndFind(t *testing.T) {
	store := NewQRLocationStore()
	ctx := context.Background()
	ownerID := uuid.New()

	loc := newTestLocation(ownerID, "Plant A", "Gate 7")
	require.NoError(t, store.Create(ctx, loc))

	found, err := store.FindByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, loc.ID, found.ID)
	assert.False(t, found.IsBound())

	bySite, err := store.FindByOwnerSitePost(ctx, ownerID, "Plant A", "Gate 7")
	require.NoError(t, err)
	assert.Equal(t, loc.ID, bySite.ID)

	_, err = store.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrQRLocationNotFound)
}

func TestQRLocationStore_CreateDuplicateOwnerSitePost(t *testing.T) {
	store := NewQRLocationStore()
	ctx := context.Background()
	ownerID := uuid.New()

	require.NoError(t, store.Create(ctx, newTestLocation(ownerID, "Plant A", "Gate 7")))
	err := store.Create(ctx, newTestLocation(ownerID, "Plant A", "Gate 7"))
	assert.Error(t, err)

	// Same site and post under another owner is a distinct code.
	assert.NoError(t, store.Create(ctx, newTestLocation(uuid.New(), "Plant A", "Gate 7")))
}

func TestQRLocationStore_BindCoordinatesOnce(t *testing.T) {
	store := NewQRLocationStore()
	ctx := context.Background()

	loc := newTestLocation(uuid.New(), "Plant A", "Gate 7")
	require.NoError(t, store.Create(ctx, loc))

	won, err := store.BindCoordinates(ctx, loc.ID, 28.61, 77.20)
	require.NoError(t, err)
	assert.True(t, won)

	// A second bind attempt must not move the coordinates.
	won, err = store.BindCoordinates(ctx, loc.ID, 12.97, 77.59)
	require.NoError(t, err)
	assert.False(t, won)

	found, err := store.FindByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.InDelta(t, 28.61, found.Latitude, 1e-9)
	assert.InDelta(t, 77.20, found.Longitude, 1e-9)
}

func TestQRLocationStore_ConcurrentBindSingleWinner(t *testing.T) {
	store := NewQRLocationStore()
	ctx := context.Background()

	loc := newTestLocation(uuid.New(), "Plant A", "Gate 7")
	require.NoError(t, store.Create(ctx, loc))

	const scanners = 16

	var wg sync.WaitGroup
	wins := make(chan int, scanners)

	for i := 0; i < scanners; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			won, err := store.BindCoordinates(ctx, loc.ID, float64(n+1), float64(n+1))
			assert.NoError(t, err)
			if won {
				wins <- n
			}
		}(i)
	}

	wg.Wait()
	close(wins)

	winners := make([]int, 0, scanners)
	for n := range wins {
		winners = append(winners, n)
	}
	require.Len(t, winners, 1)

	found, err := store.FindByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.InDelta(t, float64(winners[0]+1), found.Latitude, 1e-9)
	assert.InDelta(t, float64(winners[0]+1), found.Longitude, 1e-9)
}

func TestQRLocationStore_SetBoundAddress(t *testing.T) {
	store := NewQRLocationStore()
	ctx := context.Background()

	loc := newTestLocation(uuid.New(), "Plant A", "Gate 7")
	require.NoError(t, store.Create(ctx, loc))

	address := &entity.Address{FormattedAddress: "7 Industrial Rd", City: "Pune", Country: "India"}
	require.NoError(t, store.SetBoundAddress(ctx, loc.ID, address))

	found, err := store.FindByID(ctx, loc.ID)
	require.NoError(t, err)
	require.NotNil(t, found.BoundAddress)
	assert.Equal(t, "Pune", found.BoundAddress.City)

	// Mutating the caller's copy must not leak into the store.
	address.City = "Mumbai"
	found, err = store.FindByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pune", found.BoundAddress.City)
}

func TestQRLocationStore_ListByOwnerNewestFirst(t *testing.T) {
	store := NewQRLocationStore()
	ctx := context.Background()
	ownerID := uuid.New()

	older := newTestLocation(ownerID, "Plant A", "Gate 1")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := newTestLocation(ownerID, "Plant A", "Gate 2")

	require.NoError(t, store.Create(ctx, older))
	require.NoError(t, store.Create(ctx, newer))
	require.NoError(t, store.Create(ctx, newTestLocation(uuid.New(), "Plant B", "Gate 1")))

	locations, err := store.ListByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, newer.ID, locations[0].ID)
	assert.Equal(t, older.ID, locations[1].ID)
}
