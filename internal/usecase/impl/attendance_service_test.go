package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"guardpost/internal/domain/entity"
	domainerrors "guardpost/internal/domain/errors"
	"guardpost/internal/domain/policy"
	"guardpost/internal/infra/persistence/memory"
	"guardpost/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type attendanceFixture struct {
	service   usecase.AttendanceUsecase
	accounts  *memory.AccountStore
	locations *memory.QRLocationStore
	scans     *memory.ScanEventStore
	geocoder  *fakeGeocoder
	publisher *fakePublisher
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()

	accounts := memory.NewAccountStore()
	locations := memory.NewQRLocationStore()
	scans := memory.NewScanEventStore()
	geocoder := &fakeGeocoder{address: &entity.Address{
		FormattedAddress: "1 Jalan Ampang, Kuala Lumpur",
		City:             "Kuala Lumpur",
		Country:          "Malaysia",
	}}
	publisher := &fakePublisher{}

	service := NewAttendanceService(AttendanceServiceParams{
		QRRepo:      locations,
		ScanRepo:    scans,
		AccountRepo: accounts,
		Geocoder:    geocoder,
		QRCode:      &fakeQRCode{},
		Publisher:   publisher,
		Logger:      testLogger(),
	})

	return &attendanceFixture{
		service:   service,
		accounts:  accounts,
		locations: locations,
		scans:     scans,
		geocoder:  geocoder,
		publisher: publisher,
	}
}

func (fx *attendanceFixture) seedQR(t *testing.T, owner *entity.Account, site, post string, lat, lng float64) *entity.QRLocation {
	t.Helper()

	loc := &entity.QRLocation{
		ID:        uuid.New(),
		OwnerRole: owner.Role,
		OwnerID:   owner.ID,
		Site:      site,
		Post:      post,
		Latitude:  lat,
		Longitude: lng,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, fx.locations.Create(context.Background(), loc))

	return loc
}

func TestAttendanceService_CreateQR_IdempotentPerDutyPoint(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	supervisor := seedAccount(t, fx.accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	actor := policy.Actor{Role: supervisor.Role, ID: supervisor.ID}

	first, err := fx.service.CreateQR(ctx, actor, &usecase.CreateQRInput{Site: "Plaza A", Post: "Gate 1"})
	require.NoError(t, err)
	assert.False(t, first.Bound)
	assert.Equal(t, entity.SentinelLatitude, first.Latitude)
	assert.NotEmpty(t, first.ImagePNG)
	assert.Equal(t, "Plaza A:Gate 1:"+first.ID.String(), first.Content)

	second, err := fx.service.CreateQR(ctx, actor, &usecase.CreateQRInput{Site: "Plaza A", Post: "Gate 1"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := fx.service.CreateQR(ctx, actor, &usecase.CreateQRInput{Site: "Plaza A", Post: "Gate 2"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

// contendedQRStore simulates a competing writer registering the same duty
// point between the caller's existence check and its insert.
type contendedQRStore struct {
	*memory.QRLocationStore
	winner *entity.QRLocation
}

func (s *contendedQRStore) Create(ctx context.Context, loc *entity.QRLocation) error {
	if s.winner == nil {
		competing := *loc
		competing.ID = uuid.New()
		if err := s.QRLocationStore.Create(ctx, &competing); err != nil {
			return err
		}
		s.winner = &competing
	}

	return s.QRLocationStore.Create(ctx, loc)
}

func TestAttendanceService_CreateQR_InsertRaceReturnsExistingCode(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	store := &contendedQRStore{QRLocationStore: fx.locations}
	service := NewAttendanceService(AttendanceServiceParams{
		QRRepo:      store,
		ScanRepo:    fx.scans,
		AccountRepo: fx.accounts,
		Geocoder:    fx.geocoder,
		QRCode:      &fakeQRCode{},
		Publisher:   fx.publisher,
		Logger:      testLogger(),
	})

	supervisor := seedAccount(t, fx.accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	actor := policy.Actor{Role: supervisor.Role, ID: supervisor.ID}

	// Losing the unique-index race still resolves to the existing code.
	qr, err := service.CreateQR(ctx, actor, &usecase.CreateQRInput{Site: "Plaza A", Post: "Gate 1"})
	require.NoError(t, err)
	require.NotNil(t, store.winner)
	assert.Equal(t, store.winner.ID, qr.ID)
	assert.Equal(t, "Plaza A:Gate 1:"+store.winner.ID.String(), qr.Content)
}

func TestAttendanceService_CreateQR_RejectsSeparatorInNames(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	supervisor := seedAccount(t, fx.accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	actor := policy.Actor{Role: supervisor.Role, ID: supervisor.ID}

	// ':' delimits the encoded content, so it cannot appear in the names.
	for _, input := range []*usecase.CreateQRInput{
		{Site: "Plaza:A", Post: "Gate 1"},
		{Site: "Plaza A", Post: "Gate:1"},
	} {
		_, err := fx.service.CreateQR(ctx, actor, input)
		require.Error(t, err, "site %q post %q", input.Site, input.Post)
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed), "site %q post %q", input.Site, input.Post)
	}
}

func TestAttendanceService_CreateQR_AdminContentCarriesPrefix(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	admin := seedAccount(t, fx.accounts, entity.RoleAdmin, "Adam", "adam@example.com", "")
	actor := policy.Actor{Role: admin.Role, ID: admin.ID}

	qr, err := fx.service.CreateQR(ctx, actor, &usecase.CreateQRInput{Site: "HQ", Post: "Lobby"})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN:HQ:Lobby:"+qr.ID.String(), qr.Content)
}

func TestAttendanceService_CreateQR_GuardDenied(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	guard := seedAccount(t, fx.accounts, entity.RoleGuard, "Ali", "ali@example.com", "")
	actor := policy.Actor{Role: guard.Role, ID: guard.ID}

	_, err := fx.service.CreateQR(ctx, actor, &usecase.CreateQRInput{Site: "Plaza A", Post: "Gate 1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPermissionDenied))
}

func TestAttendanceService_ListQR_SiteFilterAndImages(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	supervisor := seedAccount(t, fx.accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	actor := policy.Actor{Role: supervisor.Role, ID: supervisor.ID}

	_, err := fx.service.CreateQR(ctx, actor, &usecase.CreateQRInput{Site: "Plaza A", Post: "Gate 1"})
	require.NoError(t, err)
	_, err = fx.service.CreateQR(ctx, actor, &usecase.CreateQRInput{Site: "Tower B", Post: "Gate 1"})
	require.NoError(t, err)

	all, err := fx.service.ListQR(ctx, actor, &usecase.ListQRInput{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, qr := range all {
		assert.Empty(t, qr.ImagePNG)
	}

	filtered, err := fx.service.ListQR(ctx, actor, &usecase.ListQRInput{Site: "plaza", IncludeImages: true})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Plaza A", filtered[0].Site)
	assert.NotEmpty(t, filtered[0].ImagePNG)
}

func TestAttendanceService_Scan_FirstScanBindsLocation(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	supervisor := seedAccount(t, fx.accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	guard := seedAccount(t, fx.accounts, entity.RoleGuard, "Ali", "ali@example.com", "")
	loc := fx.seedQR(t, supervisor, "Plaza A", "Gate 1", entity.SentinelLatitude, entity.SentinelLongitude)

	actor := policy.Actor{Role: guard.Role, ID: guard.ID}
	result, err := fx.service.Scan(ctx, actor, &usecase.ScanInput{
		Content:   entity.EncodeQRContent(loc),
		Latitude:  3.1578,
		Longitude: 101.7117,
	})
	require.NoError(t, err)
	assert.True(t, result.BoundLocation)
	assert.Zero(t, result.DistanceMeters)
	assert.True(t, result.AddressLookupSuccess)
	require.NotNil(t, result.ResolvedAddress)
	assert.Equal(t, "Kuala Lumpur", result.ResolvedAddress.City)

	// The fix and its address are now pinned to the location.
	stored, err := fx.locations.FindByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.1578, stored.Latitude, 1e-9)
	assert.InDelta(t, 101.7117, stored.Longitude, 1e-9)
	require.NotNil(t, stored.BoundAddress)

	// One event was published downstream.
	require.Len(t, fx.publisher.events, 1)
	assert.Equal(t, result.EventID.String(), fx.publisher.events[0].EventID)
}

func TestAttendanceService_Scan_ConcurrentFirstScansSingleBind(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	supervisor := seedAccount(t, fx.accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	ali := seedAccount(t, fx.accounts, entity.RoleGuard, "Ali", "ali@example.com", "")
	bala := seedAccount(t, fx.accounts, entity.RoleGuard, "Bala", "bala@example.com", "")
	loc := fx.seedQR(t, supervisor, "Plaza A", "Gate 1", entity.SentinelLatitude, entity.SentinelLongitude)

	fixes := map[uuid.UUID][2]float64{
		ali.ID:  {3.1578, 101.7117},
		bala.ID: {3.1600, 101.7200},
	}

	var wg sync.WaitGroup
	results := make(chan *usecase.ScanOutput, len(fixes))
	for _, guard := range []*entity.Account{ali, bala} {
		wg.Add(1)
		go func(guard *entity.Account) {
			defer wg.Done()

			fix := fixes[guard.ID]
			result, err := fx.service.Scan(ctx, policy.Actor{Role: guard.Role, ID: guard.ID}, &usecase.ScanInput{
				Content:   entity.EncodeQRContent(loc),
				Latitude:  fix[0],
				Longitude: fix[1],
			})
			if assert.NoError(t, err) {
				results <- result
			}
		}(guard)
	}
	wg.Wait()
	close(results)

	// Both scans land on the ledger, but exactly one performed the bind.
	winners, losers := 0, 0
	for result := range results {
		if result.BoundLocation {
			winners++
			assert.Zero(t, result.DistanceMeters)
		} else {
			losers++
			// The loser is measured against the winner's fix, not its own.
			assert.Greater(t, result.DistanceMeters, 0.0)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, losers)
	assert.Equal(t, 2, fx.scans.Len())
	assert.Len(t, fx.publisher.events, 2)

	// The bound fix belongs to one of the two scanners.
	stored, err := fx.locations.FindByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.Contains(t, [][2]float64{fixes[ali.ID], fixes[bala.ID]}, [2]float64{stored.Latitude, stored.Longitude})

	// A later scan from elsewhere never moves it.
	_, err = fx.service.Scan(ctx, policy.Actor{Role: ali.Role, ID: ali.ID}, &usecase.ScanInput{
		Content:   entity.EncodeQRContent(loc),
		Latitude:  3.2000,
		Longitude: 101.6000,
	})
	require.NoError(t, err)

	after, err := fx.locations.FindByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Latitude, after.Latitude)
	assert.Equal(t, stored.Longitude, after.Longitude)
	assert.Equal(t, 3, fx.scans.Len())
}

func TestAttendanceService_Scan_LaterScanMeasuresDistance(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	supervisor := seedAccount(t, fx.accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	guard := seedAccount(t, fx.accounts, entity.RoleGuard, "Ali", "ali@example.com", "")
	loc := fx.seedQR(t, supervisor, "Plaza A", "Gate 1", 3.1578, 101.7117)

	actor := policy.Actor{Role: guard.Role, ID: guard.ID}
	result, err := fx.service.Scan(ctx, actor, &usecase.ScanInput{
		Content:   entity.EncodeQRContent(loc),
		Latitude:  3.1588, // roughly 110m north
		Longitude: 101.7117,
	})
	require.NoError(t, err)
	assert.False(t, result.BoundLocation)
	assert.InDelta(t, 110, result.DistanceMeters, 10)
}

func TestAttendanceService_Scan_ReusesBoundAddress(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	supervisor := seedAccount(t, fx.accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	guard := seedAccount(t, fx.accounts, entity.RoleGuard, "Ali", "ali@example.com", "")
	loc := fx.seedQR(t, supervisor, "Plaza A", "Gate 1", 3.1578, 101.7117)
	require.NoError(t, fx.locations.SetBoundAddress(ctx, loc.ID, &entity.Address{City: "Kuala Lumpur"}))

	actor := policy.Actor{Role: guard.Role, ID: guard.ID}
	result, err := fx.service.Scan(ctx, actor, &usecase.ScanInput{
		Content:   entity.EncodeQRContent(loc),
		Latitude:  3.1578,
		Longitude: 101.7117,
	})
	require.NoError(t, err)
	assert.True(t, result.AddressLookupSuccess)
	assert.Zero(t, fx.geocoder.calls)
}

func TestAttendanceService_Scan_GeocodeFailureDegrades(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	fx.geocoder.err = errors.New("provider unreachable")

	supervisor := seedAccount(t, fx.accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	guard := seedAccount(t, fx.accounts, entity.RoleGuard, "Ali", "ali@example.com", "")
	loc := fx.seedQR(t, supervisor, "Plaza A", "Gate 1", entity.SentinelLatitude, entity.SentinelLongitude)

	actor := policy.Actor{Role: guard.Role, ID: guard.ID}
	result, err := fx.service.Scan(ctx, actor, &usecase.ScanInput{
		Content:   entity.EncodeQRContent(loc),
		Latitude:  3.1578,
		Longitude: 101.7117,
	})
	require.NoError(t, err)
	assert.False(t, result.AddressLookupSuccess)
	assert.Nil(t, result.ResolvedAddress)
	assert.True(t, result.BoundLocation)

	// The event is still on the ledger.
	assert.Equal(t, 1, fx.scans.Len())
}

func TestAttendanceService_Scan_PublishFailureDoesNotFailScan(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	fx.publisher.err = errors.New("broker down")

	supervisor := seedAccount(t, fx.accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	guard := seedAccount(t, fx.accounts, entity.RoleGuard, "Ali", "ali@example.com", "")
	loc := fx.seedQR(t, supervisor, "Plaza A", "Gate 1", 3.1578, 101.7117)

	actor := policy.Actor{Role: guard.Role, ID: guard.ID}
	_, err := fx.service.Scan(ctx, actor, &usecase.ScanInput{
		Content:   entity.EncodeQRContent(loc),
		Latitude:  3.1578,
		Longitude: 101.7117,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fx.scans.Len())
}

func TestAttendanceService_Scan_RoleMatrix(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	admin := seedAccount(t, fx.accounts, entity.RoleAdmin, "Adam", "adam@example.com", "")
	supervisor := seedAccount(t, fx.accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	guard := seedAccount(t, fx.accounts, entity.RoleGuard, "Ali", "ali@example.com", "")

	adminQR := fx.seedQR(t, admin, "HQ", "Lobby", 3.1578, 101.7117)
	supervisorQR := fx.seedQR(t, supervisor, "Plaza A", "Gate 1", 3.1578, 101.7117)

	guardActor := policy.Actor{Role: guard.Role, ID: guard.ID}
	supervisorActor := policy.Actor{Role: supervisor.Role, ID: supervisor.ID}

	// Guards scan supervisor-issued codes only.
	_, err := fx.service.Scan(ctx, guardActor, &usecase.ScanInput{
		Content: entity.EncodeQRContent(supervisorQR), Latitude: 3.1578, Longitude: 101.7117,
	})
	require.NoError(t, err)

	_, err = fx.service.Scan(ctx, guardActor, &usecase.ScanInput{
		Content: entity.EncodeQRContent(adminQR), Latitude: 3.1578, Longitude: 101.7117,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrScanNotPermitted))

	// Supervisors scan admin-issued codes only.
	_, err = fx.service.Scan(ctx, supervisorActor, &usecase.ScanInput{
		Content: entity.EncodeQRContent(adminQR), Latitude: 3.1578, Longitude: 101.7117,
	})
	require.NoError(t, err)

	_, err = fx.service.Scan(ctx, supervisorActor, &usecase.ScanInput{
		Content: entity.EncodeQRContent(supervisorQR), Latitude: 3.1578, Longitude: 101.7117,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrScanNotPermitted))
}

func TestAttendanceService_Scan_Rejections(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	supervisor := seedAccount(t, fx.accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	guard := seedAccount(t, fx.accounts, entity.RoleGuard, "Ali", "ali@example.com", "")
	loc := fx.seedQR(t, supervisor, "Plaza A", "Gate 1", 3.1578, 101.7117)
	actor := policy.Actor{Role: guard.Role, ID: guard.ID}

	// Malformed content, including a bare identifier.
	for _, content := range []string{"", "Plaza A", uuid.NewString(), "a:b:not-a-uuid", "EXTRA:a:b:" + uuid.NewString()} {
		_, err := fx.service.Scan(ctx, actor, &usecase.ScanInput{Content: content, Latitude: 3.1, Longitude: 101.7})
		require.Error(t, err, "content %q", content)
		assert.True(t, errors.Is(err, domainerrors.ErrMalformedContent), "content %q", content)
	}

	// A (0,0) report means the device has no fix.
	_, err := fx.service.Scan(ctx, actor, &usecase.ScanInput{Content: entity.EncodeQRContent(loc)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	// Unknown code.
	unknown := &entity.QRLocation{ID: uuid.New(), OwnerRole: entity.RoleSupervisor, Site: "X", Post: "Y"}
	_, err = fx.service.Scan(ctx, actor, &usecase.ScanInput{
		Content: entity.EncodeQRContent(unknown), Latitude: 3.1, Longitude: 101.7,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrQRNotFound))

	// Content claiming the wrong issuer tier resolves to nothing.
	forged := "ADMIN:Plaza A:Gate 1:" + loc.ID.String()
	supervisorActor := policy.Actor{Role: supervisor.Role, ID: supervisor.ID}
	_, err = fx.service.Scan(ctx, supervisorActor, &usecase.ScanInput{Content: forged, Latitude: 3.1, Longitude: 101.7})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrQRNotFound))

	// A deactivated scanner is rejected before touching the ledger.
	guard.IsActive = false
	fx.accounts.Seed(guard)
	_, err = fx.service.Scan(ctx, actor, &usecase.ScanInput{
		Content: entity.EncodeQRContent(loc), Latitude: 3.1, Longitude: 101.7,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountInactive))
}

func TestAttendanceService_ListScans_Paging(t *testing.T) {
	fx := newAttendanceFixture(t)
	ctx := context.Background()

	supervisor := seedAccount(t, fx.accounts, entity.RoleSupervisor, "Siti", "siti@example.com", "")
	guard := seedAccount(t, fx.accounts, entity.RoleGuard, "Ali", "ali@example.com", "")
	loc := fx.seedQR(t, supervisor, "Plaza A", "Gate 1", 3.1578, 101.7117)
	actor := policy.Actor{Role: guard.Role, ID: guard.ID}

	for i := 0; i < 5; i++ {
		_, err := fx.service.Scan(ctx, actor, &usecase.ScanInput{
			Content: entity.EncodeQRContent(loc), Latitude: 3.1578, Longitude: 101.7117,
		})
		require.NoError(t, err)
	}

	page, err := fx.service.ListScans(ctx, actor, &usecase.ListScansInput{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := fx.service.ListScans(ctx, actor, &usecase.ListScansInput{Limit: 10, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 3)
	for _, record := range rest {
		assert.Equal(t, loc.ID, record.QRID)
		assert.Equal(t, "Plaza A", record.Site)
	}

	// Another scanner sees nothing.
	stranger := policy.Actor{Role: entity.RoleGuard, ID: uuid.New()}
	seedAccount(t, fx.accounts, entity.RoleGuard, "Bala", "bala@example.com", "")
	empty, err := fx.service.ListScans(ctx, stranger, &usecase.ListScansInput{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}
