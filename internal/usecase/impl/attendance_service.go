package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"guardpost/config"
	deliverycontext "guardpost/internal/delivery/context"
	"guardpost/internal/domain/entity"
	domainerrors "guardpost/internal/domain/errors"
	"guardpost/internal/domain/policy"
	"guardpost/internal/domain/repository"
	"guardpost/internal/domain/service"
	"guardpost/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultGeocodeTimeout = 3 * time.Second
	defaultScanPageLimit  = 50
	maxScanPageLimit      = 200
)

// attendanceService implements the AttendanceUsecase interface.
type attendanceService struct {
	qrRepo         repository.QRLocationRepository
	scanRepo       repository.ScanEventRepository
	accountRepo    repository.AccountRepository
	geocoder       service.Geocoder
	qrcode         service.QRCodeService
	publisher      service.EventPublisher
	geocodeTimeout time.Duration
	logger         *slog.Logger
}

// AttendanceServiceParams holds dependencies for AttendanceService, injected by Fx.
type AttendanceServiceParams struct {
	fx.In

	QRRepo      repository.QRLocationRepository
	ScanRepo    repository.ScanEventRepository
	AccountRepo repository.AccountRepository
	Geocoder    service.Geocoder
	QRCode      service.QRCodeService
	Publisher   service.EventPublisher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAttendanceService is the constructor for attendanceService.
func NewAttendanceService(params AttendanceServiceParams) usecase.AttendanceUsecase {
	timeout := defaultGeocodeTimeout
	if params.Config != nil && params.Config.Geocode != nil && params.Config.Geocode.Timeout > 0 {
		timeout = params.Config.Geocode.Timeout
	}

	return &attendanceService{
		qrRepo:         params.QRRepo,
		scanRepo:       params.ScanRepo,
		accountRepo:    params.AccountRepo,
		geocoder:       params.Geocoder,
		qrcode:         params.QRCode,
		publisher:      params.Publisher,
		geocodeTimeout: timeout,
		logger:         params.Logger,
	}
}

func (srv *attendanceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateQR registers a code for one site and post. The operation is
// idempotent per (owner, site, post): repeating it returns the existing
// code instead of minting a second identity for the same duty point.
func (srv *attendanceService) CreateQR(ctx context.Context, actor policy.Actor, input *usecase.CreateQRInput) (*usecase.QRCodeOutput, error) {
	if !policy.CanIssueQR(actor.Role) {
		return nil, domainerrors.ErrPermissionDenied.WrapMessage("only admins and supervisors issue codes")
	}

	site := strings.TrimSpace(input.Site)
	post := strings.TrimSpace(input.Post)
	if site == "" || post == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("site and post must not be empty")
	}
	// The encoded content uses ':' as its segment separator.
	if strings.ContainsRune(site, ':') || strings.ContainsRune(post, ':') {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("site and post must not contain ':'")
	}

	existing, err := srv.qrRepo.FindByOwnerSitePost(ctx, actor.ID, site, post)
	switch {
	case err == nil:
		return srv.toQROutput(existing, true)
	case !errors.Is(err, repository.ErrQRLocationNotFound):
		return nil, errors.Wrap(err, "find existing qr location")
	}

	now := time.Now()
	loc := &entity.QRLocation{
		ID:        uuid.New(),
		OwnerRole: actor.Role,
		OwnerID:   actor.ID,
		Site:      site,
		Post:      post,
		Latitude:  entity.SentinelLatitude,
		Longitude: entity.SentinelLongitude,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := srv.qrRepo.Create(ctx, loc); err != nil {
		if errors.Is(err, domainerrors.ErrQRAlreadyRegistered) {
			// Lost the insert race; return the row the winner created.
			existing, findErr := srv.qrRepo.FindByOwnerSitePost(ctx, actor.ID, site, post)
			if findErr != nil {
				return nil, errors.Wrap(findErr, "find qr location after create race")
			}

			return srv.toQROutput(existing, true)
		}

		return nil, errors.Wrap(err, "create qr location")
	}

	srv.log(ctx).Info("QR location registered",
		slog.String("qr_id", loc.ID.String()),
		slog.String("site", site),
		slog.String("post", post))

	return srv.toQROutput(loc, true)
}

// ListQR returns the actor's registered codes, optionally filtered by site
// and optionally with rendered images.
func (srv *attendanceService) ListQR(ctx context.Context, actor policy.Actor, input *usecase.ListQRInput) ([]*usecase.QRCodeOutput, error) {
	if !policy.CanIssueQR(actor.Role) {
		return nil, domainerrors.ErrPermissionDenied.WrapMessage("only admins and supervisors list codes")
	}

	locations, err := srv.qrRepo.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, errors.Wrap(err, "list qr locations")
	}

	siteFilter := strings.ToLower(strings.TrimSpace(input.Site))
	outputs := make([]*usecase.QRCodeOutput, 0, len(locations))
	for _, loc := range locations {
		if siteFilter != "" && !strings.Contains(strings.ToLower(loc.Site), siteFilter) {
			continue
		}

		output, err := srv.toQROutput(loc, input.IncludeImages)
		if err != nil {
			// A render failure degrades that row to metadata only.
			srv.log(ctx).Warn("QR render failed",
				slog.String("qr_id", loc.ID.String()),
				slog.Any("error", err))
			output, _ = srv.toQROutput(loc, false)
		}
		outputs = append(outputs, output)
	}

	return outputs, nil
}

// Scan records one attendance event. The first scan of a code binds the
// code's location to the reported GPS fix; every later scan is measured
// against that fix.
func (srv *attendanceService) Scan(ctx context.Context, actor policy.Actor, input *usecase.ScanInput) (*usecase.ScanOutput, error) {
	parsed, err := entity.ParseQRContent(input.Content)
	if err != nil {
		return nil, domainerrors.ErrMalformedContent.WrapMessage(err.Error())
	}

	if !policy.CanScan(actor.Role, parsed.OwnerRole) {
		return nil, domainerrors.ErrScanNotPermitted.WrapMessage("code issuer does not match your role")
	}

	if input.Latitude == entity.SentinelLatitude && input.Longitude == entity.SentinelLongitude {
		// A (0,0) report is a missing GPS fix, not a real position.
		return nil, domainerrors.ErrValidationFailed.WrapMessage("device location unavailable")
	}

	scanner, err := srv.loadScanner(ctx, actor)
	if err != nil {
		return nil, err
	}

	loc, err := srv.qrRepo.FindByID(ctx, parsed.QRID)
	if err != nil {
		if errors.Is(err, repository.ErrQRLocationNotFound) {
			return nil, domainerrors.ErrQRNotFound
		}

		return nil, errors.Wrap(err, "find qr location")
	}
	if loc.OwnerRole != parsed.OwnerRole {
		// Content claiming the wrong issuer tier is treated as unknown.
		return nil, domainerrors.ErrQRNotFound
	}

	loc, boundNow, err := srv.ensureBound(ctx, loc, input.Latitude, input.Longitude)
	if err != nil {
		return nil, err
	}

	address, lookupOK := srv.resolveAddress(ctx, loc, boundNow)

	reported := orb.Point{input.Longitude, input.Latitude}
	bound := orb.Point{loc.Longitude, loc.Latitude}

	event := &entity.ScanEvent{
		ID:                   uuid.New(),
		QRID:                 loc.ID,
		Site:                 loc.Site,
		Post:                 loc.Post,
		ScannedByRole:        actor.Role,
		ScannedByID:          actor.ID,
		ScannedByName:        scanner.Name,
		Latitude:             input.Latitude,
		Longitude:            input.Longitude,
		DistanceMeters:       geo.Distance(reported, bound),
		ResolvedAddress:      address,
		AddressLookupSuccess: lookupOK,
		BoundLocation:        boundNow,
		ScannedAt:            time.Now(),
	}

	if err := srv.scanRepo.Append(ctx, event); err != nil {
		return nil, errors.Wrap(err, "append scan event")
	}

	srv.publishScan(ctx, event)

	return &usecase.ScanOutput{
		EventID:              event.ID,
		Site:                 event.Site,
		Post:                 event.Post,
		DistanceMeters:       event.DistanceMeters,
		ResolvedAddress:      event.ResolvedAddress,
		AddressLookupSuccess: event.AddressLookupSuccess,
		BoundLocation:        event.BoundLocation,
		ScannedAt:            event.ScannedAt,
	}, nil
}

// ListScans returns the actor's own attendance history, newest first.
func (srv *attendanceService) ListScans(ctx context.Context, actor policy.Actor, input *usecase.ListScansInput) ([]*usecase.ScanRecord, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultScanPageLimit
	}
	if limit > maxScanPageLimit {
		limit = maxScanPageLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	events, err := srv.scanRepo.ListByScanner(ctx, actor.ID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "list scan events")
	}

	records := make([]*usecase.ScanRecord, 0, len(events))
	for _, event := range events {
		records = append(records, &usecase.ScanRecord{
			EventID:              event.ID,
			QRID:                 event.QRID,
			Site:                 event.Site,
			Post:                 event.Post,
			Latitude:             event.Latitude,
			Longitude:            event.Longitude,
			DistanceMeters:       event.DistanceMeters,
			ResolvedAddress:      event.ResolvedAddress,
			AddressLookupSuccess: event.AddressLookupSuccess,
			BoundLocation:        event.BoundLocation,
			ScannedAt:            event.ScannedAt,
		})
	}

	return records, nil
}

// loadScanner resolves the acting account and checks it is still active.
func (srv *attendanceService) loadScanner(ctx context.Context, actor policy.Actor) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, entity.CollectionForRole(actor.Role), actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("scanner account no longer exists")
		}

		return nil, errors.Wrap(err, "find scanner account")
	}
	if !account.IsActive {
		return nil, domainerrors.ErrAccountInactive
	}

	return account, nil
}

// ensureBound binds an unbound location to the reported fix. Exactly one
// concurrent scanner wins the bind; losers reload and are measured against
// the winner's coordinates.
func (srv *attendanceService) ensureBound(ctx context.Context, loc *entity.QRLocation, latitude, longitude float64) (*entity.QRLocation, bool, error) {
	if loc.IsBound() {
		return loc, false, nil
	}

	won, err := srv.qrRepo.BindCoordinates(ctx, loc.ID, latitude, longitude)
	if err != nil {
		return nil, false, errors.Wrap(err, "bind coordinates")
	}

	if won {
		loc.Latitude = latitude
		loc.Longitude = longitude

		srv.log(ctx).Info("QR location bound",
			slog.String("qr_id", loc.ID.String()),
			slog.Float64("latitude", latitude),
			slog.Float64("longitude", longitude))

		return loc, true, nil
	}

	// Lost the race; pick up the winner's coordinates.
	reloaded, err := srv.qrRepo.FindByID(ctx, loc.ID)
	if err != nil {
		return nil, false, errors.Wrap(err, "reload qr location after bind race")
	}

	return reloaded, false, nil
}

// resolveAddress returns the address of the bound fix. The stored address
// is reused when present; otherwise the geocoder is consulted under a
// bounded timeout, and any failure degrades the scan rather than failing it.
func (srv *attendanceService) resolveAddress(ctx context.Context, loc *entity.QRLocation, boundNow bool) (*entity.Address, bool) {
	if loc.BoundAddress != nil {
		return loc.BoundAddress, true
	}

	geocodeCtx, cancel := context.WithTimeout(ctx, srv.geocodeTimeout)
	defer cancel()

	address, err := srv.geocoder.ReverseGeocode(geocodeCtx, loc.Latitude, loc.Longitude)
	if err != nil {
		srv.log(ctx).Warn("Reverse geocode degraded",
			slog.String("qr_id", loc.ID.String()),
			slog.Any("error", err))

		return nil, false
	}

	if boundNow {
		if err := srv.qrRepo.SetBoundAddress(ctx, loc.ID, address); err != nil {
			srv.log(ctx).Warn("Persisting bound address failed",
				slog.String("qr_id", loc.ID.String()),
				slog.Any("error", err))
		}
	}

	return address, true
}

// publishScan emits the recorded event for downstream consumers. Publishing
// is best effort and never fails the scan.
func (srv *attendanceService) publishScan(ctx context.Context, event *entity.ScanEvent) {
	payload := &service.ScanRecordedEvent{
		RequestID:     deliverycontext.GetRequestIDFromContext(ctx),
		EventID:       event.ID.String(),
		QRID:          event.QRID.String(),
		Site:          event.Site,
		Post:          event.Post,
		ScannedByID:   event.ScannedByID.String(),
		ScannedByRole: event.ScannedByRole.String(),
		Latitude:      event.Latitude,
		Longitude:     event.Longitude,
		DistanceM:     event.DistanceMeters,
		ScannedAt:     event.ScannedAt.Format(time.RFC3339),
	}

	if err := srv.publisher.PublishScanRecorded(ctx, payload); err != nil {
		srv.log(ctx).Warn("Scan event publish failed",
			slog.String("event_id", payload.EventID),
			slog.Any("error", err))
	}
}

// toQROutput flattens a location plus its wire content; withImage also
// renders the PNG.
func (srv *attendanceService) toQROutput(loc *entity.QRLocation, withImage bool) (*usecase.QRCodeOutput, error) {
	content := entity.EncodeQRContent(loc)

	output := &usecase.QRCodeOutput{
		ID:           loc.ID,
		Site:         loc.Site,
		Post:         loc.Post,
		OwnerRole:    loc.OwnerRole.String(),
		Content:      content,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		Bound:        loc.IsBound(),
		BoundAddress: loc.BoundAddress,
		CreatedAt:    loc.CreatedAt,
	}

	if withImage {
		png, err := srv.qrcode.GeneratePNG(content)
		if err != nil {
			return nil, errors.Wrap(domainerrors.ErrQRGenerationFailed, err.Error())
		}
		output.ImagePNG = png
	}

	return output, nil
}
