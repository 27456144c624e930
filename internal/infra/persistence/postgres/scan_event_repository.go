package postgres

import (
	"context"

	"guardpost/internal/domain/entity"
	domainerrors "guardpost/internal/domain/errors"
	"guardpost/internal/domain/repository"
	"guardpost/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const defaultScanListLimit = 50

// scanEventRepository implements the repository.ScanEventRepository interface.
type scanEventRepository struct {
	db *gorm.DB
}

// NewScanEventRepository is the constructor for scanEventRepository.
func NewScanEventRepository(db *gorm.DB) repository.ScanEventRepository {
	return &scanEventRepository{
		db: db,
	}
}

// Append persists a new scan event.
func (repo *scanEventRepository) Append(ctx context.Context, event *entity.ScanEvent) error {
	eventM := fromScanEventDomain(event)

	if err := repo.db.WithContext(ctx).Create(eventM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required scan event fields")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to append scan event")
	}

	event.ID = eventM.ID

	return nil
}

// ListByScanner retrieves one scanner's events, newest first.
func (repo *scanEventRepository) ListByScanner(ctx context.Context, scannerID uuid.UUID, limit, offset int) ([]*entity.ScanEvent, error) {
	if limit <= 0 {
		limit = defaultScanListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var eventModels []*model.ScanEventModel

	if err := repo.db.WithContext(ctx).
		Where("scanned_by_id = ?", scannerID).
		Order("scanned_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&eventModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list scan events by scanner")
	}

	events := make([]*entity.ScanEvent, 0, len(eventModels))
	for _, eventM := range eventModels {
		events = append(events, toScanEventDomain(eventM))
	}

	return events, nil
}

// toScanEventDomain converts a GORM ScanEventModel to a domain ScanEvent entity.
func toScanEventDomain(data *model.ScanEventModel) *entity.ScanEvent {
	if data == nil {
		return nil
	}

	return &entity.ScanEvent{
		ID:                   data.ID,
		QRID:                 data.QRID,
		Site:                 data.Site,
		Post:                 data.Post,
		ScannedByRole:        entity.Role(data.ScannedByRole),
		ScannedByID:          data.ScannedByID,
		ScannedByName:        data.ScannedByName,
		Latitude:             data.Latitude,
		Longitude:            data.Longitude,
		DistanceMeters:       data.DistanceMeters,
		ResolvedAddress:      data.ResolvedAddress.ToEntity(),
		AddressLookupSuccess: data.AddressLookupSuccess,
		BoundLocation:        data.BoundLocation,
		ScannedAt:            data.ScannedAt,
	}
}

// fromScanEventDomain converts a domain ScanEvent entity to a GORM ScanEventModel.
func fromScanEventDomain(data *entity.ScanEvent) *model.ScanEventModel {
	if data == nil {
		return nil
	}

	return &model.ScanEventModel{
		ID:                   data.ID,
		QRID:                 data.QRID,
		Site:                 data.Site,
		Post:                 data.Post,
		ScannedByRole:        data.ScannedByRole.String(),
		ScannedByID:          data.ScannedByID,
		ScannedByName:        data.ScannedByName,
		Latitude:             data.Latitude,
		Longitude:            data.Longitude,
		DistanceMeters:       data.DistanceMeters,
		ResolvedAddress:      model.NewAddressJSON(data.ResolvedAddress),
		AddressLookupSuccess: data.AddressLookupSuccess,
		BoundLocation:        data.BoundLocation,
		ScannedAt:            data.ScannedAt,
	}
}
