package postgres

import (
	"context"
	"time"

	"guardpost/internal/domain/entity"
	domainerrors "guardpost/internal/domain/errors"
	"guardpost/internal/domain/repository"
	"guardpost/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// qrLocationRepository implements the repository.QRLocationRepository interface.
type qrLocationRepository struct {
	db *gorm.DB
}

// NewQRLocationRepository is the constructor for qrLocationRepository.
func NewQRLocationRepository(db *gorm.DB) repository.QRLocationRepository {
	return &qrLocationRepository{
		db: db,
	}
}

// Create persists a new QR location record.
func (repo *qrLocationRepository) Create(ctx context.Context, loc *entity.QRLocation) error {
	locM := fromQRLocationDomain(loc)

	if err := repo.db.WithContext(ctx).Create(locM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrQRAlreadyRegistered
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required qr location fields")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create qr location")
	}

	loc.ID = locM.ID
	loc.CreatedAt = locM.CreatedAt
	loc.UpdatedAt = locM.UpdatedAt

	return nil
}

// FindByID retrieves a single QR location by its id.
func (repo *qrLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.QRLocation, error) {
	var locM model.QRLocationModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&locM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrQRLocationNotFound
		}

		return nil, errors.Wrap(err, "failed to find qr location by ID")
	}

	return toQRLocationDomain(&locM), nil
}

// FindByOwnerSitePost retrieves the location an owner registered for a
// given site and post.
func (repo *qrLocationRepository) FindByOwnerSitePost(ctx context.Context, ownerID uuid.UUID, site, post string) (*entity.QRLocation, error) {
	var locM model.QRLocationModel

	if err := repo.db.WithContext(ctx).
		Where("owner_id = ? AND site = ? AND post = ?", ownerID, site, post).
		First(&locM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrQRLocationNotFound
		}

		return nil, errors.Wrap(err, "failed to find qr location by owner, site, and post")
	}

	return toQRLocationDomain(&locM), nil
}

// ListByOwner retrieves every location registered by one owner, newest first.
func (repo *qrLocationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.QRLocation, error) {
	var locModels []*model.QRLocationModel

	if err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&locModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list qr locations by owner")
	}

	locations := make([]*entity.QRLocation, 0, len(locModels))
	for _, locM := range locModels {
		locations = append(locations, toQRLocationDomain(locM))
	}

	return locations, nil
}

// BindCoordinates binds an unbound location with a conditional update. The
// sentinel predicate makes the update a compare-and-set: under concurrent
// scans exactly one caller sees RowsAffected == 1.
func (repo *qrLocationRepository) BindCoordinates(ctx context.Context, id uuid.UUID, latitude, longitude float64) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.QRLocationModel{}).
		Where("id = ? AND latitude = ? AND longitude = ?", id, entity.SentinelLatitude, entity.SentinelLongitude).
		Updates(map[string]any{
			"latitude":   latitude,
			"longitude":  longitude,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "failed to bind qr location coordinates")
	}

	return result.RowsAffected == 1, nil
}

// SetBoundAddress stores the reverse-geocoded address of a bound location.
func (repo *qrLocationRepository) SetBoundAddress(ctx context.Context, id uuid.UUID, address *entity.Address) error {
	result := repo.db.WithContext(ctx).
		Model(&model.QRLocationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"bound_address": model.NewAddressJSON(address),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to set bound address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrQRLocationNotFound
	}

	return nil
}

// toQRLocationDomain converts a GORM QRLocationModel to a domain QRLocation entity.
func toQRLocationDomain(data *model.QRLocationModel) *entity.QRLocation {
	if data == nil {
		return nil
	}

	return &entity.QRLocation{
		ID:           data.ID,
		OwnerRole:    entity.Role(data.OwnerRole),
		OwnerID:      data.OwnerID,
		Site:         data.Site,
		Post:         data.Post,
		Latitude:     data.Latitude,
		Longitude:    data.Longitude,
		BoundAddress: data.BoundAddress.ToEntity(),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromQRLocationDomain converts a domain QRLocation entity to a GORM QRLocationModel.
func fromQRLocationDomain(data *entity.QRLocation) *model.QRLocationModel {
	if data == nil {
		return nil
	}

	return &model.QRLocationModel{
		ID:           data.ID,
		OwnerRole:    data.OwnerRole.String(),
		OwnerID:      data.OwnerID,
		Site:         data.Site,
		Post:         data.Post,
		Latitude:     data.Latitude,
		Longitude:    data.Longitude,
		BoundAddress: model.NewAddressJSON(data.BoundAddress),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
