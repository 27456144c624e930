package postgres

import (
	"context"
	"time"

	"guardpost/internal/domain/entity"
	"guardpost/internal/domain/repository"
	"guardpost/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements the repository.AccountRepository interface
// over the three per-collection tables.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{
		db: db,
	}
}

// FindByID retrieves a single account by id within one collection.
func (repo *accountRepository) FindByID(ctx context.Context, collection entity.Collection, id uuid.UUID) (*entity.Account, error) {
	return repo.findOne(ctx, collection, "id = ?", id)
}

// FindBySelector retrieves a single account whose id, email, or phone
// equals the selector.
func (repo *accountRepository) FindBySelector(ctx context.Context, collection entity.Collection, selector string) (*entity.Account, error) {
	if id, err := uuid.Parse(selector); err == nil {
		return repo.findOne(ctx, collection, "id = ?", id)
	}

	return repo.findOne(ctx, collection, "email = ? OR phone = ?", selector, selector)
}

// Search retrieves accounts matching the query substring and optional state
// filter. Super-admin rows never leave the admins table through this path.
func (repo *accountRepository) Search(ctx context.Context, collection entity.Collection, query, state string) ([]*entity.Account, error) {
	tx := repo.db.WithContext(ctx).Order("created_at DESC")

	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
	}
	if state != "" {
		tx = tx.Where("LOWER(area_state) = LOWER(?)", state)
	}

	switch collection {
	case entity.CollectionAdmins:
		var rows []*model.AdminModel
		if err := tx.Where("role <> ?", entity.RoleSuperAdmin.String()).Find(&rows).Error; err != nil {
			return nil, errors.Wrap(err, "failed to search admins")
		}

		accounts := make([]*entity.Account, 0, len(rows))
		for _, row := range rows {
			accounts = append(accounts, toAdminDomain(row))
		}

		return accounts, nil
	case entity.CollectionSupervisors:
		var rows []*model.SupervisorModel
		if err := tx.Find(&rows).Error; err != nil {
			return nil, errors.Wrap(err, "failed to search supervisors")
		}

		accounts := make([]*entity.Account, 0, len(rows))
		for _, row := range rows {
			accounts = append(accounts, toSupervisorDomain(row))
		}

		return accounts, nil
	case entity.CollectionGuards:
		var rows []*model.GuardModel
		if err := tx.Find(&rows).Error; err != nil {
			return nil, errors.Wrap(err, "failed to search guards")
		}

		accounts := make([]*entity.Account, 0, len(rows))
		for _, row := range rows {
			accounts = append(accounts, toGuardDomain(row))
		}

		return accounts, nil
	default:
		return nil, errors.Errorf("unknown collection %q", collection)
	}
}

// UpdatePassword replaces the stored credential hash of one account.
func (repo *accountRepository) UpdatePassword(ctx context.Context, collection entity.Collection, id uuid.UUID, passwordHash string) error {
	m, err := modelForCollection(collection)
	if err != nil {
		return err
	}

	result := repo.db.WithContext(ctx).
		Model(m).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update password")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

func (repo *accountRepository) findOne(ctx context.Context, collection entity.Collection, query string, args ...any) (*entity.Account, error) {
	tx := repo.db.WithContext(ctx).Where(query, args...)

	switch collection {
	case entity.CollectionAdmins:
		var row model.AdminModel
		if err := tx.First(&row).Error; err != nil {
			return nil, mapFindError(err, "admin")
		}

		return toAdminDomain(&row), nil
	case entity.CollectionSupervisors:
		var row model.SupervisorModel
		if err := tx.First(&row).Error; err != nil {
			return nil, mapFindError(err, "supervisor")
		}

		return toSupervisorDomain(&row), nil
	case entity.CollectionGuards:
		var row model.GuardModel
		if err := tx.First(&row).Error; err != nil {
			return nil, mapFindError(err, "guard")
		}

		return toGuardDomain(&row), nil
	default:
		return nil, errors.Errorf("unknown collection %q", collection)
	}
}

func mapFindError(err error, kind string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrAccountNotFound
	}

	return errors.Wrapf(err, "failed to find %s", kind)
}

func modelForCollection(collection entity.Collection) (any, error) {
	switch collection {
	case entity.CollectionAdmins:
		return &model.AdminModel{}, nil
	case entity.CollectionSupervisors:
		return &model.SupervisorModel{}, nil
	case entity.CollectionGuards:
		return &model.GuardModel{}, nil
	default:
		return nil, errors.Errorf("unknown collection %q", collection)
	}
}

// toAdminDomain converts a GORM AdminModel to a domain Account entity.
func toAdminDomain(data *model.AdminModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:           data.ID,
		Name:         data.Name,
		Email:        data.Email,
		Phone:        data.Phone,
		Role:         entity.Role(data.Role),
		AreaState:    data.AreaState,
		IsActive:     data.IsActive,
		PasswordHash: data.PasswordHash,
		LastLogin:    data.LastLogin,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// toSupervisorDomain converts a GORM SupervisorModel to a domain Account entity.
func toSupervisorDomain(data *model.SupervisorModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:           data.ID,
		Name:         data.Name,
		Email:        data.Email,
		Phone:        data.Phone,
		Role:         entity.RoleSupervisor,
		AreaState:    data.AreaState,
		IsActive:     data.IsActive,
		PasswordHash: data.PasswordHash,
		LastLogin:    data.LastLogin,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
		Supervisor: &entity.SupervisorProfile{
			Code: data.Code,
		},
	}
}

// toGuardDomain converts a GORM GuardModel to a domain Account entity.
func toGuardDomain(data *model.GuardModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:           data.ID,
		Name:         data.Name,
		Email:        data.Email,
		Phone:        data.Phone,
		Role:         entity.RoleGuard,
		AreaState:    data.AreaState,
		IsActive:     data.IsActive,
		PasswordHash: data.PasswordHash,
		LastLogin:    data.LastLogin,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
		Guard: &entity.GuardProfile{
			EmployeeCode: data.EmployeeCode,
			SupervisorID: data.SupervisorID,
		},
	}
}
