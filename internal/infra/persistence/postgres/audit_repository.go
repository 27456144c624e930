package postgres

import (
	"context"

	"guardpost/internal/domain/entity"
	domainerrors "guardpost/internal/domain/errors"
	"guardpost/internal/domain/repository"
	"guardpost/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// auditRepository implements the repository.AuditRepository interface.
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository is the constructor for auditRepository.
func NewAuditRepository(db *gorm.DB) repository.AuditRepository {
	return &auditRepository{
		db: db,
	}
}

// Append persists a new audit entry.
func (repo *auditRepository) Append(ctx context.Context, entry *entity.AuditEntry) error {
	entryM := &model.AuditEntryModel{
		ID:                entry.ID,
		ActorRole:         entry.ActorRole.String(),
		ActorID:           entry.ActorID,
		Action:            entry.Action,
		SubjectCollection: entry.SubjectCollection.String(),
		SubjectID:         entry.SubjectID,
		Decision:          entry.Decision,
		Reason:            entry.Reason,
		CreatedAt:         entry.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).Create(entryM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to append audit entry")
	}

	entry.ID = entryM.ID

	return nil
}
