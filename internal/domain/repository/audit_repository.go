package repository

import (
	"context"

	"guardpost/internal/domain/entity"
)

// AuditRepository defines the operations for the append-only audit trail of
// privileged actions.
type AuditRepository interface {
	// Append persists a new audit entry.
	Append(ctx context.Context, entry *entity.AuditEntry) error
}
