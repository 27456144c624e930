// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"guardpost/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is a domain-specific error returned when no account
// matches the given selector or id.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence
// across the three role collections. The application layer depends on this
// interface, not the concrete implementation.
type AccountRepository interface {
	// FindByID retrieves a single account by id within one collection.
	FindByID(ctx context.Context, collection entity.Collection, id uuid.UUID) (*entity.Account, error)

	// FindBySelector retrieves a single account whose id, email, or phone
	// equals the selector, within one collection.
	FindBySelector(ctx context.Context, collection entity.Collection, selector string) (*entity.Account, error)

	// Search retrieves accounts in one collection whose name, email, or
	// phone contains the query as a case-insensitive substring, optionally
	// restricted to one area state. An empty query matches every account
	// in the collection. Super-admin rows are never returned from the
	// admins collection.
	Search(ctx context.Context, collection entity.Collection, query, state string) ([]*entity.Account, error)

	// UpdatePassword replaces the stored credential hash of one account.
	UpdatePassword(ctx context.Context, collection entity.Collection, id uuid.UUID, passwordHash string) error
}
