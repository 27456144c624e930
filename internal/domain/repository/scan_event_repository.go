package repository

import (
	"context"

	"guardpost/internal/domain/entity"

	"github.com/google/uuid"
)

// ScanEventRepository defines the operations for the append-only attendance
// ledger. Events are never updated or deleted.
type ScanEventRepository interface {
	// Append persists a new scan event.
	Append(ctx context.Context, event *entity.ScanEvent) error

	// ListByScanner retrieves the events recorded by one scanner, newest
	// first, skipping offset rows and capped at limit. A non-positive
	// limit applies the implementation default.
	ListByScanner(ctx context.Context, scannerID uuid.UUID, limit, offset int) ([]*entity.ScanEvent, error)
}
