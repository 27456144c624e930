package memory

import (
	"context"
	"sync"

	"guardpost/internal/domain/entity"
)

// AuditStore is an in-memory repository.AuditRepository.
type AuditStore struct {
	mu      sync.RWMutex
	entries []*entity.AuditEntry
}

// NewAuditStore creates an empty audit store.
func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

// Append persists a new audit entry.
func (s *AuditStore) Append(_ context.Context, entry *entity.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cloned := *entry
	s.entries = append(s.entries, &cloned)

	return nil
}

// Entries returns a snapshot of the recorded trail in append order.
func (s *AuditStore) Entries() []*entity.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]*entity.AuditEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		cloned := *entry
		snapshot = append(snapshot, &cloned)
	}

	return snapshot
}
