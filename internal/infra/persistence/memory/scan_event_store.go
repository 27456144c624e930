package memory

import (
	"context"
	"sort"
	"sync"

	"guardpost/internal/domain/entity"

	"github.com/google/uuid"
)

const defaultScanListLimit = 50

// ScanEventStore is an in-memory repository.ScanEventRepository.
type ScanEventStore struct {
	mu     sync.RWMutex
	events []*entity.ScanEvent
}

// NewScanEventStore creates an empty scan event store.
func NewScanEventStore() *ScanEventStore {
	return &ScanEventStore{}
}

// Append persists a new scan event.
func (s *ScanEventStore) Append(_ context.Context, event *entity.ScanEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, cloneScanEvent(event))

	return nil
}

// ListByScanner retrieves one scanner's events, newest first.
func (s *ScanEventStore) ListByScanner(_ context.Context, scannerID uuid.UUID, limit, offset int) ([]*entity.ScanEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = defaultScanListLimit
	}
	if offset < 0 {
		offset = 0
	}

	matched := make([]*entity.ScanEvent, 0)
	for _, event := range s.events {
		if event.ScannedByID == scannerID {
			matched = append(matched, event)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ScannedAt.After(matched[j].ScannedAt)
	})

	if offset >= len(matched) {
		return []*entity.ScanEvent{}, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}

	results := make([]*entity.ScanEvent, 0, len(matched))
	for _, event := range matched {
		results = append(results, cloneScanEvent(event))
	}

	return results, nil
}

// Len reports the number of stored events.
func (s *ScanEventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.events)
}

func cloneScanEvent(event *entity.ScanEvent) *entity.ScanEvent {
	cloned := *event
	cloned.ResolvedAddress = cloneAddress(event.ResolvedAddress)

	return &cloned
}
