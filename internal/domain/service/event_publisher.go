package service

import (
	"context"
)

// ScanRecordedEvent is published after a scan event is persisted so that
// downstream consumers (dashboards, alerting) can react asynchronously.
type ScanRecordedEvent struct {
	RequestID     string  `json:"request_id,omitempty"` // For distributed tracing
	EventID       string  `json:"event_id"`
	QRID          string  `json:"qr_id"`
	Site          string  `json:"site"`
	Post          string  `json:"post"`
	ScannedByID   string  `json:"scanned_by_id"`
	ScannedByRole string  `json:"scanned_by_role"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	DistanceM     float64 `json:"distance_m"`
	ScannedAt     string  `json:"scanned_at"`
}

// EventPublisher defines the interface for publishing events to a message queue.
type EventPublisher interface {
	// PublishScanRecorded publishes a scan event for async processing.
	PublishScanRecorded(ctx context.Context, event *ScanRecordedEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
