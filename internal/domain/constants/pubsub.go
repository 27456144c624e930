// Package constants holds shared configuration values.
package constants

// Supported pubsub provider names.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)
