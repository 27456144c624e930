// Package delivery defines the contract shared by all transports.
package delivery

import "context"

// Delivery is implemented by every transport the application can serve
// traffic on. Serve blocks until the transport stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}
