// Package delivery defines the transports that expose the usecases.
package delivery

import "context"

// Delivery is a long-running transport. Serve blocks until the transport stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
