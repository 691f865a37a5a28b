// Package delivery defines the contract every transport front end satisfies.
package delivery

import "context"

// Delivery is a running transport (HTTP server, worker, etc.) managed by the
// application lifecycle.
type Delivery interface {
	// Serve blocks until the delivery stops or fails.
	Serve(ctx context.Context) error
}
