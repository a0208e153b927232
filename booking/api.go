package booking

import (
	"context"
)

// API defines the interface for booking API operations
type API interface {
	// ListBaptemeSlots retrieves tandem flight slots, optionally filtered
	ListBaptemeSlots(ctx context.Context, q Query) (*Response[[]Slot], error)

	// CreateCustomer registers a new customer
	CreateCustomer(ctx context.Context, customer Customer) (*Response[CustomerRecord], error)

	// ListStages retrieves course sessions, optionally filtered
	ListStages(ctx context.Context, q Query) (*Response[[]Stage], error)
}

var _ API = (*Client)(nil)
