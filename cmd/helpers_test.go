package cmd

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/scparapente/baptctl/booking"
	"github.com/scparapente/baptctl/sandbox"
)

func newTestServer(t *testing.T, fake *sandbox.Server) string {
	t.Helper()
	server := httptest.NewServer(fake.Handler())
	t.Cleanup(server.Close)
	return server.URL
}

// stubAPI returns canned responses
type stubAPI struct {
	slots    *booking.Response[[]booking.Slot]
	stages   *booking.Response[[]booking.Stage]
	customer *booking.Response[booking.CustomerRecord]
	err      error
}

func (s *stubAPI) ListBaptemeSlots(ctx context.Context, q booking.Query) (*booking.Response[[]booking.Slot], error) {
	if s.slots == nil {
		return &booking.Response[[]booking.Slot]{Success: true}, s.err
	}
	return s.slots, s.err
}

func (s *stubAPI) CreateCustomer(ctx context.Context, c booking.Customer) (*booking.Response[booking.CustomerRecord], error) {
	if s.customer == nil {
		return &booking.Response[booking.CustomerRecord]{Success: true}, s.err
	}
	return s.customer, s.err
}

func (s *stubAPI) ListStages(ctx context.Context, q booking.Query) (*booking.Response[[]booking.Stage], error) {
	if s.stages == nil {
		return &booking.Response[[]booking.Stage]{Success: true}, s.err
	}
	return s.stages, s.err
}
