package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scparapente/baptctl/booking"
	"github.com/scparapente/baptctl/display"
	"github.com/scparapente/baptctl/filter"
)

// demoDate is the fixed day queried by the basic usage flow
const demoDate = "2024-06-15"

func newDemoCmd(a *app) *cobra.Command {
	var skipCreate bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the API usage examples",
		Long: `Run three example flows against the configured API: basic usage,
success/failure handling, and client-side filtering with grouping by
instructor.

The basic flow creates a customer record. Use --skip-create when pointing
at a production API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout(), a.client, skipCreate)
		},
	}

	cmd.Flags().BoolVar(&skipCreate, "skip-create", false, "do not create the example customer")

	return cmd
}

// demoCustomer is the record created by the basic usage flow
func demoCustomer() booking.Customer {
	return booking.Customer{
		FirstName:  "Pierre",
		LastName:   "Dubois",
		Email:      "pierre.dubois@email.com",
		Phone:      "+33123456789",
		Address:    "789 Route de la Montagne",
		PostalCode: "05240",
		City:       "La Salle-les-Alpes",
		Country:    "France",
		Height:     180,
		Weight:     75,
	}
}

// runDemo runs the three flows in order. A failing flow prints its error
// and the next one still runs.
func runDemo(ctx context.Context, w io.Writer, client booking.API, skipCreate bool) error {
	separator := "\n" + strings.Repeat("=", 60) + "\n"

	fmt.Fprintln(w, "=== Booking API usage examples ===")
	fmt.Fprintln(w)

	if err := demoBasicUsage(ctx, w, client, skipCreate); err != nil {
		fmt.Fprintf(w, "Error in examples: %v\n", err)
	}

	fmt.Fprintln(w, separator)
	demoErrorHandling(ctx, w, client)

	fmt.Fprintln(w, separator)
	demoAdvancedFiltering(ctx, w, client)

	return nil
}

// demoBasicUsage stops at the first failure
func demoBasicUsage(ctx context.Context, w io.Writer, client booking.API, skipCreate bool) error {
	pretty := display.New(display.FormatJSON, w)

	fmt.Fprintln(w, "=== Fetching tandem flight slots ===")
	slots, err := client.ListBaptemeSlots(ctx, booking.Query{})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Available slots:")
	if err := pretty.Raw(slots.Raw); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n=== Slots on %s ===\n", demoDate)
	slotsForDate, err := client.ListBaptemeSlots(ctx, booking.Query{Date: demoDate})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Slots on %s:\n", demoDate)
	if err := pretty.Raw(slotsForDate.Raw); err != nil {
		return err
	}

	if !skipCreate {
		fmt.Fprintln(w, "\n=== Creating a new customer ===")
		created, err := client.CreateCustomer(ctx, demoCustomer())
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "Customer created:")
		if err := pretty.Raw(created.Raw); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "\n=== Fetching stages ===")
	stages, err := client.ListStages(ctx, booking.Query{})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Available stages:")
	return pretty.Raw(stages.Raw)
}

// demoErrorHandling branches on the success flag of the response
func demoErrorHandling(ctx context.Context, w io.Writer, client booking.API) {
	resp, err := client.ListBaptemeSlots(ctx, booking.Query{})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	slots, err := resp.Result()
	var failure *booking.APIFailureError
	switch {
	case errors.As(err, &failure):
		fmt.Fprintf(w, "API error: %s\n", failure.Message)
	case err != nil:
		fmt.Fprintf(w, "Error: %v\n", err)
	default:
		fmt.Fprintf(w, "Data retrieved successfully: %d slots\n", len(slots))
		if err := display.New(display.FormatJSON, w).Slots(slots); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	}
}

// demoAdvancedFiltering keeps slots with free places and groups them by
// instructor
func demoAdvancedFiltering(ctx context.Context, w io.Writer, client booking.API) {
	resp, err := client.ListBaptemeSlots(ctx, booking.Query{})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	slots, err := resp.Result()
	if err != nil || len(slots) == 0 {
		return
	}

	available := filter.Available(slots)
	fmt.Fprintf(w, "Slots with free places: %d\n", len(available))

	groups := filter.GroupByInstructor(available)
	fmt.Fprintln(w, "Slots by instructor:")
	for _, name := range filter.SortedKeys(groups) {
		fmt.Fprintf(w, "  %s: %d slots\n", name, len(groups[name]))
	}
}
