package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/scparapente/baptctl/booking"
	"github.com/scparapente/baptctl/display"
	"github.com/scparapente/baptctl/filter"
)

func newOverviewCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Summarize slots and stages",
		Long:  `Fetch slots and stages concurrently and print totals, availability and the instructors on duty.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateDate(date); err != nil {
				return err
			}

			summary, err := fetchSummary(cmd, a.client, booking.Query{Date: date})
			if err != nil {
				return err
			}

			out, err := a.formatter(cmd)
			if err != nil {
				return err
			}
			return out.Summary(summary)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "only items on this day, YYYY-MM-DD")

	return cmd
}

// fetchSummary lists slots and stages in parallel. The first failure
// cancels the other call.
func fetchSummary(cmd *cobra.Command, client booking.API, q booking.Query) (display.Summary, error) {
	var (
		slots  []booking.Slot
		stages []booking.Stage
	)

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		resp, err := client.ListBaptemeSlots(ctx, q)
		if err != nil {
			return fmt.Errorf("failed to list slots: %w", err)
		}
		slots, err = resp.Result()
		return err
	})

	g.Go(func() error {
		resp, err := client.ListStages(ctx, q)
		if err != nil {
			return fmt.Errorf("failed to list stages: %w", err)
		}
		stages, err = resp.Result()
		return err
	})

	if err := g.Wait(); err != nil {
		return display.Summary{}, err
	}

	availableSlots := filter.Available(slots)
	free := 0
	for _, s := range availableSlots {
		free += filter.Remaining(s)
	}

	instructors := filter.SortedKeys(filter.GroupByInstructor(slots))
	for name := range filter.GroupByInstructor(stages) {
		if !slices.Contains(instructors, name) {
			instructors = append(instructors, name)
		}
	}
	slices.Sort(instructors)

	return display.Summary{
		Slots:           len(slots),
		AvailableSlots:  len(availableSlots),
		FreePlaces:      free,
		Stages:          len(stages),
		AvailableStages: len(filter.Available(stages)),
		Instructors:     instructors,
	}, nil
}
