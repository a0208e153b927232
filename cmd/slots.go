package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scparapente/baptctl/booking"
	"github.com/scparapente/baptctl/filter"
)

// listOptions are the flags shared by the slots and stages commands
type listOptions struct {
	instructor string
	date       string
	available  bool
	expression string
	preset     string
	raw        bool
}

func (o *listOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.instructor, "instructor", "", "only items of this instructor id (server-side)")
	cmd.Flags().StringVar(&o.date, "date", "", "only items on this day, YYYY-MM-DD (server-side)")
	cmd.Flags().BoolVar(&o.available, "available", false, "only items with free places")
	cmd.Flags().StringVarP(&o.expression, "filter", "f", "", "filter expression")
	cmd.Flags().StringVarP(&o.preset, "preset", "p", "", "use a preset filter from config")
	cmd.Flags().BoolVar(&o.raw, "raw", false, "print the response body untouched")
}

func (o *listOptions) query() (booking.Query, error) {
	if err := validateDate(o.date); err != nil {
		return booking.Query{}, err
	}
	return booking.Query{InstructorID: o.instructor, Date: o.date}, nil
}

// selectItems applies --available and the resolved filter expression
func selectItems[T filter.Bookable](a *app, o *listOptions, items []T) ([]T, error) {
	if o.available {
		items = filter.Available(items)
	}

	f, err := a.resolveFilter(o.expression, o.preset)
	if err != nil {
		return nil, err
	}
	if f != nil {
		items = filter.Apply(f, items)
	}
	return items, nil
}

func newSlotsCmd(a *app) *cobra.Command {
	opts := &listOptions{}
	var groupByInstructor bool

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List tandem flight slots",
		Long: `List tandem flight slots ("biplaces"). --instructor and --date are sent to
the server; --available, --filter and --preset are applied locally.

Examples:
  baptctl slots --date 2024-06-15
  baptctl slots --available --group-by-instructor
  baptctl slots -f 'hasInstructor("Alice") and Remaining >= 2'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.query()
			if err != nil {
				return err
			}

			a.logger.Debug().Str("instructor", q.InstructorID).Str("date", q.Date).Msg("Fetching slots")

			out, err := a.formatter(cmd)
			if err != nil {
				return err
			}

			resp, err := a.client.ListBaptemeSlots(cmd.Context(), q)
			if err != nil {
				if body, ok := booking.UndecodedBody(err); ok && opts.raw {
					return out.Raw(body)
				}
				return fmt.Errorf("failed to list slots: %w", err)
			}
			if opts.raw {
				return out.Raw(resp.Raw)
			}

			slots, err := resp.Result()
			if err != nil {
				return err
			}

			slots, err = selectItems(a, opts, slots)
			if err != nil {
				return err
			}

			if groupByInstructor {
				return out.Groups(filter.GroupByInstructor(slots))
			}
			return out.Slots(slots)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&groupByInstructor, "group-by-instructor", false, "group slots by instructor name")

	return cmd
}
