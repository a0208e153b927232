package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scparapente/baptctl/booking"
)

func newStagesCmd(a *app) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "stages",
		Short: "List multi-day courses",
		Long: `List multi-day courses ("stages"). --instructor and --date are sent to
the server; --available, --filter and --preset are applied locally.

Examples:
  baptctl stages --available
  baptctl stages -f 'Places - Bookings >= 3' -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.query()
			if err != nil {
				return err
			}

			a.logger.Debug().Str("instructor", q.InstructorID).Str("date", q.Date).Msg("Fetching stages")

			out, err := a.formatter(cmd)
			if err != nil {
				return err
			}

			resp, err := a.client.ListStages(cmd.Context(), q)
			if err != nil {
				if body, ok := booking.UndecodedBody(err); ok && opts.raw {
					return out.Raw(body)
				}
				return fmt.Errorf("failed to list stages: %w", err)
			}
			if opts.raw {
				return out.Raw(resp.Raw)
			}

			stages, err := resp.Result()
			if err != nil {
				return err
			}

			stages, err = selectItems(a, opts, stages)
			if err != nil {
				return err
			}
			return out.Stages(stages)
		},
	}

	opts.register(cmd)

	return cmd
}
