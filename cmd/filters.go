package cmd

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/scparapente/baptctl/filter"
)

func newFiltersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List filter presets and expression helpers",
		Long: `List the filter presets defined in the config file and the variables and
functions available to --filter expressions.

Variables: Places, Bookings, Remaining, Available, Date, Instructors`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			names := a.filters.ListFilters()
			if len(names) == 0 {
				fmt.Fprintln(w, "No presets configured")
			} else {
				table := tablewriter.NewWriter(w)
				table.Header("Preset", "Expression")
				for _, name := range names {
					f, err := a.filters.GetFilter(name)
					if err != nil {
						return err
					}
					_ = table.Append([]string{name, f.Expression()})
				}
				if err := table.Render(); err != nil {
					return err
				}
			}

			if a.cfg.Filter.Default != "" {
				fmt.Fprintf(w, "Default filter: %s\n", a.cfg.Filter.Default)
			}
			fmt.Fprintf(w, "Helpers: %s\n", strings.Join(filter.HelperNames(), ", "))
			return nil
		},
	}
}
