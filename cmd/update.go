package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// releaseRepository is where release binaries are published
const releaseRepository = "scparapente/baptctl"

func newUpdateCmd() *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:         "update",
		Short:       "Update baptctl to the latest release",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipInit: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := releaseVersion(version)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(releaseRepository))
			if err != nil {
				return fmt.Errorf("failed to detect latest release: %w", err)
			}
			if !found {
				return fmt.Errorf("no release found for %s", releaseRepository)
			}

			if latest.LessOrEqual(current.String()) {
				fmt.Fprintf(cmd.OutOrStdout(), "Already up to date (%s)\n", current)
				return nil
			}

			if checkOnly {
				fmt.Fprintf(cmd.OutOrStdout(), "Update available: %s -> %s\n", current, latest.Version())
				return nil
			}

			exe, err := selfupdate.ExecutablePath()
			if err != nil {
				return fmt.Errorf("failed to locate executable: %w", err)
			}
			if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
				return fmt.Errorf("failed to update binary: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated to %s\n", latest.Version())
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether an update is available")

	return cmd
}

// releaseVersion parses the build version. Development builds cannot be
// updated.
func releaseVersion(v string) (semver.Version, error) {
	parsed, err := semver.ParseTolerant(v)
	if err != nil {
		return semver.Version{}, fmt.Errorf("version %q is not a release build, cannot update", v)
	}
	return parsed, nil
}
