package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/scparapente/baptctl/booking"
	"github.com/scparapente/baptctl/config"
	"github.com/scparapente/baptctl/display"
	"github.com/scparapente/baptctl/filter"
)

// skipInit marks commands that run without a config or API client
const skipInit = "skip-init"

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion sets the version reported by the version command
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// app holds the state shared by commands once initializeApp has run
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  booking.API
	filters *filter.Manager
}

// Execute builds the command tree and runs it. Errors go to stderr and
// exit with status 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// newRootCmd represents the base command
func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "baptctl",
		Short: "Query paragliding slots and courses and register customers",
		Long: `baptctl is a CLI for the public booking API of a paragliding school.
It lists tandem flight slots ("biplaces") and multi-day courses ("stages"),
filters and groups them by instructor, and registers new customers.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initializeApp,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.baptctl/config.yaml)")
	flags.String("url", "", "API base URL (overrides api.url)")
	flags.String("api-key", "", "API key (overrides api.api_key)")
	flags.StringP("output", "o", "table", "output format (table, json, yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newSlotsCmd(a),
		newStagesCmd(a),
		newCustomerCmd(a),
		newOverviewCmd(a),
		newDemoCmd(a),
		newFiltersCmd(a),
		newInitCmd(),
		newSandboxCmd(),
		newUpdateCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// initializeApp loads the configuration and creates the API client
func (a *app) initializeApp(cmd *cobra.Command, args []string) error {
	if _, ok := cmd.Annotations[skipInit]; ok {
		return nil
	}

	// Load configuration
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	// Setup logger
	a.logger = setupLogger(cfg.Logging, cmd.ErrOrStderr())
	if cfg.File != "" {
		a.logger.Debug().Str("file", cfg.File).Msg("Loaded configuration")
	} else {
		a.logger.Debug().Msg("No config file found, using environment")
	}

	// Register filter presets
	a.filters = filter.NewManager()
	if err := a.filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	// Create API client
	client, err := booking.NewClient(cfg.API.URL, cfg.API.APIKey, a.logger,
		booking.WithTimeout(cfg.API.Timeout),
		booking.WithUserAgent("baptctl/"+version),
	)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}
	a.client = client

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	// Console format, colored only on a terminal
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(out),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// formatter returns a display formatter for the configured output format
func (a *app) formatter(cmd *cobra.Command) (*display.Formatter, error) {
	format, err := display.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return display.New(format, cmd.OutOrStdout()), nil
}

// resolveFilter picks the client-side filter to apply.
// Priority: --filter > --preset > filter.default > none.
func (a *app) resolveFilter(expression, preset string) (filter.Filter, error) {
	switch {
	case expression != "":
		f, err := a.filters.Compile(expression)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
		return f, nil
	case preset != "":
		return a.filters.GetFilter(preset)
	case a.cfg.Filter.Default != "":
		f, err := a.filters.Compile(a.cfg.Filter.Default)
		if err != nil {
			return nil, fmt.Errorf("invalid default filter: %w", err)
		}
		return f, nil
	}
	return nil, nil
}

// dateLayout is the format accepted by --date
const dateLayout = "2006-01-02"

func validateDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return nil
}
