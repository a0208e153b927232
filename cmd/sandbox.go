package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/scparapente/baptctl/config"
	"github.com/scparapente/baptctl/sandbox"
)

func newSandboxCmd() *cobra.Command {
	var (
		listen string
		apiKey string
	)

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Serve a local fake of the booking API",
		Long: `Serve an in-memory fake of the booking API with sample slots, stages and
instructors. Point --url at it to try commands without touching real data:

  baptctl sandbox --listen 127.0.0.1:3001 --key dev-key
  baptctl slots --url http://127.0.0.1:3001 --api-key dev-key`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipInit: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLoggerFromFlags(cmd)

			srv := &http.Server{
				Addr:         listen,
				Handler:      sandbox.New(apiKey).Handler(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", listen).Msg("Sandbox listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err, ok := <-errCh:
				if ok {
					return fmt.Errorf("sandbox server: %w", err)
				}
				return nil
			case <-cmd.Context().Done():
			}

			logger.Info().Msg("Shutting down sandbox")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:3001", "address to listen on")
	cmd.Flags().StringVar(&apiKey, "key", "dev-key", "API key the sandbox accepts")

	return cmd
}

// setupLoggerFromFlags builds a console logger for commands that skip
// config loading
func setupLoggerFromFlags(cmd *cobra.Command) zerolog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return setupLogger(config.LoggingConfig{Level: level, Format: "console", Color: true}, cmd.ErrOrStderr())
}
