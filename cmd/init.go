package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/scparapente/baptctl/config"
)

const defaultAPIURL = "http://localhost:3001/api"

func newInitCmd() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file",
		Long: `Write a config file with the API URL and key. On a terminal, missing values
are prompted for and the key is read without echo. Otherwise --url and
--api-key are used, falling back to a placeholder key to edit later.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipInit: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			url, _ := cmd.Flags().GetString("url")
			apiKey, _ := cmd.Flags().GetString("api-key")

			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("failed to locate home directory: %w", err)
				}
				path = filepath.Join(home, ".baptctl", "config.yaml")
			}

			if isatty.IsTerminal(os.Stdin.Fd()) {
				var err error
				in := bufio.NewReader(os.Stdin)
				if url, apiKey, err = promptCredentials(cmd.OutOrStdout(), in, int(os.Stdin.Fd()), url, apiKey); err != nil {
					return err
				}
			}

			if url == "" {
				url = defaultAPIURL
			}
			if apiKey == "" {
				apiKey = config.PlaceholderAPIKey
			}

			if err := config.Write(path, url, apiKey, force); err != nil {
				if !force {
					return fmt.Errorf("%w (use --force to overwrite)", err)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			if apiKey == config.PlaceholderAPIKey {
				fmt.Fprintln(cmd.OutOrStdout(), "Set api.api_key in the file or export BAPTCTL_API_KEY before running commands.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "config file to write (default is $HOME/.baptctl/config.yaml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

// promptCredentials asks for the values not given on the command line.
// Both answers come from the same reader so a pasted URL and key are not
// split across buffers. When fd is a terminal the key is read in raw mode
// and not echoed.
func promptCredentials(w io.Writer, in *bufio.Reader, fd int, url, apiKey string) (string, string, error) {
	if url == "" {
		fmt.Fprintf(w, "API URL [%s]: ", defaultAPIURL)
		line, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", "", fmt.Errorf("failed to read URL: %w", err)
		}
		url = strings.TrimSpace(line)
	}

	if apiKey == "" {
		fmt.Fprint(w, "API key: ")
		key, err := readHidden(in, fd)
		fmt.Fprintln(w)
		if err != nil {
			return "", "", fmt.Errorf("failed to read API key: %w", err)
		}
		apiKey = strings.TrimSpace(key)
	}

	return url, apiKey, nil
}

// readHidden reads one line from in, with echo off when fd is a terminal
func readHidden(in *bufio.Reader, fd int) (string, error) {
	if fd >= 0 && term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return "", err
		}
		defer term.Restore(fd, state)
	}

	var line []byte
	for {
		b, err := in.ReadByte()
		if err == io.EOF {
			return string(line), nil
		}
		if err != nil {
			return "", err
		}

		switch b {
		case '\r', '\n':
			return string(line), nil
		case 0x03: // ctrl-c
			return "", errors.New("interrupted")
		case 0x08, 0x7f: // backspace
			if len(line) > 0 {
				line = line[:len(line)-1]
			}
		default:
			line = append(line, b)
		}
	}
}
