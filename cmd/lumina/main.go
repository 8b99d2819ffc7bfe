// Package main provides the CLI entry point for lumina.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/lumina-go/internal/config"
	"github.com/ukaji3/lumina-go/internal/logging"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	pretty     bool

	cfg    *config.Config
	logger *zap.Logger
)

// errAdvisoryShown marks a failure whose user-facing message was already
// printed. The underlying error only goes to the log.
var errAdvisoryShown = errors.New("advisory shown")

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// reportError prints err unless an advisory already stands in for it.
func reportError(w io.Writer, err error) {
	if errors.Is(err, errAdvisoryShown) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lumina",
		Short: "Normalize LUMINA assistant replies and build product spec sheets",
		Long: `lumina cleans up assistant replies (portfolio image links, embedded
((json: {...})) product blocks) and turns product data into styled .xlsx
spec sheets. It can also chat with the workflow backend and serve an HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if logFormat != "" {
				cfg.Logging.Format = logFormat
			}
			logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: json, console (overrides config)")

	rootCmd.AddCommand(
		newNormalizeCmd(),
		newSheetCmd(),
		newChatCmd(),
		newInspectCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// readInput reads the named file, or stdin for "-" or no argument.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if os.IsNotExist(err) {
		return "", fmt.Errorf("file not found: %s", args[0])
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
