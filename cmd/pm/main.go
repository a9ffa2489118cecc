// Package main is the entry point for the pm CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jacksmith/pm/internal/cli"
	"github.com/jacksmith/pm/internal/logger"
	"github.com/jacksmith/pm/internal/ops"
	"github.com/jacksmith/pm/internal/storage"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pm",
	Short: "pm - a product manager backed by a JSON file",
	Long: `pm keeps a catalogue of products in a single JSON file.

Every command reads the whole file and, when it changes something,
writes the whole file back. A missing file is an empty catalogue.

Products have a title, description, price, thumbnail, unique code and
stock. IDs are assigned by pm when a product is added.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if rootNoColor {
			cli.SetColorEnabled(false)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var (
	rootFile    string
	rootConfig  string
	rootVerbose bool
	rootNoColor bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFile, "file", "f", "", "products file (default from config, else products.json)")
	rootCmd.PersistentFlags().StringVar(&rootConfig, "config", storage.ConfigFile, "config file")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&rootNoColor, "no-color", false, "disable coloured output")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("pm version {{.Version}}\n")
}

// session bundles what a command needs to talk to the products file.
type session struct {
	cfg   *storage.Config
	log   *zap.Logger
	store *ops.ProductStore
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*storage.Config, error) {
	cfg, err := storage.LoadConfig(rootConfig)
	if err != nil {
		return nil, err
	}
	if rootFile != "" {
		cfg.File = rootFile
	}
	if rootVerbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogEnv, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:   cfg,
		log:   log,
		store: ops.Open(cfg.File, ops.WithLogger(log)),
	}, nil
}

// commandContext returns the command's context, or Background when the
// command is run directly (as in tests).
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
