// Command surveyprep cleans survey extracts into model-ready tables.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"surveyprep/internal/config"
	"surveyprep/internal/infrastructure"
)

// app holds what the commands share once the root command has loaded config
type app struct {
	cfgFile   string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Survey extract cleaning and feature engineering",
		Long: `surveyprep turns raw demographic survey extracts into model-ready numeric
tables: sentinel codes become gaps, sparse and flagged columns are dropped,
legacy attributes are recoded, gaps are imputed, categorical columns are
one-hot encoded and numeric columns are min-max scaled.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.initConfig,
		PersistentPostRunE: a.close,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: surveyprep.yaml or configs/surveyprep.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (console, json)")

	root.AddCommand(transformCmd(a))
	root.AddCommand(buildReferenceCmd(a))
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads the layered config, applies the global flags and starts
// the logger
func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	a.cfg = cfg
	a.logger = infrastructure.WithComponent(logger, cmd.Name())
	return nil
}

func (a *app) close(_ *cobra.Command, _ []string) error {
	return infrastructure.CloseLogFile()
}
