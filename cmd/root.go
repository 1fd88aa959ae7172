package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"workout_progress/internal/config"
	"workout_progress/internal/logging"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logFile  string
	logLevel string

	logger    = logging.Discard()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "workout_progress",
	Short: "Guided workout sessions in the terminal",
	Long: `workout_progress walks you through a workout plan one exercise at a time,
running countdowns for timed exercises and tracking what you completed or skipped.

Plans are looked up in the local plans directory first, then fetched from the
plan store API.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml or $HOME/.config/workout_progress/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write debug logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR")
}

// setup loads the config, publishes it through config.Global and opens the
// log file before any subcommand runs
func setup(cmd *cobra.Command, _ []string) error {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromDefaultPath()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = logFile
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	config.SetGlobal(cfg)

	var l *slog.Logger
	l, logCloser, err = logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	logger = l
	logger.Debug("config loaded", "plans_dir", cfg.PlansDir, "api", cfg.API.BaseURL, "theme", cfg.Theme)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}
