package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	logLevel     string
	pretty       bool
	showProgress bool

	rootCmd = &cobra.Command{
		Use:   "focops",
		Short: "Collect on-policy batches for constrained policy optimization",
		Long: `focops collects fixed-size batches of on-policy experience with
reward and cost advantages estimated by GAE. Observations are augmented
with the most recent actions taken to model actuation delay.`,
		SilenceUsage: true,
	}

	collectCmd = &cobra.Command{
		Use:   "collect",
		Short: "Run collection iterations on a pendulum task",
		Args:  cobra.NoArgs,
		RunE:  runCollect,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false,
		"Log human readable output instead of JSON")

	collectCmd.Flags().StringVarP(&configPath, "config", "c", "focops.yaml",
		"Path to the YAML experiment configuration")
	collectCmd.Flags().BoolVar(&showProgress, "progress", false,
		"Print a progress bar over collection iterations")
	rootCmd.AddCommand(collectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger returns the logger described by the persistent flags
func newLogger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return zerolog.Nop(), err
	}

	var logger zerolog.Logger
	if pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}

func runCollect(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	config, err := loadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("config", configPath).
			Msg("Could not load configuration")
		return err
	}
	logger.Info().Str("config", configPath).Msg("Configuration loaded")

	var progress io.Writer
	if showProgress {
		progress = os.Stdout
	}
	if err := run(config, logger, progress); err != nil {
		logger.Error().Err(err).Msg("Collection failed")
		return err
	}
	return nil
}
