package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/gibill-forecast/internal/config"
	"github.com/iwvelando/gibill-forecast/pkg/constants"
	"github.com/iwvelando/gibill-forecast/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	flagConfig       string
	flagLogLevel     string
	flagOutputFormat string
	flagEnvFile      string
)

var rootCmd = &cobra.Command{
	Use:   "gibill-forecast",
	Short: "GI Bill benefit estimator and cashflow forecaster",
	Long: "Estimate monthly housing, book stipend and tuition coverage for a GI Bill\n" +
		"student, then project a month-by-month personal cashflow.",
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvFile,
	RunE:              runForecast,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", constants.DefaultConfigFile,
		"path to scenario file (see "+constants.ExampleConfigFile+" for a template)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&flagOutputFormat, "output-format", "o", "", "type of output override: pretty, csv, table")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file with GIBILL_* overrides")
}

// loadEnvFile exports the dotenv file so viper picks the values up. A missing
// file is not an error.
func loadEnvFile(_ *cobra.Command, _ []string) error {
	if flagEnvFile == "" {
		return nil
	}
	if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", flagEnvFile, err)
	}
	return nil
}

// loadScenario loads the scenario, builds the logger and resolves the output
// format. The caller owns the returned logger.
func loadScenario() (*config.Configuration, *zap.Logger, string, error) {
	conf, err := config.LoadConfiguration(flagConfig)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to load configuration at %s: %w", flagConfig, err)
	}

	logger, err := initializeLogger(conf.Logging, flagLogLevel)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to initialize logger: %w", err)
	}

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if flagOutputFormat != "" {
		outputFormat = flagOutputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		_ = logger.Sync()
		return nil, nil, "", err
	}

	if err := conf.ParseDates(); err != nil {
		_ = logger.Sync()
		return nil, nil, "", fmt.Errorf("failed to parse dates: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	return conf, logger, outputFormat, nil
}
