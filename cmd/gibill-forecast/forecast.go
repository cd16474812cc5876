package main

import (
	"fmt"
	"os"

	"github.com/iwvelando/gibill-forecast/internal/forecast"
	"github.com/iwvelando/gibill-forecast/pkg/constants"
	"github.com/iwvelando/gibill-forecast/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Estimate benefits and project the monthly cashflow (default)",
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
	conf, logger, outputFormat, err := loadScenario()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	result, err := forecast.GetForecast(logger, conf)
	if err != nil {
		logger.Error("failed to compute forecast",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return fmt.Errorf("failed to compute forecast: %w", err)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, result)
	case constants.OutputFormatCSV:
		output.CsvFormat(os.Stdout, result)
	case constants.OutputFormatTable:
		output.TableFormat(os.Stdout, result)
	}
	return nil
}
