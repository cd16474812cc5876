package main

import (
	"fmt"
	"os"

	"github.com/iwvelando/gibill-forecast/internal/forecast"
	"github.com/iwvelando/gibill-forecast/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Print the benefit estimate for the scenario's term",
	RunE:  runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(_ *cobra.Command, _ []string) error {
	conf, logger, _, err := loadScenario()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	result, err := forecast.Estimate(logger, conf)
	if err != nil {
		logger.Error("failed to compute estimate",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return fmt.Errorf("failed to compute estimate: %w", err)
	}

	output.EstimateText(os.Stdout, result.Profile, result.Estimate)
	return nil
}
