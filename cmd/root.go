package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luxe-atelier/crm-insight/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "crm-insight",
	Short: "Lead scoring and sales forecasting for luxury watch sales",
	Long:  "Deterministic CRM analytics: scores leads from conversation history, forecasts pipeline revenue, and recommends follow-up actions.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
