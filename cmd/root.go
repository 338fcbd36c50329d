package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/revenueradar/radar/internal/config"
	"github.com/revenueradar/radar/internal/scorer"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "radar",
	Short:        "Hybrid lead scoring engine",
	Long:         "Scores sales leads with weighted rules plus a bounded AI adjustment, classifies them into tiers, and exports results to Excel or a CRM.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return scorer.ValidateWeights(scorer.DefaultWeights())
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
