package cmd

import (
	"time"

	"github.com/huangsam/gitpet/internal/outwriter"
	"github.com/huangsam/gitpet/schema"
	"github.com/spf13/cobra"
)

// insightsCmd shows what the pet has learned so far.
var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show the patterns the pet has learned about you.",
	Long: `Display the learned insights: your most productive hours, the sprint length
that works best, the message tone you prefer and your productivity trend.

Each insight comes with a confidence. Predictions are only shown once their
confidence is high enough to act on.`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		engine := newEngine(rootCtx)
		insights, confidence := engine.Insights(rootCtx)
		report := schema.InsightsReport{
			Insights:    insights,
			Confidence:  confidence,
			Predictions: engine.GeneratePredictions(rootCtx, time.Now()),
			Counts:      engine.Counts(rootCtx),
		}
		return outwriter.NewOutWriter().WriteInsights(report, cfg)
	},
}
