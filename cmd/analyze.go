package cmd

import (
	"github.com/huangsam/gitpet/internal/outwriter"
	"github.com/spf13/cobra"
)

// analyzeCmd asks the pet for feedback on a repository.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [scope]",
	Short: "Read recent commits and get the pet's feedback.",
	Long: `Fetch the recent commit history of a repository, classify your commit habits
and print the pet's message, mood and the metrics behind it.

Scope is owner/repo for the github source. For the local source it is a path
inside a checkout. Without a scope, the current directory is used: its origin
remote for github, its repository root for local.

Once enough sprints and reactions are recorded, the advice is personalized.`,
	Example: `  gitpet analyze huangsam/gitpet
  gitpet analyze --source local .
  gitpet analyze --output json --output-file decision.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		svc := newOrchestrator(rootCtx, newEngine(rootCtx))
		d := svc.Analyze(rootCtx, cfg.Scope)
		return outwriter.NewOutWriter().WriteDecision(d, cfg)
	},
}
