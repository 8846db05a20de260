package cmd

import (
	"github.com/huangsam/gitpet/schema"
	"github.com/spf13/cobra"
)

// reactCmd records how a message landed.
var reactCmd = &cobra.Command{
	Use:   "react <mood> <reaction>",
	Short: "Tell the pet how a message in a given mood made you feel.",
	Long: `Record a reaction to a message the pet showed, so it learns which tone works for you.

Mood is one of: encouraging, celebrating, excited, thinking, nudging.
Reaction is one of: positive, negative, neutral.`,
	Example: `  gitpet react excited positive
  gitpet react nudging negative`,
	Args:    cobra.ExactArgs(2),
	PreRunE: storeSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		mood, err := schema.ParseMood(args[0])
		if err != nil {
			return err
		}
		reaction, err := schema.ParseReaction(args[1])
		if err != nil {
			return err
		}
		svc := newOrchestrator(rootCtx, newEngine(rootCtx))
		if err := svc.RecordReaction(rootCtx, mood, reaction); err != nil {
			return err
		}
		cmd.Printf("Recorded %s reaction to a %s message.\n", reaction, mood)
		return nil
	},
}
