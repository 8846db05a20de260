package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/huangsam/gitpet/core/learn"
	"github.com/huangsam/gitpet/core/sprint"
	"github.com/spf13/cobra"
)

// sprintCmd runs a focus sprint in the foreground.
var sprintCmd = &cobra.Command{
	Use:   "sprint [minutes]",
	Short: "Run a focus sprint and record how it went.",
	Long: `Start a countdown for a focus sprint. Finishing the countdown records a
successful sprint. Interrupting it with Ctrl-C records a failed one.

Without minutes, the learned sprint length is used once the pet is confident
about it, otherwise a short default sprint.`,
	Example: `  gitpet sprint
  gitpet sprint 25`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: storeSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := newEngine(rootCtx)
		minutes, err := sprintMinutes(args, func() *int {
			return engine.GeneratePredictions(rootCtx, time.Now()).RecommendedSprintDuration
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		timer := sprint.NewTimer(engine, logger)
		out, err := timer.Start(ctx, minutes, func(remaining time.Duration) {
			_, _ = fmt.Fprintf(os.Stderr, "\r⏳ %s remaining ", remaining.Round(time.Second))
		})
		if err != nil {
			return err
		}
		cmd.Printf("Sprint started: %d minutes. Press Ctrl-C to give up.\n", minutes)

		outcome := <-out
		_, _ = fmt.Fprintln(os.Stderr)
		if outcome.Success {
			cmd.Printf("Sprint complete! Recorded a successful %d-minute sprint.\n", outcome.DurationMinutes)
		} else {
			cmd.Printf("Sprint stopped. Recorded a failed %d-minute sprint.\n", outcome.DurationMinutes)
		}
		return nil
	},
}

// sprintMinutes parses the explicit length or falls back to the recommendation.
func sprintMinutes(args []string, recommended func() *int) (int, error) {
	if len(args) == 1 {
		minutes, err := strconv.Atoi(args[0])
		if err != nil || minutes <= 0 {
			return 0, fmt.Errorf("invalid sprint length %q: must be a positive number of minutes", args[0])
		}
		return minutes, nil
	}
	if r := recommended(); r != nil && *r > 0 {
		return *r, nil
	}
	return learn.DefaultSprintDuration, nil
}
