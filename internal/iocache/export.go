package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/gitpet/internal/parquet"
	"github.com/huangsam/gitpet/schema"
)

// ExportFiles returns the Parquet paths written for an export prefix.
func ExportFiles(outputFile string) (productivity, sprints, reactions string) {
	return outputFile + ".productivity.parquet",
		outputFile + ".sprints.parquet",
		outputFile + ".reactions.parquet"
}

// ExecutePatternExport writes every interaction list of snapshot to its own Parquet file
// and reports progress to w.
func ExecutePatternExport(w io.Writer, snapshot schema.PatternSnapshot, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	total := len(snapshot.Productivity) + len(snapshot.Sprints) + len(snapshot.Reactions)
	if total == 0 {
		return errors.New("no interaction records found to export")
	}

	productivityFile, sprintsFile, reactionsFile := ExportFiles(outputFile)

	if err := parquet.WriteProductivityParquet(parquet.ConvertProductivitySamples(snapshot.Productivity), productivityFile); err != nil {
		return fmt.Errorf("failed to write productivity samples: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d productivity samples to: %s\n", len(snapshot.Productivity), productivityFile)

	if err := parquet.WriteSprintsParquet(parquet.ConvertSprintOutcomes(snapshot.Sprints), sprintsFile); err != nil {
		return fmt.Errorf("failed to write sprint outcomes: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d sprint outcomes to: %s\n", len(snapshot.Sprints), sprintsFile)

	if err := parquet.WriteReactionsParquet(parquet.ConvertFeedbackReactions(snapshot.Reactions), reactionsFile); err != nil {
		return fmt.Errorf("failed to write feedback reactions: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d feedback reactions to: %s\n", len(snapshot.Reactions), reactionsFile)
	return nil
}
