// Package parquet provides data structures and functions for exporting gitpet
// interaction records to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/gitpet/schema"
	"github.com/parquet-go/parquet-go"
)

// ProductivityRow is a productivity sample as stored in Parquet.
type ProductivityRow struct {
	// Hour is the hour of the day the sample was taken, 0-23
	Hour int32 `parquet:"hour,snappy"`

	// DayOfWeek is 0-6 with Sunday as 0
	DayOfWeek int32 `parquet:"day_of_week,snappy"`

	// Score is the synthesized productivity score in [0,1]
	Score float64 `parquet:"score,snappy"`

	// RecordedAt is when the sample was taken (TIMESTAMP with nanosecond precision)
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// SprintRow is a sprint outcome as stored in Parquet.
type SprintRow struct {
	DurationMinutes int32     `parquet:"duration_minutes,snappy"`
	Success         bool      `parquet:"success,snappy"`
	TimeOfDay       int32     `parquet:"time_of_day,snappy"`
	DayType         string    `parquet:"day_type,dict,snappy"`
	RecordedAt      time.Time `parquet:"recorded_at,snappy"`
}

// ReactionRow is a feedback reaction as stored in Parquet.
type ReactionRow struct {
	MoodShown  string    `parquet:"mood_shown,dict,snappy"`
	Reaction   string    `parquet:"reaction,dict,snappy"`
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// WriteProductivityParquet writes productivity rows to a Parquet file.
func WriteProductivityParquet(data []ProductivityRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteSprintsParquet writes sprint rows to a Parquet file.
func WriteSprintsParquet(data []SprintRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteReactionsParquet writes reaction rows to a Parquet file.
func WriteReactionsParquet(data []ReactionRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// writeRows writes data to outputPath with the schema inferred from T's struct tags.
// The writer is closed before the file so the footer is flushed.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// ConvertProductivitySamples converts productivity samples for Parquet export.
func ConvertProductivitySamples(records []schema.ProductivitySample) []ProductivityRow {
	result := make([]ProductivityRow, len(records))
	for i, r := range records {
		result[i] = ProductivityRow{
			Hour:       int32(r.Hour),
			DayOfWeek:  int32(r.DayOfWeek),
			Score:      r.Score,
			RecordedAt: r.Timestamp,
		}
	}
	return result
}

// ConvertSprintOutcomes converts sprint outcomes for Parquet export.
func ConvertSprintOutcomes(records []schema.SprintOutcome) []SprintRow {
	result := make([]SprintRow, len(records))
	for i, r := range records {
		result[i] = SprintRow{
			DurationMinutes: int32(r.DurationMinutes),
			Success:         r.Success,
			TimeOfDay:       int32(r.TimeOfDay),
			DayType:         string(r.DayType),
			RecordedAt:      r.Timestamp,
		}
	}
	return result
}

// ConvertFeedbackReactions converts feedback reactions for Parquet export.
func ConvertFeedbackReactions(records []schema.FeedbackReaction) []ReactionRow {
	result := make([]ReactionRow, len(records))
	for i, r := range records {
		result[i] = ReactionRow{
			MoodShown:  string(r.MoodShown),
			Reaction:   string(r.Reaction),
			RecordedAt: r.Timestamp,
		}
	}
	return result
}
