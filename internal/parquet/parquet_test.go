package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/gitpet/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordedAt = time.Date(2024, 6, 3, 9, 15, 0, 0, time.UTC)

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestRowSchemas(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"productivity", new(ProductivityRow), []string{"hour", "day_of_week", "score", "recorded_at"}},
		{"sprints", new(SprintRow), []string{"duration_minutes", "success", "time_of_day", "day_type", "recorded_at"}},
		{"reactions", new(ReactionRow), []string{"mood_shown", "reaction", "recorded_at"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			assert.Len(t, s.Fields(), len(tt.columns))
			for _, col := range tt.columns {
				_, ok := s.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteProductivityParquet(t *testing.T) {
	samples := []schema.ProductivitySample{
		{Hour: 9, DayOfWeek: 1, Score: 0.9, Timestamp: recordedAt},
		{Hour: 22, DayOfWeek: 6, Score: 0.5, Timestamp: recordedAt.Add(time.Hour)},
	}
	path := filepath.Join(t.TempDir(), "productivity.parquet")
	require.NoError(t, WriteProductivityParquet(ConvertProductivitySamples(samples), path))

	rows := readAll[ProductivityRow](t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, int32(9), rows[0].Hour)
	assert.Equal(t, int32(6), rows[1].DayOfWeek)
	assert.InDelta(t, 0.5, rows[1].Score, 1e-12)
	assert.WithinDuration(t, recordedAt, rows[0].RecordedAt, time.Nanosecond)
}

func TestWriteSprintsParquet(t *testing.T) {
	outcomes := []schema.SprintOutcome{
		{DurationMinutes: 25, Success: true, TimeOfDay: 10, DayType: schema.Weekday, Timestamp: recordedAt},
		{DurationMinutes: 5, Success: false, TimeOfDay: 14, DayType: schema.Weekend, Timestamp: recordedAt},
	}
	path := filepath.Join(t.TempDir(), "sprints.parquet")
	require.NoError(t, WriteSprintsParquet(ConvertSprintOutcomes(outcomes), path))

	rows := readAll[SprintRow](t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, SprintRow{DurationMinutes: 25, Success: true, TimeOfDay: 10, DayType: "weekday", RecordedAt: rows[0].RecordedAt}, rows[0])
	assert.False(t, rows[1].Success)
	assert.Equal(t, "weekend", rows[1].DayType)
}

func TestWriteReactionsParquet(t *testing.T) {
	reactions := []schema.FeedbackReaction{
		{MoodShown: schema.CelebratingMood, Reaction: schema.PositiveReaction, Timestamp: recordedAt},
	}
	path := filepath.Join(t.TempDir(), "reactions.parquet")
	require.NoError(t, WriteReactionsParquet(ConvertFeedbackReactions(reactions), path))

	rows := readAll[ReactionRow](t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, "celebrating", rows[0].MoodShown)
	assert.Equal(t, "positive", rows[0].Reaction)
}

func TestWriteEmptyParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteReactionsParquet(ConvertFeedbackReactions(nil), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size(), "an empty export still has a valid footer")
	assert.Empty(t, readAll[ReactionRow](t, path))
}

func TestWriteParquetBadPath(t *testing.T) {
	err := WriteSprintsParquet(nil, filepath.Join(t.TempDir(), "missing", "sprints.parquet"))
	assert.ErrorContains(t, err, "failed to create output file")
}
