package iocache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/gitpet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutePatternExport(t *testing.T) {
	ts := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	snapshot := schema.PatternSnapshot{
		Productivity: []schema.ProductivitySample{{Hour: 10, DayOfWeek: 1, Score: 0.7, Timestamp: ts}},
		Sprints:      []schema.SprintOutcome{{DurationMinutes: 25, Success: true, TimeOfDay: 10, DayType: schema.Weekday, Timestamp: ts}},
	}
	prefix := filepath.Join(t.TempDir(), "gitpet")

	var out bytes.Buffer
	require.NoError(t, ExecutePatternExport(&out, snapshot, prefix))

	productivity, sprints, reactions := ExportFiles(prefix)
	for _, path := range []string{productivity, sprints, reactions} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
	assert.Contains(t, out.String(), "Exported 1 productivity samples")
	assert.Contains(t, out.String(), "Exported 0 feedback reactions")
}

func TestExecutePatternExportErrors(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorContains(t, ExecutePatternExport(&out, schema.PatternSnapshot{}, ""), "--output-file is required")
	assert.ErrorContains(t, ExecutePatternExport(&out, schema.PatternSnapshot{}, "x"), "no interaction records")
}
