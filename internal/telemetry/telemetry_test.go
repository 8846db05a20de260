package telemetry

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveDecision(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveDecision(schema.Decision{Category: schema.QuietCategory, State: schema.DoneState, Duration: 40 * time.Millisecond})
	m.ObserveDecision(schema.Decision{
		Category: schema.DefaultCategory,
		State:    schema.DoneState,
		Override: &schema.Override{Kind: schema.SprintDurationOverride},
	})
	m.ObserveDecision(schema.Decision{Category: schema.ErrorCategory, State: schema.ErrorState})

	assert.InDelta(t, 1, testutil.ToFloat64(m.Decisions.WithLabelValues("QUIET", "DONE")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Decisions.WithLabelValues("ERROR", "ERROR")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Overrides.WithLabelValues("sprint_duration")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.AnalysisDuration))
}

func TestObserveFetchFailure(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveFetchFailure(contract.NewFetchError(contract.ErrFetchRateLimited, "a/b", nil))
	m.ObserveFetchFailure(contract.NewFetchError(contract.ErrFetchRateLimited, "a/b", errors.New("403")))
	m.ObserveFetchFailure(errors.New("boom"))

	expected := `
# HELP gitpet_fetch_failures_total Total number of failed commit history fetches by failure kind
# TYPE gitpet_fetch_failures_total counter
gitpet_fetch_failures_total{kind="rate_limited"} 2
gitpet_fetch_failures_total{kind="unknown"} 1
`
	require.NoError(t, testutil.CollectAndCompare(m.FetchFailures, strings.NewReader(expected)))
}

func TestObservePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObservePattern(schema.SprintRecord, nil)
	m.ObservePattern(schema.SprintRecord, errors.New("invalid"))
	m.ObservePattern(schema.ReactionRecord, nil)

	assert.InDelta(t, 1, testutil.ToFloat64(m.RecordedPatterns.WithLabelValues("sprint", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RecordedPatterns.WithLabelValues("sprint", "rejected")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RecordedPatterns.WithLabelValues("reaction", "ok")), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDecision(schema.Decision{})
		m.ObserveFetchFailure(errors.New("x"))
		m.ObservePattern(schema.ProductivityRecord, nil)
	})
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) }, "duplicate registration must fail loudly")
}

func TestNewExportsKnownSeriesAtZero(t *testing.T) {
	m := New(prometheus.NewRegistry())

	assert.Equal(t, len(schema.AllCategories), testutil.CollectAndCount(m.Decisions))
	assert.Equal(t, 2*len(schema.AllRecordTypes), testutil.CollectAndCount(m.RecordedPatterns))
	for _, c := range schema.AllCategories {
		assert.Zero(t, testutil.ToFloat64(m.Decisions.WithLabelValues(string(c), "DONE")), c)
	}
	for _, k := range schema.AllRecordTypes {
		assert.Zero(t, testutil.ToFloat64(m.RecordedPatterns.WithLabelValues(string(k), "rejected")), k)
	}

	m.ObserveDecision(schema.Decision{Category: schema.ErrorCategory, State: schema.ErrorState})
	assert.Equal(t, len(schema.AllCategories)+1, testutil.CollectAndCount(m.Decisions))
}
