// Package schema has configs, models and constants for all parts of gitpet.
package schema

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// CommitRecord is a single commit as delivered by a commit-history feed.
type CommitRecord struct {
	SHA        string    `json:"sha"`
	Message    string    `json:"message"`
	AuthorDate time.Time `json:"author_date"`
	Position   int       `json:"position"` // Index in the fetched history, 0 is newest
}

// InfiniteDays marks a history without any commits.
const InfiniteDays DayCount = math.MaxInt

// DayCount is a whole number of days that may be InfiniteDays.
// It compares greater than any finite count, so an empty history is "quiet".
type DayCount int

// IsInfinite reports whether the count is the no-commits sentinel.
func (d DayCount) IsInfinite() bool {
	return d == InfiniteDays
}

// String renders the count, using "∞" for the sentinel.
func (d DayCount) String() string {
	if d.IsInfinite() {
		return "∞"
	}
	return strconv.Itoa(int(d))
}

// MarshalJSON encodes the sentinel as the string "infinite".
func (d DayCount) MarshalJSON() ([]byte, error) {
	if d.IsInfinite() {
		return []byte(`"infinite"`), nil
	}
	return []byte(strconv.Itoa(int(d))), nil
}

// UnmarshalJSON accepts either a number or the string "infinite".
func (d *DayCount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "infinite" {
			*d = InfiniteDays
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*d = DayCount(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = DayCount(n)
	return nil
}

// Metrics is the feature vector derived from a commit history.
// It is recomputed on every analysis and never persisted.
type Metrics struct {
	DaysSinceLast   DayCount `json:"days_since_last"`  // Whole days since the newest commit
	Streak          int      `json:"streak"`           // Consecutive commit days ending today, capped at 30
	AvgMsgLen       int      `json:"avg_msg_len"`      // Mean message length over the most recent 20 messages
	PctConventional int      `json:"pct_conventional"` // Share of those messages using a conventional-commit prefix
}

// Feedback is the classifier's output for one set of metrics.
type Feedback struct {
	Category  FeedbackCategory `json:"category"`
	Mood      Mood             `json:"mood"`
	Text      string           `json:"text"`
	Rationale string           `json:"rationale"`
}

// Override is a personalized recommendation that replaced the baseline feedback.
type Override struct {
	Kind OverrideKind `json:"kind"`
	Mood Mood         `json:"mood"`
	Text string       `json:"text"`
}

// Decision is the final result of one analysis request, consumed by the presentation layer.
type Decision struct {
	FlowID      string           `json:"flow_id"`
	Scope       string           `json:"scope"`
	State       AnalysisState    `json:"state"`
	Text        string           `json:"text"`
	Mood        Mood             `json:"mood"`
	Category    FeedbackCategory `json:"category"`
	Rationale   string           `json:"rationale"`
	Baseline    *Feedback        `json:"baseline,omitempty"` // Set only when an override replaced it
	Override    *Override        `json:"override,omitempty"`
	Metrics     *Metrics         `json:"metrics,omitempty"`
	Predictions *Predictions     `json:"predictions,omitempty"`
	Confidence  Confidence       `json:"confidence"`
	Duration    time.Duration    `json:"duration_ns"`
}
