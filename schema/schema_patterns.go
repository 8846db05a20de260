package schema

import "time"

// InteractionRecord is one of ProductivitySample, SprintOutcome or FeedbackReaction.
type InteractionRecord interface {
	// Kind returns the list the record belongs to.
	Kind() RecordType
}

// ProductivitySample is a productivity score observed at a given hour.
type ProductivitySample struct {
	Hour      int       `json:"hour"`        // 0-23
	DayOfWeek int       `json:"day_of_week"` // 0-6, Sunday is 0
	Score     float64   `json:"score"`       // 0.0-1.0
	Timestamp time.Time `json:"timestamp"`
}

// SprintOutcome records whether a focus sprint of a given length succeeded.
type SprintOutcome struct {
	DurationMinutes int       `json:"duration_minutes"`
	Success         bool      `json:"success"`
	TimeOfDay       int       `json:"time_of_day"` // Hour the sprint ended, 0-23
	DayType         DayType   `json:"day_type"`
	Timestamp       time.Time `json:"timestamp"`
}

// FeedbackReaction records how the user received a message shown in a given mood.
type FeedbackReaction struct {
	MoodShown Mood      `json:"mood_shown"`
	Reaction  Reaction  `json:"reaction"`
	Timestamp time.Time `json:"timestamp"`
}

// Kind implements InteractionRecord.
func (ProductivitySample) Kind() RecordType { return ProductivityRecord }

// Kind implements InteractionRecord.
func (SprintOutcome) Kind() RecordType { return SprintRecord }

// Kind implements InteractionRecord.
func (FeedbackReaction) Kind() RecordType { return ReactionRecord }

// PatternSnapshot is a point-in-time copy of every interaction list.
type PatternSnapshot struct {
	Productivity []ProductivitySample `json:"productivity"`
	Sprints      []SprintOutcome      `json:"sprints"`
	Reactions    []FeedbackReaction   `json:"reactions"`
}

// HourInsight is the aggregate productivity of one hour of the day.
type HourInsight struct {
	Hour       int     `json:"hour"`
	AvgScore   float64 `json:"avg_score"`
	Confidence float64 `json:"confidence"`
}

// LearnedInsights is the materialized view over the interaction records.
type LearnedInsights struct {
	BestProductivityHours []HourInsight `json:"best_productivity_hours"`
	OptimalSprintDuration int           `json:"optimal_sprint_duration"`
	PreferredMoodStyle    Mood          `json:"preferred_mood_style"`
	ProductivityTrend     Trend         `json:"productivity_trend"`
}

// Confidence holds how much learned data backs each insight, each in [0,1].
type Confidence struct {
	Productivity float64 `json:"productivity"`
	Sprints      float64 `json:"sprints"`
	Mood         float64 `json:"mood"`
	Overall      float64 `json:"overall"`
}

// Predictions is the gated read of the learned insights at a given time.
// Pointer fields are nil when their owning confidence is below its threshold.
type Predictions struct {
	CurrentProductivity       *float64   `json:"current_productivity,omitempty"`
	BestUpcomingHour          *int       `json:"best_upcoming_hour,omitempty"`
	ProductivityTrend         Trend      `json:"productivity_trend,omitempty"`
	RecommendedSprintDuration *int       `json:"recommended_sprint_duration,omitempty"`
	PreferredMoodStyle        Mood       `json:"preferred_mood_style,omitempty"`
	Confidence                Confidence `json:"confidence"`
}

// InsightsReport is everything the insights view shows about the learner.
type InsightsReport struct {
	Insights    LearnedInsights `json:"insights"`
	Confidence  Confidence      `json:"confidence"`
	Predictions Predictions     `json:"predictions"`
	Counts      PatternCounts   `json:"counts"`
}
