package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the backend of the key-value store.
	DatabaseBackend string

	// CommitSource represents where commit history is fetched from.
	CommitSource string

	// FeedbackCategory is the outcome of classifying commit metrics.
	FeedbackCategory string

	// Mood is the pet mood attached to a piece of feedback.
	Mood string

	// RecordType names one of the interaction record lists.
	RecordType string

	// Reaction is how the user responded to a shown message.
	Reaction string

	// DayType separates weekday from weekend sprints.
	DayType string

	// AnalysisState is a step of the per-request analysis flow.
	AnalysisState string

	// OverrideKind names the personalized recommendation that replaced the baseline.
	OverrideKind string

	// Trend describes the direction of recent productivity.
	Trend string
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	RedisBackend      DatabaseBackend = "redis"
	NoneBackend       DatabaseBackend = "none"
)

// All commit sources supported.
const (
	GitHubSource CommitSource = "github" // default
	LocalSource  CommitSource = "local"
)

// Feedback categories in priority order. ErrorCategory is only produced
// when the commit fetch fails.
const (
	QuietCategory              FeedbackCategory = "QUIET"
	StreakShortMessageCategory FeedbackCategory = "STREAK_SHORT_MESSAGE"
	LowConventionalCategory    FeedbackCategory = "LOW_CONVENTIONAL"
	DefaultCategory            FeedbackCategory = "DEFAULT"
	ErrorCategory              FeedbackCategory = "ERROR"
)

// All moods supported.
const (
	EncouragingMood Mood = "encouraging"
	CelebratingMood Mood = "celebrating"
	ExcitedMood     Mood = "excited"
	ThinkingMood    Mood = "thinking"
	NudgingMood     Mood = "nudging"
)

// Interaction record types.
const (
	ProductivityRecord RecordType = "productivity"
	SprintRecord       RecordType = "sprint"
	ReactionRecord     RecordType = "reaction"
)

// Reactions to a shown message.
const (
	PositiveReaction Reaction = "positive"
	NegativeReaction Reaction = "negative"
	NeutralReaction  Reaction = "neutral"
)

// Day types.
const (
	Weekday DayType = "weekday"
	Weekend DayType = "weekend"
)

// Analysis flow states.
const (
	FetchingState      AnalysisState = "FETCHING"
	ClassifyingState   AnalysisState = "CLASSIFYING"
	OverrideCheckState AnalysisState = "OVERRIDE_CHECK"
	RecordingState     AnalysisState = "RECORDING"
	DoneState          AnalysisState = "DONE"
	ErrorState         AnalysisState = "ERROR"
)

// Override kinds.
const (
	ProductivityTimingOverride OverrideKind = "productivity_timing"
	SprintDurationOverride     OverrideKind = "sprint_duration"
)

// Productivity trends.
const (
	NoDataTrend    Trend = "no_data"
	ImprovingTrend Trend = "improving"
	DecliningTrend Trend = "declining"
	StableTrend    Trend = "stable"
)

// AllCategories lists the classifier categories in priority order.
var AllCategories = []FeedbackCategory{QuietCategory, StreakShortMessageCategory, LowConventionalCategory, DefaultCategory}

// AllMoods lists the moods in canonical order. Ties between moods are broken by this order.
var AllMoods = []Mood{EncouragingMood, CelebratingMood, ExcitedMood, ThinkingMood, NudgingMood}

// AllRecordTypes lists the interaction record types.
var AllRecordTypes = []RecordType{ProductivityRecord, SprintRecord, ReactionRecord}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	RedisBackend:      {},
	NoneBackend:       {},
}

// ValidCommitSources lists all valid commit sources.
var ValidCommitSources = map[CommitSource]struct{}{
	GitHubSource: {},
	LocalSource:  {},
}

// ValidMoods lists all valid moods.
var ValidMoods = map[Mood]struct{}{
	EncouragingMood: {},
	CelebratingMood: {},
	ExcitedMood:     {},
	ThinkingMood:    {},
	NudgingMood:     {},
}

// ValidReactions lists all valid reactions.
var ValidReactions = map[Reaction]struct{}{
	PositiveReaction: {},
	NegativeReaction: {},
	NeutralReaction:  {},
}
