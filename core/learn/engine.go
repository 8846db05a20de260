package learn

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/gitpet/core/algo"
	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
	"go.uber.org/zap"
)

// Minimum sample counts before a dimension produces any insight.
const (
	minProductivitySamples = 5
	minSprintSamples       = 3
	minReactionSamples     = 5
)

// Sample counts at which a dimension reaches full confidence.
const (
	fullProductivitySamples = 20
	fullSprintSamples       = 10
	fullReactionSamples     = 15
	fullHourSamples         = 5
)

// Bucket selection rules.
const (
	minHourConfidence  = 0.2
	bestHoursLimit     = 3
	minSprintGroupSize = 2
	minMoodGroupSize   = 3
)

// Prediction gates. A dimension is only surfaced when its confidence exceeds its gate.
const (
	productivityGate = 0.3
	sprintGate       = 0.2
	moodGate         = 0.2
)

// Defaults used until enough data is learned.
const (
	DefaultSprintDuration = 5
	DefaultMood           = schema.EncouragingMood
	NeutralProductivity   = 0.5
	trendMargin           = 0.05
)

// Engine keeps LearnedInsights as a materialized view over a PatternStore.
type Engine struct {
	mu         sync.Mutex
	state      lifecycle
	store      *PatternStore
	logger     *zap.Logger
	insights   schema.LearnedInsights
	confidence schema.Confidence
}

var _ contract.Learner = &Engine{} // Compile-time check

// NewEngine creates an engine over store.
func NewEngine(store *PatternStore, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, logger: logger, insights: defaultInsights()}
}

func defaultInsights() schema.LearnedInsights {
	return schema.LearnedInsights{
		BestProductivityHours: []schema.HourInsight{},
		OptimalSprintDuration: DefaultSprintDuration,
		PreferredMoodStyle:    DefaultMood,
		ProductivityTrend:     schema.NoDataTrend,
	}
}

// Initialize loads the persisted records and derives every insight from them.
// Only the first call that reaches the store has an effect; concurrent callers wait for it to finish.
func (e *Engine) Initialize(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureInitialized(ctx)
}

// ensureInitialized must be called with mu held.
func (e *Engine) ensureInitialized(ctx context.Context) {
	if e.state == ready {
		return
	}

	snap := e.store.Snapshot(ctx)
	loaded := e.store.Ready()
	e.deriveProductivity(snap.Productivity)
	e.deriveSprints(snap.Sprints)
	e.deriveMood(snap.Reactions)
	e.refreshOverall()
	if !loaded {
		e.logger.Debug("learning engine running from memory until patterns load")
		return
	}
	e.store.SaveDerived(ctx, e.insights, e.confidence)
	e.state = ready
	e.logger.Debug("learning engine ready",
		zap.Int("productivity", len(snap.Productivity)),
		zap.Int("sprints", len(snap.Sprints)),
		zap.Int("reactions", len(snap.Reactions)),
		zap.Float64("overall", e.confidence.Overall))
}

// RecordPattern appends rec and re-derives only the insight it affects.
func (e *Engine) RecordPattern(ctx context.Context, rec schema.InteractionRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureInitialized(ctx)

	kind, err := e.store.Append(ctx, rec)
	if err != nil {
		return err
	}
	if e.state != ready {
		// Records loaded during Append change every list.
		e.ensureInitialized(ctx)
		return nil
	}

	snap := e.store.Snapshot(ctx)
	switch kind {
	case schema.ProductivityRecord:
		e.deriveProductivity(snap.Productivity)
	case schema.SprintRecord:
		e.deriveSprints(snap.Sprints)
	case schema.ReactionRecord:
		e.deriveMood(snap.Reactions)
	}
	e.refreshOverall()
	e.store.SaveDerived(ctx, e.insights, e.confidence)
	return nil
}

// Insights returns a copy of the current insights and confidence.
func (e *Engine) Insights(ctx context.Context) (schema.LearnedInsights, schema.Confidence) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureInitialized(ctx)
	insights := e.insights
	insights.BestProductivityHours = append([]schema.HourInsight{}, e.insights.BestProductivityHours...)
	return insights, e.confidence
}

// Snapshot returns a copy of the records behind the insights.
func (e *Engine) Snapshot(ctx context.Context) schema.PatternSnapshot {
	e.Initialize(ctx)
	return e.store.Snapshot(ctx)
}

// Counts returns the number of records held per type.
func (e *Engine) Counts(ctx context.Context) schema.PatternCounts {
	e.Initialize(ctx)
	return e.store.Counts(ctx)
}

// GeneratePredictions returns the fields whose confidence exceeds its gate at time now.
// The confidence snapshot is always included.
func (e *Engine) GeneratePredictions(ctx context.Context, now time.Time) schema.Predictions {
	insights, conf := e.Insights(ctx)
	p := schema.Predictions{Confidence: conf}

	if conf.Productivity > productivityGate {
		current := NeutralProductivity
		for _, h := range insights.BestProductivityHours {
			if h.Hour == now.Hour() {
				current = h.AvgScore
				break
			}
		}
		p.CurrentProductivity = &current
		if hour, ok := bestUpcomingHour(insights.BestProductivityHours, now.Hour()); ok {
			p.BestUpcomingHour = &hour
		}
		p.ProductivityTrend = insights.ProductivityTrend
	}
	if conf.Sprints > sprintGate {
		d := insights.OptimalSprintDuration
		p.RecommendedSprintDuration = &d
	}
	if conf.Mood > moodGate {
		p.PreferredMoodStyle = insights.PreferredMoodStyle
	}
	return p
}

// bestUpcomingHour picks the best hour later today, else the best hour overall.
// hours must be sorted by score, best first.
func bestUpcomingHour(hours []schema.HourInsight, current int) (int, bool) {
	if len(hours) == 0 {
		return 0, false
	}
	for _, h := range hours {
		if h.Hour > current {
			return h.Hour, true
		}
	}
	return hours[0].Hour, true
}

func (e *Engine) deriveProductivity(samples []schema.ProductivitySample) {
	e.insights.ProductivityTrend = productivityTrend(samples)
	e.insights.BestProductivityHours = []schema.HourInsight{}
	e.confidence.Productivity = 0
	if len(samples) < minProductivitySamples {
		return
	}

	buckets := algo.GroupBy(samples,
		func(s schema.ProductivitySample) int { return s.Hour },
		func(s schema.ProductivitySample) float64 { return s.Score })
	var kept []algo.Bucket[int]
	for _, b := range buckets {
		if algo.Confidence(b.Count, fullHourSamples) > minHourConfidence {
			kept = append(kept, b)
		}
	}
	for _, b := range algo.RankBuckets(kept, bestHoursLimit, cmp.Compare[int]) {
		e.insights.BestProductivityHours = append(e.insights.BestProductivityHours, schema.HourInsight{
			Hour:       b.Key,
			AvgScore:   b.Mean(),
			Confidence: algo.Confidence(b.Count, fullHourSamples),
		})
	}
	e.confidence.Productivity = algo.Confidence(len(samples), fullProductivitySamples)
}

func (e *Engine) deriveSprints(outcomes []schema.SprintOutcome) {
	e.insights.OptimalSprintDuration = DefaultSprintDuration
	e.confidence.Sprints = 0
	if len(outcomes) < minSprintSamples {
		return
	}

	buckets := algo.GroupBy(outcomes,
		func(o schema.SprintOutcome) int { return o.DurationMinutes },
		func(o schema.SprintOutcome) float64 { return boolScore(o.Success) })
	if best, ok := algo.BestBucket(buckets, minSprintGroupSize, cmp.Compare[int]); ok {
		e.insights.OptimalSprintDuration = best.Key
	}
	e.confidence.Sprints = algo.Confidence(len(outcomes), fullSprintSamples)
}

func (e *Engine) deriveMood(reactions []schema.FeedbackReaction) {
	e.insights.PreferredMoodStyle = DefaultMood
	e.confidence.Mood = 0
	if len(reactions) < minReactionSamples {
		return
	}

	buckets := algo.GroupBy(reactions,
		func(r schema.FeedbackReaction) schema.Mood { return r.MoodShown },
		func(r schema.FeedbackReaction) float64 { return boolScore(r.Reaction == schema.PositiveReaction) })
	if best, ok := algo.BestBucket(buckets, minMoodGroupSize, compareMoods); ok {
		e.insights.PreferredMoodStyle = best.Key
	}
	e.confidence.Mood = algo.Confidence(len(reactions), fullReactionSamples)
}

func (e *Engine) refreshOverall() {
	c := &e.confidence
	c.Overall = algo.MeanNonZero(c.Productivity, c.Sprints, c.Mood)
}

// productivityTrend compares the mean score of the newer half of samples against the older half.
func productivityTrend(samples []schema.ProductivitySample) schema.Trend {
	if len(samples) == 0 {
		return schema.NoDataTrend
	}
	split := len(samples) - len(samples)/2
	older, recent := samples[:split], samples[split:]
	if len(recent) == 0 {
		return schema.StableTrend
	}
	olderMean, recentMean := meanScore(older), meanScore(recent)
	switch {
	case recentMean > olderMean+trendMargin:
		return schema.ImprovingTrend
	case recentMean < olderMean-trendMargin:
		return schema.DecliningTrend
	default:
		return schema.StableTrend
	}
}

func meanScore(samples []schema.ProductivitySample) float64 {
	scores := make([]float64, len(samples))
	for i, s := range samples {
		scores[i] = s.Score
	}
	return algo.Mean(scores)
}

// compareMoods orders moods canonically, with unknown moods last in lexical order.
func compareMoods(a, b schema.Mood) int {
	if c := cmp.Compare(schema.MoodRank(a), schema.MoodRank(b)); c != 0 {
		return c
	}
	return strings.Compare(string(a), string(b))
}

func boolScore(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}

// DecodeRecord parses a JSON record of the given kind.
func DecodeRecord(kind schema.RecordType, data []byte) (schema.InteractionRecord, error) {
	switch kind {
	case schema.ProductivityRecord:
		var r schema.ProductivitySample
		return decodeInto(&r, data)
	case schema.SprintRecord:
		var r schema.SprintOutcome
		return decodeInto(&r, data)
	case schema.ReactionRecord:
		var r schema.FeedbackReaction
		return decodeInto(&r, data)
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidRecordType, kind)
	}
}

func decodeInto[T schema.InteractionRecord](r *T, data []byte) (schema.InteractionRecord, error) {
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return *r, nil
}
