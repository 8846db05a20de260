// Package core runs the analysis flow that turns commit history into pet feedback.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/gitpet/core/agg"
	"github.com/huangsam/gitpet/core/feedback"
	"github.com/huangsam/gitpet/core/learn"
	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/internal/telemetry"
	"github.com/huangsam/gitpet/schema"
	"go.uber.org/zap"
)

// Override policy.
const (
	// OverrideThreshold is the overall confidence below which the learner never overrides.
	OverrideThreshold = 0.3
	overrideTolerance = 1e-9
	peakProductivity  = 0.7
)

// Productivity sample synthesized from the metrics of every analysis.
const (
	baseSampleScore      = 0.5
	recentCommitBonus    = 0.2
	longMessageBonus     = 0.1
	conventionalBonus    = 0.1
	longMessageLen       = 15
	conventionalMajority = 50
)

// Orchestrator turns a scope into a feedback decision and feeds the learning loop.
type Orchestrator struct {
	feed       contract.CommitFeed
	classifier *feedback.Classifier
	learner    contract.Learner
	metrics    *telemetry.Metrics
	logger     *zap.Logger
	timeout    time.Duration
	now        func() time.Time
}

var _ contract.PetService = &Orchestrator{} // Compile-time check

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger for state transitions and degraded paths.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the collectors analyses are reported to.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithFetchTimeout bounds the commit fetch. Non-positive values keep the default.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator wires the feed, classifier and learner into an analysis flow.
func NewOrchestrator(feed contract.CommitFeed, classifier *feedback.Classifier, learner contract.Learner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		feed:       feed,
		classifier: classifier,
		learner:    learner,
		logger:     zap.NewNop(),
		timeout:    contract.DefaultFetchTimeout,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Analyze runs FETCHING, CLASSIFYING, OVERRIDE_CHECK and RECORDING for scope.
// It never fails: a fetch failure yields the fallback decision in the ERROR state
// and storage failures degrade to cold-start behavior.
func (o *Orchestrator) Analyze(ctx context.Context, scope string) schema.Decision {
	start := o.now()
	d := schema.Decision{FlowID: uuid.NewString(), Scope: scope}
	log := o.logger.With(zap.String("flow_id", d.FlowID), zap.String("scope", scope))
	enter := func(s schema.AnalysisState) {
		d.State = s
		log.Debug("analysis state", zap.String("state", string(s)))
	}

	enter(schema.FetchingState)
	commits, err := o.fetch(ctx, scope)
	if err != nil {
		log.Warn("commit fetch failed", zap.String("kind", contract.FetchKindLabel(err)), zap.Error(err))
		o.metrics.ObserveFetchFailure(err)
		fb := feedback.Fallback()
		enter(schema.ErrorState)
		d.Text, d.Mood, d.Category, d.Rationale = fb.Text, fb.Mood, fb.Category, fb.Rationale
		return o.finish(d, start)
	}

	enter(schema.ClassifyingState)
	now := o.now()
	m := agg.ExtractMetrics(commits, now)
	latest := ""
	if sorted := agg.SortNewestFirst(commits); len(sorted) > 0 {
		latest = sorted[0].Message
	}
	baseline := o.classifier.Classify(ctx, m, scope, latest)
	d.Metrics = &m
	d.Text, d.Mood, d.Category, d.Rationale = baseline.Text, baseline.Mood, baseline.Category, baseline.Rationale

	enter(schema.OverrideCheckState)
	preds := o.learner.GeneratePredictions(ctx, now)
	d.Predictions = &preds
	d.Confidence = preds.Confidence
	if ov, why := checkOverride(preds); ov != nil {
		d.Override = ov
		d.Baseline = &baseline
		d.Text, d.Mood, d.Rationale = ov.Text, ov.Mood, why
		log.Debug("override applied", zap.String("kind", string(ov.Kind)), zap.Float64("overall", preds.Confidence.Overall))
	}

	enter(schema.RecordingState)
	sample := SynthesizeSample(m, now)
	err = o.learner.RecordPattern(ctx, sample)
	o.metrics.ObservePattern(schema.ProductivityRecord, err)
	if err != nil {
		log.Warn("productivity sample not recorded", zap.Error(err))
	}

	enter(schema.DoneState)
	return o.finish(d, start)
}

// RecordSprint appends the outcome of a finished or cancelled sprint.
func (o *Orchestrator) RecordSprint(ctx context.Context, minutes int, success bool) error {
	now := o.now()
	return o.record(ctx, schema.SprintOutcome{
		DurationMinutes: minutes,
		Success:         success,
		TimeOfDay:       now.Hour(),
		DayType:         schema.DayTypeOf(now),
		Timestamp:       now,
	})
}

// RecordReaction appends how the user received a message shown in the given mood.
func (o *Orchestrator) RecordReaction(ctx context.Context, mood schema.Mood, reaction schema.Reaction) error {
	return o.record(ctx, schema.FeedbackReaction{MoodShown: mood, Reaction: reaction, Timestamp: o.now()})
}

// Predictions returns the current gated predictions.
func (o *Orchestrator) Predictions(ctx context.Context) schema.Predictions {
	return o.learner.GeneratePredictions(ctx, o.now())
}

func (o *Orchestrator) record(ctx context.Context, rec schema.InteractionRecord) error {
	err := o.learner.RecordPattern(ctx, rec)
	o.metrics.ObservePattern(rec.Kind(), err)
	if err != nil {
		return fmt.Errorf("record %s: %w", rec.Kind(), err)
	}
	return nil
}

// fetch bounds the feed call by the fetch timeout. A deadline hit surfaces as ErrFetchTimeout.
func (o *Orchestrator) fetch(ctx context.Context, scope string) ([]schema.CommitRecord, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	commits, err := o.feed.FetchCommits(fetchCtx, scope)
	if err == nil {
		return commits, nil
	}
	timedOut := errors.Is(err, context.DeadlineExceeded) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded)
	if timedOut && !errors.Is(err, contract.ErrFetchTimeout) {
		return nil, contract.NewFetchError(contract.ErrFetchTimeout, scope, err)
	}
	return nil, err
}

func (o *Orchestrator) finish(d schema.Decision, start time.Time) schema.Decision {
	d.Duration = o.now().Sub(start)
	o.metrics.ObserveDecision(d)
	return d
}

// checkOverride applies the override policy once the learner is warmed up.
// Productivity timing takes precedence over sprint duration.
func checkOverride(p schema.Predictions) (*schema.Override, string) {
	if p.Confidence.Overall+overrideTolerance < OverrideThreshold {
		return nil, ""
	}
	if p.CurrentProductivity != nil && *p.CurrentProductivity > peakProductivity {
		ov := &schema.Override{
			Kind: schema.ProductivityTimingOverride,
			Mood: overrideMood(p, schema.ExcitedMood),
			Text: "This is one of your most productive hours. Perfect time to take on something hard!",
		}
		return ov, fmt.Sprintf("Productivity at this hour averages %.2f (above %.1f)", *p.CurrentProductivity, peakProductivity)
	}
	if p.RecommendedSprintDuration != nil && *p.RecommendedSprintDuration != learn.DefaultSprintDuration {
		minutes := *p.RecommendedSprintDuration
		ov := &schema.Override{
			Kind: schema.SprintDurationOverride,
			Mood: overrideMood(p, schema.NudgingMood),
			Text: fmt.Sprintf("Your %d-minute sprints succeed most often. Start one now?", minutes),
		}
		return ov, fmt.Sprintf("%d-minute sprints have your best success rate", minutes)
	}
	return nil, ""
}

func overrideMood(p schema.Predictions, fallback schema.Mood) schema.Mood {
	if p.PreferredMoodStyle != "" {
		return p.PreferredMoodStyle
	}
	return fallback
}

// SynthesizeSample scores an analysis as a productivity sample at time now.
func SynthesizeSample(m schema.Metrics, now time.Time) schema.ProductivitySample {
	score := baseSampleScore
	if m.DaysSinceLast < 1 {
		score += recentCommitBonus
	}
	if m.AvgMsgLen > longMessageLen {
		score += longMessageBonus
	}
	if m.PctConventional > conventionalMajority {
		score += conventionalBonus
	}
	return schema.ProductivitySample{
		Hour:      now.Hour(),
		DayOfWeek: int(now.Weekday()),
		Score:     min(score, 1.0),
		Timestamp: now,
	}
}
