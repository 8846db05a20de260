// Package learn accumulates interaction records and derives personalized insights from them.
package learn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
	"go.uber.org/zap"
)

// MaxRecords is the number of most recent records kept per record type.
const MaxRecords = 100

// BlobVersion is the format version of every persisted pattern blob.
const BlobVersion = 1

// Store keys of the persisted pattern blobs.
const (
	ProductivityKey = "patterns:productivity"
	SprintsKey      = "patterns:sprints"
	ReactionsKey    = "patterns:reactions"
	InsightsKey     = "patterns:insights"
	ConfidenceKey   = "patterns:confidence"
)

var (
	// ErrInvalidRecordType is returned when a record is not one of the known kinds.
	ErrInvalidRecordType = errors.New("invalid record type")

	// ErrInvalidRecord is returned when a record has out-of-range fields.
	ErrInvalidRecord = errors.New("invalid record")
)

// lifecycle is the load state of a PatternStore.
type lifecycle int

const (
	uninitialized lifecycle = iota
	ready
)

// PatternStore is a size-bounded log of interaction records, persisted as one blob per record type.
// All operations load the persisted state on first use.
type PatternStore struct {
	mu     sync.Mutex
	state  lifecycle
	kv     contract.KVStore
	logger *zap.Logger
	now    func() time.Time

	productivity []schema.ProductivitySample
	sprints      []schema.SprintOutcome
	reactions    []schema.FeedbackReaction
}

// NewPatternStore creates a store backed by kv. A nil kv keeps records in memory only.
func NewPatternStore(kv contract.KVStore, logger *zap.Logger) *PatternStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PatternStore{kv: kv, logger: logger, now: time.Now}
}

// Load reads the persisted records. Only the first successful call has an effect.
// Read failures are logged and retried on the next operation. Until then records stay
// in memory and nothing is written, so a failed read never overwrites persisted lists.
func (s *PatternStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
}

// Ready reports whether the persisted records have been loaded.
func (s *PatternStore) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == ready
}

// ensureLoaded must be called with mu held. Records appended while the store was
// unreadable are kept after the persisted ones.
func (s *PatternStore) ensureLoaded(ctx context.Context) bool {
	if s.state == ready {
		return true
	}
	if s.kv == nil {
		s.state = ready
		return true
	}

	entries, err := s.kv.GetMany(ctx, ProductivityKey, SprintsKey, ReactionsKey)
	if err != nil {
		s.logger.Warn("pattern load failed, keeping records in memory", zap.Error(err))
		return false
	}
	s.state = ready

	pendingProductivity, pendingSprints, pendingReactions := s.productivity, s.sprints, s.reactions
	s.productivity = mergePending(decodeList[schema.ProductivitySample](s.logger, entries, ProductivityKey), pendingProductivity)
	s.sprints = mergePending(decodeList[schema.SprintOutcome](s.logger, entries, SprintsKey), pendingSprints)
	s.reactions = mergePending(decodeList[schema.FeedbackReaction](s.logger, entries, ReactionsKey), pendingReactions)

	if len(pendingProductivity) > 0 {
		s.persist(ctx, ProductivityKey, s.productivity)
	}
	if len(pendingSprints) > 0 {
		s.persist(ctx, SprintsKey, s.sprints)
	}
	if len(pendingReactions) > 0 {
		s.persist(ctx, ReactionsKey, s.reactions)
	}
	return true
}

// Append validates rec, stamps its timestamp when unset, appends it to its list
// and persists that list once the store is loaded. It returns the type of the list that changed.
func (s *PatternStore) Append(ctx context.Context, rec schema.InteractionRecord) (schema.RecordType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loaded := s.ensureLoaded(ctx)

	now := s.now()
	switch r := rec.(type) {
	case schema.ProductivitySample:
		if r.Timestamp.IsZero() {
			r.Timestamp = now
		}
		if err := validateProductivity(r); err != nil {
			return "", err
		}
		s.productivity = appendBounded(s.productivity, r)
		if loaded {
			s.persist(ctx, ProductivityKey, s.productivity)
		}
	case schema.SprintOutcome:
		if r.Timestamp.IsZero() {
			r.Timestamp = now
		}
		if r.DayType == "" {
			r.DayType = schema.DayTypeOf(r.Timestamp)
		}
		if err := validateSprint(r); err != nil {
			return "", err
		}
		s.sprints = appendBounded(s.sprints, r)
		if loaded {
			s.persist(ctx, SprintsKey, s.sprints)
		}
	case schema.FeedbackReaction:
		if r.Timestamp.IsZero() {
			r.Timestamp = now
		}
		if err := validateReaction(r); err != nil {
			return "", err
		}
		s.reactions = appendBounded(s.reactions, r)
		if loaded {
			s.persist(ctx, ReactionsKey, s.reactions)
		}
	default:
		return "", fmt.Errorf("%w: %T", ErrInvalidRecordType, rec)
	}
	return rec.Kind(), nil
}

// Snapshot returns a copy of every record list.
func (s *PatternStore) Snapshot(ctx context.Context) schema.PatternSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return schema.PatternSnapshot{
		Productivity: slices.Clone(s.productivity),
		Sprints:      slices.Clone(s.sprints),
		Reactions:    slices.Clone(s.reactions),
	}
}

// Counts returns the number of records held per type.
func (s *PatternStore) Counts(ctx context.Context) schema.PatternCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return schema.PatternCounts{
		Productivity: len(s.productivity),
		Sprints:      len(s.sprints),
		Reactions:    len(s.reactions),
	}
}

// SaveDerived writes the insights and confidence blobs. It is a no-op until the store is loaded.
func (s *PatternStore) SaveDerived(ctx context.Context, insights schema.LearnedInsights, confidence schema.Confidence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ensureLoaded(ctx) {
		return
	}
	s.persist(ctx, InsightsKey, insights)
	s.persist(ctx, ConfidenceKey, confidence)
}

// persist writes v as a JSON blob. Failures are logged and otherwise ignored.
func (s *PatternStore) persist(ctx context.Context, key string, v any) {
	if s.kv == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("pattern encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, key, data, BlobVersion); err != nil {
		s.logger.Warn("pattern write failed", zap.String("key", key), zap.Error(err))
	}
}

// decodeList parses a persisted record list, keeping at most MaxRecords of the newest.
// Missing, stale or corrupt blobs yield an empty list.
func decodeList[T any](logger *zap.Logger, entries map[string]contract.Entry, key string) []T {
	e, ok := entries[key]
	if !ok {
		return nil
	}
	if e.Version != BlobVersion {
		logger.Warn("ignoring pattern blob with unknown version", zap.String("key", key), zap.Int("version", e.Version))
		return nil
	}
	var list []T
	if err := json.Unmarshal(e.Value, &list); err != nil {
		logger.Warn("ignoring corrupt pattern blob", zap.String("key", key), zap.Error(err))
		return nil
	}
	if len(list) > MaxRecords {
		list = list[len(list)-MaxRecords:]
	}
	return list
}

// mergePending appends records held in memory to the persisted list.
func mergePending[T any](persisted, pending []T) []T {
	for _, rec := range pending {
		persisted = appendBounded(persisted, rec)
	}
	return persisted
}

// appendBounded appends rec and drops the oldest entries beyond MaxRecords.
func appendBounded[T any](list []T, rec T) []T {
	list = append(list, rec)
	if len(list) > MaxRecords {
		list = slices.Clone(list[len(list)-MaxRecords:])
	}
	return list
}

func validateProductivity(r schema.ProductivitySample) error {
	switch {
	case r.Hour < 0 || r.Hour > 23:
		return fmt.Errorf("%w: hour %d is outside 0-23", ErrInvalidRecord, r.Hour)
	case r.DayOfWeek < 0 || r.DayOfWeek > 6:
		return fmt.Errorf("%w: day of week %d is outside 0-6", ErrInvalidRecord, r.DayOfWeek)
	case math.IsNaN(r.Score) || r.Score < 0 || r.Score > 1:
		return fmt.Errorf("%w: score %v is outside 0-1", ErrInvalidRecord, r.Score)
	}
	return nil
}

func validateSprint(r schema.SprintOutcome) error {
	switch {
	case r.DurationMinutes <= 0:
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidRecord, r.DurationMinutes)
	case r.TimeOfDay < 0 || r.TimeOfDay > 23:
		return fmt.Errorf("%w: time of day %d is outside 0-23", ErrInvalidRecord, r.TimeOfDay)
	case r.DayType != schema.Weekday && r.DayType != schema.Weekend:
		return fmt.Errorf("%w: unknown day type '%s'", ErrInvalidRecord, r.DayType)
	}
	return nil
}

func validateReaction(r schema.FeedbackReaction) error {
	if r.MoodShown == "" {
		return fmt.Errorf("%w: mood shown is required", ErrInvalidRecord)
	}
	if _, ok := schema.ValidReactions[r.Reaction]; !ok {
		return fmt.Errorf("%w: unknown reaction '%s'", ErrInvalidRecord, r.Reaction)
	}
	return nil
}
