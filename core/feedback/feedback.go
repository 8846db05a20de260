// Package feedback classifies commit metrics into feedback categories and
// picks non-repeating messages from each category's pool.
package feedback

import (
	"context"
	"strconv"
	"strings"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
	"go.uber.org/zap"
)

// Classification thresholds.
const (
	quietDays         = 3
	streakDays        = 3
	shortMessageLen   = 20
	lowConventionalPc = 30
)

// CursorVersion is the format version of stored rotation cursors.
const CursorVersion = 1

// Classifier maps metrics to feedback and rotates through message pools per scope.
type Classifier struct {
	store  contract.KVStore
	logger *zap.Logger
	pools  map[schema.FeedbackCategory][]string
}

// NewClassifier creates a classifier persisting its cursors in store.
// A nil store keeps every cursor at index 0.
func NewClassifier(store contract.KVStore, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{store: store, logger: logger, pools: defaultPools}
}

// Categorize applies the classification rules in priority order. It is a pure function.
func Categorize(m schema.Metrics) schema.FeedbackCategory {
	switch {
	case m.DaysSinceLast > quietDays:
		return schema.QuietCategory
	case m.Streak >= streakDays && m.AvgMsgLen < shortMessageLen:
		return schema.StreakShortMessageCategory
	case m.PctConventional < lowConventionalPc && m.AvgMsgLen >= shortMessageLen:
		return schema.LowConventionalCategory
	default:
		return schema.DefaultCategory
	}
}

// Classify returns the feedback for m and advances the rotation cursor of
// the chosen category for scope. latestMessage feeds the DEFAULT teaser.
func (c *Classifier) Classify(ctx context.Context, m schema.Metrics, scope, latestMessage string) schema.Feedback {
	category := Categorize(m)
	pool := c.pools[category]
	idx := c.nextIndex(ctx, CursorKey(scope, category), len(pool))

	text := render(pool[idx], m)
	if category == schema.DefaultCategory {
		text = teaser(latestMessage) + ": " + text
	}

	return schema.Feedback{
		Category:  category,
		Mood:      categoryMoods[category],
		Text:      text,
		Rationale: rationale(category, m),
	}
}

// Fallback is the static feedback used when commits could not be fetched.
// It never touches a cursor.
func Fallback() schema.Feedback {
	return schema.Feedback{
		Category:  schema.ErrorCategory,
		Mood:      categoryMoods[schema.ErrorCategory],
		Text:      FallbackText,
		Rationale: "Commit history unavailable",
	}
}

// CursorKey is the store key of the rotation cursor for a scope and category.
func CursorKey(scope string, category schema.FeedbackCategory) string {
	return "cursor:" + scope + ":" + string(category)
}

// nextIndex reads the cursor at key, writes its successor and returns the pool index to use.
// Storage failures fall back to index 0.
func (c *Classifier) nextIndex(ctx context.Context, key string, poolSize int) int {
	if c.store == nil || poolSize <= 1 {
		return 0
	}

	idx := 0
	entries, err := c.store.GetMany(ctx, key)
	if err != nil {
		c.logger.Warn("cursor read failed", zap.String("key", key), zap.Error(err))
		return 0
	}
	if e, ok := entries[key]; ok && e.Version == CursorVersion {
		n, err := strconv.Atoi(strings.TrimSpace(string(e.Value)))
		if err != nil || n < 0 {
			c.logger.Warn("ignoring corrupt cursor", zap.String("key", key), zap.ByteString("value", e.Value))
		} else {
			idx = n % poolSize
		}
	}

	next := strconv.Itoa((idx + 1) % poolSize)
	if err := c.store.Set(ctx, key, []byte(next), CursorVersion); err != nil {
		c.logger.Warn("cursor write failed", zap.String("key", key), zap.Error(err))
	}
	return idx
}
