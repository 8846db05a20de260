// Package contract provides interfaces and shared utilities for gitpet's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/gitpet/schema"
)

// CommitFeed supplies the recent commit history of a scope.
// Implementations must return a *FetchError on failure rather than a partial list.
type CommitFeed interface {
	FetchCommits(ctx context.Context, scope string) ([]schema.CommitRecord, error)
}

// GitClient defines the local Git operations gitpet relies on.
// This allows the local commit feed to be tested without needing a real git executable.
type GitClient interface {
	// Run executes a git command and returns its output.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetCommitLog returns the raw log of the newest limit commits, one record per commit.
	GetCommitLog(ctx context.Context, repoPath string, limit int) ([]byte, error)
}

// ScopeResolver turns a checkout path into the scope identifiers gitpet keys data by.
type ScopeResolver interface {
	// RepoRoot returns the worktree root of the checkout containing path.
	RepoRoot(ctx context.Context, path string) (string, error)

	// RemoteSlug returns "owner/repo" parsed from the checkout's origin remote.
	RemoteSlug(ctx context.Context, path string) (string, error)
}

// Entry is a stored value together with its format version and write time.
type Entry struct {
	Value     []byte
	Version   int
	Timestamp int64 // Unix nanoseconds of the last write
}

// KVStore is the durable key-value store behind rotation cursors and pattern blobs.
// This allows mocking the store for testing.
type KVStore interface {
	// GetMany returns the entries for the keys that exist. Missing keys are absent from the map.
	GetMany(ctx context.Context, keys ...string) (map[string]Entry, error)

	// Set upserts a single key atomically.
	Set(ctx context.Context, key string, value []byte, version int) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// StoreManager defines the interface for managing the process-wide store.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetKVStore() KVStore
}

// Learner accumulates interaction records and answers prediction queries.
type Learner interface {
	// RecordPattern appends a record and refreshes the insights it affects.
	RecordPattern(ctx context.Context, rec schema.InteractionRecord) error

	// GeneratePredictions returns the confidence-gated predictions for now.
	GeneratePredictions(ctx context.Context, now time.Time) schema.Predictions
}

// PetService is the surface the CLI and agent transports drive.
type PetService interface {
	// Analyze runs the full analysis flow for scope. It never fails; fetch failures yield the fallback decision.
	Analyze(ctx context.Context, scope string) schema.Decision

	// RecordReaction stores how the user received a message shown in mood.
	RecordReaction(ctx context.Context, mood schema.Mood, reaction schema.Reaction) error

	// RecordSprint stores the outcome of a sprint of the given length.
	RecordSprint(ctx context.Context, minutes int, success bool) error

	// Predictions returns the confidence-gated predictions for the current time.
	Predictions(ctx context.Context) schema.Predictions
}
