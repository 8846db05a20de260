package contract

import (
	"errors"
	"fmt"
)

// Distinguishable commit feed failures.
var (
	ErrFetchNetwork     = errors.New("commit feed unreachable")
	ErrFetchRateLimited = errors.New("commit feed rate limited")
	ErrFetchNotFound    = errors.New("repository not found")
	ErrFetchTimeout     = errors.New("commit fetch timed out")
	ErrFetchAuth        = errors.New("commit feed rejected the credentials")
	ErrFetchMalformed   = errors.New("commit history is malformed")
)

// FetchError wraps a commit feed failure with its kind and scope.
type FetchError struct {
	Kind  error // One of the ErrFetch* sentinels
	Scope string
	Err   error
}

// NewFetchError creates a FetchError of the given kind.
func NewFetchError(kind error, scope string, err error) *FetchError {
	return &FetchError{Kind: kind, Scope: scope, Err: err}
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %v", e.Scope, e.Kind)
	}
	return fmt.Sprintf("fetch %s: %v: %v", e.Scope, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// FetchKindLabel returns a short label for the kind of a fetch failure, suitable for metrics.
func FetchKindLabel(err error) string {
	switch {
	case errors.Is(err, ErrFetchTimeout):
		return "timeout"
	case errors.Is(err, ErrFetchRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrFetchNotFound):
		return "not_found"
	case errors.Is(err, ErrFetchAuth):
		return "auth"
	case errors.Is(err, ErrFetchMalformed):
		return "malformed"
	case errors.Is(err, ErrFetchNetwork):
		return "network"
	default:
		return "unknown"
	}
}
