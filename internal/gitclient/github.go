package gitclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// RetryConfig configures retry behavior for GitHub API calls.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts.
	MaxRetries int

	// InitialBackoff is the wait before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the wait between retries.
	MaxBackoff time.Duration

	// BackoffMultiplier grows the wait after every retry.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration for GitHub API calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// GitHubFeed fetches recent commits of an "owner/repo" scope from the GitHub API.
type GitHubFeed struct {
	client *github.Client
	limit  int
	retry  RetryConfig
	logger *zap.Logger
}

var _ contract.CommitFeed = &GitHubFeed{} // Compile-time check

// NewGitHubFeed creates a feed authenticated with token. An empty token uses anonymous access.
func NewGitHubFeed(ctx context.Context, token string, limit int, logger *zap.Logger) *GitHubFeed {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(ctx, ts)
	}
	return NewGitHubFeedWithClient(github.NewClient(hc), limit, logger)
}

// NewGitHubFeedWithClient creates a feed over an existing client.
func NewGitHubFeedWithClient(client *github.Client, limit int, logger *zap.Logger) *GitHubFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 || limit > contract.MaxCommitLimit {
		limit = contract.DefaultCommitLimit
	}
	return &GitHubFeed{client: client, limit: limit, retry: DefaultRetryConfig(), logger: logger}
}

// FetchCommits implements the CommitFeed interface.
func (f *GitHubFeed) FetchCommits(ctx context.Context, scope string) ([]schema.CommitRecord, error) {
	owner, repo, ok := strings.Cut(scope, "/")
	if !ok || !contract.IsRepoSlug(scope) {
		return nil, contract.NewFetchError(contract.ErrFetchNotFound, scope, errors.New("scope must be owner/repo"))
	}

	opts := &github.CommitsListOptions{ListOptions: github.ListOptions{PerPage: f.limit}}
	var commits []*github.RepositoryCommit
	resp, err := f.withRetry(ctx, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		commits, resp, err = f.client.Repositories.ListCommits(ctx, owner, repo, opts)
		return resp, err
	})
	if err != nil {
		if statusCode(resp) == http.StatusConflict {
			return []schema.CommitRecord{}, nil // empty repository
		}
		return nil, classifyError(ctx, scope, resp, err)
	}

	records := make([]schema.CommitRecord, 0, len(commits))
	for i, c := range commits {
		records = append(records, schema.CommitRecord{
			SHA:        c.GetSHA(),
			Message:    c.GetCommit().GetMessage(),
			AuthorDate: commitDate(c),
			Position:   i,
		})
	}
	return records, nil
}

// commitDate prefers the author date and falls back to the committer date.
func commitDate(c *github.RepositoryCommit) time.Time {
	if d := c.GetCommit().GetAuthor().GetDate(); !d.IsZero() {
		return d.Time
	}
	return c.GetCommit().GetCommitter().GetDate().Time
}

// withRetry retries operation with exponential backoff on transient failures.
func (f *GitHubFeed) withRetry(ctx context.Context, operation func() (*github.Response, error)) (*github.Response, error) {
	var lastResp *github.Response
	var lastErr error
	backoff := f.retry.InitialBackoff

	for attempt := 0; attempt <= f.retry.MaxRetries; attempt++ {
		resp, err := operation()
		if err == nil {
			if attempt > 0 {
				f.logger.Info("GitHub API call recovered after retries", zap.Int("attempts", attempt))
			}
			return resp, nil
		}
		lastResp, lastErr = resp, err

		if !isRetryable(ctx, resp, err) || attempt == f.retry.MaxRetries {
			break
		}

		wait := backoff
		var abuse *github.AbuseRateLimitError
		if errors.As(err, &abuse) && abuse.GetRetryAfter() > 0 {
			wait = min(abuse.GetRetryAfter(), f.retry.MaxBackoff)
		}
		f.logger.Info("Retrying GitHub API call after transient error",
			zap.Int("attempt", attempt+1),
			zap.Int("status_code", statusCode(resp)),
			zap.Duration("backoff", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return lastResp, ctx.Err()
		case <-time.After(wait):
		}
		backoff = min(time.Duration(float64(backoff)*f.retry.BackoffMultiplier), f.retry.MaxBackoff)
	}
	return lastResp, lastErr
}

// isRetryable reports whether a failed call may succeed when repeated.
// Primary rate limits, auth failures and missing repositories are final.
func isRetryable(ctx context.Context, resp *github.Response, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var rate *github.RateLimitError
	if errors.As(err, &rate) {
		return false
	}
	var abuse *github.AbuseRateLimitError
	if errors.As(err, &abuse) {
		return true
	}
	code := statusCode(resp)
	switch {
	case code == 0:
		return true // no response: transport error
	case code == http.StatusTooManyRequests:
		return true
	case code >= 500 && code < 600:
		return true
	default:
		return false
	}
}

// classifyError maps a final GitHub failure onto a FetchError kind.
func classifyError(ctx context.Context, scope string, resp *github.Response, err error) error {
	var rate *github.RateLimitError
	var abuse *github.AbuseRateLimitError
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return contract.NewFetchError(contract.ErrFetchTimeout, scope, err)
	case errors.As(err, &rate), errors.As(err, &abuse), statusCode(resp) == http.StatusTooManyRequests:
		return contract.NewFetchError(contract.ErrFetchRateLimited, scope, err)
	}
	switch statusCode(resp) {
	case http.StatusNotFound:
		return contract.NewFetchError(contract.ErrFetchNotFound, scope, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return contract.NewFetchError(contract.ErrFetchAuth, scope, err)
	default:
		return contract.NewFetchError(contract.ErrFetchNetwork, scope, fmt.Errorf("list commits: %w", err))
	}
}

func statusCode(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
