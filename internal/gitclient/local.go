package gitclient

import (
	"context"
	"errors"

	"github.com/huangsam/gitpet/core/agg"
	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
)

// LocalFeed reads the commit history of a checkout through the git binary.
// Its scope is the checkout root.
type LocalFeed struct {
	client contract.GitClient
	limit  int
}

var _ contract.CommitFeed = &LocalFeed{} // Compile-time check

// NewLocalFeed creates a feed over client returning at most limit commits.
func NewLocalFeed(client contract.GitClient, limit int) *LocalFeed {
	if limit <= 0 || limit > contract.MaxCommitLimit {
		limit = contract.DefaultCommitLimit
	}
	return &LocalFeed{client: client, limit: limit}
}

// FetchCommits implements the CommitFeed interface.
func (f *LocalFeed) FetchCommits(ctx context.Context, scope string) ([]schema.CommitRecord, error) {
	out, err := f.client.GetCommitLog(ctx, scope, f.limit)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, contract.NewFetchError(contract.ErrFetchTimeout, scope, err)
		}
		return nil, contract.NewFetchError(contract.ErrFetchNotFound, scope, err)
	}
	commits, err := agg.ParseCommitLog(out)
	if err != nil {
		return nil, contract.NewFetchError(contract.ErrFetchMalformed, scope, err)
	}
	if commits == nil {
		commits = []schema.CommitRecord{}
	}
	return commits, nil
}
