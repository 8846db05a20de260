// Package gitclient has the commit feeds and scope resolution behind gitpet.
package gitclient

import (
	"context"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
	"go.uber.org/zap"
)

// NewFeed builds the commit feed selected by cfg.Source.
func NewFeed(ctx context.Context, cfg *contract.Config, logger *zap.Logger) contract.CommitFeed {
	if cfg.Source == schema.LocalSource {
		return NewLocalFeed(contract.NewLocalGitClient(), cfg.CommitLimit)
	}
	return NewGitHubFeed(ctx, cfg.GitHubToken, cfg.CommitLimit, logger)
}
