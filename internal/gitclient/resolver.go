package gitclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/huangsam/gitpet/internal/contract"
)

// ErrNoOrigin is returned when a checkout has no usable origin remote.
var ErrNoOrigin = errors.New("checkout has no origin remote")

// Resolver resolves checkouts with go-git, without shelling out.
type Resolver struct{}

var _ contract.ScopeResolver = &Resolver{} // Compile-time check

// NewResolver creates a resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// RepoRoot implements the ScopeResolver interface.
func (r *Resolver) RepoRoot(_ context.Context, path string) (string, error) {
	repo, err := open(path)
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("checkout at %s has no worktree: %w", path, err)
	}
	return wt.Filesystem.Root(), nil
}

// RemoteSlug implements the ScopeResolver interface.
func (r *Resolver) RemoteSlug(_ context.Context, path string) (string, error) {
	repo, err := open(path)
	if err != nil {
		return "", err
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoOrigin, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", ErrNoOrigin
	}
	return ParseRemoteSlug(urls[0])
}

func open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("not a git repository (%s): %w", path, err)
	}
	return repo, nil
}

// ParseRemoteSlug extracts "owner/repo" from a remote URL.
// Supports: git@github.com:owner/repo.git, https://github.com/owner/repo(.git), ssh://git@host/owner/repo.git
func ParseRemoteSlug(remote string) (string, error) {
	var path string
	if u, err := url.Parse(remote); err == nil && u.Scheme != "" && u.Host != "" {
		path = u.Path
	} else if _, after, ok := strings.Cut(remote, ":"); ok && strings.Contains(remote, "@") {
		path = after // scp-like syntax
	} else {
		return "", fmt.Errorf("unrecognized remote URL %q", remote)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("remote URL %q has no owner/repo path", remote)
	}
	slug := parts[len(parts)-2] + "/" + parts[len(parts)-1]
	if !contract.IsRepoSlug(slug) {
		return "", fmt.Errorf("remote URL %q has no owner/repo path", remote)
	}
	return slug, nil
}
