package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Field and record separators used in GetCommitLog output.
const (
	LogFieldSep  = "\x1f"
	LogRecordSep = "\x1e"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetCommitLog implements the GitClient interface.
// Each record is "<sha>\x1f<author date>\x1f<raw body>\x1e".
func (c *LocalGitClient) GetCommitLog(ctx context.Context, repoPath string, limit int) ([]byte, error) {
	args := []string{
		"log",
		fmt.Sprintf("-n%d", limit),
		"--pretty=format:%H" + LogFieldSep + "%aI" + LogFieldSep + "%B" + LogRecordSep,
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		// A fresh repository has no HEAD yet.
		if strings.Contains(err.Error(), "does not have any commits") {
			return []byte{}, nil
		}
		return nil, err
	}
	return out, nil
}
