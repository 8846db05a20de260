//go:build integration

// Package integration contains integration tests for gitpet.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/gitpet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitAt commits an empty change in repo with the given message and author date.
func commitAt(t *testing.T, repo, message string, when time.Time) {
	t.Helper()
	cmd := exec.Command("git", "commit", "--allow-empty", "-m", message)
	cmd.Dir = repo
	stamp := when.Format(time.RFC3339)
	cmd.Env = append(cmd.Environ(),
		"GIT_AUTHOR_NAME=gitpet", "GIT_AUTHOR_EMAIL=gitpet@example.com", "GIT_AUTHOR_DATE="+stamp,
		"GIT_COMMITTER_NAME=gitpet", "GIT_COMMITTER_EMAIL=gitpet@example.com", "GIT_COMMITTER_DATE="+stamp,
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

// newLocalRepo creates a checkout holding the given messages, one per day, newest last.
func newLocalRepo(t *testing.T, messages ...string) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	repo := t.TempDir()
	out, err := exec.Command("git", "init", "-q", repo).CombinedOutput()
	require.NoError(t, err, string(out))

	now := time.Now().UTC()
	for i, msg := range messages {
		commitAt(t, repo, msg, now.Add(-time.Duration(len(messages)-1-i)*24*time.Hour))
	}
	return repo
}

func analyzeLocal(t *testing.T, repo string) schema.Decision {
	t.Helper()
	out, err := runGitpet(t, repo, []string{"GITPET_STORE_BACKEND=none"},
		"analyze", "--source", "local", "--output", "json", ".")
	require.NoError(t, err)

	var d schema.Decision
	require.NoError(t, json.Unmarshal(out, &d))
	return d
}

// TestLocalAnalysisMatchesHistory verifies the metrics against a history with known shape.
func TestLocalAnalysisMatchesHistory(t *testing.T) {
	repo := newLocalRepo(t, "feat: add parser", "fix: handle empty", "wip")

	d := analyzeLocal(t, repo)
	assert.Equal(t, schema.DoneState, d.State)
	assert.Equal(t, filepath.Base(repo), filepath.Base(d.Scope))
	require.NotNil(t, d.Metrics)
	assert.Equal(t, schema.DayCount(0), d.Metrics.DaysSinceLast)
	assert.Equal(t, 3, d.Metrics.Streak)
	assert.Equal(t, 12, d.Metrics.AvgMsgLen)
	assert.Equal(t, 67, d.Metrics.PctConventional)
	assert.Equal(t, schema.StreakShortMessageCategory, d.Category)
	assert.Nil(t, d.Override, "a fresh learner never overrides")
}

// TestLocalAnalysisConventionalHistory verifies the default category for a healthy history.
func TestLocalAnalysisConventionalHistory(t *testing.T) {
	repo := newLocalRepo(t, "feat: add the commit parser", "docs: describe the pet moods")

	d := analyzeLocal(t, repo)
	require.NotNil(t, d.Metrics)
	assert.Equal(t, 100, d.Metrics.PctConventional)
	assert.Equal(t, schema.DefaultCategory, d.Category)
	assert.NotEmpty(t, d.Text)
}

// TestVersionCommand checks the binary reports its build details.
func TestVersionCommand(t *testing.T) {
	out, err := exec.Command(getGitpetBinary(), "version").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(out), "gitpet CLI")
}
