package contract

import (
	"context"

	"github.com/huangsam/gitpet/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// GetCommitLog implements the GitClient interface.
func (m *MockGitClient) GetCommitLog(ctx context.Context, repoPath string, limit int) ([]byte, error) {
	ret := m.Called(ctx, repoPath, limit)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// MockScopeResolver is a mock implementation of ScopeResolver for testing.
type MockScopeResolver struct {
	mock.Mock
}

var _ ScopeResolver = &MockScopeResolver{} // Compile-time check

// RepoRoot implements the ScopeResolver interface.
func (m *MockScopeResolver) RepoRoot(ctx context.Context, path string) (string, error) {
	ret := m.Called(ctx, path)
	return ret.String(0), ret.Error(1)
}

// RemoteSlug implements the ScopeResolver interface.
func (m *MockScopeResolver) RemoteSlug(ctx context.Context, path string) (string, error) {
	ret := m.Called(ctx, path)
	return ret.String(0), ret.Error(1)
}

// MockCommitFeed is a mock implementation of CommitFeed for testing.
type MockCommitFeed struct {
	mock.Mock
}

var _ CommitFeed = &MockCommitFeed{} // Compile-time check

// FetchCommits implements the CommitFeed interface.
func (m *MockCommitFeed) FetchCommits(ctx context.Context, scope string) ([]schema.CommitRecord, error) {
	ret := m.Called(ctx, scope)
	commits, _ := ret.Get(0).([]schema.CommitRecord)
	return commits, ret.Error(1)
}
