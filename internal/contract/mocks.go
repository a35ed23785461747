package contract

import (
	"context"

	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	callArgs := []any{ctx, repoPath}
	for _, a := range args {
		callArgs = append(callArgs, a)
	}
	ret := m.Called(callArgs...)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// GetCommitLog implements the GitClient interface.
func (m *MockGitClient) GetCommitLog(ctx context.Context, repoPath string, window DateWindow) ([]byte, error) {
	ret := m.Called(ctx, repoPath, window)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// GetCommitNumstat implements the GitClient interface.
func (m *MockGitClient) GetCommitNumstat(ctx context.Context, repoPath string, hash string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, hash)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// Pull implements the GitClient interface.
func (m *MockGitClient) Pull(ctx context.Context, repoPath string) ([]byte, error) {
	ret := m.Called(ctx, repoPath)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// Clone implements the GitClient interface.
func (m *MockGitClient) Clone(ctx context.Context, url string, dest string) error {
	return m.Called(ctx, url, dest).Error(0)
}

// Checkout implements the GitClient interface.
func (m *MockGitClient) Checkout(ctx context.Context, repoPath string, ref string) error {
	return m.Called(ctx, repoPath, ref).Error(0)
}

// GetRemoteURL implements the GitClient interface.
func (m *MockGitClient) GetRemoteURL(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	return ret.String(0), ret.Error(1)
}

// MockWorkItemSource is a mock implementation of WorkItemSource for testing.
type MockWorkItemSource struct {
	mock.Mock
}

var _ WorkItemSource = &MockWorkItemSource{} // Compile-time check

// ListWorkItems implements the WorkItemSource interface.
func (m *MockWorkItemSource) ListWorkItems(ctx context.Context, projectID string) ([]schema.WorkItem, error) {
	ret := m.Called(ctx, projectID)
	items, _ := ret.Get(0).([]schema.WorkItem)
	return items, ret.Error(1)
}

// MockSummarizer is a mock implementation of Summarizer for testing.
type MockSummarizer struct {
	mock.Mock
}

var _ Summarizer = &MockSummarizer{} // Compile-time check

// Summarize implements the Summarizer interface.
func (m *MockSummarizer) Summarize(ctx context.Context, diffText string, taskName string) (string, error) {
	ret := m.Called(ctx, diffText, taskName)
	return ret.String(0), ret.Error(1)
}
