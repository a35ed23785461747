package contract

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// gitIn runs git inside dir with a fixed identity and commit date.
func gitIn(t *testing.T, dir, date string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Alice",
		"GIT_AUTHOR_EMAIL=alice@example.com",
		"GIT_COMMITTER_NAME=Alice",
		"GIT_COMMITTER_EMAIL=alice@example.com",
		"GIT_AUTHOR_DATE="+date,
		"GIT_COMMITTER_DATE="+date,
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

// initTestRepo creates a repository with two commits on 2024-01-10 and 2024-02-20.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gitIn(t, dir, "2024-01-10T12:00:00", "init", "-q")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\ntwo\n"), 0o644))
	gitIn(t, dir, "2024-01-10T12:00:00", "add", ".")
	gitIn(t, dir, "2024-01-10T12:00:00", "commit", "-q", "-m", "first commit")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x\ny\nz\n"), 0o644))
	gitIn(t, dir, "2024-02-20T12:00:00", "add", ".")
	gitIn(t, dir, "2024-02-20T12:00:00", "commit", "-q", "-m", "second | with pipe")
	return dir
}

// TestMockGitClient_Run ensures the mock correctly records and returns
// expected values when its Run method is called.
func TestMockGitClient_Run(t *testing.T) {
	mockClient := new(MockGitClient)

	const expectedRepoPath = "/path/to/repo"
	expectedArgs := []string{"log", "-1", "--oneline"}
	expectedOutput := []byte("a1b2c3d commit message")
	expectedError := errors.New("mocked git error")

	// Run flattens its variadic args into m.Called, so .On must match that shape.
	ctx := context.Background()
	calledArgs := []any{ctx, expectedRepoPath}
	for _, arg := range expectedArgs {
		calledArgs = append(calledArgs, arg)
	}

	mockClient.
		On("Run", calledArgs...).
		Return(expectedOutput, expectedError).
		Once()

	actualOutput, actualError := mockClient.Run(ctx, expectedRepoPath, expectedArgs...)

	assert.Equal(t, expectedOutput, actualOutput, "Run should return the programmed output")
	assert.Equal(t, expectedError, actualError, "Run should return the programmed error")
	mockClient.AssertExpectations(t)
}

// TestNewLocalGitClient tests the constructor for LocalGitClient.
func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient()
	assert.NotNil(t, client, "NewLocalGitClient should return a non-nil client")
	assert.IsType(t, &LocalGitClient{}, client, "NewLocalGitClient should return a LocalGitClient instance")
}

// TestLocalGitClient_Run tests the Run method with various scenarios.
func TestLocalGitClient_Run(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initTestRepo(t)

	tests := []struct {
		name        string
		repoPath    string
		args        []string
		expectError bool
	}{
		{
			name:        "valid command",
			repoPath:    repo,
			args:        []string{"status", "--short"},
			expectError: false,
		},
		{
			name:        "invalid repo path",
			repoPath:    "/nonexistent/path",
			args:        []string{"status"},
			expectError: true,
		},
		{
			name:        "invalid git command",
			repoPath:    repo,
			args:        []string{"invalid-command"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Run(ctx, tt.repoPath, tt.args...)
			if tt.expectError {
				assert.Error(t, err, "Run should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "Run should not return an error for %s", tt.name)
			}
		})
	}
}

// TestLocalGitClient_GetCommitLog checks the window filter and the line format.
func TestLocalGitClient_GetCommitLog(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initTestRepo(t)

	window, err := ParseDateWindow("2024-02-01", "2024-02-28")
	require.NoError(t, err)

	out, err := client.GetCommitLog(ctx, repo, window)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 1, "only the February commit is inside the window")

	fields := strings.SplitN(lines[0], "|", 4)
	require.Len(t, fields, 4)
	assert.Len(t, fields[0], 40)
	assert.Equal(t, "alice@example.com", fields[1])
	assert.Equal(t, "second | with pipe", fields[3])

	window, err = ParseDateWindow("2023-01-01", "2023-12-31")
	require.NoError(t, err)
	out, err = client.GetCommitLog(ctx, repo, window)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(string(out)))
}

// TestLocalGitClient_GetCommitLogWindowEdges pins both ends of an inclusive window.
func TestLocalGitClient_GetCommitLogWindowEdges(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := t.TempDir()
	gitIn(t, repo, "2024-03-01T00:00:00", "init", "-q")

	commits := []struct{ date, msg string }{
		{"2024-03-01T00:00:00", "start edge"},
		{"2024-03-31T23:59:59", "end edge"},
		{"2024-04-01T00:00:00", "next day"},
	}
	for _, c := range commits {
		gitIn(t, repo, c.date, "commit", "-q", "--allow-empty", "-m", c.msg)
	}

	window, err := ParseDateWindow("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	out, err := client.GetCommitLog(ctx, repo, window)
	require.NoError(t, err)

	var messages []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		fields := strings.SplitN(line, "|", 4)
		require.Len(t, fields, 4)
		messages = append(messages, fields[3])
	}
	assert.ElementsMatch(t, []string{"start edge", "end edge"}, messages)
	assert.NotContains(t, messages, "next day")
}

// TestLocalGitClient_GetCommitNumstat tests the per-commit numstat output.
func TestLocalGitClient_GetCommitNumstat(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := initTestRepo(t)

	out, err := client.GetCommitNumstat(ctx, repo, "HEAD")
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "0\t1\ta.txt")
	assert.Contains(t, text, "3\t0\tb.txt")

	_, err = client.GetCommitNumstat(ctx, repo, "deadbeef")
	assert.Error(t, err, "unknown revision should fail")
}

// TestLocalGitClient_CloneCheckoutRemote exercises clone and remote lookups on a local origin.
func TestLocalGitClient_CloneCheckoutRemote(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	origin := initTestRepo(t)
	gitIn(t, origin, "2024-02-20T12:00:00", "branch", "prod")

	dest := filepath.Join(t.TempDir(), "clone")
	require.NoError(t, client.Clone(ctx, origin, dest))
	assert.True(t, IsDir(filepath.Join(dest, ".git")))

	url, err := client.GetRemoteURL(ctx, dest)
	require.NoError(t, err)
	assert.Equal(t, origin, url)

	assert.NoError(t, client.Checkout(ctx, dest, "prod"))
	assert.Error(t, client.Checkout(ctx, dest, "no-such-branch"))

	_, err = client.Pull(ctx, dest)
	assert.NoError(t, err)
}
