package repos

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	exists bool
	err    error
}

func (s stubChecker) BranchExists(context.Context, string, string) (bool, error) {
	return s.exists, s.err
}

func TestPull(t *testing.T) {
	ctx := context.Background()
	present := t.TempDir()
	broken := t.TempDir()
	repos := []contract.RepoConfig{
		{Name: "api", Path: present},
		{Name: "web", Path: filepath.Join(t.TempDir(), "missing")},
		{Name: "ops", Path: broken},
	}

	client := &contract.MockGitClient{}
	client.On("Pull", ctx, present).Return([]byte("Already up to date.\n"), nil)
	client.On("Pull", ctx, broken).Return(nil, errors.New("exit status 1: not a git repository"))

	got := NewManager(client, repos, nil).Pull(ctx)
	assert.Equal(t, map[string]string{
		"api": "Already up to date.",
		"web": StatusMissingDir,
		"ops": "exit status 1: not a git repository",
	}, got)
	client.AssertExpectations(t)
}

// cloneCreatesGit makes the mocked clone leave a repository behind.
func cloneCreatesGit(args mock.Arguments) {
	_ = os.MkdirAll(filepath.Join(args.String(2), ".git"), 0o755)
}

func TestSetup(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	existing := filepath.Join(root, "existing")
	require.NoError(t, os.MkdirAll(filepath.Join(existing, ".git"), 0o755))

	stale := filepath.Join(root, "stale")
	require.NoError(t, os.MkdirAll(stale, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "junk.txt"), []byte("x"), 0o644))

	fresh := filepath.Join(root, "nested", "fresh")

	repos := []contract.RepoConfig{
		{Name: "existing", Path: existing, CloneURL: "https://github.com/acme/existing.git"},
		{Name: "stale", Path: stale, CloneURL: "https://github.com/acme/stale.git"},
		{Name: "fresh", Path: fresh, CloneURL: "https://github.com/acme/fresh.git"},
		{Name: "local", Path: filepath.Join(root, "local")},
	}

	client := &contract.MockGitClient{}
	client.On("Clone", ctx, "https://github.com/acme/stale.git", stale).Run(cloneCreatesGit).Return(nil)
	client.On("Clone", ctx, "https://github.com/acme/fresh.git", fresh).Run(cloneCreatesGit).Return(nil)
	client.On("Checkout", ctx, stale, ProdBranch).Return(nil)
	client.On("Checkout", ctx, fresh, ProdBranch).Return(errors.New("pathspec 'prod' did not match"))

	got := NewManager(client, repos, nil).Setup(ctx)
	assert.Equal(t, map[string]string{
		"existing": StatusExists,
		"stale":    StatusClonedProd,
		"fresh":    StatusCloned,
		"local":    StatusNoCloneURL,
	}, got)

	_, err := os.Stat(filepath.Join(stale, "junk.txt"))
	assert.True(t, os.IsNotExist(err), "non-git directory is replaced")
	client.AssertNotCalled(t, "Clone", ctx, "https://github.com/acme/existing.git", existing)
	client.AssertExpectations(t)
}

func TestSetup_CloneFailure(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "api")
	repos := []contract.RepoConfig{{Name: "api", Path: path, CloneURL: "https://github.com/acme/api.git"}}

	client := &contract.MockGitClient{}
	client.On("Clone", ctx, "https://github.com/acme/api.git", path).Return(errors.New("auth required"))

	got := NewManager(client, repos, nil).Setup(ctx)
	assert.Contains(t, got["api"], "auth required")
	client.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetup_BranchChecker(t *testing.T) {
	ctx := context.Background()

	t.Run("missing prod skips checkout", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "api")
		repos := []contract.RepoConfig{{Name: "api", Path: path, URL: "https://github.com/acme/api", CloneURL: "https://github.com/acme/api.git"}}
		client := &contract.MockGitClient{}
		client.On("Clone", ctx, "https://github.com/acme/api.git", path).Run(cloneCreatesGit).Return(nil)

		got := NewManager(client, repos, stubChecker{exists: false}).Setup(ctx)
		assert.Equal(t, StatusCloned, got["api"])
		client.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("checker error still tries checkout", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "api")
		repos := []contract.RepoConfig{{Name: "api", Path: path, URL: "https://github.com/acme/api", CloneURL: "https://github.com/acme/api.git"}}
		client := &contract.MockGitClient{}
		client.On("Clone", ctx, "https://github.com/acme/api.git", path).Run(cloneCreatesGit).Return(nil)
		client.On("Checkout", ctx, path, ProdBranch).Return(nil)

		got := NewManager(client, repos, stubChecker{err: errors.New("rate limited")}).Setup(ctx)
		assert.Equal(t, StatusClonedProd, got["api"])
	})
}
