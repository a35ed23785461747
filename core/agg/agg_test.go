package agg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/internal/directory"
	"github.com/rehman-1/git-asana-backend/internal/iocache"
	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testDirectory = directory.New(map[string]schema.Developer{
	"alice": {En: "Alice Kim", Kr: "김앨리스", GitID: "alicek"},
})

func testWindow(t *testing.T) contract.DateWindow {
	t.Helper()
	w, err := contract.ParseDateWindow("2023-11-01", "2023-11-30")
	require.NoError(t, err)
	return w
}

// noCacheManager returns a manager whose caches are all absent.
func noCacheManager() *iocache.MockCacheManager {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetStatsStore").Return(nil)
	mgr.On("GetReportCache").Return(nil)
	return mgr
}

func TestExtractRepo(t *testing.T) {
	ctx := context.Background()
	w := testWindow(t)
	repo := contract.RepoConfig{Name: "api", Path: t.TempDir(), URL: "https://github.com/acme/api"}

	client := &contract.MockGitClient{}
	client.On("GetCommitLog", ctx, repo.Path, w).Return([]byte(
		"h1|alice@example.com|1700000100|feat: login\n"+
			"bad line\n"+
			"h2|ghost|1700000200|chore | deps\n"), nil)
	client.On("GetCommitNumstat", ctx, repo.Path, "h1").Return([]byte("3\t1\ta.go\n-\t-\tlogo.png\n"), nil)
	client.On("GetCommitNumstat", ctx, repo.Path, "h2").Return([]byte(""), nil)

	a := NewAggregator(client, testDirectory, nil)
	records, err := a.ExtractRepo(ctx, repo, w)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, schema.CommitRecord{
		Repo:      "api",
		Developer: "Alice Kim (alice, 김앨리스, alicek)",
		Hash:      "h1",
		Timestamp: 1700000100,
		Message:   "feat: login",
		Added:     3,
		Deleted:   1,
		Files:     1,
		Link:      "https://github.com/acme/api/commit/h1",
	}, records[0])
	assert.Equal(t, "ghost (unknown)", records[1].Developer)
	assert.Equal(t, "chore | deps", records[1].Message)
	assert.Equal(t, 0, records[1].Files)
	client.AssertExpectations(t)
}

func TestExtractRepo_MissingPath(t *testing.T) {
	client := &contract.MockGitClient{}
	a := NewAggregator(client, testDirectory, nil)

	records, err := a.ExtractRepo(context.Background(), contract.RepoConfig{Name: "gone", Path: filepath.Join(t.TempDir(), "missing")}, testWindow(t))
	assert.NoError(t, err)
	assert.Empty(t, records)
	client.AssertNotCalled(t, "GetCommitLog", mock.Anything, mock.Anything, mock.Anything)
}

func TestExtractRepo_GitFailure(t *testing.T) {
	ctx := context.Background()
	w := testWindow(t)
	repo := contract.RepoConfig{Name: "api", Path: t.TempDir()}

	client := &contract.MockGitClient{}
	client.On("GetCommitLog", ctx, repo.Path, w).Return(nil, errors.New("not a git repository"))

	_, err := NewAggregator(client, testDirectory, nil).ExtractRepo(ctx, repo, w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository api")
}

func TestExtractRepo_NumstatFailure(t *testing.T) {
	ctx := context.Background()
	w := testWindow(t)
	repo := contract.RepoConfig{Name: "api", Path: t.TempDir()}

	client := &contract.MockGitClient{}
	client.On("GetCommitLog", ctx, repo.Path, w).Return([]byte("h1|a@b|1700000100|x\n"), nil)
	client.On("GetCommitNumstat", ctx, repo.Path, "h1").Return(nil, errors.New("bad object"))

	_, err := NewAggregator(client, testDirectory, nil).ExtractRepo(ctx, repo, w)
	assert.Error(t, err)
}

func twoRepoConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		Workers: 2,
		Repos: []contract.RepoConfig{
			{Name: "api", Path: t.TempDir()},
			{Name: "web", Path: t.TempDir()},
		},
	}
}

func TestGenerateCommitReport_OrderAndTies(t *testing.T) {
	ctx := context.Background()
	w := testWindow(t)
	cfg := twoRepoConfig(t)

	client := &contract.MockGitClient{}
	client.On("GetCommitLog", ctx, cfg.Repos[0].Path, w).Return([]byte(
		"a1|alice@x|1700000100|api old\n"+
			"a2|alice@x|1700000300|api tie\n"), nil)
	client.On("GetCommitLog", ctx, cfg.Repos[1].Path, w).Return([]byte(
		"w1|bob@x|1700000300|web tie\n"+
			"w2|bob@x|1700000200|web mid\n"), nil)
	client.On("GetCommitNumstat", ctx, mock.Anything, mock.Anything).Return([]byte("1\t0\tf\n"), nil)

	a := NewAggregator(client, testDirectory, noCacheManager())
	records, err := a.GenerateCommitReport(ctx, cfg, w, false)
	require.NoError(t, err)
	require.Len(t, records, 4)

	var messages []string
	for _, r := range records {
		messages = append(messages, r.Message)
	}
	// Equal timestamps keep configuration order (api before web).
	assert.Equal(t, []string{"api tie", "web tie", "web mid", "api old"}, messages)
}

func TestGenerateCommitReport_PartialFailure(t *testing.T) {
	ctx := context.Background()
	w := testWindow(t)
	cfg := twoRepoConfig(t)

	client := &contract.MockGitClient{}
	client.On("GetCommitLog", ctx, cfg.Repos[0].Path, w).Return(nil, errors.New("boom"))
	client.On("GetCommitLog", ctx, cfg.Repos[1].Path, w).Return([]byte("w1|bob@x|1700000300|web\n"), nil)
	client.On("GetCommitNumstat", ctx, cfg.Repos[1].Path, "w1").Return([]byte(""), nil)

	records, err := NewAggregator(client, testDirectory, noCacheManager()).GenerateCommitReport(ctx, cfg, w, false)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "web", records[0].Repo)
}

func TestGenerateCommitReport_AllFail(t *testing.T) {
	ctx := context.Background()
	w := testWindow(t)
	cfg := twoRepoConfig(t)

	client := &contract.MockGitClient{}
	client.On("GetCommitLog", ctx, mock.Anything, w).Return(nil, errors.New("boom"))

	_, err := NewAggregator(client, testDirectory, noCacheManager()).GenerateCommitReport(ctx, cfg, w, false)
	assert.Error(t, err)
}

func TestGenerateCommitReport_EmptyIsNotNil(t *testing.T) {
	ctx := context.Background()
	w := testWindow(t)
	cfg := &contract.Config{Workers: 1, Repos: []contract.RepoConfig{{Name: "gone", Path: filepath.Join(t.TempDir(), "x")}}}

	reports := &iocache.MockReportCache{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetStatsStore").Return(nil)
	mgr.On("GetReportCache").Return(reports)

	records, err := NewAggregator(&contract.MockGitClient{}, testDirectory, mgr).GenerateCommitReport(ctx, cfg, w, false)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	reports.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateCommitReport_Cache(t *testing.T) {
	ctx := context.Background()
	w := testWindow(t)
	cfg := twoRepoConfig(t)
	cfg.Repos = cfg.Repos[:1]
	key := cfg.RepoSetKey()

	cached := []schema.CommitRecord{{Repo: "api", Hash: "c1", Timestamp: 1700000000, Message: "from cache"}}

	t.Run("hit", func(t *testing.T) {
		reports := &iocache.MockReportCache{}
		reports.On("Get", key, "2023-11-01", "2023-11-30").Return(cached, true).Once()
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetStatsStore").Return(nil)
		mgr.On("GetReportCache").Return(reports)
		client := &contract.MockGitClient{}

		records, err := NewAggregator(client, testDirectory, mgr).GenerateCommitReport(ctx, cfg, w, true)
		require.NoError(t, err)
		assert.Equal(t, cached, records)
		client.AssertNotCalled(t, "GetCommitLog", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("miss writes back", func(t *testing.T) {
		reports := &iocache.MockReportCache{}
		reports.On("Get", key, "2023-11-01", "2023-11-30").Return(nil, false).Once()
		reports.On("Put", key, "2023-11-01", "2023-11-30", mock.Anything).Return(nil).Once()
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetStatsStore").Return(nil)
		mgr.On("GetReportCache").Return(reports)

		client := &contract.MockGitClient{}
		client.On("GetCommitLog", ctx, cfg.Repos[0].Path, w).Return([]byte("a1|alice@x|1700000100|live\n"), nil)
		client.On("GetCommitNumstat", ctx, cfg.Repos[0].Path, "a1").Return([]byte(""), nil)

		records, err := NewAggregator(client, testDirectory, mgr).GenerateCommitReport(ctx, cfg, w, true)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "live", records[0].Message)
		reports.AssertExpectations(t)
	})

	t.Run("no cache still writes", func(t *testing.T) {
		reports := &iocache.MockReportCache{}
		reports.On("Put", key, "2023-11-01", "2023-11-30", mock.Anything).Return(nil).Once()
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetStatsStore").Return(nil)
		mgr.On("GetReportCache").Return(reports)

		client := &contract.MockGitClient{}
		client.On("GetCommitLog", ctx, cfg.Repos[0].Path, w).Return([]byte("a1|alice@x|1700000100|live\n"), nil)
		client.On("GetCommitNumstat", ctx, cfg.Repos[0].Path, "a1").Return([]byte(""), nil)

		_, err := NewAggregator(client, testDirectory, mgr).GenerateCommitReport(ctx, cfg, w, false)
		require.NoError(t, err)
		reports.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
		reports.AssertExpectations(t)
	})
}

func TestGenerateCommitReport_RealFileCache(t *testing.T) {
	ctx := context.Background()
	w := testWindow(t)
	cfg := twoRepoConfig(t)
	cfg.Repos = cfg.Repos[:1]

	files, err := iocache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetStatsStore").Return(nil)
	mgr.On("GetReportCache").Return(files)

	client := &contract.MockGitClient{}
	client.On("GetCommitLog", ctx, cfg.Repos[0].Path, w).Return([]byte("a1|alice@x|1700000100|live\n"), nil).Once()
	client.On("GetCommitNumstat", ctx, cfg.Repos[0].Path, "a1").Return([]byte("2\t0\tf\n"), nil).Once()

	a := NewAggregator(client, testDirectory, mgr)
	first, err := a.GenerateCommitReport(ctx, cfg, w, true)
	require.NoError(t, err)
	second, err := a.GenerateCommitReport(ctx, cfg, w, true)
	require.NoError(t, err)

	assert.Equal(t, first, second, "cached report equals the live one")
	client.AssertExpectations(t)
}

func TestGenerateCommitReport_EmptyCacheFileIsRebuilt(t *testing.T) {
	ctx := context.Background()
	w := testWindow(t)
	cfg := twoRepoConfig(t)
	cfg.Repos = cfg.Repos[:1]

	files, err := iocache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	entry := filepath.Join(files.Dir(), iocache.ReportFileName(cfg.RepoSetKey(), w.StartDate(), w.EndDate()))
	require.NoError(t, os.WriteFile(entry, []byte(""), 0o644))

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetStatsStore").Return(nil)
	mgr.On("GetReportCache").Return(files)

	client := &contract.MockGitClient{}
	client.On("GetCommitLog", ctx, cfg.Repos[0].Path, w).Return([]byte("a1|alice@x|1700000100|live\n"), nil).Once()
	client.On("GetCommitNumstat", ctx, cfg.Repos[0].Path, "a1").Return([]byte("2\t0\tf\n"), nil).Once()

	a := NewAggregator(client, testDirectory, mgr)
	first, err := a.GenerateCommitReport(ctx, cfg, w, true)
	require.NoError(t, err)
	require.Len(t, first, 1, "empty entry is treated as a miss and recomputed")

	info, err := os.Stat(entry)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "entry is repopulated")

	second, err := a.GenerateCommitReport(ctx, cfg, w, true)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	client.AssertNumberOfCalls(t, "GetCommitLog", 1)
	client.AssertExpectations(t)
}
