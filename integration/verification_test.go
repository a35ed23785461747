//go:build basic

// Package integration contains end-to-end tests for the gitasana binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureCommits = []commitSpec{
	{file: "a.txt", lines: 3, message: "Login: first pass", when: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)},
	{file: "b.txt", lines: 5, message: "Billing fix", when: time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC)},
	{file: "c.txt", lines: 1, message: "outside window", when: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
}

// TestReportVerification runs the report command against a fixture repository
// and checks the commits and line counts against what was committed.
func TestReportVerification(t *testing.T) {
	repo := initFixtureRepo(t, fixtureCommits)
	home := t.TempDir()

	out, err := runGitasana(t, home, nil,
		"report", "--repo", "demo="+repo+"=https://github.com/acme/demo",
		"--start", "2024-01-01", "--end", "2024-01-31", "--output", "json")
	require.NoError(t, err)

	var records []schema.CommitRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2, "the March commit is outside the window")

	assert.Equal(t, "Billing fix", records[0].Message, "newest first")
	assert.Equal(t, 5, records[0].Added)
	assert.Equal(t, 1, records[0].Files)
	assert.Equal(t, "dev@example.com (unknown)", records[0].Developer)
	assert.Equal(t, "https://github.com/acme/demo/commit/"+records[0].Hash, records[0].Link)
	assert.Equal(t, 3, records[1].Added)
}

// TestReportCacheVerification checks that --use-cache writes and reuses a report file.
func TestReportCacheVerification(t *testing.T) {
	repo := initFixtureRepo(t, fixtureCommits)
	home := t.TempDir()
	args := []string{"report", "--repo", "demo=" + repo, "--start", "2024-01-01", "--end", "2024-01-31", "--output", "json", "--use-cache"}

	first, err := runGitasana(t, home, nil, args...)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(home, "cache", "git_report_2024-01-01_2024-01-31_*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	// Remove the repository: the cached report must still answer.
	require.NoError(t, os.RemoveAll(repo))
	second, err := runGitasana(t, home, nil, args...)
	require.NoError(t, err)
	assert.JSONEq(t, first, second)
}

// TestInvalidWindow checks that a reversed window fails.
func TestInvalidWindow(t *testing.T) {
	home := t.TempDir()
	_, err := runGitasana(t, home, nil, "report", "--start", "2024-02-01", "--end", "2024-01-01")
	assert.Error(t, err)
}

// TestVersion checks the version command.
func TestVersion(t *testing.T) {
	out, err := runGitasana(t, t.TempDir(), nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gitasana CLI")
}
