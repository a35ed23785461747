// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/rehman-1/git-asana-backend/schema"
)

// GitClient defines the git operations needed to mine commit history.
// This allows the extraction logic to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command inside repoPath and returns its stdout.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- History ---

	// GetCommitLog returns one "hash|email|unix|subject" line per commit reachable
	// from any ref within the window.
	GetCommitLog(ctx context.Context, repoPath string, window DateWindow) ([]byte, error)

	// GetCommitNumstat returns the numstat output of a single commit against its parents.
	GetCommitNumstat(ctx context.Context, repoPath string, hash string) ([]byte, error)

	// --- Working copy maintenance ---

	// Pull runs "git pull" in repoPath.
	Pull(ctx context.Context, repoPath string) ([]byte, error)

	// Clone clones url into dest.
	Clone(ctx context.Context, url string, dest string) error

	// Checkout switches repoPath to ref.
	Checkout(ctx context.Context, repoPath string, ref string) error

	// GetRemoteURL returns the fetch URL of the origin remote.
	GetRemoteURL(ctx context.Context, repoPath string) (string, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetStatsStore() CacheStore
	GetReportCache() ReportCache
	GetWorkItemCache() WorkItemCache
}

// CacheStore defines the interface for per-commit stats storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// ReportCache memoizes commit reports per repository set and date window.
// A present but unreadable entry is deleted and reported as a miss.
type ReportCache interface {
	Get(repoSetKey, startDate, endDate string) ([]schema.CommitRecord, bool)
	Put(repoSetKey, startDate, endDate string, records []schema.CommitRecord) error
	Clear() ([]string, error)
	Status() (schema.ReportCacheStatus, error)
	Dir() string
}

// WorkItemCache holds the single global snapshot of fetched work items.
type WorkItemCache interface {
	Get() ([]schema.WorkItem, bool)
	Put(items []schema.WorkItem) error
}

// WorkItemSource lists the work items of a project, already scoped to the relevant sections.
type WorkItemSource interface {
	ListWorkItems(ctx context.Context, projectID string) ([]schema.WorkItem, error)
}

// Summarizer produces a free-text progress analysis for a task from its commit messages.
type Summarizer interface {
	Summarize(ctx context.Context, diffText string, taskName string) (string, error)
}

// DeveloperResolver maps a raw author identifier to a display identity.
type DeveloperResolver interface {
	Resolve(rawID string) string
}
