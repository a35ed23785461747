// Package schema has the record types shared by all parts of gitasana.
package schema

import (
	"encoding/json"
	"time"
)

// CommitRecord is one parsed commit together with its change statistics.
// Records are created once per parsed commit and never mutated.
type CommitRecord struct {
	Repo      string `json:"repo"`
	Developer string `json:"developer"`
	Hash      string `json:"hash"`
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
	Added     int    `json:"added"`
	Deleted   int    `json:"deleted"`
	Files     int    `json:"files"`
	Link      string `json:"link"`
}

// Time returns the commit time in UTC.
func (c CommitRecord) Time() time.Time {
	return time.Unix(c.Timestamp, 0).UTC()
}

// Valid reports whether the record is structurally well formed.
func (c CommitRecord) Valid() bool {
	return c.Repo != "" && c.Added >= 0 && c.Deleted >= 0 && c.Files >= 0
}

// MarshalJSON adds a derived "datetime" field next to the raw timestamp.
func (c CommitRecord) MarshalJSON() ([]byte, error) {
	type plain CommitRecord
	return json.Marshal(struct {
		plain
		Datetime string `json:"datetime"`
	}{
		plain:    plain(c),
		Datetime: c.Time().Format(time.RFC3339),
	})
}

// CommitStats holds the numstat totals of a single commit.
type CommitStats struct {
	Added   int `json:"added"`
	Deleted int `json:"deleted"`
	Files   int `json:"files"`
}

// WorkItem is a task from the external tracker. It is read-only input to correlation.
type WorkItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Completed     bool   `json:"completed"`
	Assignee      string `json:"assignee"`
	AssigneeEmail string `json:"assignee_email"`
	Section       string `json:"section"`
	URL           string `json:"url"`
}

// TaskEffortRecord is the effort estimate for one work item derived from its matched commits.
type TaskEffortRecord struct {
	TaskID           string         `json:"task_id"`
	TaskName         string         `json:"task_name"`
	Assignee         string         `json:"assignee"`
	Section          string         `json:"section"`
	URL              string         `json:"url"`
	TimeSpentMinutes int64          `json:"time_spent_minutes"`
	CommitCount      int            `json:"commit_count"`
	FirstCommit      int64          `json:"first_commit"`
	LastCommit       int64          `json:"last_commit"`
	LinesAdded       int            `json:"lines_added"`
	LinesDeleted     int            `json:"lines_deleted"`
	Analysis         string         `json:"analysis,omitempty"`
	Commits          []CommitRecord `json:"commits"`
}

// DeveloperSummary groups effort records under one assignee.
type DeveloperSummary struct {
	Tasks        []TaskEffortRecord `json:"tasks"`
	TotalMinutes int64              `json:"total_minutes"`
}

// DeveloperTasks lists the work items of one assignee by board state.
type DeveloperTasks struct {
	InProgress []WorkItem `json:"in_progress"`
	Done       []WorkItem `json:"done"`
}

// TaskSummary counts work items by board state and lists them per assignee.
type TaskSummary struct {
	TotalInProgress int                       `json:"total_in_progress"`
	TotalDone       int                       `json:"total_done"`
	Developers      map[string]DeveloperTasks `json:"developers"`
}

// DeveloperPerformance merges task state and commit statistics for one developer key.
type DeveloperPerformance struct {
	InProgressTasks []WorkItem `json:"in_progress_tasks"`
	DoneTasks       []WorkItem `json:"done_tasks"`
	CommitCount     int        `json:"commit_count"`
	LinesAdded      int        `json:"lines_added"`
	LinesDeleted    int        `json:"lines_deleted"`
	FilesChanged    int        `json:"files_changed"`
}

// PerformanceReport is the per-developer performance for a date window.
type PerformanceReport struct {
	StartDate          string                          `json:"start_date"`
	EndDate            string                          `json:"end_date"`
	DeveloperSummaries map[string]DeveloperPerformance `json:"developer_summary"`
}

// ReloadResult describes what a full reload cleared and refreshed.
type ReloadResult struct {
	CacheCleared   []string          `json:"cache_cleared"`
	CacheDirectory string            `json:"cache_directory"`
	TasksReloaded  int               `json:"asana_reloaded"`
	GitResult      map[string]string `json:"git_result"`
}

// Developer is one entry of the developer directory.
type Developer struct {
	En    string `json:"en" yaml:"en" toml:"en" mapstructure:"en"`
	Kr    string `json:"kr" yaml:"kr" toml:"kr" mapstructure:"kr"`
	GitID string `json:"git_id" yaml:"git_id" toml:"git_id" mapstructure:"git_id"`
}
