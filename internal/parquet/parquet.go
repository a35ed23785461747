// Package parquet provides row types and writers for exporting commit reports
// and task effort estimates to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/rehman-1/git-asana-backend/schema"
)

// Commit is one row of a commit report export.
type Commit struct {
	// Repo is the configured repository name
	Repo string `parquet:"repo,snappy"`

	// Developer is the resolved identity string, or "<email> (unknown)"
	Developer string `parquet:"developer,snappy"`

	// Hash is the full commit hash
	Hash string `parquet:"hash,snappy"`

	// CommittedAt is the commit time (stored as TIMESTAMP with nanosecond precision)
	CommittedAt time.Time `parquet:"committed_at,snappy"`

	// Message is the commit subject line
	Message string `parquet:"message,snappy"`

	Added   int32 `parquet:"added,snappy"`
	Deleted int32 `parquet:"deleted,snappy"`
	Files   int32 `parquet:"files,snappy"`

	// Link points at the commit on the hosting service (nullable)
	Link *string `parquet:"link,optional,snappy"`
}

// TaskEffort is one row of a task effort export.
type TaskEffort struct {
	TaskID   string `parquet:"task_id,snappy"`
	TaskName string `parquet:"task_name,snappy"`
	Assignee string `parquet:"assignee,snappy"`
	Section  string `parquet:"section,snappy"`
	URL      string `parquet:"url,snappy"`

	// TimeSpentMinutes is the span between the first and last matching commit
	TimeSpentMinutes int64 `parquet:"time_spent_minutes,snappy"`

	CommitCount int32     `parquet:"commit_count,snappy"`
	FirstCommit time.Time `parquet:"first_commit,snappy"`
	LastCommit  time.Time `parquet:"last_commit,snappy"`

	LinesAdded   int32 `parquet:"lines_added,snappy"`
	LinesDeleted int32 `parquet:"lines_deleted,snappy"`

	// Analysis is the summarizer output (nullable when no summarizer ran)
	Analysis *string `parquet:"analysis,optional,snappy"`
}

// DeveloperSummary is one row of a per-assignee effort export.
type DeveloperSummary struct {
	Assignee     string `parquet:"assignee,snappy"`
	TaskCount    int32  `parquet:"task_count,snappy"`
	TotalMinutes int64  `parquet:"total_minutes,snappy"`
}

// writeRows writes rows to a new Parquet file at outputPath.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteCommitsParquet writes commit rows to a Parquet file.
func WriteCommitsParquet(data []Commit, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteTaskEffortsParquet writes task effort rows to a Parquet file.
func WriteTaskEffortsParquet(data []TaskEffort, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteDeveloperSummariesParquet writes per-assignee rows to a Parquet file.
func WriteDeveloperSummariesParquet(data []DeveloperSummary, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertCommitRecords converts schema.CommitRecord to Commit rows.
func ConvertCommitRecords(records []schema.CommitRecord) []Commit {
	result := make([]Commit, len(records))
	for i, r := range records {
		result[i] = Commit{
			Repo:        r.Repo,
			Developer:   r.Developer,
			Hash:        r.Hash,
			CommittedAt: time.Unix(r.Timestamp, 0).UTC(),
			Message:     r.Message,
			Added:       int32(r.Added),
			Deleted:     int32(r.Deleted),
			Files:       int32(r.Files),
			Link:        optional(r.Link),
		}
	}
	return result
}

// ConvertTaskEffortRecords converts schema.TaskEffortRecord to TaskEffort rows.
// The matched commits are not exported; use a commit report for those.
func ConvertTaskEffortRecords(records []schema.TaskEffortRecord) []TaskEffort {
	result := make([]TaskEffort, len(records))
	for i, r := range records {
		result[i] = TaskEffort{
			TaskID:           r.TaskID,
			TaskName:         r.TaskName,
			Assignee:         r.Assignee,
			Section:          r.Section,
			URL:              r.URL,
			TimeSpentMinutes: r.TimeSpentMinutes,
			CommitCount:      int32(r.CommitCount),
			FirstCommit:      time.Unix(r.FirstCommit, 0).UTC(),
			LastCommit:       time.Unix(r.LastCommit, 0).UTC(),
			LinesAdded:       int32(r.LinesAdded),
			LinesDeleted:     int32(r.LinesDeleted),
			Analysis:         optional(r.Analysis),
		}
	}
	return result
}

// ConvertDeveloperSummaries flattens the per-assignee map, in the order of names.
func ConvertDeveloperSummaries(names []string, summaries map[string]schema.DeveloperSummary) []DeveloperSummary {
	result := make([]DeveloperSummary, 0, len(names))
	for _, name := range names {
		s := summaries[name]
		result = append(result, DeveloperSummary{
			Assignee:     name,
			TaskCount:    int32(len(s.Tasks)),
			TotalMinutes: s.TotalMinutes,
		})
	}
	return result
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
