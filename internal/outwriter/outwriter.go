// Package outwriter renders commit reports, task efforts and analytics as
// text tables, CSV, JSON or Parquet.
package outwriter

import (
	"time"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteCommits prints a commit report using the configured output format.
func (ow *OutWriter) WriteCommits(records []schema.CommitRecord, cfg *contract.Config, duration time.Duration) error {
	return WriteCommitReport(records, cfg, duration)
}

// WriteEfforts prints task effort estimates using the configured output format.
func (ow *OutWriter) WriteEfforts(records []schema.TaskEffortRecord, cfg *contract.Config) error {
	return WriteTaskEfforts(records, cfg)
}

// WriteDevelopers prints effort grouped by assignee using the configured output format.
func (ow *OutWriter) WriteDevelopers(summaries map[string]schema.DeveloperSummary, cfg *contract.Config) error {
	return WriteDeveloperSummary(summaries, cfg)
}

// WriteTasks prints the board-state task summary using the configured output format.
func (ow *OutWriter) WriteTasks(summary schema.TaskSummary, cfg *contract.Config) error {
	return WriteTaskSummary(summary, cfg)
}

// WriteAnalytics prints developer analytics using the configured output format.
func (ow *OutWriter) WriteAnalytics(report schema.PerformanceReport, cfg *contract.Config) error {
	return WritePerformance(report, cfg)
}

// WriteStatuses prints a per-repository status map using the configured output format.
func (ow *OutWriter) WriteStatuses(title string, statuses map[string]string, cfg *contract.Config) error {
	return WriteRepoStatus(title, statuses, cfg)
}

// WriteReload prints the outcome of a full reload.
func (ow *OutWriter) WriteReload(result schema.ReloadResult, cfg *contract.Config) error {
	return WriteReloadResult(result, cfg)
}
