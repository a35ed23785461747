// Package correlate links work items to the commits that mention them and
// estimates the effort spent on each item.
package correlate

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultSummarizerConcurrency bounds the summarizer calls in flight.
const DefaultSummarizerConcurrency = 4

// Correlator matches commits to work items.
type Correlator struct {
	summarizer  contract.Summarizer
	timeout     time.Duration
	concurrency int
	log         logrus.FieldLogger
}

// NewCorrelator returns a Correlator. A nil summarizer leaves Analysis empty.
// timeout bounds each summarizer call.
func NewCorrelator(summarizer contract.Summarizer, timeout time.Duration) *Correlator {
	if timeout <= 0 {
		timeout = contract.DefaultSummarizerTimeout
	}
	return &Correlator{
		summarizer:  summarizer,
		timeout:     timeout,
		concurrency: DefaultSummarizerConcurrency,
		log:         contract.ComponentLogger("correlate"),
	}
}

// NamePrefix returns the part of a work-item name used for matching: the text
// before the first ':' or the whole name when there is none.
func NamePrefix(name string) string {
	prefix, _, _ := strings.Cut(name, ":")
	return prefix
}

// Matches reports whether a commit message refers to the work item. This is a
// plain substring test on the item ID or the name prefix, so an empty prefix
// matches every message.
func Matches(item schema.WorkItem, message string) bool {
	return strings.Contains(message, item.ID) || strings.Contains(message, NamePrefix(item.Name))
}

// Correlate returns one effort record per work item with at least one matching
// commit, in work-item order. Items without matches are dropped.
func (c *Correlator) Correlate(ctx context.Context, items []schema.WorkItem, commits []schema.CommitRecord) []schema.TaskEffortRecord {
	slots := make([]*schema.TaskEffortRecord, len(items))

	var g errgroup.Group
	g.SetLimit(max(c.concurrency, 1))
	for i, item := range items {
		matched := matchCommits(item, commits)
		if len(matched) == 0 {
			c.log.WithField("task", item.Name).Info("no commits found for task")
			continue
		}
		record := buildRecord(item, matched)
		slots[i] = &record
		if c.summarizer == nil {
			continue
		}
		g.Go(func() error {
			slots[i].Analysis = c.analyze(ctx, item.Name, matched)
			return nil
		})
	}
	_ = g.Wait()

	records := make([]schema.TaskEffortRecord, 0, len(items))
	for _, r := range slots {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records
}

// matchCommits returns the matching commits sorted ascending by timestamp.
func matchCommits(item schema.WorkItem, commits []schema.CommitRecord) []schema.CommitRecord {
	var matched []schema.CommitRecord
	for _, commit := range commits {
		if Matches(item, commit.Message) {
			matched = append(matched, commit)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp < matched[j].Timestamp
	})
	return matched
}

// buildRecord derives the effort figures from ascending matched commits.
func buildRecord(item schema.WorkItem, matched []schema.CommitRecord) schema.TaskEffortRecord {
	first, last := matched[0].Timestamp, matched[len(matched)-1].Timestamp
	record := schema.TaskEffortRecord{
		TaskID:           item.ID,
		TaskName:         item.Name,
		Assignee:         item.Assignee,
		Section:          item.Section,
		URL:              item.URL,
		TimeSpentMinutes: (last - first) / 60,
		CommitCount:      len(matched),
		FirstCommit:      first,
		LastCommit:       last,
		Commits:          matched,
	}
	for _, commit := range matched {
		record.LinesAdded += commit.Added
		record.LinesDeleted += commit.Deleted
	}
	return record
}

// DiffSummary renders matched commit messages as the summarizer input.
func DiffSummary(matched []schema.CommitRecord) string {
	lines := make([]string, len(matched))
	for i, commit := range matched {
		lines[i] = "- " + commit.Message
	}
	return strings.Join(lines, "\n")
}

// analyze calls the summarizer under its own timeout. Failures become the
// analysis text instead of an error.
func (c *Correlator) analyze(ctx context.Context, taskName string, matched []schema.CommitRecord) string {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	analysis, err := c.summarizer.Summarize(callCtx, DiffSummary(matched), taskName)
	if err != nil {
		c.log.WithError(err).WithField("task", taskName).Warn("commit analysis failed")
		return fmt.Sprintf("Error analyzing commit: %v", err)
	}
	return analysis
}
