// Package summary folds effort records and work items into per-developer views.
package summary

import (
	"strings"

	"github.com/rehman-1/git-asana-backend/schema"
)

// ByDeveloper groups effort records by assignee, keeping their order, and
// totals the minutes spent per assignee.
func ByDeveloper(records []schema.TaskEffortRecord) map[string]schema.DeveloperSummary {
	out := make(map[string]schema.DeveloperSummary)
	for _, record := range records {
		s := out[record.Assignee]
		s.Tasks = append(s.Tasks, record)
		s.TotalMinutes += record.TimeSpentMinutes
		out[record.Assignee] = s
	}
	return out
}

// Classify returns the board state of a work item. An item is in progress only
// while its section says so, it is not completed and the section does not also
// mention done. Completed items and done sections count as done.
func Classify(item schema.WorkItem) schema.TaskState {
	section := strings.ToLower(item.Section)
	switch {
	case strings.Contains(section, "in progress") && !item.Completed && !strings.Contains(section, "done"):
		return schema.InProgressState
	case item.Completed || strings.Contains(section, "done"):
		return schema.DoneState
	default:
		return schema.OtherState
	}
}

// Tasks counts work items by state and lists them per assignee. Items in
// neither state are ignored.
func Tasks(items []schema.WorkItem) schema.TaskSummary {
	summary := schema.TaskSummary{Developers: make(map[string]schema.DeveloperTasks)}
	for _, item := range items {
		state := Classify(item)
		if state == schema.OtherState {
			continue
		}
		dev := summary.Developers[item.Assignee]
		if state == schema.InProgressState {
			summary.TotalInProgress++
			dev.InProgress = append(dev.InProgress, item)
		} else {
			summary.TotalDone++
			dev.Done = append(dev.Done, item)
		}
		summary.Developers[item.Assignee] = dev
	}
	for name, dev := range summary.Developers {
		summary.Developers[name] = normalizeTasks(dev)
	}
	return summary
}

// Performance merges the task summary, keyed by assignee, with commit totals
// keyed by the commit developer identity. The two keys are not reconciled, so
// one person may appear under both.
func Performance(tasks schema.TaskSummary, commits []schema.CommitRecord, startDate, endDate string) schema.PerformanceReport {
	perf := make(map[string]schema.DeveloperPerformance)
	for name, dev := range tasks.Developers {
		p := emptyPerformance()
		p.InProgressTasks = dev.InProgress
		p.DoneTasks = dev.Done
		perf[name] = p
	}
	for _, commit := range commits {
		key := commit.Developer
		if key == "" {
			key = "Unknown"
		}
		p, ok := perf[key]
		if !ok {
			p = emptyPerformance()
		}
		p.CommitCount++
		p.LinesAdded += commit.Added
		p.LinesDeleted += commit.Deleted
		p.FilesChanged += commit.Files
		perf[key] = p
	}
	return schema.PerformanceReport{
		StartDate:          startDate,
		EndDate:            endDate,
		DeveloperSummaries: perf,
	}
}

func emptyPerformance() schema.DeveloperPerformance {
	return schema.DeveloperPerformance{
		InProgressTasks: []schema.WorkItem{},
		DoneTasks:       []schema.WorkItem{},
	}
}

// normalizeTasks makes both lists render as [] rather than null.
func normalizeTasks(dev schema.DeveloperTasks) schema.DeveloperTasks {
	if dev.InProgress == nil {
		dev.InProgress = []schema.WorkItem{}
	}
	if dev.Done == nil {
		dev.Done = []schema.WorkItem{}
	}
	return dev
}
