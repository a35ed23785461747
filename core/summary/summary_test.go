package summary

import (
	"encoding/json"
	"testing"

	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByDeveloper(t *testing.T) {
	records := []schema.TaskEffortRecord{
		{TaskID: "1", Assignee: "Alice", TimeSpentMinutes: 30},
		{TaskID: "2", Assignee: "Bob", TimeSpentMinutes: 5},
		{TaskID: "3", Assignee: "Alice", TimeSpentMinutes: 12},
	}

	got := ByDeveloper(records)
	require.Len(t, got, 2)
	assert.Equal(t, int64(42), got["Alice"].TotalMinutes)
	require.Len(t, got["Alice"].Tasks, 2)
	assert.Equal(t, "1", got["Alice"].Tasks[0].TaskID)
	assert.Equal(t, "3", got["Alice"].Tasks[1].TaskID)
	assert.Equal(t, int64(5), got["Bob"].TotalMinutes)

	assert.Empty(t, ByDeveloper(nil))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		item     schema.WorkItem
		expected schema.TaskState
	}{
		{"in progress section", schema.WorkItem{Section: "🏃 In Progress"}, schema.InProgressState},
		{"completed in progress section", schema.WorkItem{Section: "🏃 In Progress", Completed: true}, schema.DoneState},
		{"section mentions both", schema.WorkItem{Section: "In Progress / Done"}, schema.DoneState},
		{"done section", schema.WorkItem{Section: "👏 Done"}, schema.DoneState},
		{"completed elsewhere", schema.WorkItem{Section: "Backlog", Completed: true}, schema.DoneState},
		{"backlog", schema.WorkItem{Section: "Backlog"}, schema.OtherState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.item))
		})
	}
}

func TestTasks(t *testing.T) {
	items := []schema.WorkItem{
		{ID: "1", Assignee: "Alice", Section: "🏃 In Progress"},
		{ID: "2", Assignee: "Alice", Section: "👏 Done"},
		{ID: "3", Assignee: "Bob", Section: "👏 Done", Completed: true},
		{ID: "4", Assignee: "Carol", Section: "Backlog"},
	}

	got := Tasks(items)
	assert.Equal(t, 1, got.TotalInProgress)
	assert.Equal(t, 2, got.TotalDone)
	require.Len(t, got.Developers, 2, "items in neither state add no developer")
	assert.Equal(t, "1", got.Developers["Alice"].InProgress[0].ID)
	assert.Equal(t, "2", got.Developers["Alice"].Done[0].ID)

	data, err := json.Marshal(got.Developers["Bob"])
	require.NoError(t, err)
	assert.JSONEq(t, `{"in_progress":[],"done":[{"id":"3","name":"","completed":true,"assignee":"Bob","assignee_email":"","section":"👏 Done","url":""}]}`, string(data))
}

func TestPerformance(t *testing.T) {
	tasks := Tasks([]schema.WorkItem{
		{ID: "1", Assignee: "Alice Kim", Section: "🏃 In Progress"},
	})
	commits := []schema.CommitRecord{
		{Developer: "Alice Kim (alice, 김앨리스, alicek)", Added: 3, Deleted: 1, Files: 2},
		{Developer: "Alice Kim (alice, 김앨리스, alicek)", Added: 1, Deleted: 0, Files: 1},
		{Developer: "", Added: 4, Deleted: 4, Files: 4},
	}

	report := Performance(tasks, commits, "2024-01-01", "2024-01-31")
	assert.Equal(t, "2024-01-01", report.StartDate)
	assert.Equal(t, "2024-01-31", report.EndDate)
	require.Len(t, report.DeveloperSummaries, 3)

	byTasks := report.DeveloperSummaries["Alice Kim"]
	assert.Len(t, byTasks.InProgressTasks, 1)
	assert.Zero(t, byTasks.CommitCount)

	byCommits := report.DeveloperSummaries["Alice Kim (alice, 김앨리스, alicek)"]
	assert.Equal(t, schema.DeveloperPerformance{
		InProgressTasks: []schema.WorkItem{},
		DoneTasks:       []schema.WorkItem{},
		CommitCount:     2,
		LinesAdded:      4,
		LinesDeleted:    1,
		FilesChanged:    3,
	}, byCommits)

	assert.Equal(t, 1, report.DeveloperSummaries["Unknown"].CommitCount)
}
