package correlate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func commit(ts int64, msg string, added, deleted int) schema.CommitRecord {
	return schema.CommitRecord{Repo: "api", Hash: msg, Timestamp: ts, Message: msg, Added: added, Deleted: deleted, Files: 1}
}

func TestNamePrefix(t *testing.T) {
	assert.Equal(t, "Login", NamePrefix("Login: add SSO"))
	assert.Equal(t, "No colon", NamePrefix("No colon"))
	assert.Equal(t, "", NamePrefix(":leading"))
	assert.Equal(t, "A", NamePrefix("A:b:c"))
}

func TestMatches(t *testing.T) {
	item := schema.WorkItem{ID: "1203", Name: "Login: add SSO"}

	assert.True(t, Matches(item, "Login flow tweaks"), "name prefix")
	assert.True(t, Matches(item, "refs 1203"), "id")
	assert.False(t, Matches(item, "login lowercase"), "case sensitive")
	assert.False(t, Matches(item, "unrelated"))

	empty := schema.WorkItem{ID: "999", Name: ":weird"}
	assert.True(t, Matches(empty, "anything at all"), "empty prefix matches every message")
}

func TestCorrelate_NoSummarizer(t *testing.T) {
	items := []schema.WorkItem{
		{ID: "T1", Name: "Login: add SSO", Assignee: "Alice", Section: "🏃 In Progress", URL: "u1"},
		{ID: "T2", Name: "Billing", Assignee: "Bob", Section: "👏 Done", URL: "u2"},
		{ID: "T3", Name: "Search: facets", Assignee: "Carol"},
	}
	commits := []schema.CommitRecord{
		commit(1700003000, "Login polish", 5, 1),
		commit(1700000000, "Login start", 10, 0),
		commit(1700001000, "Billing fix T2", 2, 2),
	}

	records := NewCorrelator(nil, 0).Correlate(context.Background(), items, commits)
	require.Len(t, records, 2, "items without commits are dropped")

	login := records[0]
	assert.Equal(t, "T1", login.TaskID)
	assert.Equal(t, "Alice", login.Assignee)
	assert.Equal(t, int64(50), login.TimeSpentMinutes)
	assert.Equal(t, 2, login.CommitCount)
	assert.Equal(t, int64(1700000000), login.FirstCommit)
	assert.Equal(t, int64(1700003000), login.LastCommit)
	assert.Equal(t, 15, login.LinesAdded)
	assert.Equal(t, 1, login.LinesDeleted)
	assert.Empty(t, login.Analysis)
	assert.Equal(t, "Login start", login.Commits[0].Message, "commits ascend by time")

	billing := records[1]
	assert.Equal(t, int64(0), billing.TimeSpentMinutes, "single commit spans zero minutes")
	assert.Equal(t, 1, billing.CommitCount)
}

func TestCorrelate_MinutesFloor(t *testing.T) {
	items := []schema.WorkItem{{ID: "X", Name: "Task"}}
	commits := []schema.CommitRecord{commit(1000, "Task a", 0, 0), commit(1119, "Task b", 0, 0)}

	records := NewCorrelator(nil, 0).Correlate(context.Background(), items, commits)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].TimeSpentMinutes)
}

func TestCorrelate_WithSummarizer(t *testing.T) {
	items := []schema.WorkItem{
		{ID: "T1", Name: "Login: add SSO"},
		{ID: "T2", Name: "Billing"},
	}
	commits := []schema.CommitRecord{
		commit(1700000000, "Login start", 1, 0),
		commit(1700000600, "Login done", 1, 0),
		commit(1700000100, "Billing", 1, 0),
	}

	summarizer := &contract.MockSummarizer{}
	summarizer.On("Summarize", mock.Anything, "- Login start\n- Login done", "Login: add SSO").
		Return("Summary: SSO\nProgress: 80%", nil)
	summarizer.On("Summarize", mock.Anything, "- Billing", "Billing").
		Return("", errors.New("quota exceeded"))

	records := NewCorrelator(summarizer, time.Second).Correlate(context.Background(), items, commits)
	require.Len(t, records, 2)
	assert.Equal(t, "Summary: SSO\nProgress: 80%", records[0].Analysis)
	assert.Equal(t, "Error analyzing commit: quota exceeded", records[1].Analysis)
	summarizer.AssertExpectations(t)
}

// slowSummarizer blocks until its context ends.
type slowSummarizer struct{}

func (slowSummarizer) Summarize(ctx context.Context, _ string, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestCorrelate_SummarizerTimeout(t *testing.T) {
	items := []schema.WorkItem{{ID: "T1", Name: "Slow"}}
	commits := []schema.CommitRecord{commit(1, "Slow work", 0, 0)}

	start := time.Now()
	records := NewCorrelator(slowSummarizer{}, 50*time.Millisecond).Correlate(context.Background(), items, commits)
	require.Len(t, records, 1)
	assert.Equal(t, "Error analyzing commit: context deadline exceeded", records[0].Analysis)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDiffSummary(t *testing.T) {
	assert.Equal(t, "- a\n- b", DiffSummary([]schema.CommitRecord{{Message: "a"}, {Message: "b"}}))
	assert.Equal(t, "", DiffSummary(nil))
}
