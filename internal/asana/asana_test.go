package asana

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves fixed bodies keyed by request path.
func newTestServer(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"errors":[{"message":"Not Authorized"}]}`)
			return
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path != "/projects/p1/sections" {
			assert.Equal(t, optFields, r.URL.Query().Get("opt_fields"))
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server, token string) *Client {
	return NewClient(Options{BaseURL: srv.URL, Token: token, RateLimit: 1000})
}

func TestListWorkItems(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/projects/p1/sections": `{"data":[
			{"gid":"s1","name":"🏃 In Progress"},
			{"gid":"s2","name":"Backlog"},
			{"gid":"s3","name":"👏 Done"}]}`,
		"/sections/s1/tasks": `{"data":[
			{"gid":"t1","name":"Login: SSO","completed":false,"assignee":{"name":"Alice","email":"alice@x.io"},"permalink_url":"https://app.asana.com/t1"},
			{"gid":"t2","completed":false,"assignee":null}]}`,
		"/sections/s3/tasks": `{"data":[
			{"gid":"t3","name":"Billing","completed":true,"assignee":{"gid":"u9"},"permalink_url":"https://app.asana.com/t3"}]}`,
	})

	items, err := newTestClient(srv, "tok").ListWorkItems(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, schema.WorkItem{
		ID: "t1", Name: "Login: SSO", Assignee: "Alice", AssigneeEmail: "alice@x.io",
		Section: "🏃 In Progress", URL: "https://app.asana.com/t1",
	}, items[0])
	assert.Equal(t, schema.WorkItem{
		ID: "t2", Name: schema.NoNameLabel, Assignee: schema.UnassignedLabel,
		Section: "🏃 In Progress", URL: schema.NoURLLabel,
	}, items[1])
	assert.Equal(t, schema.UnassignedLabel, items[2].Assignee, "assignee without name")
	assert.True(t, items[2].Completed)
	assert.Equal(t, "👏 Done", items[2].Section)
}

func TestListWorkItems_NoTargetSections(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/projects/p1/sections": `{"data":[{"gid":"s2","name":"Backlog"}]}`,
	})

	items, err := newTestClient(srv, "tok").ListWorkItems(context.Background(), "p1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestListWorkItems_ParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		bodies map[string]string
	}{
		{"not json", map[string]string{"/projects/p1/sections": `<html>`}},
		{"missing data", map[string]string{"/projects/p1/sections": `{"items":[]}`}},
		{"section without gid", map[string]string{"/projects/p1/sections": `{"data":[{"name":"👏 Done"}]}`}},
		{"section without name", map[string]string{"/projects/p1/sections": `{"data":[{"gid":"s1"}]}`}},
		{"task without gid", map[string]string{
			"/projects/p1/sections": `{"data":[{"gid":"s1","name":"👏 Done"}]}`,
			"/sections/s1/tasks":    `{"data":[{"name":"orphan"}]}`,
		}},
		{"wrong types", map[string]string{"/projects/p1/sections": `{"data":[{"gid":1,"name":"x"}]}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.bodies)
			_, err := newTestClient(srv, "tok").ListWorkItems(context.Background(), "p1")
			require.Error(t, err)
			var perr *schema.ParseError
			assert.True(t, errors.As(err, &perr), "got %v", err)
		})
	}
}

func TestListWorkItems_HTTPErrors(t *testing.T) {
	srv := newTestServer(t, map[string]string{})

	_, err := newTestClient(srv, "wrong").ListWorkItems(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")

	_, err = newTestClient(srv, "tok").ListWorkItems(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestListWorkItems_Misconfigured(t *testing.T) {
	_, err := NewClient(Options{}).ListWorkItems(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = NewClient(Options{Token: "tok"}).ListWorkItems(context.Background(), "")
	assert.Error(t, err)
}

func TestListWorkItems_ContextCanceled(t *testing.T) {
	srv := newTestServer(t, map[string]string{"/projects/p1/sections": `{"data":[]}`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv, "tok").ListWorkItems(ctx, "p1")
	assert.Error(t, err)
}
