// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rehman-1/git-asana-backend/schema"
)

// Service is the set of report operations exposed as MCP tools.
type Service interface {
	GenerateCommitReport(ctx context.Context, startDate, endDate string, useCache bool) ([]schema.CommitRecord, error)
	CorrelateTasks(ctx context.Context, startDate, endDate string) ([]schema.TaskEffortRecord, error)
	SummarizeByDeveloper(ctx context.Context, startDate, endDate string) (map[string]schema.DeveloperSummary, error)
	TaskSummary(ctx context.Context) (schema.TaskSummary, error)
}

// NewMCPServer initializes and configures the gitasana MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(svc Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Git-Asana Report Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{svc: svc}

	// --- 1. Tool: generate_commit_report ---
	s.AddTool(mcp.NewTool("generate_commit_report",
		mcp.WithDescription("List the commits of every configured repository in a date window, newest first."),
		mcp.WithString("start_date", mcp.Description("First day of the window (YYYY-MM-DD)."), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("Last day of the window (YYYY-MM-DD)."), mcp.Required()),
		mcp.WithBoolean("use_cache", mcp.Description("Serve a stored report for the same window when available.")),
	), h.handleGenerateCommitReport)

	// --- 2. Tool: correlate_tasks ---
	s.AddTool(mcp.NewTool("correlate_tasks",
		mcp.WithDescription("Match Asana tasks to commits and estimate the time spent on each task."),
		mcp.WithString("start_date", mcp.Description("First day of the window (YYYY-MM-DD)."), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("Last day of the window (YYYY-MM-DD)."), mcp.Required()),
	), h.handleCorrelateTasks)

	// --- 3. Tool: summarize_by_developer ---
	s.AddTool(mcp.NewTool("summarize_by_developer",
		mcp.WithDescription("Group the task effort estimates by assignee with total minutes."),
		mcp.WithString("start_date", mcp.Description("First day of the window (YYYY-MM-DD)."), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("Last day of the window (YYYY-MM-DD)."), mcp.Required()),
	), h.handleSummarizeByDeveloper)

	// --- 4. Tool: get_task_summary ---
	s.AddTool(mcp.NewTool("get_task_summary",
		mcp.WithDescription("Count the in-progress and done Asana tasks per assignee."),
	), h.handleGetTaskSummary)

	return s
}

// StartMCPServer serves the tools over stdio until the client disconnects.
func StartMCPServer(_ context.Context, svc Service, version string) error {
	s := NewMCPServer(svc, version)
	return server.ServeStdio(s)
}
