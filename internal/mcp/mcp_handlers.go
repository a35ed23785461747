package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	svc Service
}

// dateArgs reads the required window arguments.
func dateArgs(request mcp.CallToolRequest) (string, string, *mcp.CallToolResult) {
	start := request.GetString("start_date", "")
	end := request.GetString("end_date", "")
	if start == "" || end == "" {
		return "", "", mcp.NewToolResultError("start_date and end_date are required")
	}
	return start, end, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGenerateCommitReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, invalid := dateArgs(request)
	if invalid != nil {
		return invalid, nil
	}
	records, err := h.svc.GenerateCommitReport(ctx, start, end, request.GetBool("use_cache", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("commit report failed: %v", err)), nil
	}
	return jsonResult(records)
}

func (h *toolHandler) handleCorrelateTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, invalid := dateArgs(request)
	if invalid != nil {
		return invalid, nil
	}
	records, err := h.svc.CorrelateTasks(ctx, start, end)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("task correlation failed: %v", err)), nil
	}
	return jsonResult(records)
}

func (h *toolHandler) handleSummarizeByDeveloper(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, invalid := dateArgs(request)
	if invalid != nil {
		return invalid, nil
	}
	summary, err := h.svc.SummarizeByDeveloper(ctx, start, end)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("developer summary failed: %v", err)), nil
	}
	return jsonResult(summary)
}

func (h *toolHandler) handleGetTaskSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := h.svc.TaskSummary(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("task summary failed: %v", err)), nil
	}
	return jsonResult(summary)
}
