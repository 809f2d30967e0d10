package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/capture/internal/config"
	"github.com/hpungsan/capture/internal/errors"
	"github.com/hpungsan/capture/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	deps *ops.Deps
	cfg  *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *ops.Deps, cfg *config.Config) *Handlers {
	return &Handlers{deps: deps, cfg: cfg}
}

// Request types for each tool

// NoteRequest represents the arguments for capture_note.
type NoteRequest struct {
	Summary          string   `json:"summary"`
	Details          string   `json:"details,omitempty"`
	TakeScreenshot   *bool    `json:"take_screenshot,omitempty"`
	ActiveBrowserTab *bool    `json:"active_browser_tab,omitempty"`
	AllBrowserTabs   *bool    `json:"all_browser_tabs,omitempty"`
	Attachments      []string `json:"attachments,omitempty"`
}

// TabsRequest represents the arguments for capture_tabs.
type TabsRequest struct {
	All     bool   `json:"all,omitempty"`
	Browser string `json:"browser,omitempty"`
}

// DayRequest represents the arguments for capture_day.
type DayRequest struct {
	Date string `json:"date,omitempty"`
}

// PageRequest represents the arguments for capture_days.
type PageRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// ListRequest represents the arguments for capture_list.
type ListRequest struct {
	Day    string `json:"day,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// SearchRequest represents the arguments for capture_search.
type SearchRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Handler implementations

// HandleNote handles the capture_note tool call.
func (h *Handlers) HandleNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Capture(ctx, h.deps, h.cfg, ops.CaptureInput{
		Summary:          input.Summary,
		Details:          input.Details,
		TakeScreenshot:   input.TakeScreenshot,
		ActiveBrowserTab: input.ActiveBrowserTab,
		AllBrowserTabs:   input.AllBrowserTabs,
		Attachments:      input.Attachments,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleTabs handles the capture_tabs tool call.
func (h *Handlers) HandleTabs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TabsRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Tabs(ctx, h.deps, h.cfg, ops.TabsInput{All: input.All, Browser: input.Browser})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDay handles the capture_day tool call.
func (h *Handlers) HandleDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DayRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Day(h.deps, h.cfg, ops.DayInput{Date: input.Date})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDays handles the capture_days tool call.
func (h *Handlers) HandleDays(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PageRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Days(h.deps, h.cfg, ops.DaysInput{Limit: input.Limit, Offset: input.Offset})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the capture_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.List(ctx, h.deps.DB, ops.ListInput{
		Day:    input.Day,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSearch handles the capture_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Search(ctx, h.deps.DB, ops.SearchInput{
		Query:  input.Query,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleLatest handles the capture_latest tool call.
func (h *Handlers) HandleLatest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Latest(ctx, h.deps.DB)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if cErr, ok := err.(*errors.CaptureError); ok {
		errorObj := map[string]any{
			"code":    cErr.Code,
			"message": cErr.Message,
			"status":  cErr.Status,
		}
		if cErr.Code != errors.ErrInternal && cErr.Details != nil {
			errorObj["details"] = cErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
