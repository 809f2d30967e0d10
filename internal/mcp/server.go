package mcp

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/capture/internal/config"
	"github.com/hpungsan/capture/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"capture_note": {
		def:     noteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNote },
	},
	"capture_tabs": {
		def:     tabsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTabs },
	},
	"capture_day": {
		def:     dayToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDay },
	},
	"capture_days": {
		def:     daysToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDays },
	},
	"capture_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"capture_search": {
		def:     searchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch },
	},
	"capture_latest": {
		def:     latestToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLatest },
	},
}

// AllToolNames returns every tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with the capture tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(deps *ops.Deps, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"capture",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(deps, cfg)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for _, name := range AllToolNames() {
		if disabled[name] {
			continue
		}
		entry := toolRegistry[name]
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(deps *ops.Deps, cfg *config.Config, version string) error {
	if unknown := ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		slog.Warn("ignoring unknown disabled_tools", "tools", unknown)
	}
	s := NewServer(deps, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
