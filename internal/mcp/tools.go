package mcp

import "github.com/mark3labs/mcp-go/mcp"

var noteToolDef = mcp.NewTool("capture_note",
	mcp.WithDescription("Append a note to today's Markdown journal file. "+
		"Optionally attaches files, screenshots of every display, and open browser tabs. "+
		"Options left unset use the configured defaults."),
	mcp.WithString("summary", mcp.Required(), mcp.Description("Short title line for the note")),
	mcp.WithString("details", mcp.Description("Free-form Markdown body")),
	mcp.WithBoolean("take_screenshot", mcp.Description("Capture every display into the attachments folder")),
	mcp.WithBoolean("active_browser_tab", mcp.Description("Record the frontmost browser tab")),
	mcp.WithBoolean("all_browser_tabs", mcp.Description("Record every tab of every browser window; wins over active_browser_tab")),
	mcp.WithArray("attachments",
		mcp.Description("Absolute paths of files to copy into the attachments folder"),
		mcp.WithStringItems(),
	),
)

var tabsToolDef = mcp.NewTool("capture_tabs",
	mcp.WithDescription("List open browser tabs without writing anything. Returns an empty list when the browser is not running."),
	mcp.WithBoolean("all", mcp.Description("Every tab of every window instead of the active tab")),
	mcp.WithString("browser", mcp.Description("safari, brave or chrome; defaults to the configured browser")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var dayToolDef = mcp.NewTool("capture_day",
	mcp.WithDescription("Read one day's journal file and its parsed captures."),
	mcp.WithString("date", mcp.Description("yyyy-mm-dd; defaults to today")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var daysToolDef = mcp.NewTool("capture_days",
	mcp.WithDescription("List day files in the journal, newest first."),
	mcp.WithNumber("limit", mcp.Description("Page size (default 30, max 366)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var listToolDef = mcp.NewTool("capture_list",
	mcp.WithDescription("List indexed captures, newest first."),
	mcp.WithString("day", mcp.Description("Only captures from this yyyy-mm-dd")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var searchToolDef = mcp.NewTool("capture_search",
	mcp.WithDescription("Full-text search over capture summaries and details. Summary matches rank higher."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Words to match")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var latestToolDef = mcp.NewTool("capture_latest",
	mcp.WithDescription("Return the most recent capture, or null when nothing has been captured."),
	mcp.WithReadOnlyHintAnnotation(true),
)
