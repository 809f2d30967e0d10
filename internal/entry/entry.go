// Package entry renders a capture as a Markdown block for the day file and parses
// day files back into their captures.
package entry

import (
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/capture/internal/attach"
	"github.com/hpungsan/capture/internal/browser"
)

// Markers written into every block.
const (
	SummaryRule = "----------"
	Separator   = "* * * * *"
	MiscHeading = "### Misc Info"
)

// TimeLayout is the short time shown in each block's heading.
const TimeLayout = "3:04 PM"

// TimestampLayout is the ISO-8601 footer timestamp, always in UTC.
const TimestampLayout = "2006-01-02T15:04:05Z07:00"

// Request is what the user asked to capture.
type Request struct {
	Summary          string   `json:"summary"`
	Details          string   `json:"details,omitempty"`
	TakeScreenshot   bool     `json:"take_screenshot,omitempty"`
	ActiveBrowserTab bool     `json:"active_browser_tab,omitempty"`
	AllBrowserTabs   bool     `json:"all_browser_tabs,omitempty"`
	Attachments      []string `json:"attachments,omitempty"`
}

// TabScope reports which tab query the request needs, if any. All tabs wins when both
// flags are set.
func (r Request) TabScope() (browser.Scope, bool) {
	if r.AllBrowserTabs {
		return browser.All, true
	}
	if r.ActiveBrowserTab {
		return browser.Active, true
	}
	return browser.Active, false
}

// Parts holds what the collaborators produced for a request.
type Parts struct {
	Screenshots []string
	Attachments []attach.Imported
	Tabs        []browser.Tab
}

// Env holds facts about the machine at capture time. Empty strings mean unknown.
type Env struct {
	WiFiSSID string
	Hostname string
	Now      time.Time
}

// Assemble renders the full block for one capture.
func Assemble(req Request, parts Parts, env Env) string {
	var b strings.Builder
	b.WriteString(Header(req.Summary, req.Details, env.Now))
	if req.TakeScreenshot {
		b.WriteString(Screenshots(parts.Screenshots))
	}
	b.WriteString(Attachments(parts.Attachments))
	if scope, ok := req.TabScope(); ok {
		b.WriteString(Tabs(scope, parts.Tabs))
	}
	b.WriteString(MiscInfo(env))
	b.WriteString("\n" + Separator + "\n\n")
	return b.String()
}

// Header renders the time heading, summary, rule and optional details paragraph.
func Header(summary, details string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", now.Format(TimeLayout))
	b.WriteString(strings.TrimSpace(summary) + "\n")
	b.WriteString(SummaryRule + "\n")
	if strings.TrimSpace(details) != "" {
		b.WriteString(details + "\n\n")
	}
	return b.String()
}

// Screenshots renders one image link per file, numbered by position.
func Screenshots(filenames []string) string {
	if len(filenames) == 0 {
		return ""
	}
	var b strings.Builder
	for i, fn := range filenames {
		fmt.Fprintf(&b, "![Screenshot %d](attachments/%s)\n", i+1, fn)
	}
	b.WriteString("\n")
	return b.String()
}

// Attachments renders the list of copied files.
func Attachments(imported []attach.Imported) string {
	if len(imported) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("### Attachments\n")
	for _, im := range imported {
		fmt.Fprintf(&b, "* [%s](attachments/%s)\n", im.Original, im.Filename)
	}
	b.WriteString("\n")
	return b.String()
}

// Tabs renders the browser tab list for scope.
func Tabs(scope browser.Scope, tabs []browser.Tab) string {
	if len(tabs) == 0 {
		return ""
	}
	var b strings.Builder
	if scope == browser.All {
		b.WriteString("### All Browser Tabs\n")
	} else {
		b.WriteString("### Active Browser Tab\n")
	}
	for _, t := range tabs {
		fmt.Fprintf(&b, "* [%s](%s)\n", t.Title, t.URL)
	}
	b.WriteString("\n")
	return b.String()
}

// MiscInfo renders the footer: timestamp, then WiFi and computer name when known.
func MiscInfo(env Env) string {
	var b strings.Builder
	b.WriteString(MiscHeading + "\n")
	fmt.Fprintf(&b, "*Timestamp: %s*\n", env.Now.UTC().Format(TimestampLayout))
	if env.WiFiSSID != "" {
		fmt.Fprintf(&b, "*WiFi: %s*\n", env.WiFiSSID)
	}
	if env.Hostname != "" {
		fmt.Fprintf(&b, "*Computer: %s*\n", env.Hostname)
	}
	return b.String()
}
