// Package browser reads tab titles and URLs from a running browser via AppleScript.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hpungsan/capture/internal/exec"
)

// Browser identifies a scriptable browser.
type Browser int

// Values match the legacy preference integers.
const (
	Safari Browser = 0
	Brave  Browser = 1
	Chrome Browser = 2
)

// String returns the config name of the browser.
func (b Browser) String() string {
	switch b {
	case Safari:
		return "safari"
	case Brave:
		return "brave"
	case Chrome:
		return "chrome"
	}
	return fmt.Sprintf("browser(%d)", int(b))
}

// AppName returns the application name used in AppleScript.
func (b Browser) AppName() string {
	switch b {
	case Brave:
		return "Brave Browser"
	case Chrome:
		return "Google Chrome"
	default:
		return "Safari"
	}
}

// ParseBrowser accepts a config name ("safari", "brave", "chrome") or the legacy
// integer preference ("0", "1", "2").
func ParseBrowser(s string) (Browser, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "safari", "0", "":
		return Safari, nil
	case "brave", "1":
		return Brave, nil
	case "chrome", "google chrome", "2":
		return Chrome, nil
	}
	return Safari, fmt.Errorf("unknown browser %q", s)
}

// Scope selects the active tab or every tab of every window.
type Scope int

const (
	Active Scope = iota
	All
)

// String returns "active" or "all".
func (s Scope) String() string {
	if s == All {
		return "all"
	}
	return "active"
}

// Tab is one browser tab.
type Tab struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Automation runs an AppleScript and returns its result as a flat list of strings.
type Automation interface {
	Run(ctx context.Context, script string) ([]string, error)
}

// OSAScript runs scripts through osascript. The scripts return their list joined by
// linefeeds, which is split back into items here.
type OSAScript struct {
	Runner exec.Runner
}

// NewOSAScript creates an Automation backed by the osascript command.
func NewOSAScript(runner exec.Runner) *OSAScript {
	return &OSAScript{Runner: runner}
}

// Run implements Automation.
func (o *OSAScript) Run(ctx context.Context, script string) ([]string, error) {
	stdout, stderr, err := o.Runner.Run(ctx, "osascript", "-e", script)
	if err != nil {
		return nil, fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(stderr)))
	}
	out := strings.TrimRight(string(stdout), "\r\n")
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// Query returns the tabs of browser for scope. Any automation failure, including the
// browser not running, yields an empty result.
func Query(ctx context.Context, automation Automation, b Browser, scope Scope) []Tab {
	items, err := automation.Run(ctx, Script(b, scope))
	if err != nil {
		slog.WarnContext(ctx, "browser tab query failed",
			"browser", b.String(), "scope", scope.String(), "error", err)
		return nil
	}
	return Pairs(items)
}

// Pairs rebuilds tabs from an alternating [title1, url1, title2, url2, ...] list. Items are
// walked from 1-based index 1 in steps of two; a trailing title without a URL is dropped.
func Pairs(items []string) []Tab {
	if len(items) == 0 {
		return nil
	}
	tabs := make([]Tab, 0, len(items)/2)
	for i := 1; i <= len(items); i += 2 {
		if i+1 > len(items) {
			break
		}
		tabs = append(tabs, Tab{Title: items[i-1], URL: items[i]})
	}
	return tabs
}
