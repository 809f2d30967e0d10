package ops

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hpungsan/capture/internal/attach"
	"github.com/hpungsan/capture/internal/browser"
	"github.com/hpungsan/capture/internal/config"
	"github.com/hpungsan/capture/internal/db"
	"github.com/hpungsan/capture/internal/entry"
	"github.com/hpungsan/capture/internal/errors"
	"github.com/hpungsan/capture/internal/journal"
)

// QuickScreenshotSummary is the summary written by QuickScreenshot.
const QuickScreenshotSummary = "Quick Screenshot"

// CaptureInput contains parameters for the Capture operation.
// nil option pointers fall back to the configured defaults.
type CaptureInput struct {
	Summary          string   // required
	Details          string   // optional
	TakeScreenshot   *bool    // default: cfg.CaptureScreenshot
	ActiveBrowserTab *bool    // default: cfg.CaptureActiveTab
	AllBrowserTabs   *bool    // default: cfg.CaptureAllTabs
	Attachments      []string // source paths, in order
}

// CaptureOutput contains the result of the Capture operation.
type CaptureOutput struct {
	ID          string            `json:"id"`
	DayFile     string            `json:"day_file"`
	Markdown    string            `json:"markdown"`
	Screenshots []string          `json:"screenshots"`
	Attachments []attach.Imported `json:"attachments"`
	Tabs        []browser.Tab     `json:"tabs"`
	Indexed     bool              `json:"indexed"`
}

// Capture appends one capture block to today's day file.
//
// The day file is resolved first; when that fails nothing is written. Screenshots,
// attachments and tabs degrade individually: a failing item is left out of the block.
// The block is then appended and, when an index is configured, recorded there too.
// Index failures are logged and never affect the day file.
func Capture(ctx context.Context, deps *Deps, cfg *config.Config, input CaptureInput) (*CaptureOutput, error) {
	summary := strings.TrimSpace(input.Summary)
	if summary == "" {
		return nil, errors.NewInvalidRequest("summary is required")
	}
	sources := CleanAttachmentSources(ctx, input.Attachments)

	req := entry.Request{
		Summary:          summary,
		Details:          input.Details,
		TakeScreenshot:   boolOr(input.TakeScreenshot, cfg.CaptureScreenshot),
		Attachments:      sources,
	}
	req.ActiveBrowserTab, req.AllBrowserTabs = tabFlags(input, cfg)

	now := deps.now()
	dayFile, err := journal.ResolveDayFile(deps.Fs, cfg.CapturePath, now)
	if err != nil {
		slog.ErrorContext(ctx, "capture abandoned", "error", err)
		return nil, err
	}

	parts := gather(ctx, deps, cfg, req, dayFile)
	env := entry.Env{Now: now}
	if deps.SysInfo != nil {
		env.WiFiSSID = deps.SysInfo.WiFiSSID(ctx)
		env.Hostname = deps.SysInfo.Hostname()
	}

	markdown := entry.Assemble(req, parts, env)
	if err := journal.Append(deps.Fs, dayFile, markdown); err != nil {
		slog.ErrorContext(ctx, "capture dropped", "path", dayFile, "error", err)
		return nil, err
	}

	out := &CaptureOutput{
		ID:          newID(now),
		DayFile:     dayFile,
		Markdown:    markdown,
		Screenshots: nonNil(parts.Screenshots),
		Attachments: nonNil(parts.Attachments),
		Tabs:        nonNil(parts.Tabs),
	}
	out.Indexed = index(ctx, deps, out, req, now)

	slog.InfoContext(ctx, "capture written",
		"id", out.ID,
		"path", dayFile,
		"screenshots", len(out.Screenshots),
		"attachments", len(out.Attachments),
		"tabs", len(out.Tabs),
	)
	return out, nil
}

// QuickScreenshot records a screenshot-only capture.
func QuickScreenshot(ctx context.Context, deps *Deps, cfg *config.Config) (*CaptureOutput, error) {
	yes, no := true, false
	return Capture(ctx, deps, cfg, CaptureInput{
		Summary:          QuickScreenshotSummary,
		TakeScreenshot:   &yes,
		ActiveBrowserTab: &no,
		AllBrowserTabs:   &no,
	})
}

// gather runs the collaborators the request asks for.
func gather(ctx context.Context, deps *Deps, cfg *config.Config, req entry.Request, dayFile string) entry.Parts {
	var parts entry.Parts

	if req.TakeScreenshot || len(req.Attachments) > 0 {
		dir, err := journal.ResolveAttachmentsDir(deps.Fs, dayFile)
		if err != nil {
			slog.WarnContext(ctx, "attachments directory unavailable", "error", err)
		} else {
			if req.TakeScreenshot && deps.Screenshots != nil {
				parts.Screenshots = deps.Screenshots.CaptureAllDisplays(ctx, dir)
			}
			if len(req.Attachments) > 0 && deps.Attachments != nil {
				parts.Attachments = deps.Attachments.Import(ctx, req.Attachments, dir)
			}
		}
	}

	if scope, ok := req.TabScope(); ok && deps.Automation != nil {
		parts.Tabs = browser.Query(ctx, deps.Automation, configuredBrowser(ctx, cfg), scope)
	}
	return parts
}

// index records the capture in the index. It reports whether a row was written.
func index(ctx context.Context, deps *Deps, out *CaptureOutput, req entry.Request, now time.Time) bool {
	if deps.DB == nil {
		return false
	}
	row := &db.Capture{
		ID:          out.ID,
		Day:         now.Format(journal.DateKeyLayout),
		DayFile:     out.DayFile,
		Summary:     req.Summary,
		Details:     req.Details,
		Screenshots: out.Screenshots,
		Attachments: out.Attachments,
		Tabs:        out.Tabs,
		CreatedAt:   now.Unix(),
	}
	if err := db.Insert(ctx, deps.DB, row); err != nil {
		slog.WarnContext(ctx, "capture not indexed", "id", out.ID, "error", err)
		return false
	}
	return true
}

// tabFlags merges the request's tab choices with the config defaults. Turning one scope
// on turns the other off unless the caller set both.
func tabFlags(input CaptureInput, cfg *config.Config) (active, all bool) {
	active = boolOr(input.ActiveBrowserTab, cfg.CaptureActiveTab)
	all = boolOr(input.AllBrowserTabs, cfg.CaptureAllTabs)
	if input.ActiveBrowserTab != nil && *input.ActiveBrowserTab && input.AllBrowserTabs == nil {
		all = false
	}
	if input.AllBrowserTabs != nil && *input.AllBrowserTabs && input.ActiveBrowserTab == nil {
		active = false
	}
	return active, all
}

// configuredBrowser parses cfg.Browser, falling back to Safari.
func configuredBrowser(ctx context.Context, cfg *config.Config) browser.Browser {
	b, err := browser.ParseBrowser(cfg.Browser)
	if err != nil {
		slog.WarnContext(ctx, "unknown browser, using safari", "browser", cfg.Browser)
		return browser.Safari
	}
	return b
}

// nonNil returns an empty slice for nil so JSON output shows [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
