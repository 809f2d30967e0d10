// Package tray runs the menu-bar shell: a status item with capture actions and a
// global hotkey that opens a new capture, or takes a quick screenshot while one is open.
package tray

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hpungsan/capture/internal/config"
	"github.com/hpungsan/capture/internal/errors"
	"github.com/hpungsan/capture/internal/exec"
	"github.com/hpungsan/capture/internal/ops"
)

// ErrBusy is returned when an action cannot start because another one is running.
var ErrBusy = stderrors.New("a capture is already in progress")

// ErrCancelled is returned when the user dismisses the capture dialog.
var ErrCancelled = stderrors.New("capture cancelled")

// Prompter asks the user for a line of text. ok is false when the dialog was dismissed.
type Prompter interface {
	Ask(ctx context.Context, title, prompt string) (answer string, ok bool, err error)
}

// App holds the state shared by the menu items and the hotkey. At most one capture
// dialog is open at a time and day file writes are serialized.
type App struct {
	deps   *ops.Deps
	cfg    *config.Config
	prompt Prompter

	mu        sync.Mutex
	prompting bool

	writeMu sync.Mutex
}

// NewApp creates a tray App.
func NewApp(deps *ops.Deps, cfg *config.Config, prompt Prompter) *App {
	return &App{deps: deps, cfg: cfg, prompt: prompt}
}

// DialogOpen reports whether the capture dialog is showing.
func (a *App) DialogOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prompting
}

func (a *App) startPrompt() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.prompting {
		return false
	}
	a.prompting = true
	return true
}

func (a *App) endPrompt() {
	a.mu.Lock()
	a.prompting = false
	a.mu.Unlock()
}

// Hotkey handles the global shortcut: it opens the capture dialog, or takes a quick
// screenshot when the dialog is already open. It returns the action it ran.
func (a *App) Hotkey(ctx context.Context) (string, *ops.CaptureOutput, error) {
	if a.DialogOpen() {
		out, err := a.QuickScreenshot(ctx)
		return "quick_screenshot", out, err
	}
	out, err := a.NewCapture(ctx)
	return "new_capture", out, err
}

// NewCapture asks for a summary and details, then writes a capture using the
// configured defaults for screenshot and tabs.
func (a *App) NewCapture(ctx context.Context) (*ops.CaptureOutput, error) {
	if strings.TrimSpace(a.cfg.CapturePath) == "" {
		return nil, errors.NewConfigMissing("capture_path")
	}
	if !a.startPrompt() {
		return nil, ErrBusy
	}
	summary, details, err := a.askNote(ctx)
	a.endPrompt()
	if err != nil {
		return nil, err
	}

	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	return ops.Capture(ctx, a.deps, a.cfg, ops.CaptureInput{Summary: summary, Details: details})
}

func (a *App) askNote(ctx context.Context) (summary, details string, err error) {
	summary, ok, err := a.prompt.Ask(ctx, "New Capture", "Summary")
	if err != nil {
		return "", "", err
	}
	if !ok || strings.TrimSpace(summary) == "" {
		return "", "", ErrCancelled
	}
	details, ok, err = a.prompt.Ask(ctx, "New Capture", "Details (optional)")
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", ErrCancelled
	}
	return summary, details, nil
}

// QuickScreenshot writes a screenshot-only capture. It is dropped when another
// write is in progress.
func (a *App) QuickScreenshot(ctx context.Context) (*ops.CaptureOutput, error) {
	if !a.writeMu.TryLock() {
		return nil, ErrBusy
	}
	defer a.writeMu.Unlock()
	return ops.QuickScreenshot(ctx, a.deps, a.cfg)
}

// Open opens today's day file or the journal folder.
func (a *App) Open(ctx context.Context, target ops.OpenTarget) error {
	_, err := ops.Open(ctx, a.deps, a.cfg, target)
	return err
}

// report logs the outcome of a tray action.
func report(action string, out *ops.CaptureOutput, err error) {
	switch {
	case err == nil:
		slog.Info("capture written", "action", action, "id", out.ID, "day_file", out.DayFile)
	case stderrors.Is(err, ErrBusy):
		slog.Debug("ignored while busy", "action", action)
	case stderrors.Is(err, ErrCancelled):
		slog.Debug("capture cancelled", "action", action)
	default:
		slog.Error("capture failed", "action", action, "error", err)
	}
}

// Dialog prompts through AppleScript's display dialog.
type Dialog struct {
	Runner exec.Runner
}

// NewDialog creates a Dialog prompter.
func NewDialog(runner exec.Runner) *Dialog {
	return &Dialog{Runner: runner}
}

// userCanceled is the AppleScript error number for a dismissed dialog.
const userCanceled = "(-128)"

// Ask implements Prompter.
func (d *Dialog) Ask(ctx context.Context, title, prompt string) (string, bool, error) {
	script := fmt.Sprintf(
		"text returned of (display dialog %s default answer \"\" with title %s)",
		appleString(prompt), appleString(title))
	stdout, stderr, err := d.Runner.Run(ctx, "osascript", "-e", script)
	if err != nil {
		if strings.Contains(string(stderr), userCanceled) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(stderr)))
	}
	return strings.TrimRight(string(stdout), "\r\n"), true, nil
}

// appleString quotes s as an AppleScript string literal.
func appleString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
