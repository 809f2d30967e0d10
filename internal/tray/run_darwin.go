//go:build darwin

package tray

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getlantern/systray"
	"golang.design/x/hotkey"

	"github.com/hpungsan/capture/internal/config"
	"github.com/hpungsan/capture/internal/ops"
)

// Run shows the menu-bar item and blocks until Quit is chosen. It must be called
// from the main goroutine.
func Run(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	systray.Run(func() { app.onReady(ctx) }, func() {
		cancel()
		slog.Info("tray exiting")
	})
	return nil
}

func (a *App) onReady(ctx context.Context) {
	systray.SetTitle("Capture")
	systray.SetTooltip("Capture notes into the journal")

	newCapture := systray.AddMenuItem("New Capture", "Write a note to today's journal")
	quick := systray.AddMenuItem("Quick Screenshot", "Capture every display")
	systray.AddSeparator()
	openToday := systray.AddMenuItem("Open Today", "Open today's day file")
	openFolder := systray.AddMenuItem("Open Folder", "Open this month's folder")
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "Quit Capture")

	hk, err := registerHotkey(a.cfg.ShowShortcut)
	if err != nil {
		slog.Warn("global hotkey unavailable", "shortcut", a.cfg.ShowShortcut.String(), "error", err)
	} else {
		slog.Info("hotkey registered", "shortcut", a.cfg.ShowShortcut.String())
		go func() {
			for range hk.Keydown() {
				go func() {
					action, out, err := a.Hotkey(ctx)
					report("hotkey_"+action, out, err)
				}()
			}
		}()
	}

	go func() {
		for {
			select {
			case <-newCapture.ClickedCh:
				go func() {
					out, err := a.NewCapture(ctx)
					report("new_capture", out, err)
				}()
			case <-quick.ClickedCh:
				go func() {
					out, err := a.QuickScreenshot(ctx)
					report("quick_screenshot", out, err)
				}()
			case <-openToday.ClickedCh:
				if err := a.Open(ctx, ops.OpenToday); err != nil {
					slog.Error("open today failed", "error", err)
				}
			case <-openFolder.ClickedCh:
				if err := a.Open(ctx, ops.OpenFolder); err != nil {
					slog.Error("open folder failed", "error", err)
				}
			case <-quit.ClickedCh:
				if hk != nil {
					_ = hk.Unregister()
				}
				systray.Quit()
				return
			}
		}
	}()
}

// registerHotkey binds the configured shortcut.
func registerHotkey(sc config.Shortcut) (*hotkey.Hotkey, error) {
	mods, err := parseModifiers(sc.Modifiers)
	if err != nil {
		return nil, err
	}
	key, err := parseKey(sc.Key)
	if err != nil {
		return nil, err
	}
	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("register %s (accessibility permission may be required): %w", sc, err)
	}
	return hk, nil
}
