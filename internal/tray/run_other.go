//go:build !darwin

package tray

import (
	"context"
	"fmt"
	"runtime"
)

// Run reports that the menu-bar shell is unavailable on this platform.
func Run(ctx context.Context, app *App) error {
	return fmt.Errorf("the tray is only supported on macOS (running on %s)", runtime.GOOS)
}
