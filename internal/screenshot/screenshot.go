// Package screenshot captures every active display into JPEG files.
package screenshot

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kbinani/screenshot"
	"github.com/spf13/afero"
)

// jpegQuality is the encoder quality for screenshots.
const jpegQuality = 90

// Displays enumerates and renders the active displays.
type Displays interface {
	// Count returns the number of active displays.
	Count() (int, error)
	// Capture renders the display at zero-based index i.
	Capture(i int) (image.Image, error)
}

// SystemDisplays reads the real displays, in the order the OS reports them.
type SystemDisplays struct{}

// Count implements Displays.
func (SystemDisplays) Count() (int, error) {
	n := screenshot.NumActiveDisplays()
	if n < 0 {
		return 0, fmt.Errorf("display enumeration failed")
	}
	return n, nil
}

// Capture implements Displays.
func (SystemDisplays) Capture(i int) (image.Image, error) {
	return screenshot.CaptureDisplay(i)
}

// Capturer writes one image per display.
type Capturer struct {
	Displays Displays
	Fs       afero.Fs
	Now      func() time.Time
}

// NewCapturer creates a Capturer over the system displays.
func NewCapturer(fs afero.Fs) *Capturer {
	return &Capturer{Displays: SystemDisplays{}, Fs: fs, Now: time.Now}
}

// Filename builds "<yyyy-MM-dd> - Screenshot <unix>_<display>.jpg"; display is 1-based.
func Filename(t time.Time, display int) string {
	return fmt.Sprintf("%s - Screenshot %d_%d.jpg", t.Format("2006-01-02"), t.Unix(), display)
}

// CaptureAllDisplays writes a JPEG per active display into dir and returns the written
// filenames in display order. A display that fails to render or write is skipped; if the
// displays cannot be enumerated the result is empty.
func (c *Capturer) CaptureAllDisplays(ctx context.Context, dir string) []string {
	n, err := c.Displays.Count()
	if err != nil {
		slog.WarnContext(ctx, "screenshot: cannot enumerate displays", "error", err)
		return nil
	}

	var filenames []string
	for i := 0; i < n; i++ {
		name := Filename(c.Now(), i+1)
		if err := c.captureOne(i, filepath.Join(dir, name)); err != nil {
			slog.WarnContext(ctx, "screenshot: display skipped", "display", i+1, "error", err)
			continue
		}
		filenames = append(filenames, name)
	}
	return filenames
}

func (c *Capturer) captureOne(i int, path string) error {
	img, err := c.Displays.Capture(i)
	if err != nil {
		return err
	}

	f, err := c.Fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		_ = f.Close()
		_ = c.Fs.Remove(path)
		return err
	}
	return f.Close()
}
