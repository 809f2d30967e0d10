// Package attach copies user-supplied files into a day's attachments directory.
package attach

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentCopies bounds the number of files copied at once.
const maxConcurrentCopies = 4

// Imported pairs a source file's basename with the name of its copy.
type Imported struct {
	Original string `json:"original"`
	Filename string `json:"filename"`
}

// Importer copies attachments. Src reads the user's files and Dst holds the journal;
// both are usually the OS filesystem.
type Importer struct {
	Src afero.Fs
	Dst afero.Fs
	Now func() time.Time
}

// NewImporter creates an Importer reading and writing through fs.
func NewImporter(fs afero.Fs) *Importer {
	return &Importer{Src: fs, Dst: fs, Now: time.Now}
}

// Filename builds "<yyyy-MM-dd> <unix><basename>" for a copy made at t.
func Filename(t time.Time, basename string) string {
	return fmt.Sprintf("%s %d%s", t.Format("2006-01-02"), t.Unix(), basename)
}

// Import copies every source into dir. Copies run concurrently but the result follows the
// order of sources. A source that fails to copy is left out of the result.
func (im *Importer) Import(ctx context.Context, sources []string, dir string) []Imported {
	if len(sources) == 0 {
		return nil
	}

	now := im.Now()
	slots := make([]*Imported, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCopies)
	for i, src := range sources {
		g.Go(func() error {
			base := filepath.Base(src)
			name := Filename(now, base)
			if err := im.copyFile(ctx, src, filepath.Join(dir, name)); err != nil {
				slog.WarnContext(ctx, "attachment copy failed", "path", src, "error", err)
				return nil
			}
			slots[i] = &Imported{Original: base, Filename: name}
			return nil
		})
	}
	_ = g.Wait()

	imported := make([]Imported, 0, len(sources))
	for _, s := range slots {
		if s != nil {
			imported = append(imported, *s)
		}
	}
	return imported
}

// copyFile copies src to a new file dst. An existing dst is not overwritten.
func (im *Importer) copyFile(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := im.Src.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	in, err := im.Src.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := im.Dst.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = im.Dst.Remove(dst)
		return err
	}
	return out.Close()
}
