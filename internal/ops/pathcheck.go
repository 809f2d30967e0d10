package ops

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/hpungsan/capture/internal/errors"
	"github.com/hpungsan/capture/internal/journal"
)

var (
	yearPattern  = regexp.MustCompile(`^[0-9]{4}$`)
	monthPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
)

// CleanAttachmentSources turns user-supplied attachment paths into absolute paths.
// A leading "~/" expands to the home directory and relative paths resolve against the
// working directory. Blank entries are dropped; an entry that cannot be resolved is
// skipped with a warning and the rest are kept.
func CleanAttachmentSources(ctx context.Context, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}

	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		abs, err := resolveSource(p)
		if err != nil {
			slog.WarnContext(ctx, "attachment skipped", "path", p, "error", err)
			continue
		}
		cleaned = append(cleaned, abs)
	}
	return cleaned
}

func resolveSource(p string) (string, error) {
	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("path contains a NUL byte")
	}
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot expand ~: %w", err)
		}
		p = filepath.Join(home, rest)
	}
	return filepath.Abs(p)
}

// AttachmentPath resolves a file inside root/<year>/<month>/attachments. The name must be
// a plain filename and the file must exist as a regular file.
func AttachmentPath(fs afero.Fs, root, year, month, name string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", errors.NewConfigMissing("capture_path")
	}
	if !yearPattern.MatchString(year) || !monthPattern.MatchString(month) {
		return "", errors.NewInvalidRequest("year must be yyyy and month must be mm")
	}
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", errors.NewInvalidRequest("invalid attachment name")
	}

	path := filepath.Join(root, year, month, journal.AttachmentsDirName, name)
	info, err := statNoFollow(fs, path)
	if err != nil || !info.Mode().IsRegular() {
		return "", errors.NewNotFound(name)
	}
	return path, nil
}

// statNoFollow stats path without following a final symlink when the filesystem allows it.
func statNoFollow(fs afero.Fs, path string) (os.FileInfo, error) {
	if l, ok := fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}
