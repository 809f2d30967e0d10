// Package journal lays out the dated Markdown journal on disk:
// <root>/<yyyy>/<MM>/<yyyy-MM-dd Weekday>.md plus a sibling attachments/ directory.
package journal

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/hpungsan/capture/internal/errors"
)

// AttachmentsDirName is the directory next to each day file holding copied files and screenshots.
const AttachmentsDirName = "attachments"

// Layout formats used for directories, day filenames and sortable attachment keys.
const (
	DateKeyLayout  = "2006-01-02"
	dayFileLayout  = "2006-01-02 Monday"
	monthDirLayout = "2006/01"
)

// DayFileName returns "yyyy-MM-dd Weekday.md" for t.
func DayFileName(t time.Time) string {
	return t.Format(dayFileLayout) + ".md"
}

// DayFilePath returns the day file path for t without touching the filesystem.
func DayFilePath(root string, t time.Time) string {
	return filepath.Join(root, filepath.FromSlash(t.Format(monthDirLayout)), DayFileName(t))
}

// ResolveDayFile computes root/yyyy/MM/<yyyy-MM-dd Weekday>.md for now, creating the
// month directory and an empty day file when absent. An existing file is never truncated.
func ResolveDayFile(fs afero.Fs, root string, now time.Time) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", errors.NewConfigMissing("capture_path")
	}

	path := DayFilePath(root, now)
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", errors.NewUnavailable(dir, err)
	}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return "", errors.NewUnavailable(path, err)
	}
	if !exists {
		f, err := fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err != nil && !os.IsExist(err) {
			return "", errors.NewUnavailable(path, err)
		}
		if f != nil {
			_ = f.Close()
		}
	}

	return path, nil
}

// ResolveAttachmentsDir returns the attachments directory next to dayFile, creating it
// non-recursively: the day file's directory must already exist.
func ResolveAttachmentsDir(fs afero.Fs, dayFile string) (string, error) {
	parent := filepath.Dir(dayFile)
	dir := filepath.Join(parent, AttachmentsDirName)

	if ok, _ := afero.DirExists(fs, dir); ok {
		return dir, nil
	}
	if ok, _ := afero.DirExists(fs, parent); !ok {
		return "", errors.NewUnavailable(parent, os.ErrNotExist)
	}
	if err := fs.Mkdir(dir, 0755); err != nil && !os.IsExist(err) {
		return "", errors.NewUnavailable(dir, err)
	}
	return dir, nil
}

// Append writes text at the end of dayFile. The file must already exist.
func Append(fs afero.Fs, dayFile, text string) error {
	f, err := fs.OpenFile(dayFile, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.NewUnavailable(dayFile, err)
	}
	if _, err := f.Write([]byte(text)); err != nil {
		_ = f.Close()
		return errors.NewUnavailable(dayFile, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewUnavailable(dayFile, err)
	}
	return nil
}

// Day describes one day file found under the journal root.
type Day struct {
	Date    string    `json:"date"` // yyyy-MM-dd
	Weekday string    `json:"weekday"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// DayFiles lists day files under root, newest date first. Files that don't follow the
// "yyyy-MM-dd Weekday.md" naming are ignored.
func DayFiles(fs afero.Fs, root string) ([]Day, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.NewConfigMissing("capture_path")
	}

	matches, err := afero.Glob(fs, filepath.Join(root, "[0-9][0-9][0-9][0-9]", "[0-9][0-9]", "*.md"))
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	days := make([]Day, 0, len(matches))
	for _, m := range matches {
		date, weekday, ok := parseDayFileName(filepath.Base(m))
		if !ok {
			continue
		}
		info, err := fs.Stat(m)
		if err != nil {
			continue
		}
		days = append(days, Day{
			Date:    date,
			Weekday: weekday,
			Path:    m,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days, nil
}

// FindDay returns the day file for date (yyyy-MM-dd) if it exists.
func FindDay(fs afero.Fs, root, date string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", errors.NewConfigMissing("capture_path")
	}
	t, err := time.ParseInLocation(DateKeyLayout, date, time.Local)
	if err != nil {
		return "", errors.NewInvalidRequest("date must be yyyy-mm-dd")
	}
	path := DayFilePath(root, t)
	if ok, _ := afero.Exists(fs, path); !ok {
		return "", errors.NewNotFound(date)
	}
	return path, nil
}

// parseDayFileName splits "2024-05-01 Wednesday.md" into its date and weekday.
func parseDayFileName(name string) (date, weekday string, ok bool) {
	base, found := strings.CutSuffix(name, ".md")
	if !found {
		return "", "", false
	}
	date, weekday, found = strings.Cut(base, " ")
	if !found {
		return "", "", false
	}
	if _, err := time.Parse(DateKeyLayout, date); err != nil {
		return "", "", false
	}
	return date, weekday, true
}
