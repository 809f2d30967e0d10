package ops

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/hpungsan/capture/internal/config"
	"github.com/hpungsan/capture/internal/entry"
	"github.com/hpungsan/capture/internal/errors"
	"github.com/hpungsan/capture/internal/journal"
)

// TodayOutput contains the result of the Today operation.
type TodayOutput struct {
	Date           string `json:"date"`
	DayFile        string `json:"day_file"`
	AttachmentsDir string `json:"attachments_dir"`
	Root           string `json:"root"`
}

// Today resolves today's day file, creating it when absent.
func Today(deps *Deps, cfg *config.Config) (*TodayOutput, error) {
	now := deps.now()
	dayFile, err := journal.ResolveDayFile(deps.Fs, cfg.CapturePath, now)
	if err != nil {
		return nil, err
	}
	return &TodayOutput{
		Date:           now.Format(journal.DateKeyLayout),
		DayFile:        dayFile,
		AttachmentsDir: filepath.Join(filepath.Dir(dayFile), journal.AttachmentsDirName),
		Root:           cfg.CapturePath,
	}, nil
}

// DayInput contains parameters for the Day operation.
type DayInput struct {
	Date string // yyyy-mm-dd, default: today
}

// DayOutput contains the result of the Day operation.
type DayOutput struct {
	Date     string              `json:"date"`
	DayFile  string              `json:"day_file"`
	Markdown string              `json:"markdown"`
	Entries  []entry.ParsedEntry `json:"entries"`
}

// Day reads a day file and splits it into its captures.
func Day(deps *Deps, cfg *config.Config, input DayInput) (*DayOutput, error) {
	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = deps.now().Format(journal.DateKeyLayout)
	}

	path, err := journal.FindDay(deps.Fs, cfg.CapturePath, date)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(deps.Fs, path)
	if err != nil {
		return nil, errors.NewUnavailable(path, err)
	}

	text := string(data)
	return &DayOutput{
		Date:     date,
		DayFile:  path,
		Markdown: text,
		Entries:  nonNil(entry.Parse(text)),
	}, nil
}

// DaysInput contains parameters for the Days operation.
type DaysInput struct {
	Limit  int // default: 30, max: 366
	Offset int // default: 0
}

// DaysOutput contains the result of the Days operation.
type DaysOutput struct {
	Items      []journal.Day `json:"items"`
	Pagination Pagination    `json:"pagination"`
	Sort       string        `json:"sort"`
}

// Days lists the day files in the journal, newest first.
func Days(deps *Deps, cfg *config.Config, input DaysInput) (*DaysOutput, error) {
	limit, offset := clampPage(input.Limit, input.Offset, DefaultDaysLimit, MaxDaysLimit)

	days, err := journal.DayFiles(deps.Fs, cfg.CapturePath)
	if err != nil {
		return nil, err
	}

	total := len(days)
	page := []journal.Day{}
	if offset < total {
		page = days[offset:min(offset+limit, total)]
	}

	return &DaysOutput{
		Items: page,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(page) < total,
			Total:   total,
		},
		Sort: "date_desc",
	}, nil
}

// OpenTarget selects what Open hands to the desktop.
type OpenTarget string

const (
	OpenToday  OpenTarget = "today"  // today's day file
	OpenFolder OpenTarget = "folder" // the current month's folder
)

// OpenOutput contains the result of the Open operation.
type OpenOutput struct {
	Path string `json:"path"`
}

// Open resolves the target and opens it with the desktop's default application.
func Open(ctx context.Context, deps *Deps, cfg *config.Config, target OpenTarget) (*OpenOutput, error) {
	var path string
	switch target {
	case OpenToday, "":
		today, err := Today(deps, cfg)
		if err != nil {
			return nil, err
		}
		path = today.DayFile
	case OpenFolder:
		today, err := Today(deps, cfg)
		if err != nil {
			return nil, err
		}
		path = filepath.Dir(today.DayFile)
	default:
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown open target %q (want today or folder)", target))
	}

	if deps.Runner == nil {
		return nil, errors.NewInternal(fmt.Errorf("no command runner configured"))
	}
	if err := deps.Runner.Start(ctx, "open", path); err != nil {
		return nil, errors.NewUnavailable(path, err)
	}
	return &OpenOutput{Path: path}, nil
}
