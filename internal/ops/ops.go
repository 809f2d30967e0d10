// Package ops implements the operations shared by the CLI, MCP server, tray and web viewer.
package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/afero"

	"github.com/hpungsan/capture/internal/attach"
	"github.com/hpungsan/capture/internal/browser"
	"github.com/hpungsan/capture/internal/exec"
	"github.com/hpungsan/capture/internal/screenshot"
	"github.com/hpungsan/capture/internal/sysinfo"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	DefaultDaysLimit = 30
	MaxDaysLimit     = 366
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Screenshotter captures every display into dir and returns the written filenames.
type Screenshotter interface {
	CaptureAllDisplays(ctx context.Context, dir string) []string
}

// Importer copies attachments into dir.
type Importer interface {
	Import(ctx context.Context, sources []string, dir string) []attach.Imported
}

// Deps are the collaborators an operation may use.
type Deps struct {
	Fs          afero.Fs
	DB          *sql.DB // nil disables the capture index
	Screenshots Screenshotter
	Attachments Importer
	Automation  browser.Automation
	SysInfo     sysinfo.Source
	Runner      exec.Runner
	Now         func() time.Time
}

// NewDeps wires the production collaborators over the OS filesystem.
func NewDeps(database *sql.DB, runner exec.Runner) *Deps {
	fs := afero.NewOsFs()
	return &Deps{
		Fs:          fs,
		DB:          database,
		Screenshots: screenshot.NewCapturer(fs),
		Attachments: attach.NewImporter(fs),
		Automation:  browser.NewOSAScript(runner),
		SysInfo:     sysinfo.NewSystem(runner),
		Runner:      runner,
		Now:         time.Now,
	}
}

func (d *Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// newID returns a ULID for a capture made at t.
func newID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// clampPage applies limit defaults and bounds and keeps offset non-negative.
func clampPage(limit, offset, def, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, max(offset, 0)
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
