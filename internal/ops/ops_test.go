package ops

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/capture/internal/attach"
	"github.com/hpungsan/capture/internal/config"
	"github.com/hpungsan/capture/internal/exec"
	"github.com/hpungsan/capture/internal/sysinfo"
)

var testNow = time.Date(2024, time.May, 1, 14, 30, 0, 0, time.UTC)

const testDayFile = "/journal/2024/05/2024-05-01 Wednesday.md"

type fakeScreenshots struct {
	files []string
	dirs  []string
}

func (f *fakeScreenshots) CaptureAllDisplays(_ context.Context, dir string) []string {
	f.dirs = append(f.dirs, dir)
	return f.files
}

type fakeAutomation struct {
	items   []string
	err     error
	scripts []string
}

func (f *fakeAutomation) Run(_ context.Context, script string) ([]string, error) {
	f.scripts = append(f.scripts, script)
	return f.items, f.err
}

type testEnv struct {
	deps       *Deps
	cfg        *config.Config
	fs         afero.Fs
	shots      *fakeScreenshots
	automation *fakeAutomation
	runner     *exec.MockRunner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fs := afero.NewMemMapFs()
	clock := func() time.Time { return testNow }

	importer := attach.NewImporter(fs)
	importer.Now = clock

	env := &testEnv{
		fs:         fs,
		shots:      &fakeScreenshots{},
		automation: &fakeAutomation{},
		runner:     exec.NewMockRunner(nil),
	}
	env.deps = &Deps{
		Fs:          fs,
		Screenshots: env.shots,
		Attachments: importer,
		Automation:  env.automation,
		SysInfo:     sysinfo.Static{},
		Runner:      env.runner,
		Now:         clock,
	}
	env.cfg = config.DefaultConfig()
	env.cfg.CapturePath = "/journal"
	return env
}

func boolPtr(b bool) *bool {
	return &b
}

func TestClampPage(t *testing.T) {
	limit, offset := clampPage(0, -5, 20, 100)
	require.Equal(t, 20, limit)
	require.Equal(t, 0, offset)

	limit, offset = clampPage(500, 10, 20, 100)
	require.Equal(t, 100, limit)
	require.Equal(t, 10, offset)
}

func TestNewID_IsULID(t *testing.T) {
	id := newID(testNow)
	require.Len(t, id, 26)
	require.NotEqual(t, id, newID(testNow))
}
