package tray

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/capture/internal/config"
	"github.com/hpungsan/capture/internal/errors"
	"github.com/hpungsan/capture/internal/exec"
	"github.com/hpungsan/capture/internal/ops"
	"github.com/hpungsan/capture/internal/sysinfo"
)

var testNow = time.Date(2024, time.May, 1, 14, 30, 0, 0, time.UTC)

const testDayFile = "/journal/2024/05/2024-05-01 Wednesday.md"

// scriptedPrompter answers each Ask with the next scripted reply.
type scriptedPrompter struct {
	replies []reply
	asked   []string
	block   chan struct{} // when set, Ask waits on it
}

type reply struct {
	answer string
	ok     bool
}

func (p *scriptedPrompter) Ask(_ context.Context, _, prompt string) (string, bool, error) {
	if p.block != nil {
		<-p.block
	}
	p.asked = append(p.asked, prompt)
	if len(p.replies) == 0 {
		return "", false, nil
	}
	r := p.replies[0]
	p.replies = p.replies[1:]
	return r.answer, r.ok, nil
}

type fakeScreenshots struct{}

func (fakeScreenshots) CaptureAllDisplays(context.Context, string) []string {
	return []string{"2024-05-01 - Screenshot 1714573800_1.jpg"}
}

func newTestApp(t *testing.T, p Prompter) (*App, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	deps := &ops.Deps{
		Fs:          fs,
		Screenshots: fakeScreenshots{},
		SysInfo:     sysinfo.Static{},
		Runner:      exec.NewMockRunner(nil),
		Now:         func() time.Time { return testNow },
	}
	cfg := config.DefaultConfig()
	cfg.CapturePath = "/journal"
	return NewApp(deps, cfg, p), fs
}

func TestNewCapture_WritesEntry(t *testing.T) {
	p := &scriptedPrompter{replies: []reply{{"Met with Bob", true}, {"", true}}}
	app, fs := newTestApp(t, p)

	out, err := app.NewCapture(context.Background())
	require.NoError(t, err)
	require.Equal(t, testDayFile, out.DayFile)
	require.Equal(t, []string{"Summary", "Details (optional)"}, p.asked)

	data, err := afero.ReadFile(fs, testDayFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "Met with Bob\n----------\n")
	require.False(t, app.DialogOpen())
}

func TestNewCapture_Cancelled(t *testing.T) {
	tests := []struct {
		name    string
		replies []reply
	}{
		{"summary dismissed", []reply{{"", false}}},
		{"blank summary", []reply{{"   ", true}}},
		{"details dismissed", []reply{{"Met with Bob", true}, {"", false}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, fs := newTestApp(t, &scriptedPrompter{replies: tt.replies})

			_, err := app.NewCapture(context.Background())
			require.ErrorIs(t, err, ErrCancelled)

			exists, _ := afero.Exists(fs, testDayFile)
			require.False(t, exists)
			require.False(t, app.DialogOpen())
		})
	}
}

func TestNewCapture_ConfigMissing(t *testing.T) {
	p := &scriptedPrompter{replies: []reply{{"Met with Bob", true}, {"", true}}}
	app, _ := newTestApp(t, p)
	app.cfg.CapturePath = ""

	_, err := app.NewCapture(context.Background())
	require.True(t, errors.Is(err, errors.ErrConfigMissing))
	require.Empty(t, p.asked)
}

func TestHotkey_OpensDialogWhenIdle(t *testing.T) {
	p := &scriptedPrompter{replies: []reply{{"Met with Bob", true}, {"", true}}}
	app, _ := newTestApp(t, p)

	action, out, err := app.Hotkey(context.Background())
	require.NoError(t, err)
	require.Equal(t, "new_capture", action)
	require.Contains(t, out.Markdown, "Met with Bob")
	require.Len(t, p.asked, 2)
}

func TestHotkey_WhileDialogOpenTakesQuickScreenshot(t *testing.T) {
	p := &scriptedPrompter{
		replies: []reply{{"Met with Bob", true}, {"", true}},
		block:   make(chan struct{}),
	}
	app, fs := newTestApp(t, p)

	done := make(chan error, 1)
	go func() {
		_, err := app.NewCapture(context.Background())
		done <- err
	}()

	require.Eventually(t, app.DialogOpen, time.Second, time.Millisecond)

	action, out, err := app.Hotkey(context.Background())
	require.NoError(t, err)
	require.Equal(t, "quick_screenshot", action)
	require.Equal(t, []string{"2024-05-01 - Screenshot 1714573800_1.jpg"}, out.Screenshots)

	// The menu item does not open a second dialog.
	_, err = app.NewCapture(context.Background())
	require.ErrorIs(t, err, ErrBusy)

	close(p.block)
	require.NoError(t, <-done)
	require.False(t, app.DialogOpen())

	data, err := afero.ReadFile(fs, testDayFile)
	require.NoError(t, err)
	text := string(data)
	quick := strings.Index(text, "\nQuick Screenshot\n")
	note := strings.Index(text, "\nMet with Bob\n")
	require.True(t, quick >= 0 && note > quick, text)
}

func TestQuickScreenshot_DroppedDuringWrite(t *testing.T) {
	app, _ := newTestApp(t, &scriptedPrompter{})
	app.writeMu.Lock()
	defer app.writeMu.Unlock()

	_, err := app.QuickScreenshot(context.Background())
	require.ErrorIs(t, err, ErrBusy)
}

func TestOpen(t *testing.T) {
	app, _ := newTestApp(t, &scriptedPrompter{})
	runner := app.deps.Runner.(*exec.MockRunner)

	require.NoError(t, app.Open(context.Background(), ops.OpenFolder))
	require.Equal(t, 1, runner.CallCount())
	require.Equal(t, "open", runner.Calls[0].Name)
	require.Equal(t, []string{"/journal/2024/05"}, runner.Calls[0].Args)
}

func TestDialogAsk(t *testing.T) {
	runner := exec.NewMockRunner(func(name string, args []string) exec.MockResponse {
		return exec.MockResponse{Stdout: []byte("Met with Bob\n")}
	})
	d := NewDialog(runner)

	answer, ok, err := d.Ask(context.Background(), "New Capture", `Say "hi"`)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Met with Bob", answer)

	require.Equal(t, "osascript", runner.Calls[0].Name)
	script := runner.Calls[0].Args[1]
	require.True(t, strings.Contains(script, `display dialog "Say \"hi\""`), script)
	require.True(t, strings.Contains(script, `with title "New Capture"`), script)
}

func TestDialogAsk_UserCanceled(t *testing.T) {
	runner := exec.NewMockRunner(func(name string, args []string) exec.MockResponse {
		return exec.MockResponse{
			Stderr: []byte("execution error: User canceled. (-128)\n"),
			Err:    stderrors.New("exit status 1"),
		}
	})

	_, ok, err := NewDialog(runner).Ask(context.Background(), "New Capture", "Summary")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDialogAsk_Failure(t *testing.T) {
	runner := exec.NewMockRunner(func(name string, args []string) exec.MockResponse {
		return exec.MockResponse{Stderr: []byte("boom"), Err: stderrors.New("exit status 1")}
	})

	_, _, err := NewDialog(runner).Ask(context.Background(), "New Capture", "Summary")
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}
