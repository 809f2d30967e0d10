package browser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/capture/internal/exec"
)

type fakeAutomation struct {
	items   []string
	err     error
	scripts []string
}

func (f *fakeAutomation) Run(_ context.Context, script string) ([]string, error) {
	f.scripts = append(f.scripts, script)
	return f.items, f.err
}

func TestPairs(t *testing.T) {
	tabs := Pairs([]string{"Tab1", "http://a", "Tab2", "http://b"})
	require.Equal(t, []Tab{
		{Title: "Tab1", URL: "http://a"},
		{Title: "Tab2", URL: "http://b"},
	}, tabs)
}

func TestPairs_Empty(t *testing.T) {
	require.Empty(t, Pairs(nil))
	require.Empty(t, Pairs([]string{}))
}

func TestPairs_DropsTrailingTitle(t *testing.T) {
	tabs := Pairs([]string{"Tab1", "http://a", "Orphan"})
	require.Equal(t, []Tab{{Title: "Tab1", URL: "http://a"}}, tabs)
}

func TestQuery_UsesScriptForBrowserAndScope(t *testing.T) {
	fake := &fakeAutomation{items: []string{"Docs", "https://go.dev/doc"}}

	tabs := Query(context.Background(), fake, Chrome, Active)
	require.Equal(t, []Tab{{Title: "Docs", URL: "https://go.dev/doc"}}, tabs)
	require.Len(t, fake.scripts, 1)
	require.Contains(t, fake.scripts[0], `application "Google Chrome"`)
	require.Contains(t, fake.scripts[0], "active tab of first window")
}

func TestQuery_FailureIsEmpty(t *testing.T) {
	fake := &fakeAutomation{err: errors.New("not running")}
	require.Empty(t, Query(context.Background(), fake, Safari, All))
}

func TestScript_SixDistinctScripts(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range []Browser{Safari, Brave, Chrome} {
		for _, s := range []Scope{Active, All} {
			script := Script(b, s)
			require.Contains(t, script, b.AppName())
			require.Contains(t, script, "is running")
			require.True(t, strings.HasSuffix(script, "return outList as text"))
			seen[script] = true
		}
	}
	require.Len(t, seen, 6)
}

func TestParseBrowser(t *testing.T) {
	cases := map[string]Browser{
		"safari": Safari, "Brave": Brave, "chrome": Chrome,
		"0": Safari, "1": Brave, "2": Chrome, "": Safari,
	}
	for in, want := range cases {
		got, err := ParseBrowser(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseBrowser("netscape")
	require.Error(t, err)
}

func TestOSAScript_SplitsLines(t *testing.T) {
	runner := exec.NewMockRunner(func(name string, args []string) exec.MockResponse {
		return exec.MockResponse{Stdout: []byte("Go\nhttps://go.dev\nPkg\nhttps://pkg.go.dev\n")}
	})

	items, err := NewOSAScript(runner).Run(context.Background(), "script")
	require.NoError(t, err)
	require.Equal(t, []string{"Go", "https://go.dev", "Pkg", "https://pkg.go.dev"}, items)
	require.Equal(t, "osascript", runner.Calls[0].Name)
	require.Equal(t, []string{"-e", "script"}, runner.Calls[0].Args)
}

func TestOSAScript_EmptyOutput(t *testing.T) {
	runner := exec.NewMockRunner(func(string, []string) exec.MockResponse {
		return exec.MockResponse{Stdout: []byte("\n")}
	})

	items, err := NewOSAScript(runner).Run(context.Background(), "script")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestOSAScript_Error(t *testing.T) {
	runner := exec.NewMockRunner(func(string, []string) exec.MockResponse {
		return exec.MockResponse{Stderr: []byte("execution error"), Err: errors.New("exit status 1")}
	})

	_, err := NewOSAScript(runner).Run(context.Background(), "script")
	require.Error(t, err)
	require.Contains(t, err.Error(), "execution error")
}
