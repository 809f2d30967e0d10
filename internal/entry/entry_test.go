package entry

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/capture/internal/attach"
	"github.com/hpungsan/capture/internal/browser"
)

var testNow = time.Date(2024, time.May, 1, 14, 30, 0, 0, time.UTC)

func TestAssemble_Minimal(t *testing.T) {
	got := Assemble(Request{Summary: "  Met with Bob \n"}, Parts{}, Env{Now: testNow})
	require.Equal(t,
		"# 2:30 PM\nMet with Bob\n----------\n### Misc Info\n*Timestamp: 2024-05-01T14:30:00Z*\n\n* * * * *\n\n",
		got)
}

func TestAssemble_AllSections(t *testing.T) {
	req := Request{
		Summary:          "Standup",
		Details:          "Talked about the release.",
		TakeScreenshot:   true,
		ActiveBrowserTab: true,
		Attachments:      []string{"/tmp/notes.txt"},
	}
	parts := Parts{
		Screenshots: []string{"2024-05-01 - Screenshot 1714573800_1.jpg"},
		Attachments: []attach.Imported{{Original: "notes.txt", Filename: "2024-05-01 1714573800notes.txt"}},
		Tabs:        []browser.Tab{{Title: "Docs", URL: "https://example.com/docs"}},
	}
	env := Env{WiFiSSID: "HomeNet", Hostname: "studio", Now: testNow}

	want := "# 2:30 PM\n" +
		"Standup\n" +
		"----------\n" +
		"Talked about the release.\n\n" +
		"![Screenshot 1](attachments/2024-05-01 - Screenshot 1714573800_1.jpg)\n\n" +
		"### Attachments\n" +
		"* [notes.txt](attachments/2024-05-01 1714573800notes.txt)\n\n" +
		"### Active Browser Tab\n" +
		"* [Docs](https://example.com/docs)\n\n" +
		"### Misc Info\n" +
		"*Timestamp: 2024-05-01T14:30:00Z*\n" +
		"*WiFi: HomeNet*\n" +
		"*Computer: studio*\n" +
		"\n* * * * *\n\n"
	require.Equal(t, want, Assemble(req, parts, env))
}

func TestHeader_WhitespaceDetailsOmitted(t *testing.T) {
	got := Header("Idea", " \n\t", testNow)
	require.Equal(t, "# 2:30 PM\nIdea\n----------\n", got)
}

func TestHeader_DetailsWrittenUntrimmed(t *testing.T) {
	got := Header("Idea", "  indented\n", testNow)
	require.Equal(t, "# 2:30 PM\nIdea\n----------\n  indented\n\n\n", got)
}

func TestHeader_LocalTime(t *testing.T) {
	loc := time.FixedZone("UTC-7", -7*60*60)
	got := Header("Idea", "", time.Date(2024, time.May, 1, 9, 5, 0, 0, loc))
	require.True(t, strings.HasPrefix(got, "# 9:05 AM\n"))
}

func TestScreenshots_NumberedByPosition(t *testing.T) {
	got := Screenshots([]string{"s_1.jpg", "s_3.jpg"})
	require.Equal(t, "![Screenshot 1](attachments/s_1.jpg)\n![Screenshot 2](attachments/s_3.jpg)\n\n", got)
	require.Empty(t, Screenshots(nil))
}

func TestAssemble_ScreenshotsRequireRequest(t *testing.T) {
	got := Assemble(Request{Summary: "x"}, Parts{Screenshots: []string{"s_1.jpg"}}, Env{Now: testNow})
	require.NotContains(t, got, "Screenshot")
}

func TestAttachments_OmittedWhenNoneCopied(t *testing.T) {
	got := Assemble(Request{Summary: "x", Attachments: []string{"/missing"}}, Parts{}, Env{Now: testNow})
	require.NotContains(t, got, "### Attachments")
}

func TestTabs_AllTakesPrecedence(t *testing.T) {
	req := Request{Summary: "x", ActiveBrowserTab: true, AllBrowserTabs: true}
	parts := Parts{Tabs: []browser.Tab{{Title: "A", URL: "http://a"}, {Title: "B", URL: "http://b"}}}

	got := Assemble(req, parts, Env{Now: testNow})
	require.Contains(t, got, "### All Browser Tabs\n* [A](http://a)\n* [B](http://b)\n\n")
	require.NotContains(t, got, "Active Browser Tab")
}

func TestTabs_OmittedWhenEmpty(t *testing.T) {
	got := Assemble(Request{Summary: "x", ActiveBrowserTab: true}, Parts{}, Env{Now: testNow})
	require.NotContains(t, got, "Browser Tab")
}

func TestTabScope(t *testing.T) {
	_, ok := Request{}.TabScope()
	require.False(t, ok)

	scope, ok := Request{ActiveBrowserTab: true}.TabScope()
	require.True(t, ok)
	require.Equal(t, browser.Active, scope)

	scope, ok = Request{ActiveBrowserTab: true, AllBrowserTabs: true}.TabScope()
	require.True(t, ok)
	require.Equal(t, browser.All, scope)
}

func TestMiscInfo_UTCTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got := MiscInfo(Env{Now: time.Date(2024, time.May, 1, 16, 30, 0, 0, loc), Hostname: "box"})
	require.Equal(t, "### Misc Info\n*Timestamp: 2024-05-01T14:30:00Z*\n*Computer: box*\n", got)
}

func TestAssemble_OneSeparatorPerCapture(t *testing.T) {
	var day strings.Builder
	for i := 0; i < 3; i++ {
		day.WriteString(Assemble(Request{Summary: "note"}, Parts{}, Env{Now: testNow}))
	}
	text := day.String()
	require.Equal(t, 3, strings.Count(text, "\n"+Separator+"\n\n"))
	require.Equal(t, 3, strings.Count(text, MiscHeading))

	// Each separator is preceded by exactly one footer.
	blocks := strings.Split(text, "\n"+Separator+"\n\n")
	for _, b := range blocks[:3] {
		require.Equal(t, 1, strings.Count(b, MiscHeading))
	}
}
