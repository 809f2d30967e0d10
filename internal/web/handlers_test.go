package web

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/hpungsan/capture/internal/config"
	"github.com/hpungsan/capture/internal/db"
	"github.com/hpungsan/capture/internal/ops"
	"github.com/hpungsan/capture/internal/sysinfo"
)

var testNow = time.Date(2024, time.May, 1, 14, 30, 0, 0, time.UTC)

const testAttachment = "2024-05-01 - Screenshot 1714573800_1.jpg"

type fakeScreenshots struct{}

func (fakeScreenshots) CaptureAllDisplays(context.Context, string) []string {
	return []string{testAttachment}
}

func setupTest(t *testing.T) (http.Handler, *Handlers) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	deps := &ops.Deps{
		Fs:          afero.NewMemMapFs(),
		DB:          database,
		Screenshots: fakeScreenshots{},
		SysInfo:     sysinfo.Static{},
		Now:         func() time.Time { return testNow },
	}
	cfg := config.DefaultConfig()
	cfg.CapturePath = "/journal"

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatalf("template sub-FS: %v", err)
	}
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		t.Fatalf("static sub-FS: %v", err)
	}

	h := &Handlers{deps: deps, cfg: cfg, renderer: NewRenderer(templateSub, "test")}
	return securityHeaders(h.routes(staticSub)), h
}

// seedCapture writes a capture through the ops layer.
func seedCapture(t *testing.T, h *Handlers, summary string, screenshot bool) {
	t.Helper()
	_, err := ops.Capture(context.Background(), h.deps, h.cfg, ops.CaptureInput{
		Summary:        summary,
		TakeScreenshot: &screenshot,
	})
	if err != nil {
		t.Fatalf("seed capture %q: %v", summary, err)
	}
}

func get(t *testing.T, handler http.Handler, target string, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRootRedirects(t *testing.T) {
	handler, _ := setupTest(t)

	rec := get(t, handler, "/", "")
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/days" {
		t.Errorf("Location = %q, want /days", loc)
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing security headers")
	}
}

func TestHandleDays(t *testing.T) {
	handler, h := setupTest(t)

	rec := get(t, handler, "/days", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Nothing captured yet.") {
		t.Error("empty journal message missing")
	}

	seedCapture(t, h, "Met with Bob", false)

	rec = get(t, handler, "/days", "")
	if !strings.Contains(rec.Body.String(), `href="/days/2024-05-01"`) {
		t.Errorf("day link missing: %s", rec.Body.String())
	}

	rec = get(t, handler, "/days", "application/json")
	var out ops.DaysOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if out.Pagination.Total != 1 || out.Items[0].Weekday != "Wednesday" {
		t.Errorf("days = %+v", out)
	}
}

func TestHandleDays_ConfigMissing(t *testing.T) {
	handler, h := setupTest(t)
	h.cfg.CapturePath = ""

	rec := get(t, handler, "/days", "application/json")
	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("status = %d, want 412", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "CONFIG_MISSING") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleDay(t *testing.T) {
	handler, h := setupTest(t)
	seedCapture(t, h, "Met with Bob", true)

	rec := get(t, handler, "/days/2024-05-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<h2>Met with Bob</h2>") {
		t.Errorf("summary heading missing: %s", body)
	}
	wantSrc := "/attachments/2024/05/" + url.PathEscape(testAttachment)
	if !strings.Contains(body, `src="`+wantSrc+`"`) {
		t.Errorf("screenshot not rewritten to %s: %s", wantSrc, body)
	}
}

func TestHandleDay_Errors(t *testing.T) {
	handler, _ := setupTest(t)

	rec := get(t, handler, "/days/2024-01-01", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing day status = %d, want 404", rec.Code)
	}

	rec = get(t, handler, "/days/yesterday", "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_REQUEST") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleAttachment(t *testing.T) {
	handler, h := setupTest(t)
	path := "/journal/2024/05/attachments/" + testAttachment
	if err := afero.WriteFile(h.deps.Fs, path, []byte("jpeg-bytes"), 0644); err != nil {
		t.Fatalf("write attachment: %v", err)
	}

	rec := get(t, handler, "/attachments/2024/05/"+url.PathEscape(testAttachment), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "jpeg-bytes" {
		t.Errorf("body = %q", rec.Body.String())
	}

	rec = get(t, handler, "/attachments/2024/13/x.jpg", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad month status = %d, want 400", rec.Code)
	}

	rec = get(t, handler, "/attachments/2024/05/missing.jpg", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing file status = %d, want 404", rec.Code)
	}
}

func TestHandleCaptures(t *testing.T) {
	handler, h := setupTest(t)
	seedCapture(t, h, "Budget review", false)
	seedCapture(t, h, "Lunch with Ana", false)

	rec := get(t, handler, "/captures", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Budget review") || !strings.Contains(body, "Lunch with Ana") {
		t.Errorf("captures missing: %s", body)
	}

	rec = get(t, handler, "/captures?q=budget", "")
	body = rec.Body.String()
	if !strings.Contains(body, "Budget review") || strings.Contains(body, "Lunch with Ana") {
		t.Errorf("search results wrong: %s", body)
	}

	rec = get(t, handler, "/captures?q=budget", "application/json")
	var out ops.SearchOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if len(out.Items) != 1 {
		t.Errorf("items = %d, want 1", len(out.Items))
	}
}

func TestHandleCaptures_NoIndex(t *testing.T) {
	handler, h := setupTest(t)
	h.deps.DB = nil

	rec := get(t, handler, "/captures", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestStaticStylesheet(t *testing.T) {
	handler, _ := setupTest(t)

	rec := get(t, handler, "/static/style.css", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRewriteAttachmentLinks(t *testing.T) {
	in := "![Screenshot 1](attachments/2024-05-01 - Screenshot 1_1.jpg)\n" +
		"* [notes.txt](attachments/2024-05-01 1714573800notes.txt)\n" +
		"* [Go](https://go.dev)\n"
	want := "![Screenshot 1](</attachments/2024/05/2024-05-01%20-%20Screenshot%201_1.jpg>)\n" +
		"* [notes.txt](</attachments/2024/05/2024-05-01%201714573800notes.txt>)\n" +
		"* [Go](https://go.dev)\n"

	if got := rewriteAttachmentLinks(in, "2024-05-01"); got != want {
		t.Errorf("rewriteAttachmentLinks() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderMarkdown_OmitsRawHTML(t *testing.T) {
	got := string(renderMarkdown("hello <script>alert(1)</script>"))
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML passed through: %s", got)
	}
}
