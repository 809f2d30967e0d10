package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/hpungsan/capture/internal/errors"
	"github.com/hpungsan/capture/internal/journal"
	"github.com/hpungsan/capture/internal/ops"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "days", "captures"
}

// DaysPageData is the template data for the day list page.
type DaysPageData struct {
	PageData
	Items      []journal.Day
	Pagination ops.Pagination
}

// DayPageData is the template data for a single day page.
type DayPageData struct {
	PageData
	Day          *ops.DayOutput
	RenderedHTML template.HTML
}

// CapturesPageData is the template data for the capture index page.
type CapturesPageData struct {
	PageData
	Query      string
	Day        string
	Items      []CaptureRow
	Pagination ops.Pagination
}

// CaptureRow is one line of the capture index page.
type CaptureRow struct {
	ID        string
	Day       string
	Summary   string
	CreatedAt int64
	Snippet   template.HTML
	Files     int
	Tabs      int
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"add":        func(a, b int) int { return a + b },
		"sub":        func(a, b int) int { return a - b },
		"min":        func(a, b int) int { return min(a, b) },
		"formatTime": formatTime,
		"ago":        ago,
		"bytes":      func(n int64) string { return humanize.Bytes(uint64(max(n, 0))) },
		"comma":      func(n int) string { return humanize.Comma(int64(n)) },
	}

	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"days":     "days.html",
		"day":      "day.html",
		"captures": "captures.html",
		"error":    "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}
}

func (r *Renderer) page(title, nav string) PageData {
	return PageData{Title: title, Version: r.version, Nav: nav}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, name string, data any) {
	r.renderPageStatus(w, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		slog.Error("template not found", "template", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var cErr *errors.CaptureError
	if !stderrors.As(err, &cErr) {
		cErr = errors.NewInternal(err)
	}

	status := cErr.Status
	message := cErr.Message
	if cErr.Code == errors.ErrInternal {
		slog.Error("request failed", "path", req.URL.Path, "error", err)
		message = "an internal error occurred"
	}

	if wantsJSON(req) {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    string(cErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	r.renderPageStatus(w, status, "error", ErrorPageData{
		PageData:   r.page(fmt.Sprintf("Error %d", status), ""),
		StatusCode: status,
		Message:    message,
	})
}

// wantsJSON reports whether the client asked for JSON.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

var md = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

// attachmentLink matches links and images pointing into the attachments directory.
// Filenames contain spaces, so the destination runs to the closing parenthesis.
var attachmentLink = regexp.MustCompile(`(!?\[[^\]\n]*\])\(` + journal.AttachmentsDirName + `/([^)\n]+)\)`)

// rewriteAttachmentLinks points relative attachment links at the attachment route for
// the month holding date (yyyy-mm-dd).
func rewriteAttachmentLinks(text, date string) string {
	if len(date) < 7 {
		return text
	}
	prefix := "/attachments/" + date[:4] + "/" + date[5:7] + "/"
	return attachmentLink.ReplaceAllStringFunc(text, func(m string) string {
		sub := attachmentLink.FindStringSubmatch(m)
		return sub[1] + "(<" + prefix + url.PathEscape(sub[2]) + ">)"
	})
}

// renderMarkdown converts markdown text to HTML using goldmark. Raw HTML in the source
// is not passed through.
func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}

// formatTime formats a Unix timestamp as "2006-01-02 15:04" local time.
func formatTime(unix int64) string {
	return time.Unix(unix, 0).Local().Format("2006-01-02 15:04")
}

// ago formats a Unix timestamp or time.Time relative to now.
func ago(v any) string {
	switch t := v.(type) {
	case int64:
		return humanize.Time(time.Unix(t, 0))
	case time.Time:
		return humanize.Time(t)
	}
	return ""
}
