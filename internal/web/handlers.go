package web

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hpungsan/capture/internal/config"
	"github.com/hpungsan/capture/internal/db"
	"github.com/hpungsan/capture/internal/errors"
	"github.com/hpungsan/capture/internal/ops"
)

// Handlers contains HTTP route handlers for the journal viewer.
type Handlers struct {
	deps     *ops.Deps
	cfg      *config.Config
	renderer *Renderer
}

// HandleDays handles GET /days: day files, newest first.
func (h *Handlers) HandleDays(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Days(h.deps, h.cfg, ops.DaysInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultDaysLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, "days", DaysPageData{
		PageData:   h.renderer.page("Journal", "days"),
		Items:      result.Items,
		Pagination: result.Pagination,
	})
}

// HandleDay handles GET /days/{date}: one day file rendered as HTML.
func (h *Handlers) HandleDay(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if date == "today" {
		date = ""
	}

	result, err := ops.Day(h.deps, h.cfg, ops.DayInput{Date: date})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, "day", DayPageData{
		PageData:     h.renderer.page(result.Date, "days"),
		Day:          result,
		RenderedHTML: renderMarkdown(rewriteAttachmentLinks(result.Markdown, result.Date)),
	})
}

// HandleAttachment handles GET /attachments/{year}/{month}/{file}.
func (h *Handlers) HandleAttachment(w http.ResponseWriter, r *http.Request) {
	path, err := ops.AttachmentPath(h.deps.Fs, h.cfg.CapturePath,
		r.PathValue("year"), r.PathValue("month"), r.PathValue("file"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	f, err := h.deps.Fs.Open(path)
	if err != nil {
		h.renderer.renderError(w, r, errors.NewNotFound(filepath.Base(path)))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// HandleCaptures handles GET /captures: the capture index, or search results when q is set.
func (h *Handlers) HandleCaptures(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	day := strings.TrimSpace(r.URL.Query().Get("day"))
	limit := parseIntParam(r, "limit", ops.DefaultListLimit)
	offset := parseIntParam(r, "offset", 0)

	data := CapturesPageData{
		PageData: h.renderer.page("Captures", "captures"),
		Query:    query,
		Day:      day,
	}

	if query != "" {
		result, err := ops.Search(r.Context(), h.deps.DB, ops.SearchInput{Query: query, Limit: limit, Offset: offset})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		if wantsJSON(r) {
			renderJSON(w, http.StatusOK, result)
			return
		}
		for _, item := range result.Items {
			row := captureRow(item.Capture)
			row.Snippet = renderMarkdown(item.Snippet)
			data.Items = append(data.Items, row)
		}
		data.Pagination = result.Pagination
		data.Title = "Search"
	} else {
		result, err := ops.List(r.Context(), h.deps.DB, ops.ListInput{Day: day, Limit: limit, Offset: offset})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		if wantsJSON(r) {
			renderJSON(w, http.StatusOK, result)
			return
		}
		for _, c := range result.Items {
			data.Items = append(data.Items, captureRow(c))
		}
		data.Pagination = result.Pagination
	}

	h.renderer.renderPage(w, "captures", data)
}

func captureRow(c db.Capture) CaptureRow {
	return CaptureRow{
		ID:        c.ID,
		Day:       c.Day,
		Summary:   c.Summary,
		CreatedAt: c.CreatedAt,
		Files:     len(c.Screenshots) + len(c.Attachments),
		Tabs:      len(c.Tabs),
	}
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
