package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/hpungsan/capture/internal/attach"
	"github.com/hpungsan/capture/internal/browser"
	"github.com/hpungsan/capture/internal/errors"
)

// MaxSearchQueryChars bounds the length of a search query.
const MaxSearchQueryChars = 200

// Capture is one indexed capture. The day file stays the source of truth; this row only
// makes captures listable and searchable.
type Capture struct {
	ID          string            `json:"id"`
	Day         string            `json:"day"`
	DayFile     string            `json:"day_file"`
	Summary     string            `json:"summary"`
	Details     string            `json:"details,omitempty"`
	Screenshots []string          `json:"screenshots,omitempty"`
	Attachments []attach.Imported `json:"attachments,omitempty"`
	Tabs        []browser.Tab     `json:"tabs,omitempty"`
	CreatedAt   int64             `json:"created_at"`
}

// SearchResult is a capture matched by Search with a highlighted excerpt.
type SearchResult struct {
	Capture Capture
	Snippet string
}

const captureColumns = `id, day, day_file, summary, details,
	screenshots_json, attachments_json, tabs_json, created_at`

// Insert stores a new capture row.
func Insert(ctx context.Context, db *sql.DB, c *Capture) error {
	screenshots, err := toJSON(c.Screenshots, len(c.Screenshots))
	if err != nil {
		return errors.NewInternal(err)
	}
	attachments, err := toJSON(c.Attachments, len(c.Attachments))
	if err != nil {
		return errors.NewInternal(err)
	}
	tabs, err := toJSON(c.Tabs, len(c.Tabs))
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO captures (` + captureColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = db.ExecContext(ctx, query,
		c.ID, c.Day, c.DayFile, c.Summary, c.Details,
		screenshots, attachments, tabs, c.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetByID retrieves a capture by its ULID.
func GetByID(ctx context.Context, db *sql.DB, id string) (*Capture, error) {
	row := db.QueryRowContext(ctx, `SELECT `+captureColumns+` FROM captures WHERE id = ?`, id)
	c, err := scanCapture(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return c, nil
}

// GetLatest returns the most recent capture, or nil when the index is empty.
func GetLatest(ctx context.Context, db *sql.DB) (*Capture, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+captureColumns+` FROM captures ORDER BY created_at DESC, id DESC LIMIT 1`)
	c, err := scanCapture(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return c, nil
}

// List returns captures newest first, optionally limited to one day ("2006-01-02"),
// with the total count before pagination.
func List(ctx context.Context, db *sql.DB, day string, limit, offset int) ([]Capture, int, error) {
	where := ""
	var args []any
	if day != "" {
		where = " WHERE day = ?"
		args = append(args, day)
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM captures`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + captureColumns + ` FROM captures` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var captures []Capture
	for rows.Next() {
		c, err := scanCapture(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		captures = append(captures, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return captures, total, nil
}

// Search runs a full-text query over summaries and details. Summary matches rank 5x
// higher than details matches. Query text is matched as plain terms, never as FTS syntax.
func Search(ctx context.Context, db *sql.DB, query string, limit, offset int) ([]SearchResult, int, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, 0, nil
	}

	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM captures_fts WHERE captures_fts MATCH ?`, match).Scan(&total)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	q := `
		SELECT c.id, c.day, c.day_file, c.summary, c.details,
			c.screenshots_json, c.attachments_json, c.tabs_json, c.created_at,
			snippet(captures_fts, -1, '**', '**', '...', 16)
		FROM captures_fts
		JOIN captures c ON c.rowid = captures_fts.rowid
		WHERE captures_fts MATCH ?
		ORDER BY bm25(captures_fts, 5.0, 1.0), c.created_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := db.QueryContext(ctx, q, match, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			r       SearchResult
			snippet sql.NullString
		)
		c, err := scanCapture(rows, &snippet)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		r.Capture = *c
		r.Snippet = snippet.String
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return results, total, nil
}

// ftsQuery quotes every whitespace-separated term so FTS5 operators in user input are
// matched literally. Terms are ANDed; terms without letters or digits are dropped.
func ftsQuery(q string) string {
	fields := strings.Fields(q)
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		if !strings.ContainsFunc(f, isWordRune) {
			continue
		}
		quoted = append(quoted, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

type scanner interface {
	Scan(dest ...any) error
}

// scanCapture scans captureColumns, followed by any extra destinations.
func scanCapture(row scanner, extra ...any) (*Capture, error) {
	var (
		c           Capture
		screenshots sql.NullString
		attachments sql.NullString
		tabs        sql.NullString
	)

	dest := []any{
		&c.ID, &c.Day, &c.DayFile, &c.Summary, &c.Details,
		&screenshots, &attachments, &tabs, &c.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if err := fromJSON(screenshots, &c.Screenshots); err != nil {
		return nil, err
	}
	if err := fromJSON(attachments, &c.Attachments); err != nil {
		return nil, err
	}
	if err := fromJSON(tabs, &c.Tabs); err != nil {
		return nil, err
	}
	return &c, nil
}

// toJSON encodes v, storing NULL for empty lists.
func toJSON(v any, n int) (sql.NullString, error) {
	if n == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func fromJSON(ns sql.NullString, v any) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), v)
}
