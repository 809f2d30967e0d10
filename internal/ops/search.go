package ops

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/capture/internal/db"
	"github.com/hpungsan/capture/internal/errors"
)

// Search limits
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
	MaxQueryLength     = db.MaxSearchQueryChars
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query  string // required
	Limit  int    // default: 20, max: 100
	Offset int    // default: 0
}

// SearchResultItem is a matched capture with a match excerpt.
type SearchResultItem struct {
	db.Capture
	// Snippet is Markdown: matched terms are wrapped in **.
	Snippet string `json:"snippet"`
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Items      []SearchResultItem `json:"items"`
	Pagination Pagination         `json:"pagination"`
	Sort       string             `json:"sort"` // "relevance"
}

// Search performs full-text search across indexed captures.
// Results are ranked by relevance with summary matches weighted 5x higher.
func Search(ctx context.Context, database *sql.DB, input SearchInput) (*SearchOutput, error) {
	if database == nil {
		return nil, errors.NewUnavailable("capture index", nil)
	}

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("query exceeds maximum length of %d characters", MaxQueryLength))
	}

	limit, offset := clampPage(input.Limit, input.Offset, DefaultSearchLimit, MaxSearchLimit)

	results, total, err := db.Search(ctx, database, query, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]SearchResultItem, len(results))
	for i, r := range results {
		items[i] = SearchResultItem{Capture: r.Capture, Snippet: r.Snippet}
	}

	return &SearchOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
		Sort: "relevance",
	}, nil
}
