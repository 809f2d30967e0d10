package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/capture/internal/db"
	"github.com/hpungsan/capture/internal/errors"
	"github.com/hpungsan/capture/internal/journal"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Day    string // optional yyyy-mm-dd filter
	Limit  int    // default: 20, max: 100
	Offset int    // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []db.Capture `json:"items"`
	Pagination Pagination   `json:"pagination"`
	Sort       string       `json:"sort"`
}

// List retrieves indexed captures, newest first, with pagination.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	if database == nil {
		return nil, errors.NewUnavailable("capture index", nil)
	}

	day := strings.TrimSpace(input.Day)
	if day != "" {
		if _, err := time.Parse(journal.DateKeyLayout, day); err != nil {
			return nil, errors.NewInvalidRequest("day must be yyyy-mm-dd")
		}
	}

	limit, offset := clampPage(input.Limit, input.Offset, DefaultListLimit, MaxListLimit)

	captures, total, err := db.List(ctx, database, day, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		Items: nonNil(captures),
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(captures) < total,
			Total:   total,
		},
		Sort: "created_at_desc",
	}, nil
}
