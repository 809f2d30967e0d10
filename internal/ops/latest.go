package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/capture/internal/db"
	"github.com/hpungsan/capture/internal/errors"
)

// LatestOutput contains the result of the Latest operation.
type LatestOutput struct {
	Item *db.Capture `json:"item"` // nil if nothing has been captured
}

// Latest retrieves the most recent indexed capture.
func Latest(ctx context.Context, database *sql.DB) (*LatestOutput, error) {
	if database == nil {
		return nil, errors.NewUnavailable("capture index", nil)
	}
	c, err := db.GetLatest(ctx, database)
	if err != nil {
		return nil, err
	}
	return &LatestOutput{Item: c}, nil
}
