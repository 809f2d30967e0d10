package db

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/capture/internal/attach"
	"github.com/hpungsan/capture/internal/browser"
	"github.com/hpungsan/capture/internal/errors"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func newTestCapture(id, day, summary string, createdAt int64) *Capture {
	return &Capture{
		ID:        id,
		Day:       day,
		DayFile:   "/journal/" + day + ".md",
		Summary:   summary,
		CreatedAt: createdAt,
	}
}

func TestInsertAndGetByID(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	c := newTestCapture("01HX0000000000000000000001", "2024-05-01", "Met with Bob", 1714573800)
	c.Details = "Agreed on dates."
	c.Screenshots = []string{"2024-05-01 - Screenshot 1714573800_1.jpg"}
	c.Attachments = []attach.Imported{{Original: "a.png", Filename: "2024-05-01 1714573800a.png"}}
	c.Tabs = []browser.Tab{{Title: "Go", URL: "https://go.dev"}}
	require.NoError(t, Insert(ctx, database, c))

	got, err := GetByID(ctx, database, c.ID)
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func TestInsert_EmptyListsStayNil(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	c := newTestCapture("01HX0000000000000000000001", "2024-05-01", "Plain", 1)
	require.NoError(t, Insert(ctx, database, c))

	got, err := GetByID(ctx, database, c.ID)
	require.NoError(t, err)
	require.Nil(t, got.Screenshots)
	require.Nil(t, got.Attachments)
	require.Nil(t, got.Tabs)
}

func TestGetByID_NotFound(t *testing.T) {
	_, err := GetByID(context.Background(), openTestDB(t), "missing")
	require.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestGetLatest(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	latest, err := GetLatest(ctx, database)
	require.NoError(t, err)
	require.Nil(t, latest)

	require.NoError(t, Insert(ctx, database, newTestCapture("01A", "2024-05-01", "older", 100)))
	require.NoError(t, Insert(ctx, database, newTestCapture("01B", "2024-05-02", "newer", 200)))

	latest, err = GetLatest(ctx, database)
	require.NoError(t, err)
	require.Equal(t, "newer", latest.Summary)
}

func TestList_PaginationAndDayFilter(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	for i := 0; i < 5; i++ {
		day := "2024-05-01"
		if i >= 3 {
			day = "2024-05-02"
		}
		c := newTestCapture(fmt.Sprintf("01C%d", i), day, fmt.Sprintf("note %d", i), int64(100+i))
		require.NoError(t, Insert(ctx, database, c))
	}

	items, total, err := List(ctx, database, "", 2, 0)
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, items, 2)
	require.Equal(t, "note 4", items[0].Summary)
	require.Equal(t, "note 3", items[1].Summary)

	items, total, err = List(ctx, database, "", 2, 4)
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, items, 1)
	require.Equal(t, "note 0", items[0].Summary)

	items, total, err = List(ctx, database, "2024-05-01", 10, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, items, 3)
}

func TestSearch_RanksSummaryMatchesFirst(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	inDetails := newTestCapture("01D1", "2024-05-01", "Weekly sync", 200)
	inDetails.Details = "We talked about the budget for a long while."
	inSummary := newTestCapture("01D2", "2024-05-01", "Budget review", 100)
	unrelated := newTestCapture("01D3", "2024-05-01", "Lunch", 300)
	for _, c := range []*Capture{inDetails, inSummary, unrelated} {
		require.NoError(t, Insert(ctx, database, c))
	}

	results, total, err := Search(ctx, database, "budget", 10, 0)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, results, 2)
	require.Equal(t, "01D2", results[0].Capture.ID)
	require.Equal(t, "01D1", results[1].Capture.ID)
	require.Contains(t, results[1].Snippet, "**budget**")
}

func TestSearch_OperatorsMatchedLiterally(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	require.NoError(t, Insert(ctx, database, newTestCapture("01E1", "2024-05-01", "NOT a problem", 1)))

	_, _, err := Search(ctx, database, `"unbalanced AND (`, 10, 0)
	require.NoError(t, err)

	results, total, err := Search(ctx, database, "not problem", 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, results, 1)
}

func TestSearch_EmptyQuery(t *testing.T) {
	results, total, err := Search(context.Background(), openTestDB(t), "   ", 10, 0)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, results)
}
