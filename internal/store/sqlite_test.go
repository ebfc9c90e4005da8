package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KannedaVIII/books-pipeline/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteRunLifecycle(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	result := &model.RunResult{
		GoodreadsCount:   10,
		GoogleBooksCount: 9,
		CanonicalCount:   12,
		DetailCount:      19,
		DuplicateGroups:  7,
	}
	require.NoError(t, s.CompleteRun(ctx, run.ID, result))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 12, got.Result.CanonicalCount)
	assert.Equal(t, 7, got.Result.DuplicateGroups)
}

func TestSQLiteFailRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx)
	require.NoError(t, err)
	require.NoError(t, s.FailRun(ctx, run.ID, "landing file missing"))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "landing file missing", got.Result.Error)
}

func TestSQLiteFinishUnknownRun(t *testing.T) {
	s := newTestSQLite(t)
	err := s.CompleteRun(context.Background(), "nonexistent", &model.RunResult{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteGetUnknownRun(t *testing.T) {
	s := newTestSQLite(t)
	_, err := s.GetRun(context.Background(), "nonexistent")
	assert.Error(t, err)
}

func TestSQLiteListRuns(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first, err := s.CreateRun(ctx)
	require.NoError(t, err)
	second, err := s.CreateRun(ctx)
	require.NoError(t, err)
	require.NoError(t, s.CompleteRun(ctx, second.ID, &model.RunResult{}))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	running, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusRunning})
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, first.ID, running[0].ID)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteLoadCatalog(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	pages := int64(307)
	books := []model.CanonicalBook{
		{
			BookID:                "9789811110689",
			Title:                 model.Str("Numsense! Data Science for the Layman"),
			TitleNormalized:       model.Str("numsense! data science for the layman"),
			ISBN13:                model.Str("9789811110689"),
			Paginas:               &pages,
			FuenteGanadora:        "googlebooks",
			TsUltimaActualizacion: time.Now().UTC(),
		},
	}
	details := []model.SourceDetailRow{
		{BookID: "9789811110689", Source: "googlebooks", IsWinner: true, TitleNormalized: "numsense! data science for the layman", IngestedAt: time.Now().UTC()},
		{BookID: "9789811110689", Source: "goodreads", IsWinner: false, TitleNormalized: "numsense!", IngestedAt: time.Now().UTC()},
	}

	require.NoError(t, s.LoadCatalog(ctx, books, details))

	var bookCount, detailCount, winners int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM dim_book`).Scan(&bookCount))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM book_source_detail`).Scan(&detailCount))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM book_source_detail WHERE is_winner = 1`).Scan(&winners))
	assert.Equal(t, 1, bookCount)
	assert.Equal(t, 2, detailCount)
	assert.Equal(t, 1, winners)
}

func TestSQLiteLoadCatalogReplaces(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	book := model.CanonicalBook{
		BookID:                "9789811110689",
		FuenteGanadora:        "googlebooks",
		TsUltimaActualizacion: time.Now().UTC(),
	}
	detail := model.SourceDetailRow{
		BookID: "9789811110689", Source: "googlebooks", IsWinner: true,
		TitleNormalized: "numsense", IngestedAt: time.Now().UTC(),
	}

	require.NoError(t, s.LoadCatalog(ctx, []model.CanonicalBook{book}, []model.SourceDetailRow{detail}))
	// Second load with the same book_id must not duplicate rows.
	require.NoError(t, s.LoadCatalog(ctx, []model.CanonicalBook{book}, []model.SourceDetailRow{detail}))

	var bookCount, detailCount int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM dim_book`).Scan(&bookCount))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM book_source_detail`).Scan(&detailCount))
	assert.Equal(t, 1, bookCount)
	assert.Equal(t, 1, detailCount)
}
