package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkUpsertEmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:        "dim_book",
		Columns:      []string{"book_id", "title"},
		ConflictKeys: []string{"book_id"},
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsertNoColumns(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:        "dim_book",
		ConflictKeys: []string{"book_id"},
	}, [][]any{{"x", "y"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestBulkUpsertNoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(context.TODO(), nil, UpsertConfig{
		Table:   "dim_book",
		Columns: []string{"book_id", "title"},
	}, [][]any{{"x", "y"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestBulkUpsertFlow(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_dim_book"`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_dim_book"}, []string{"book_id", "title"}).
		WillReturnResult(1)
	mock.ExpectExec(`INSERT INTO "dim_book" .+ ON CONFLICT \("book_id"\) DO UPDATE SET "title" = EXCLUDED\."title"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "dim_book",
		Columns:      []string{"book_id", "title"},
		ConflictKeys: []string{"book_id"},
	}, [][]any{{"9780993891106", "Numsense!"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSanitizeTable(t *testing.T) {
	assert.Equal(t, `"dim_book"`, sanitizeTable("dim_book"))
	assert.Equal(t, `"catalog"."dim_book"`, sanitizeTable("catalog.dim_book"))
}

func TestQuoteAndJoin(t *testing.T) {
	assert.Equal(t, `"book_id", "title", "isbn13"`, quoteAndJoin([]string{"book_id", "title", "isbn13"}))
}
