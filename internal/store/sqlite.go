package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/KannedaVIII/books-pipeline/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	status     TEXT NOT NULL DEFAULT 'running',
	result     TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS dim_book (
	book_id                 TEXT PRIMARY KEY,
	title                   TEXT,
	title_normalized        TEXT,
	author_principal        TEXT,
	authors                 TEXT,
	editorial               TEXT,
	anio_publicacion        TEXT,
	fecha_publicacion       TEXT,
	idioma                  TEXT,
	isbn10                  TEXT,
	isbn13                  TEXT,
	paginas                 INTEGER,
	formato                 TEXT,
	categoria               TEXT,
	precio                  REAL,
	moneda                  TEXT,
	fuente_ganadora         TEXT NOT NULL,
	ts_ultima_actualizacion DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS book_source_detail (
	book_id           TEXT NOT NULL,
	source            TEXT NOT NULL,
	is_winner         INTEGER NOT NULL,
	source_record_id  TEXT,
	url               TEXT,
	title             TEXT,
	title_normalized  TEXT NOT NULL,
	author_principal  TEXT,
	authors           TEXT,
	editorial         TEXT,
	anio_publicacion  TEXT,
	fecha_publicacion TEXT,
	idioma            TEXT,
	isbn10            TEXT,
	isbn13            TEXT,
	paginas           INTEGER,
	categoria         TEXT,
	precio            REAL,
	moneda            TEXT,
	rating            REAL,
	ratings_count     INTEGER,
	ingested_at       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_dim_book_isbn13 ON dim_book(isbn13);
CREATE INDEX IF NOT EXISTS idx_detail_book_id ON book_source_detail(book_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context) (*model.IntegrationRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.IntegrationRun{
		ID:        id,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, result *model.RunResult) error {
	return s.finishRun(ctx, runID, model.RunStatusComplete, result)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string, errMsg string) error {
	return s.finishRun(ctx, runID, model.RunStatusFailed, &model.RunResult{Error: errMsg})
}

func (s *SQLiteStore) finishRun(ctx context.Context, runID string, status model.RunStatus, result *model.RunResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET result = ?, status = ?, updated_at = ? WHERE id = ?`,
		string(resultJSON), string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.IntegrationRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, result, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.IntegrationRun, error) {
	query := `SELECT id, status, result, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.IntegrationRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

// LoadCatalog replaces the stored catalog with the one just produced. The
// pipeline recomputes both tables from scratch each run, so the load is a
// full refresh inside one transaction.
func (s *SQLiteStore) LoadCatalog(ctx context.Context, books []model.CanonicalBook, details []model.SourceDetailRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin load")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM book_source_detail`); err != nil {
		return eris.Wrap(err, "sqlite: clear detail")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM dim_book`); err != nil {
		return eris.Wrap(err, "sqlite: clear catalog")
	}

	bookSQL := insertSQL("dim_book", model.CanonicalColumns)
	for _, b := range books {
		if _, err := tx.ExecContext(ctx, bookSQL, canonicalValues(b)...); err != nil {
			return eris.Wrapf(err, "sqlite: insert book %s", b.BookID)
		}
	}

	detailSQL := insertSQL("book_source_detail", detailColumns)
	for _, d := range details {
		if _, err := tx.ExecContext(ctx, detailSQL, detailValues(d)...); err != nil {
			return eris.Wrapf(err, "sqlite: insert detail %s/%s", d.BookID, d.Source)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit load")
}

// helpers

func insertSQL(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return `INSERT INTO ` + table + ` (` + strings.Join(columns, ", ") + `) VALUES (` + placeholders + `)`
}

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("run not found: %s", id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.IntegrationRun, error) {
	var r model.IntegrationRun
	var resultJSON sql.NullString

	err := row.Scan(&r.ID, &r.Status, &resultJSON, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if resultJSON.Valid {
		r.Result = &model.RunResult{}
		if err := json.Unmarshal([]byte(resultJSON.String), r.Result); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal result")
		}
	}
	return &r, nil
}
