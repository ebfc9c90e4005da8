package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/KannedaVIII/books-pipeline/internal/db"
	"github.com/KannedaVIII/books-pipeline/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for the
// most frequent run-history operations.
var preparedStatements = map[string]string{
	"insert_run": `INSERT INTO runs (id, status, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
	"finish_run": `UPDATE runs SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
	"get_run":    `SELECT id, status, result, created_at, updated_at FROM runs WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	status     TEXT NOT NULL DEFAULT 'running',
	result     JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
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
	paginas                 BIGINT,
	formato                 TEXT,
	categoria               TEXT,
	precio                  DOUBLE PRECISION,
	moneda                  TEXT,
	fuente_ganadora         TEXT NOT NULL,
	ts_ultima_actualizacion TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS book_source_detail (
	book_id           TEXT NOT NULL,
	source            TEXT NOT NULL,
	is_winner         BOOLEAN NOT NULL,
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
	paginas           BIGINT,
	categoria         TEXT,
	precio            DOUBLE PRECISION,
	moneda            TEXT,
	rating            DOUBLE PRECISION,
	ratings_count     BIGINT,
	ingested_at       TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_dim_book_isbn13 ON dim_book(isbn13);
CREATE INDEX IF NOT EXISTS idx_detail_book_id ON book_source_detail(book_id);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context) (*model.IntegrationRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, status, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		id, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.IntegrationRun{
		ID:        id,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, result *model.RunResult) error {
	return s.finishRun(ctx, runID, model.RunStatusComplete, result)
}

func (s *PostgresStore) FailRun(ctx context.Context, runID string, errMsg string) error {
	return s.finishRun(ctx, runID, model.RunStatusFailed, &model.RunResult{Error: errMsg})
}

func (s *PostgresStore) finishRun(ctx context.Context, runID string, status model.RunStatus, result *model.RunResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
		resultJSON, string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: finish run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.IntegrationRun, error) {
	var r model.IntegrationRun
	var resultJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, status, result, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	).Scan(&r.ID, &r.Status, &resultJSON, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}

	if len(resultJSON) > 0 {
		r.Result = &model.RunResult{}
		if err := json.Unmarshal(resultJSON, r.Result); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal result")
		}
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.IntegrationRun, error) {
	query := `SELECT id, status, result, created_at, updated_at FROM runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.IntegrationRun
	for rows.Next() {
		var r model.IntegrationRun
		var resultJSON []byte
		if err := rows.Scan(&r.ID, &r.Status, &resultJSON, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if len(resultJSON) > 0 {
			r.Result = &model.RunResult{}
			if err := json.Unmarshal(resultJSON, r.Result); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal result")
			}
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

// LoadCatalog upserts the canonical catalog keyed on book_id and fully
// refreshes the audit detail via COPY.
func (s *PostgresStore) LoadCatalog(ctx context.Context, books []model.CanonicalBook, details []model.SourceDetailRow) error {
	bookRows := make([][]any, 0, len(books))
	for _, b := range books {
		bookRows = append(bookRows, canonicalValues(b))
	}
	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "dim_book",
		Columns:      model.CanonicalColumns,
		ConflictKeys: []string{"book_id"},
	}, bookRows)
	if err != nil {
		return eris.Wrap(err, "postgres: load catalog")
	}

	if _, err := s.pool.Exec(ctx, `DELETE FROM book_source_detail`); err != nil {
		return eris.Wrap(err, "postgres: clear detail")
	}

	detailRows := make([][]any, 0, len(details))
	for _, d := range details {
		detailRows = append(detailRows, detailValues(d))
	}
	if _, err := db.CopyFrom(ctx, s.pool, "book_source_detail", detailColumns, detailRows); err != nil {
		return eris.Wrap(err, "postgres: load detail")
	}
	return nil
}
