package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/datalens/internal/report"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx used by PostgresStore.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS analysis_reports (
	id           TEXT PRIMARY KEY,
	file_name    TEXT NOT NULL,
	row_count    INTEGER NOT NULL,
	column_count INTEGER NOT NULL,
	document     JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS analysis_reports_created_at_idx ON analysis_reports (created_at DESC);
`

// PostgresStore keeps reports in the analysis_reports table as JSONB.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore wraps a pool or transaction. Call EnsureSchema once at
// startup before using it.
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the reports table if it does not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure report schema: %w", err)
	}
	return nil
}

// Save upserts doc.
func (p *PostgresStore) Save(ctx context.Context, doc *report.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", doc.ID, err)
	}

	_, err = p.db.Exec(ctx, `
		INSERT INTO analysis_reports (id, file_name, row_count, column_count, document)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			file_name = EXCLUDED.file_name,
			row_count = EXCLUDED.row_count,
			column_count = EXCLUDED.column_count,
			document = EXCLUDED.document`,
		doc.ID, doc.FileName, doc.DataOverview.Rows, doc.DataOverview.Columns, body,
	)
	if err != nil {
		return fmt.Errorf("save report %s: %w", doc.ID, err)
	}
	return nil
}

// Get loads the report for id.
func (p *PostgresStore) Get(ctx context.Context, id string) (*report.Document, error) {
	var body []byte
	err := p.db.QueryRow(ctx, `SELECT document FROM analysis_reports WHERE id = $1`, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load report %s: %w", id, err)
	}
	return report.Decode(body)
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (p *PostgresStore) List(ctx context.Context, limit int) ([]Entry, error) {
	var lim any
	if limit > 0 {
		lim = limit
	}

	rows, err := p.db.Query(ctx, `
		SELECT id, file_name, row_count, column_count, created_at
		FROM analysis_reports
		ORDER BY created_at DESC
		LIMIT $1`, lim)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Entry])
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return entries, nil
}

// Purge deletes reports created before cutoff.
func (p *PostgresStore) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := p.db.Exec(ctx, `DELETE FROM analysis_reports WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge reports: %w", err)
	}
	return tag.RowsAffected(), nil
}
