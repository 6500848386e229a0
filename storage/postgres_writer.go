package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"cursor-stats/models"
	"cursor-stats/utils"
)

const pgBatchSize = 50

// PostgresWriter stores the merged rows and company totals of one run.
// Every row is tagged with the run id so runs never overwrite each other.
type PostgresWriter struct {
	db    *sql.DB
	runID uuid.UUID
}

// NewPostgresWriter opens a connection to PostgreSQL, waits for it with
// retry, runs schema migrations and returns a writer bound to runID.
func NewPostgresWriter(ctx context.Context, dsn string, runID uuid.UUID, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres-ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, runID: runID}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS merged_usage (
			id         BIGSERIAL PRIMARY KEY,
			run_id     UUID        NOT NULL,
			extension  VARCHAR(32) NOT NULL,
			domain     VARCHAR(32) NOT NULL DEFAULT '',
			email      TEXT        NOT NULL,
			user_id    TEXT        NOT NULL DEFAULT '',
			model      TEXT        NOT NULL DEFAULT '',
			requests   INTEGER     NOT NULL DEFAULT 0,
			headers    TEXT[]      NOT NULL,
			vals       TEXT[]      NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS company_stats (
			id         BIGSERIAL PRIMARY KEY,
			run_id     UUID        NOT NULL,
			extension  VARCHAR(32) NOT NULL,
			company    VARCHAR(64) NOT NULL,
			employees  INTEGER     NOT NULL DEFAULT 0,
			requests   INTEGER     NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_merged_usage_run   ON merged_usage(run_id, extension);
		CREATE INDEX IF NOT EXISTS idx_merged_usage_email ON merged_usage(email);
		CREATE INDEX IF NOT EXISTS idx_company_stats_run  ON company_stats(run_id, extension);
	`)
	return err
}

// RunID returns the run the writer tags rows with.
func (pw *PostgresWriter) RunID() uuid.UUID { return pw.runID }

// WriteExport inserts the merged rows and company totals of one variant in a
// single transaction.
func (pw *PostgresWriter) WriteExport(f models.ExportFile) error {
	if f.Empty() {
		return nil
	}

	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := 0; i < len(f.Rows); i += pgBatchSize {
		end := i + pgBatchSize
		if end > len(f.Rows) {
			end = len(f.Rows)
		}
		if err := pw.insertRows(tx, f, f.Rows[i:end]); err != nil {
			return fmt.Errorf("postgres: insert rows: %w", err)
		}
	}

	if err := pw.insertCompanies(tx, f); err != nil {
		return fmt.Errorf("postgres: insert companies: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) insertRows(tx *sql.Tx, f models.ExportFile, batch []*models.Row) error {
	const cols = 9
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, r := range batch {
		valueStrings = append(valueStrings, placeholders(idx*cols, cols))
		valueArgs = append(valueArgs,
			pw.runID.String(), f.Extension, string(f.Domain), r.Email(),
			r.Value(models.ColUserID), r.Value(models.ColModel), r.RequestTotal(),
			pq.Array(r.Headers()), pq.Array(r.Values))
	}

	query := fmt.Sprintf(`
		INSERT INTO merged_usage (run_id, extension, domain, email, user_id, model, requests, headers, vals)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := tx.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) insertCompanies(tx *sql.Tx, f models.ExportFile) error {
	if len(f.Companies) == 0 {
		return nil
	}

	const cols = 5
	valueStrings := make([]string, 0, len(f.Companies))
	valueArgs := make([]interface{}, 0, len(f.Companies)*cols)

	for idx, s := range f.Companies {
		valueStrings = append(valueStrings, placeholders(idx*cols, cols))
		valueArgs = append(valueArgs, pw.runID.String(), f.Extension, s.Company, s.Employees, s.Requests)
	}

	query := fmt.Sprintf(`
		INSERT INTO company_stats (run_id, extension, company, employees, requests)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := tx.Exec(query, valueArgs...)
	return err
}

// FetchRun reads back the merged rows stored for extension in this run.
func (pw *PostgresWriter) FetchRun(extension string) ([]*models.Row, error) {
	rows, err := pw.db.Query(`
		SELECT headers, vals
		FROM merged_usage
		WHERE run_id = $1 AND extension = $2
		ORDER BY id
	`, pw.runID.String(), extension)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch run: %w", err)
	}
	defer rows.Close()

	schemas := make(map[string]*models.Schema)
	var out []*models.Row
	for rows.Next() {
		var headers, vals pq.StringArray
		if err := rows.Scan(&headers, &vals); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		key := strings.Join(headers, "\x00")
		schema, ok := schemas[key]
		if !ok {
			schema = models.NewSchema(headers)
			schemas[key] = schema
		}
		out = append(out, models.NewRow(schema, vals))
	}
	return out, rows.Err()
}

// DeleteRun removes everything stored under this run.
func (pw *PostgresWriter) DeleteRun() error {
	for _, table := range []string{"merged_usage", "company_stats"} {
		if _, err := pw.db.Exec("DELETE FROM "+table+" WHERE run_id = $1", pw.runID.String()); err != nil {
			return fmt.Errorf("postgres: delete run from %s: %w", table, err)
		}
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func placeholders(base, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", base+i+1)
	}
	return "(" + strings.Join(parts, ",") + ")"
}
