package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Store is the analytic result cache backed by DuckDB. It is rebuilt on
// every pipeline run and serves the report API's read queries.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
}

// Open creates or opens the DuckDB database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(path); path != ":memory:" && dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	conn, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb %s: %w", path, err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}

	s := &Store{conn: conn, logger: logger}
	if err := s.initSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping verifies the connection is alive. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS frequent_itemsets (
		seq       INTEGER NOT NULL,
		items      TEXT    NOT NULL,
		support    DOUBLE  NOT NULL,
		size       INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS association_rules (
		seq        INTEGER NOT NULL,
		antecedent  TEXT    NOT NULL,
		consequent  TEXT    NOT NULL,
		ant_support DOUBLE  NOT NULL,
		con_support DOUBLE  NOT NULL,
		support     DOUBLE  NOT NULL,
		confidence  DOUBLE  NOT NULL,
		lift        DOUBLE  NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customer_rfm (
		customer_id TEXT    NOT NULL,
		recency     INTEGER NOT NULL,
		frequency   INTEGER NOT NULL,
		monetary    DOUBLE  NOT NULL,
		r_score     INTEGER NOT NULL,
		f_score     INTEGER NOT NULL,
		m_score     INTEGER NOT NULL,
		rfm_code    TEXT    NOT NULL,
		segment     TEXT    NOT NULL,
		strategy    TEXT    NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS daily_sales (
		sale_date   DATE    NOT NULL,
		platform    TEXT    NOT NULL,
		orders      INTEGER NOT NULL,
		units_sold  DOUBLE  NOT NULL,
		gmv         DOUBLE  NOT NULL,
		net_revenue DOUBLE  NOT NULL,
		aov         DOUBLE  NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS channel_performance (
		report_date      DATE   NOT NULL,
		platform         TEXT   NOT NULL,
		channel          TEXT   NOT NULL,
		name             TEXT   NOT NULL,
		spend            DOUBLE NOT NULL,
		impressions      DOUBLE NOT NULL,
		clicks           DOUBLE NOT NULL,
		ctr              DOUBLE NOT NULL,
		viewers          DOUBLE NOT NULL,
		duration_seconds DOUBLE NOT NULL,
		orders           DOUBLE NOT NULL,
		units_sold       DOUBLE NOT NULL,
		gmv              DOUBLE NOT NULL,
		roas             DOUBLE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pipeline_runs (
		run_id      TEXT      NOT NULL,
		started_at  TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		orders      INTEGER   NOT NULL,
		itemsets    INTEGER   NOT NULL,
		rules       INTEGER   NOT NULL,
		customers   INTEGER   NOT NULL
	)`,
}

func (s *Store) initSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// replaceAll truncates a table and bulk-inserts the given rows inside
// one transaction, so readers never observe a half-rebuilt table.
func (s *Store) replaceAll(ctx context.Context, table, insert string, rows [][]any) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s rebuild: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s rebuild: %w", table, err)
	}
	s.logger.DebugContext(ctx, "table rebuilt",
		slog.String("table", table),
		slog.Int("rows", len(rows)))
	return nil
}
