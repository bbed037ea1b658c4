// Package duckdb exports browse results to a DuckDB database so that catalogs,
// chromosome lists and resolved genes can be queried offline with SQL.
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	goduckdb "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding exported browse results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create export directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file, or "" for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS assemblies (
			organism VARCHAR,
			ordinal INTEGER,
			genome VARCHAR,
			name VARCHAR,
			source_name VARCHAR,
			active BOOLEAN,
			PRIMARY KEY (genome)
		)`,
		`CREATE TABLE IF NOT EXISTS chromosomes (
			genome VARCHAR,
			ordinal INTEGER,
			chrom VARCHAR,
			size BIGINT,
			PRIMARY KEY (genome, chrom)
		)`,
		`CREATE TABLE IF NOT EXISTS genes (
			genome VARCHAR,
			symbol VARCHAR,
			chrom VARCHAR,
			gene_id VARCHAR,
			name VARCHAR,
			description VARCHAR,
			gene_start BIGINT,
			gene_end BIGINT,
			strand VARCHAR,
			PRIMARY KEY (genome, symbol, chrom)
		)`,
	} {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// appendRows opens an appender on table and feeds it the rows produced by fill.
func (s *Store) appendRows(ctx context.Context, table string, fill func(a *goduckdb.Appender) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	if err := fill(appender); err != nil {
		return err
	}
	return appender.Flush()
}
