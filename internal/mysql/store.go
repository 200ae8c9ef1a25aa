// Package mysql reads the artifact catalog from a MySQL table.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	driver "github.com/go-sql-driver/mysql"
)

// DefaultTable is the catalog table name.
const DefaultTable = "artifacts"

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options configures a Store.
type Options struct {
	DSN          string
	Table        string
	ConnTimeout  time.Duration
	QueryTimeout time.Duration
}

// Store wraps MySQL access for catalog queries.
type Store struct {
	db           *sql.DB
	table        string
	queryTimeout time.Duration
}

// NormalizeDSN parses dsn and applies connection defaults: parseTime,
// utf8mb4, and the given timeouts when the DSN leaves them unset.
func NormalizeDSN(dsn string, connTimeout, queryTimeout time.Duration) (string, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = connTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = queryTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = queryTimeout
	}
	return cfg.FormatDSN(), nil
}

// Open creates a store. It does not connect; call Ping to verify the server.
func Open(opts Options) (*Store, error) {
	table := opts.Table
	if table == "" {
		table = DefaultTable
	}
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if opts.ConnTimeout <= 0 {
		opts.ConnTimeout = 5 * time.Second
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 10 * time.Second
	}

	dsn, err := NormalizeDSN(opts.DSN, opts.ConnTimeout, opts.QueryTimeout)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	return &Store{db: db, table: table, queryTimeout: opts.QueryTimeout}, nil
}

// Ping verifies the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// ListArtifacts returns catalog names in order.
func (s *Store) ListArtifacts(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM `"+s.table+"` ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
