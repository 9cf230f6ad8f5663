package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const createKVTable = `
CREATE TABLE IF NOT EXISTS kv_store (
    cache_key TEXT NOT NULL,
    cache_value TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL,
PRIMARY KEY (cache_key)
);`

// SQL stores keys in a single table. It backs both the SQLite file used by
// the CLI and a shared Postgres database.
type SQL struct {
	db       *sql.DB
	postgres bool
}

// NewSQLite opens (or creates) a SQLite database at path. An empty path
// gives a private in-memory database.
func NewSQLite(path string) (*SQL, error) {
	sourceName := ":memory:"
	if path != "" {
		sourceName = path
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// every connection to :memory: is a separate database
	if path == "" {
		db.SetMaxOpenConns(1)
	}

	return newSQL(db, false)
}

func NewPostgres(connStr string) (*SQL, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return newSQL(db, true)
}

func newSQL(db *sql.DB, postgres bool) (*SQL, error) {
	if _, err := db.Exec(createKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv_store table: %w", err)
	}

	return &SQL{db: db, postgres: postgres}, nil
}

// rebind rewrites ? placeholders to $n for Postgres
func (s *SQL) rebind(query string) string {
	if !s.postgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT cache_value FROM kv_store WHERE cache_key = ?`),
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
INSERT INTO kv_store (cache_key, cache_value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (cache_key) DO UPDATE SET
    cache_value = excluded.cache_value,
    updated_at = excluded.updated_at`),
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM kv_store WHERE cache_key = ?`), key)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT cache_key FROM kv_store ORDER BY cache_key`)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating keys: %w", err)
	}
	return keys, nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}
