package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Dialect captures the placeholder syntax of the SQL backend.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// SQLKV keeps documents in a single kv_store table keyed by (namespace, kv_key).
type SQLKV struct {
	db        *sql.DB
	dialect   Dialect
	namespace string
}

func NewSQLKV(db *sql.DB, dialect Dialect, namespace string) *SQLKV {
	return &SQLKV{db: db, dialect: dialect, namespace: namespace}
}

// Migrate creates the kv_store table when it does not exist.
func (s *SQLKV) Migrate(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS kv_store (
		namespace  TEXT NOT NULL,
		kv_key     TEXT NOT NULL,
		kv_value   TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (namespace, kv_key)
	)`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("SQLKV.Migrate: %w", err)
	}
	return nil
}

func (s *SQLKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := s.rebind(`SELECT kv_value FROM kv_store WHERE namespace = ? AND kv_key = ?`)
	var value string
	err := s.db.QueryRowContext(ctx, query, s.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("SQLKV.Get %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *SQLKV) Set(ctx context.Context, key string, value []byte) error {
	query := s.rebind(`INSERT INTO kv_store (namespace, kv_key, kv_value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (namespace, kv_key)
		DO UPDATE SET kv_value = excluded.kv_value, updated_at = CURRENT_TIMESTAMP`)
	if _, err := s.db.ExecContext(ctx, query, s.namespace, key, string(value)); err != nil {
		return fmt.Errorf("SQLKV.Set %s: %w", key, err)
	}
	return nil
}

func (s *SQLKV) Delete(ctx context.Context, key string) error {
	query := s.rebind(`DELETE FROM kv_store WHERE namespace = ? AND kv_key = ?`)
	if _, err := s.db.ExecContext(ctx, query, s.namespace, key); err != nil {
		return fmt.Errorf("SQLKV.Delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLKV) Clear(ctx context.Context) error {
	query := s.rebind(`DELETE FROM kv_store WHERE namespace = ?`)
	if _, err := s.db.ExecContext(ctx, query, s.namespace); err != nil {
		return fmt.Errorf("SQLKV.Clear: %w", err)
	}
	return nil
}

// rebind rewrites '?' placeholders to $n for Postgres.
func (s *SQLKV) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
