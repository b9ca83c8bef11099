package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viant/findex/meta"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putMeta(ctx context.Context, q execer, table, key, value string) error {
	if _, err := q.ExecContext(ctx, fmt.Sprintf(`INSERT OR REPLACE INTO %s(key, value) VALUES(?,?)`, table), key, value); err != nil {
		return fmt.Errorf("store: put meta %s: %w", key, err)
	}
	return nil
}

func (s *Store) isMetaTable(table string) bool {
	if table == meta.MetaTable {
		return true
	}
	for _, candidate := range s.metaTables {
		if candidate == table {
			return true
		}
	}
	return false
}

// PutMeta records key=value in a meta table within the running transaction.
func (s *Store) PutMeta(ctx context.Context, table, key, value string) error {
	if !s.Opened() {
		return ErrNotOpen
	}
	if !s.isMetaTable(table) {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if err := s.begin(ctx); err != nil {
		return err
	}
	if err := putMeta(ctx, s.tx, table, key, value); err != nil {
		s.abort()
		return err
	}
	return nil
}

// Meta returns the value recorded for key in the meta table, or "" when there is none.
func (s *Store) Meta(ctx context.Context, key string) (string, error) {
	rows, err := s.Query(ctx, fmt.Sprintf(`SELECT value FROM %s WHERE key = ?`, meta.MetaTable), key)
	if err != nil {
		return "", err
	}
	defer rows.Close()
	if !rows.Next() {
		return "", rows.Err()
	}
	var value sql.NullString
	if err := rows.Scan(&value); err != nil {
		return "", err
	}
	return value.String, nil
}

// AllMeta returns every key/value pair of a meta table.
func (s *Store) AllMeta(ctx context.Context, table string) (map[string]string, error) {
	if !s.isMetaTable(table) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	rows, err := s.Query(ctx, fmt.Sprintf(`SELECT key, value FROM %s ORDER BY key`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = value.String
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return out, nil
}
