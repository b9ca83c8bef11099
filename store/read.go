package store

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"slices"

	"github.com/viant/findex/schema"
)

// FileColumns lists the entry columns in scan order.
const FileColumns = "path, size, hash, created, modified"

// Scanner is implemented by *sql.Rows and *sql.Row.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFile reads one entry in FileColumns order.
func ScanFile(row Scanner) (*schema.File, error) {
	file := &schema.File{}
	if err := row.Scan(&file.Path, &file.Size, &file.Hash, nullTime{&file.Created}, nullTime{&file.Modified}); err != nil {
		return nil, err
	}
	return file, nil
}

// Query runs a read query against committed data; the pending batch is committed first.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if !s.Opened() {
		return nil, ErrNotOpen
	}
	if err := s.Flush(ctx); err != nil {
		return nil, err
	}
	return s.db.QueryContext(ctx, query, args...)
}

// Count returns the number of rows in an entry table.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	if !slices.Contains(s.tables, table) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	rows, err := s.Query(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table))
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	count := 0
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, err
		}
	}
	return count, rows.Err()
}

// Files lazily yields all committed rows of table in insertion order.
func (s *Store) Files(ctx context.Context, table string) iter.Seq2[*schema.File, error] {
	if !slices.Contains(s.tables, table) {
		return func(yield func(*schema.File, error) bool) {
			yield(nil, fmt.Errorf("%w: %s", ErrUnknownTable, table))
		}
	}
	return s.QueryFiles(ctx, fmt.Sprintf(`SELECT %s FROM %s ORDER BY rowid`, FileColumns, table))
}

// QueryFiles lazily yields the entries selected by query, which must select FileColumns.
// The cursor is closed when the sequence ends or the consumer stops.
func (s *Store) QueryFiles(ctx context.Context, query string, args ...any) iter.Seq2[*schema.File, error] {
	return func(yield func(*schema.File, error) bool) {
		rows, err := s.Query(ctx, query, args...)
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()
		for rows.Next() {
			file, err := ScanFile(rows)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(file, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}
