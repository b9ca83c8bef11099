// Package store persists catalog entries in a single SQLite file with batched transactions.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/viant/findex"
	"github.com/viant/findex/db/sqliteutil"
	"github.com/viant/findex/logging"
	"github.com/viant/findex/meta"
	"github.com/viant/findex/metrics"
	"github.com/viant/findex/schema"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure Go sqlite driver
)

// DefaultTransactionSize is the number of writes committed together.
const DefaultTransactionSize = 10000

const busyTimeoutMS = 5000

// Store is a SQLite file holding entry tables and key/value meta tables. A Store is not
// safe for concurrent use; it has a single writer.
type Store struct {
	path       string
	tables     []string
	metaTables []string
	txSize     int

	db      *sql.DB
	tx      *sql.Tx
	stmts   map[string]*sql.Stmt
	pending int
}

// Option configures a Store.
type Option func(*Store)

// WithTables sets the entry tables (default: file).
func WithTables(tables ...string) Option {
	return func(s *Store) { s.tables = tables }
}

// WithMetaTables adds key/value tables next to the meta table.
func WithMetaTables(tables ...string) Option {
	return func(s *Store) { s.metaTables = tables }
}

// WithTransactionSize sets how many writes are committed together.
func WithTransactionSize(size int) Option {
	return func(s *Store) { s.txSize = size }
}

// New creates a handle for the store at path; nothing is touched on disk.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		tables: []string{meta.FileTable},
		txSize: DefaultTransactionSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.txSize <= 0 {
		s.txSize = DefaultTransactionSize
	}
	return s
}

// Path returns the store file path.
func (s *Store) Path() string { return s.path }

// Exists reports whether a file exists at the store path.
func (s *Store) Exists() bool {
	if s.path == "" {
		return false
	}
	_, err := os.Stat(s.path)
	return err == nil
}

// Opened reports whether the store holds an open database handle.
func (s *Store) Opened() bool { return s.db != nil }

// Create writes the schema and creation meta (DATE, VERSION and values) into a new store
// file. It fails with ErrExists when the path is taken; on any other failure the partial
// file is removed. The store is closed on return.
func (s *Store) Create(ctx context.Context, values map[string]string) (err error) {
	if s.Exists() {
		logging.Error("database already exists", zap.String("path", s.path))
		return fmt.Errorf("%w: %s", ErrExists, s.path)
	}
	if parent := filepath.Dir(s.path); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("store: create parent of %s: %w", s.path, err)
		}
	}

	logging.Info("creating database", zap.String("path", s.path))
	if err := s.open(ctx); err != nil {
		return err
	}
	defer func() {
		if err == nil {
			err = s.Close()
			return
		}
		s.abort()
		_ = os.Remove(s.path)
		_ = os.Remove(s.path + "-journal")
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, stmt := range s.schemaDDL() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: create schema: %w", err)
		}
	}
	entries := map[string]string{
		meta.Date:    time.Now().Format(time.RFC3339Nano),
		meta.Version: findex.Version,
	}
	for key, value := range values {
		entries[key] = value
	}
	for _, key := range sortedKeys(entries) {
		if err := putMeta(ctx, tx, meta.MetaTable, key, entries[key]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Open opens an existing store. Opening an open store only logs a warning.
func (s *Store) Open(ctx context.Context) error {
	if s.Opened() {
		logging.Warn("database already open", zap.String("path", s.path))
		return nil
	}
	if !s.Exists() {
		return fmt.Errorf("store: open %s: %w", s.path, fs.ErrNotExist)
	}
	logging.Info("opening database", zap.String("path", s.path))
	return s.open(ctx)
}

func (s *Store) open(ctx context.Context) error {
	dsn := sqliteutil.FileDSN(s.path, sqliteutil.JournalMode("delete"), sqliteutil.BusyTimeout(busyTimeoutMS))
	db, err := sql.Open(sqliteutil.DriverName, dsn)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("store: open %s: %w", s.path, err)
	}
	s.db = db
	s.stmts = map[string]*sql.Stmt{}
	s.pending = 0
	return nil
}

// Close commits pending writes and releases the database handle. Closing a closed store
// is a no-op.
func (s *Store) Close() error {
	if !s.Opened() {
		return nil
	}
	flushErr := s.Flush(context.Background())
	if flushErr != nil {
		s.abort()
		return flushErr
	}
	err := s.db.Close()
	s.db = nil
	logging.Info("database closed", zap.String("path", s.path))
	return err
}

// abort drops the pending batch and closes the handle.
func (s *Store) abort() {
	s.closeStmts()
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	s.pending = 0
	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
	}
}

// Write appends file to table within the running transaction, committing every
// TransactionSize writes. A failed write closes the store and drops the pending batch.
func (s *Store) Write(ctx context.Context, table string, file *schema.File) error {
	if !s.Opened() {
		return ErrNotOpen
	}
	if file == nil {
		s.abort()
		return fmt.Errorf("store: write into %s: nil entry", table)
	}
	stmt, err := s.insertStmt(ctx, table)
	if err != nil {
		s.abort()
		return err
	}
	if _, err := stmt.ExecContext(ctx, file.Path, file.Size, file.Hash, timeValue(file.Created), timeValue(file.Modified)); err != nil {
		logging.Error("cannot add file to database", zap.String("path", file.Path), zap.Error(err))
		s.abort()
		return fmt.Errorf("store: write %s into %s: %w", file.Path, table, err)
	}
	s.pending++
	if s.pending >= s.txSize {
		return s.Flush(ctx)
	}
	return nil
}

func (s *Store) insertStmt(ctx context.Context, table string) (*sql.Stmt, error) {
	if !slices.Contains(s.tables, table) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	if stmt, ok := s.stmts[table]; ok {
		return stmt, nil
	}
	stmt, err := s.tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s(path, size, hash, created, modified) VALUES(?,?,?,?,?)`, table))
	if err != nil {
		return nil, err
	}
	s.stmts[table] = stmt
	return stmt, nil
}

func (s *Store) begin(ctx context.Context) error {
	if s.tx != nil {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	s.tx = tx
	return nil
}

// Flush commits the pending batch.
func (s *Store) Flush(ctx context.Context) error {
	if !s.Opened() {
		return ErrNotOpen
	}
	if s.tx == nil {
		return nil
	}
	logging.Debug("flushing transaction", zap.String("path", s.path), zap.Int("rows", s.pending))
	s.closeStmts()
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		s.pending = 0
		return fmt.Errorf("store: commit %s: %w", s.path, err)
	}
	metrics.Committed(s.pending)
	s.pending = 0
	return nil
}

func (s *Store) closeStmts() {
	for table, stmt := range s.stmts {
		_ = stmt.Close()
		delete(s.stmts, table)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Remove deletes the store file; it is used to honour an explicit overwrite request.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
