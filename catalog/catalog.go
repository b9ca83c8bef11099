// Package catalog builds and reads the persisted snapshot of one directory tree.
package catalog

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/viant/findex/fhash"
	"github.com/viant/findex/logging"
	"github.com/viant/findex/matching"
	"github.com/viant/findex/meta"
	"github.com/viant/findex/schema"
	"github.com/viant/findex/store"
	"github.com/viant/findex/walker"
	"go.uber.org/zap"
)

// ProgressFunc is notified after each persisted entry.
type ProgressFunc func(done, total int, path string)

// Catalog is a store holding the file table of one indexed root.
type Catalog struct {
	store     *store.Store
	hasher    *fhash.Hasher
	matcher   *matching.Manager
	progress  ProgressFunc
	txSize    int
	overwrite bool
}

// Info is the creation meta of a catalog.
type Info struct {
	Created time.Time
	Version string
	Root    string
	Hash    string
	Extra   map[string]string
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithHasher sets the content hasher (default sha1).
func WithHasher(hasher *fhash.Hasher) Option {
	return func(c *Catalog) { c.hasher = hasher }
}

// WithMatcher excludes matching paths from the walk.
func WithMatcher(matcher *matching.Manager) Option {
	return func(c *Catalog) { c.matcher = matcher }
}

// WithTransactionSize sets the commit threshold of the underlying store.
func WithTransactionSize(size int) Option {
	return func(c *Catalog) { c.txSize = size }
}

// WithProgress registers a progress callback used by Create.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Catalog) { c.progress = fn }
}

// WithOverwrite makes Create replace an existing catalog file once the root is validated.
func WithOverwrite(overwrite bool) Option {
	return func(c *Catalog) { c.overwrite = overwrite }
}

// New returns a catalog handle for the store file at path.
func New(path string, opts ...Option) *Catalog {
	c := &Catalog{}
	for _, opt := range opts {
		opt(c)
	}
	c.store = store.New(path, store.WithTransactionSize(c.txSize))
	return c
}

// Store returns the underlying store.
func (c *Catalog) Store() *store.Store { return c.store }

// Path returns the catalog file path.
func (c *Catalog) Path() string { return c.store.Path() }

// Exists reports whether the catalog file is present.
func (c *Catalog) Exists() bool { return c.store.Exists() }

// Open opens an existing catalog.
func (c *Catalog) Open(ctx context.Context) error { return c.store.Open(ctx) }

// Close releases the catalog handle.
func (c *Catalog) Close() error { return c.store.Close() }

// Opened reports whether the catalog is open.
func (c *Catalog) Opened() bool { return c.store.Opened() }

// Create indexes root into a new catalog file. Unless WithOverwrite is set it fails with
// store.ErrExists when the catalog file is already present, leaving it untouched.
func (c *Catalog) Create(ctx context.Context, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("catalog: %s is not a directory", root)
	}
	hasher, err := c.ensureHasher()
	if err != nil {
		return err
	}
	resolved := resolve(root)
	values := map[string]string{
		meta.RootResolved: resolved,
		meta.HashName:     hasher.Algorithm(),
	}
	if c.overwrite {
		if err := store.Remove(c.store.Path()); err != nil {
			return err
		}
	}
	if err := c.store.Create(ctx, values); err != nil {
		return err
	}

	w := walker.New(hasher, walker.WithMatcher(c.matcher))
	logging.Info("counting files", zap.String("root", root))
	total := w.Count(resolved)
	logging.Info("indexing files", zap.String("root", root), zap.Int("count", total))

	return store.Use(ctx, c.store, func(s *store.Store) error {
		done := 0
		for file := range w.Walk(resolved) {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.Write(ctx, meta.FileTable, file); err != nil {
				return err
			}
			done++
			if c.progress != nil {
				c.progress(done, total, file.Path)
			}
		}
		return nil
	})
}

func (c *Catalog) ensureHasher() (*fhash.Hasher, error) {
	if c.hasher != nil {
		return c.hasher, nil
	}
	hasher, err := fhash.New(fhash.DefaultAlgorithm)
	if err != nil {
		return nil, err
	}
	c.hasher = hasher
	return hasher, nil
}

// resolve returns root as an absolute path with symlinks evaluated when possible.
func resolve(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return root
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

// Count returns the number of persisted entries.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	return c.store.Count(ctx, meta.FileTable)
}

// Iterate yields the persisted entries in creation order.
func (c *Catalog) Iterate(ctx context.Context) iter.Seq2[*schema.File, error] {
	return c.store.Files(ctx, meta.FileTable)
}

// Meta returns the creation meta of the catalog.
func (c *Catalog) Meta(ctx context.Context) (*Info, error) {
	values, err := c.store.AllMeta(ctx, meta.MetaTable)
	if err != nil {
		return nil, err
	}
	return NewInfo(values), nil
}

// NewInfo builds Info from raw meta values; unknown keys are kept in Extra.
func NewInfo(values map[string]string) *Info {
	info := &Info{Extra: map[string]string{}}
	for key, value := range values {
		switch key {
		case meta.Date:
			if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
				info.Created = ts
			}
		case meta.Version:
			info.Version = value
		case meta.RootResolved:
			info.Root = value
		case meta.HashName:
			info.Hash = value
		default:
			info.Extra[key] = value
		}
	}
	return info
}
