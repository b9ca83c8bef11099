// Package compare persists two catalogs side by side and answers set queries keyed by
// content hash.
package compare

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/findex/catalog"
	"github.com/viant/findex/fhash"
	"github.com/viant/findex/logging"
	"github.com/viant/findex/meta"
	"github.com/viant/findex/schema"
	"github.com/viant/findex/store"
	"go.uber.org/zap"
)

// ProgressFunc is notified after each copied entry; side is 1 or 2.
type ProgressFunc func(side, done, total int)

// Comparison is a store holding the copied entries of two catalogs.
type Comparison struct {
	store     *store.Store
	txSize    int
	progress  ProgressFunc
	overwrite bool
}

// Summary holds the result sizes of the comparison queries.
type Summary struct {
	Missing       int
	New           int
	Updated       int
	ContentGroups int
}

// Option configures a Comparison.
type Option func(*Comparison)

// WithTransactionSize sets the commit threshold of the underlying store.
func WithTransactionSize(size int) Option {
	return func(c *Comparison) { c.txSize = size }
}

// WithProgress registers a progress callback used by Create.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Comparison) { c.progress = fn }
}

// WithOverwrite makes Create replace an existing comparison file once both catalogs
// have been read.
func WithOverwrite(overwrite bool) Option {
	return func(c *Comparison) { c.overwrite = overwrite }
}

// New returns a comparison handle for the store file at path.
func New(path string, opts ...Option) *Comparison {
	c := &Comparison{}
	for _, opt := range opts {
		opt(c)
	}
	c.store = store.New(path,
		store.WithTables(meta.Side1Table, meta.Side2Table),
		store.WithMetaTables(meta.Meta1Table, meta.Meta2Table),
		store.WithTransactionSize(c.txSize))
	return c
}

// Store returns the underlying store.
func (c *Comparison) Store() *store.Store { return c.store }

// Path returns the comparison file path.
func (c *Comparison) Path() string { return c.store.Path() }

// Exists reports whether the comparison file is present.
func (c *Comparison) Exists() bool { return c.store.Exists() }

// Open opens an existing comparison.
func (c *Comparison) Open(ctx context.Context) error { return c.store.Open(ctx) }

// Close releases the comparison handle.
func (c *Comparison) Close() error { return c.store.Close() }

// Opened reports whether the comparison is open.
func (c *Comparison) Opened() bool { return c.store.Opened() }

type side struct {
	catalog *catalog.Catalog
	values  map[string]string
	count   int
}

// Create copies the entries and meta of c1 and c2 into a new comparison file. It fails
// with store.ErrExists when the file is already present and overwrite is not set, with
// ErrSamePath when the file is one of the catalogs and with ErrAlgorithmMismatch when
// the catalogs were built with different hashes.
func (c *Comparison) Create(ctx context.Context, c1, c2 *catalog.Catalog) error {
	sides := []*side{{catalog: c1}, {catalog: c2}}
	for _, s := range sides {
		if samePath(c.Path(), s.catalog.Path()) {
			return fmt.Errorf("%w: %s", ErrSamePath, s.catalog.Path())
		}
	}
	for _, s := range sides {
		err := store.Use(ctx, s.catalog.Store(), func(st *store.Store) (err error) {
			if s.values, err = st.AllMeta(ctx, meta.MetaTable); err != nil {
				return err
			}
			s.count, err = s.catalog.Count(ctx)
			return err
		})
		if err != nil {
			return fmt.Errorf("compare: read catalog %s: %w", s.catalog.Path(), err)
		}
	}
	hash1, hash2 := algorithm(sides[0].values), algorithm(sides[1].values)
	if hash1 != hash2 {
		return fmt.Errorf("%w: %s vs %s", ErrAlgorithmMismatch, hash1, hash2)
	}

	if c.overwrite {
		if err := store.Remove(c.Path()); err != nil {
			return err
		}
	}
	if err := c.store.Create(ctx, nil); err != nil {
		return err
	}
	tables := []struct{ entries, meta string }{
		{meta.Side1Table, meta.Meta1Table},
		{meta.Side2Table, meta.Meta2Table},
	}
	return store.Use(ctx, c.store, func(dest *store.Store) error {
		for i, s := range sides {
			for key, value := range s.values {
				if err := dest.PutMeta(ctx, tables[i].meta, key, value); err != nil {
					return err
				}
			}
			logging.Info("copying catalog", zap.String("path", s.catalog.Path()), zap.String("table", tables[i].entries), zap.Int("count", s.count))
			if err := c.copy(ctx, dest, s, tables[i].entries, i+1); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Comparison) copy(ctx context.Context, dest *store.Store, s *side, table string, index int) error {
	return store.Use(ctx, s.catalog.Store(), func(*store.Store) error {
		done := 0
		for file, err := range s.catalog.Iterate(ctx) {
			if err != nil {
				return err
			}
			if err := dest.Write(ctx, table, file); err != nil {
				return err
			}
			done++
			if c.progress != nil {
				c.progress(index, done, s.count)
			}
		}
		return nil
	})
}

func samePath(a, b string) bool {
	if absA, err := filepath.Abs(a); err == nil {
		a = absA
	}
	if absB, err := filepath.Abs(b); err == nil {
		b = absB
	}
	if a == b {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

// algorithm returns the recorded hash name; catalogs without one were built with sha1.
func algorithm(values map[string]string) string {
	if name := values[meta.HashName]; name != "" {
		return name
	}
	return fhash.DefaultAlgorithm
}

// Sides returns the catalog meta copied into the comparison.
func (c *Comparison) Sides(ctx context.Context) (side1, side2 *catalog.Info, err error) {
	values1, err := c.store.AllMeta(ctx, meta.Meta1Table)
	if err != nil {
		return nil, nil, err
	}
	values2, err := c.store.AllMeta(ctx, meta.Meta2Table)
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewInfo(values1), catalog.NewInfo(values2), nil
}

func columns(alias string) string {
	names := strings.Split(store.FileColumns, ", ")
	for i, name := range names {
		names[i] = alias + "." + name
	}
	return strings.Join(names, ", ")
}

// Missing yields side1 entries whose content is absent from side2, ordered by path and
// hash. Paths reported by Updated are left out unless includeUpdated is set.
func (c *Comparison) Missing(ctx context.Context, includeUpdated bool) iter.Seq2[*schema.File, error] {
	return c.store.QueryFiles(ctx, antiJoin(meta.Side1Table, meta.Side2Table, includeUpdated))
}

// New yields side2 entries whose content is absent from side1, ordered by path and hash.
// Paths reported by Updated are left out unless includeUpdated is set.
func (c *Comparison) New(ctx context.Context, includeUpdated bool) iter.Seq2[*schema.File, error] {
	return c.store.QueryFiles(ctx, antiJoin(meta.Side2Table, meta.Side1Table, includeUpdated))
}

func antiJoin(from, other string, includeUpdated bool) string {
	query := fmt.Sprintf(`SELECT %s FROM %s a
WHERE NOT EXISTS (SELECT 1 FROM %s b WHERE b.hash = a.hash)`, columns("a"), from, other)
	if !includeUpdated {
		query += fmt.Sprintf(`
  AND NOT EXISTS (SELECT 1 FROM %s b WHERE b.path = a.path AND b.hash <> a.hash)`, other)
	}
	return query + `
ORDER BY a.path, a.hash`
}

// Updated yields the side2 entries of paths present on both sides with different
// content, ordered by path.
func (c *Comparison) Updated(ctx context.Context) iter.Seq2[*schema.File, error] {
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM %s a
JOIN %s b ON b.path = a.path
WHERE b.hash <> a.hash
ORDER BY b.path, b.hash`, columns("b"), meta.Side1Table, meta.Side2Table)
	return c.store.QueryFiles(ctx, query)
}

// ContentGroups yields, for every content hash present on both sides, the paths sharing
// it on each side. Groups are ordered by hash and size. Placeholder hashes group like
// any other, so a side1 entry that is in neither Missing nor Updated lands here.
func (c *Comparison) ContentGroups(ctx context.Context) iter.Seq2[*schema.ContentGroup, error] {
	query := fmt.Sprintf(`SELECT 1 AS side, hash, size, path FROM %[1]s
WHERE hash IN (SELECT hash FROM %[2]s)
UNION ALL
SELECT 2 AS side, hash, size, path FROM %[2]s
WHERE hash IN (SELECT hash FROM %[1]s)
ORDER BY hash, size, side, path`, meta.Side1Table, meta.Side2Table)
	return func(yield func(*schema.ContentGroup, error) bool) {
		rows, err := c.store.Query(ctx, query)
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()
		var group *schema.ContentGroup
		for rows.Next() {
			var sideIndex int
			var hash, path string
			var size int64
			if err := rows.Scan(&sideIndex, &hash, &size, &path); err != nil {
				yield(nil, err)
				return
			}
			if group == nil || group.Hash != hash || group.Size != size {
				if group != nil && !yield(group, nil) {
					return
				}
				group = &schema.ContentGroup{Hash: hash, Size: size}
			}
			if sideIndex == 1 {
				group.Files1 = append(group.Files1, path)
			} else {
				group.Files2 = append(group.Files2, path)
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
			return
		}
		if group != nil {
			yield(group, nil)
		}
	}
}

// Summary counts the results of the comparison queries with updated paths excluded
// from Missing and New.
func (c *Comparison) Summary(ctx context.Context) (*Summary, error) {
	result := &Summary{}
	var err error
	if result.Missing, err = count(c.Missing(ctx, false)); err != nil {
		return nil, err
	}
	if result.New, err = count(c.New(ctx, false)); err != nil {
		return nil, err
	}
	if result.Updated, err = count(c.Updated(ctx)); err != nil {
		return nil, err
	}
	if result.ContentGroups, err = count(c.ContentGroups(ctx)); err != nil {
		return nil, err
	}
	return result, nil
}

func count[T any](seq iter.Seq2[T, error]) (int, error) {
	n := 0
	for _, err := range seq {
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}
