// Package walker enumerates a directory tree into catalog entries.
package walker

import (
	"database/sql"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/djherbis/times"
	"github.com/viant/findex/fhash"
	"github.com/viant/findex/logging"
	"github.com/viant/findex/matching"
	"github.com/viant/findex/meta"
	"github.com/viant/findex/metrics"
	"github.com/viant/findex/schema"
	"go.uber.org/zap"
)

// Hasher computes the content digest of a file.
type Hasher interface {
	Hash(path string) (string, error)
}

// Walker produces one entry per regular file below a root, symlinks to regular files
// included, plus one entry per path the traversal failed on.
type Walker struct {
	hasher  Hasher
	matcher *matching.Manager
}

// Option configures a Walker.
type Option func(*Walker)

// WithMatcher skips paths excluded by the matcher.
func WithMatcher(matcher *matching.Manager) Option {
	return func(w *Walker) { w.matcher = matcher }
}

// New creates a walker hashing files with hasher.
func New(hasher Hasher, opts ...Option) *Walker {
	w := &Walker{hasher: hasher}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// visitFunc receives either a file entry or a traversal error; target is the resolved
// file for symlinks. Returning false stops.
type visitFunc func(path, rel string, d fs.DirEntry, target fs.FileInfo, err error) bool

func (w *Walker) traverse(root string, visit visitFunc) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		rel := relative(root, path)
		if err != nil {
			if !visit(path, rel, d, nil, err) {
				return filepath.SkipAll
			}
			return nil
		}
		if d.IsDir() {
			if rel != "." && w.matcher.IsExcluded(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if rel == "." {
			rel = filepath.Base(path)
		}
		if w.matcher.IsExcluded(rel, false) {
			return nil
		}
		var target fs.FileInfo
		switch {
		case d.Type().IsRegular():
		case d.Type()&fs.ModeSymlink != 0:
			info, statErr := os.Stat(path)
			if statErr != nil {
				if !visit(path, rel, d, nil, statErr) {
					return filepath.SkipAll
				}
				return nil
			}
			// links to directories are listed but not followed
			if !info.Mode().IsRegular() {
				return nil
			}
			target = info
		default:
			return nil
		}
		if !visit(path, rel, d, target, nil) {
			return filepath.SkipAll
		}
		return nil
	})
}

// Count returns the number of entries Walk yields for root, without hashing anything.
func (w *Walker) Count(root string) int {
	count := 0
	w.traverse(root, func(path, rel string, d fs.DirEntry, target fs.FileInfo, err error) bool {
		count++
		return true
	})
	return count
}

// Walk lazily yields the entries below root in lexical order. The sequence is single
// pass; stop ranging to end the traversal early.
func (w *Walker) Walk(root string) iter.Seq[*schema.File] {
	return func(yield func(*schema.File) bool) {
		logging.Debug("traversing directory", zap.String("root", root))
		w.traverse(root, func(path, rel string, d fs.DirEntry, target fs.FileInfo, err error) bool {
			if err != nil {
				return yield(walkError(rel, err))
			}
			return yield(w.describe(path, rel, d, target))
		})
	}
}

func (w *Walker) describe(path, rel string, d fs.DirEntry, target fs.FileInfo) *schema.File {
	info := target
	if info == nil {
		var err error
		if info, err = d.Info(); err != nil {
			return walkError(rel, err)
		}
	}
	file := &schema.File{Path: rel, Size: info.Size()}
	file.Created, file.Modified = timestamps(info)

	if file.Size == 0 {
		file.Hash = meta.HashEmpty
		metrics.FileWalked(metrics.KindEmpty)
		return file
	}
	digest, err := w.hasher.Hash(path)
	switch {
	case err == nil:
		file.Hash = digest
		metrics.FileWalked(metrics.KindHashed)
		metrics.BytesHashed(file.Size)
	case errors.Is(err, fhash.ErrAccessDenied):
		logging.Warn("file inaccessible", zap.String("path", path))
		file.Hash = meta.HashInaccessible
		metrics.FileWalked(metrics.KindInaccessible)
	default:
		return walkError(rel, err)
	}
	logging.Debug("hashed file", zap.String("hash", file.Hash), zap.String("path", rel))
	return file
}

func walkError(rel string, err error) *schema.File {
	logging.Warn("walk error", zap.String("path", rel), zap.Error(err))
	metrics.FileWalked(metrics.KindWalkError)
	return &schema.File{
		Path: rel,
		Size: 0,
		Hash: meta.HashWalkError(message(err)),
	}
}

// message strips the path from fs errors, leaving the OS reason.
func message(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}

func timestamps(info os.FileInfo) (created, modified sql.NullTime) {
	ts := times.Get(info)
	modified = sql.NullTime{Time: ts.ModTime(), Valid: true}
	var birth time.Time
	switch {
	case ts.HasBirthTime():
		birth = ts.BirthTime()
	case ts.HasChangeTime():
		birth = ts.ChangeTime()
	default:
		birth = ts.ModTime()
	}
	created = sql.NullTime{Time: birth, Valid: true}
	return created, modified
}

func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
