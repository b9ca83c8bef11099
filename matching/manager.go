// Package matching decides which paths of a tree are left out of a catalog.
package matching

import (
	"path"
	"strings"

	"github.com/viant/findex/matching/option"
)

// Manager applies exclusion patterns to slash separated paths relative to the walked root.
//
// Pattern forms:
//   - "name/" skips every directory called name
//   - "/pattern" is matched against the full relative path only
//   - a pattern without a slash is matched against the base name
//   - any other pattern is matched against the full relative path
type Manager struct {
	options *option.Options
}

// New creates a new exclusion manager with the given options
func New(opts ...option.Option) *Manager {
	return &Manager{options: option.NewOptions(opts...)}
}

// Empty reports whether the manager has no patterns.
func (m *Manager) Empty() bool {
	return m == nil || len(m.options.Exclusions) == 0
}

// IsExcluded reports whether the file or directory at rel is skipped.
func (m *Manager) IsExcluded(rel string, isDir bool) bool {
	if m.Empty() {
		return false
	}
	rel = strings.TrimPrefix(rel, "./")
	for _, pattern := range m.options.Exclusions {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		if matches(rel, isDir, pattern) {
			return true
		}
	}
	return false
}

func matches(rel string, isDir bool, pattern string) bool {
	if strings.HasSuffix(pattern, "/") {
		if !isDir {
			return false
		}
		pattern = strings.TrimSuffix(pattern, "/")
	}
	if strings.HasPrefix(pattern, "/") {
		matched, _ := path.Match(strings.TrimPrefix(pattern, "/"), rel)
		return matched
	}
	if !strings.Contains(pattern, "/") {
		matched, _ := path.Match(pattern, path.Base(rel))
		return matched
	}
	matched, _ := path.Match(pattern, rel)
	return matched
}
