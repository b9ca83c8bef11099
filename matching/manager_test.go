package matching

import (
	"strings"
	"testing"

	"github.com/viant/findex/matching/option"
)

func TestManager_IsExcluded_Table(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		isDir    bool
		options  []option.Option
		excluded bool
	}{
		{
			name:     "no patterns",
			path:     "a/b.txt",
			excluded: false,
		},
		{
			name:     "base name glob",
			path:     "sub/deep/trace.log",
			options:  []option.Option{option.WithExclusionPatterns("*.log")},
			excluded: true,
		},
		{
			name:     "base name glob no match",
			path:     "sub/deep/trace.txt",
			options:  []option.Option{option.WithExclusionPatterns("*.log")},
			excluded: false,
		},
		{
			name:     "directory pattern matches directory",
			path:     "src/node_modules",
			isDir:    true,
			options:  []option.Option{option.WithExclusionPatterns("node_modules/")},
			excluded: true,
		},
		{
			name:     "directory pattern ignores files",
			path:     "src/node_modules",
			options:  []option.Option{option.WithExclusionPatterns("node_modules/")},
			excluded: false,
		},
		{
			name:     "anchored pattern matches root",
			path:     "build",
			isDir:    true,
			options:  []option.Option{option.WithExclusionPatterns("/build/")},
			excluded: true,
		},
		{
			name:     "anchored pattern skips nested",
			path:     "dir/build",
			isDir:    true,
			options:  []option.Option{option.WithExclusionPatterns("/build/")},
			excluded: false,
		},
		{
			name:     "path glob",
			path:     "docs/readme.md",
			options:  []option.Option{option.WithExclusionPatterns("docs/*.md")},
			excluded: true,
		},
		{
			name:     "gitignore reader",
			path:     "x/.DS_Store",
			options:  []option.Option{option.WithGitignore(strings.NewReader("# comment\n\n.DS_Store\n"))},
			excluded: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := New(tc.options...)
			if got := m.IsExcluded(tc.path, tc.isDir); got != tc.excluded {
				t.Fatalf("IsExcluded(%q) = %v, want %v", tc.path, got, tc.excluded)
			}
		})
	}
}

func TestManager_NilIsEmpty(t *testing.T) {
	var m *Manager
	if !m.Empty() || m.IsExcluded("a", false) {
		t.Fatalf("nil manager must not exclude anything")
	}
}
