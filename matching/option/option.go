package option

import (
	"bufio"
	"io"
	"strings"
)

// Options holds exclusion settings for a tree walk.
type Options struct {
	// Exclusions contains gitignore-like patterns of files/directories to skip
	Exclusions []string
}

// Option is a function that modifies Options
type Option func(*Options)

// NewOptions creates Options. Unlike a search index, a catalog must be complete, so
// there are no default exclusions.
func NewOptions(opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithExclusionPatterns sets exclusion patterns
func WithExclusionPatterns(patterns ...string) Option {
	return func(o *Options) {
		o.Exclusions = append(o.Exclusions, patterns...)
	}
}

// WithGitignore adds patterns from a .gitignore file
func WithGitignore(reader io.Reader) Option {
	return func(o *Options) {
		if patterns := parseGitignore(reader); len(patterns) > 0 {
			o.Exclusions = append(o.Exclusions, patterns...)
		}
	}
}

func parseGitignore(reader io.Reader) []string {
	var patterns []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}
