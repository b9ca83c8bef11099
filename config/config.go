// Package config loads the optional findex configuration file.
package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/findex/fhash"
	"github.com/viant/findex/logging"
	"github.com/viant/findex/matching"
	"github.com/viant/findex/matching/option"
	"github.com/viant/findex/store"
	"gopkg.in/yaml.v3"
)

// Config holds tool settings; command line flags take precedence.
type Config struct {
	TransactionSize int            `yaml:"transactionSize"`
	Hash            string         `yaml:"hash"`
	Exclude         []string       `yaml:"exclude"`
	Ignore          string         `yaml:"ignoreFile"`
	Log             logging.Config `yaml:"log"`
	MetricsFile     string         `yaml:"metricsFile"`
}

// Default returns the settings used without a configuration file.
func Default() *Config {
	return &Config{
		TransactionSize: store.DefaultTransactionSize,
		Hash:            fhash.DefaultAlgorithm,
		Log:             logging.Config{Level: "warn", Format: "console"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	path, err := ExpandUserPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.TransactionSize <= 0 {
		cfg.TransactionSize = store.DefaultTransactionSize
	}
	if cfg.Hash == "" {
		cfg.Hash = fhash.DefaultAlgorithm
	}
	if _, err := fhash.Lookup(cfg.Hash); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	for _, target := range []*string{&cfg.Ignore, &cfg.MetricsFile, &cfg.Log.OutputPath} {
		if *target, err = ExpandUserPath(*target); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Matcher builds the walk exclusions from Exclude and the ignore file.
func (c *Config) Matcher(ctx context.Context) (*matching.Manager, error) {
	opts := []option.Option{option.WithExclusionPatterns(c.Exclude...)}
	if c.Ignore != "" {
		data, err := afs.New().DownloadWithURL(ctx, c.Ignore)
		if err != nil {
			return nil, fmt.Errorf("config: read ignore file %s: %w", c.Ignore, err)
		}
		opts = append(opts, option.WithGitignore(bytes.NewReader(data)))
	}
	return matching.New(opts...), nil
}

// ExpandUserPath replaces a leading ~ with the home directory.
func ExpandUserPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed[0] != '~' {
		return path, nil
	}
	if trimmed != "~" && !strings.HasPrefix(trimmed, "~/") {
		return "", fmt.Errorf("config: unsupported ~user path: %s", path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if trimmed == "~" {
		return home, nil
	}
	return filepath.Join(home, trimmed[2:]), nil
}
