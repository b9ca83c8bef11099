package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/viant/findex/catalog"
	"github.com/viant/findex/fhash"
	"github.com/viant/findex/store"
)

func indexCmd(args []string) (err error) {
	flags := flag.NewFlagSet("index", flag.ContinueOnError)
	opts := commonFlags(flags, "catalog file to create (required)")
	overwrite := flags.Bool("overwrite", false, "replace an existing catalog file")
	hashName := flags.String("hash", "", "content hash: sha1|sha256|highwayhash")
	txSize := flags.Int("tx-size", 0, "rows committed per transaction")
	exclude := flags.String("exclude", "", "comma-separated exclude patterns")
	progress := flags.Bool("progress", false, "show indexing progress")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return errUsage
	}
	root := flags.Arg(0)
	if err := required(flags, *opts.db); err != nil {
		return err
	}
	cfg, err := opts.setup()
	if err != nil {
		return err
	}
	defer func() { err = finish(cfg, err) }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *hashName != "" {
		cfg.Hash = *hashName
	}
	if *txSize > 0 {
		cfg.TransactionSize = *txSize
	}
	cfg.Exclude = append(cfg.Exclude, parseCSV(*exclude)...)
	hasher, err := fhash.New(cfg.Hash)
	if err != nil {
		return err
	}
	matcher, err := cfg.Matcher(ctx)
	if err != nil {
		return err
	}

	bar := newProgress(*progress, "indexing")
	c := catalog.New(*opts.db,
		catalog.WithHasher(hasher),
		catalog.WithMatcher(matcher),
		catalog.WithTransactionSize(cfg.TransactionSize),
		catalog.WithOverwrite(*overwrite),
		catalog.WithProgress(bar.update))
	color.New(color.FgHiCyan, color.Bold).Printf("Indexing %s into %s\n", root, *opts.db)
	if err := c.Create(ctx, root); err != nil {
		bar.finish()
		return err
	}
	bar.finish()

	return store.Use(ctx, c.Store(), func(*store.Store) error {
		count, err := c.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s files cataloged (%s)\n", humanize.Comma(int64(count)), hasher.Algorithm())
		return nil
	})
}

func parseCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
