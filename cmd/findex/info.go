package main

import (
	"context"
	"flag"
	"fmt"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/viant/findex/catalog"
	"github.com/viant/findex/compare"
	"github.com/viant/findex/meta"
	"github.com/viant/findex/store"
)

func infoCmd(args []string) error {
	flags := flag.NewFlagSet("info", flag.ContinueOnError)
	opts := commonFlags(flags, "catalog or comparison file (required)")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}
	if err := required(flags, *opts.db); err != nil {
		return err
	}
	if _, err := opts.setup(); err != nil {
		return err
	}
	ctx := context.Background()

	file := store.New(*opts.db)
	var isComparison bool
	err := store.Use(ctx, file, func(s *store.Store) error {
		rows, err := s.Query(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, meta.Side1Table)
		if err != nil {
			return err
		}
		defer rows.Close()
		isComparison = rows.Next()
		return rows.Err()
	})
	if err != nil {
		return err
	}
	if isComparison {
		return comparisonInfo(ctx, *opts.db)
	}
	return catalogInfo(ctx, *opts.db)
}

func catalogInfo(ctx context.Context, path string) error {
	c := catalog.New(path)
	return store.Use(ctx, c.Store(), func(*store.Store) error {
		info, err := c.Meta(ctx)
		if err != nil {
			return err
		}
		count, err := c.Count(ctx)
		if err != nil {
			return err
		}
		color.New(color.FgHiCyan, color.Bold).Printf("Catalog %s\n", path)
		printInfo("", info)
		fmt.Printf("files:    %s\n", humanize.Comma(int64(count)))
		return nil
	})
}

func comparisonInfo(ctx context.Context, path string) error {
	cmp := compare.New(path)
	return store.Use(ctx, cmp.Store(), func(s *store.Store) error {
		side1, side2, err := cmp.Sides(ctx)
		if err != nil {
			return err
		}
		color.New(color.FgHiCyan, color.Bold).Printf("Comparison %s\n", path)
		printInfo("1 ", side1)
		printInfo("2 ", side2)
		for _, table := range []string{meta.Side1Table, meta.Side2Table} {
			count, err := s.Count(ctx, table)
			if err != nil {
				return err
			}
			fmt.Printf("%-9s %s files\n", table+":", humanize.Comma(int64(count)))
		}
		summary, err := cmp.Summary(ctx)
		if err != nil {
			return err
		}
		printSummary(summary)
		return nil
	})
}

func printInfo(prefix string, info *catalog.Info) {
	fmt.Printf("%sroot:    %s\n", prefix, info.Root)
	fmt.Printf("%shash:    %s\n", prefix, info.Hash)
	fmt.Printf("%sversion: %s\n", prefix, info.Version)
	if !info.Created.IsZero() {
		fmt.Printf("%screated: %s (%s)\n", prefix, info.Created.Format(time.DateTime), humanize.Time(info.Created))
	}
	keys := make([]string, 0, len(info.Extra))
	for key := range info.Extra {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		fmt.Printf("%s%s: %s\n", prefix, key, info.Extra[key])
	}
}
