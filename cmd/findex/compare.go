package main

import (
	"context"
	"flag"
	"fmt"
	"iter"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/viant/findex/catalog"
	"github.com/viant/findex/compare"
	"github.com/viant/findex/schema"
	"github.com/viant/findex/store"
)

func compareCmd(args []string) (err error) {
	flags := flag.NewFlagSet("compare", flag.ContinueOnError)
	opts := commonFlags(flags, "comparison file to create (required)")
	overwrite := flags.Bool("overwrite", false, "replace an existing comparison file")
	txSize := flags.Int("tx-size", 0, "rows committed per transaction")
	list := flags.Bool("list", false, "list the differences")
	includeUpdated := flags.Bool("include-updated", false, "also list updated paths as missing and new")
	progress := flags.Bool("progress", false, "show copy progress")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return errUsage
	}
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

	if *txSize > 0 {
		cfg.TransactionSize = *txSize
	}
	c1, c2 := catalog.New(flags.Arg(0)), catalog.New(flags.Arg(1))
	bar := newProgress(*progress, "comparing")
	cmp := compare.New(*opts.db, compare.WithTransactionSize(cfg.TransactionSize),
		compare.WithOverwrite(*overwrite),
		compare.WithProgress(bar.side))
	color.New(color.FgHiCyan, color.Bold).Printf("Comparing %s with %s\n", c1.Path(), c2.Path())
	if err := cmp.Create(ctx, c1, c2); err != nil {
		bar.finish()
		return err
	}
	bar.finish()

	return store.Use(ctx, cmp.Store(), func(*store.Store) error {
		summary, err := cmp.Summary(ctx)
		if err != nil {
			return err
		}
		printSummary(summary)
		if !*list {
			return nil
		}
		sections := []struct {
			title string
			files iter.Seq2[*schema.File, error]
		}{
			{"Missing", cmp.Missing(ctx, *includeUpdated)},
			{"Updated", cmp.Updated(ctx)},
			{"New", cmp.New(ctx, *includeUpdated)},
		}
		for _, section := range sections {
			if err := printFiles(section.title, section.files); err != nil {
				return err
			}
		}
		return printGroups(cmp.ContentGroups(ctx))
	})
}

func printSummary(summary *compare.Summary) {
	fmt.Printf("%s missing, %s updated, %s new, %s content groups\n",
		color.RedString(humanize.Comma(int64(summary.Missing))),
		color.YellowString(humanize.Comma(int64(summary.Updated))),
		color.GreenString(humanize.Comma(int64(summary.New))),
		color.CyanString(humanize.Comma(int64(summary.ContentGroups))))
}

func printFiles(title string, files iter.Seq2[*schema.File, error]) error {
	color.New(color.Bold).Printf("\n%s files:\n", title)
	for f, err := range files {
		if err != nil {
			return err
		}
		fmt.Printf("  %s  %8s  %s\n", shortHash(f.Hash), humanize.Bytes(uint64(f.Size)), f.Path)
	}
	return nil
}

func printGroups(groups iter.Seq2[*schema.ContentGroup, error]) error {
	color.New(color.Bold).Println("\nContent groups:")
	for g, err := range groups {
		if err != nil {
			return err
		}
		fmt.Printf("  %s  %8s  %s -> %s\n", shortHash(g.Hash), humanize.Bytes(uint64(g.Size)),
			strings.Join(g.Files1, ", "), strings.Join(g.Files2, ", "))
	}
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
