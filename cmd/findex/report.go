package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/viant/findex/compare"
	"github.com/viant/findex/report"
	"github.com/viant/findex/store"
)

func reportCmd(args []string) (err error) {
	flags := flag.NewFlagSet("report", flag.ContinueOnError)
	opts := commonFlags(flags, "comparison file (required)")
	out := flags.String("out", "", "workbook location, a path or afs URL (required)")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}
	if err := required(flags, *opts.db, *out); err != nil {
		return err
	}
	cfg, err := opts.setup()
	if err != nil {
		return err
	}
	defer func() { err = finish(cfg, err) }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmp := compare.New(*opts.db)
	return store.Use(ctx, cmp.Store(), func(*store.Store) error {
		r := report.New(cmp, report.WithSheetListener(func(sheet string, rows int) {
			color.New(color.FgHiCyan, color.Bold).Printf("Worksheet %q: ", sheet)
			color.White("%s entries", humanize.Comma(int64(rows)))
		}))
		if err := r.Write(ctx, *out); err != nil {
			return err
		}
		color.Green("Report written to %s", *out)
		return nil
	})
}
