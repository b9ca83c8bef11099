package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/google/gops/agent"
	"github.com/viant/findex"
	"github.com/viant/findex/compare"
	"github.com/viant/findex/config"
	"github.com/viant/findex/logging"
	"github.com/viant/findex/metrics"
	"github.com/viant/findex/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "index":
		err = indexCmd(os.Args[2:])
	case "compare":
		err = compareCmd(os.Args[2:])
	case "report":
		err = reportCmd(os.Args[2:])
	case "info":
		err = infoCmd(os.Args[2:])
	case "version":
		fmt.Println(findex.Version)
	default:
		usage()
		os.Exit(2)
	}
	_ = logging.Sync()
	os.Exit(exitCode(err))
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: findex <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  index    Build a catalog of a directory tree")
	fmt.Fprintln(os.Stderr, "  compare  Compare two catalogs")
	fmt.Fprintln(os.Stderr, "  report   Write a comparison as an xlsx workbook")
	fmt.Fprintln(os.Stderr, "  info     Show catalog or comparison metadata")
	fmt.Fprintln(os.Stderr, "  version  Print the tool version")
}

var errUsage = errors.New("invalid arguments")

// exitCode reports err to the user and returns the process status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	case errors.Is(err, store.ErrExists):
		color.New(color.FgRed).Fprintf(os.Stderr, "%v, please use --overwrite\n", err)
	case errors.Is(err, compare.ErrAlgorithmMismatch):
		color.New(color.FgRed).Fprintf(os.Stderr, "%v, rebuild one catalog with --hash\n", err)
	default:
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
	}
	return 1
}

// common holds the flags every command accepts.
type common struct {
	db         *string
	configPath *string
	gops       *bool
	logLevel   *string
}

func commonFlags(flags *flag.FlagSet, dbUsage string) *common {
	return &common{
		db:         flags.String("db", "", dbUsage),
		configPath: flags.String("config", "", "config yaml (optional)"),
		gops:       flags.Bool("gops", false, "start the gops diagnostics agent"),
		logLevel:   flags.String("log-level", "", "log level: debug|info|warn|error"),
	}
}

// setup loads the configuration and starts logging.
func (c *common) setup() (*config.Config, error) {
	cfg, err := config.Load(*c.configPath)
	if err != nil {
		return nil, err
	}
	if err := logging.Init(cfg.Log); err != nil {
		return nil, err
	}
	if *c.logLevel != "" {
		logging.SetLevel(*c.logLevel)
	}
	if *c.gops {
		startGops()
	}
	return cfg, nil
}

// finish writes the run metrics when configured.
func finish(cfg *config.Config, err error) error {
	if cfg == nil || cfg.MetricsFile == "" {
		return err
	}
	if mErr := metrics.WriteFile(cfg.MetricsFile); mErr != nil && err == nil {
		return mErr
	}
	return err
}

func startGops() {
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		logging.Warn("gops: " + err.Error())
	}
}

func required(flags *flag.FlagSet, values ...string) error {
	for _, value := range values {
		if value == "" {
			flags.Usage()
			return errUsage
		}
	}
	return nil
}
