package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/bikeshare.report/internal/config"
	"github.com/banshee-data/bikeshare.report/internal/version"
)

func main() {
	flag.Usage = func() { printUsage(os.Stderr) }
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	var err error
	switch command {
	case "serve":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		err = runServe(ctx, args)
		stop()
	case "summary":
		err = runSummary(args, os.Stdout)
	case "export":
		err = runExport(args, os.Stdout)
	case "version":
		fmt.Println(version.String())
	case "help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("%s: %v", command, err)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `bikeshare-report - Capital Bikeshare rental analysis

Usage: bikeshare-report <command> [options]

Commands:
  serve      Serve the dashboard until interrupted
  summary    Print the row count and mean rentals for a filter
  export     Write PNG charts to a directory
  version    Show version and build information
  help       Show this help message

Common Flags:
  -config <file>   Dashboard config (JSON or YAML)
  -data <file>     day.csv or hour.csv from the UCI bike-sharing dataset

Examples:
  bikeshare-report serve -data day.csv -listen :8080
  bikeshare-report summary -data day.csv -month 1 -day 1 -temp 1.4
  bikeshare-report export -data hour.csv -out report`)
}

// commonFlags are shared by every subcommand that loads the dataset.
type commonFlags struct {
	configPath string
	dataPath   string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Dashboard config file (JSON or YAML)")
	fs.StringVar(&c.dataPath, "data", "", "Rental CSV file (overrides data_path)")
}

// settings loads the config file, if any, and applies the flags that were
// set explicitly on the command line.
func (c *commonFlags) settings(fs *flag.FlagSet) (*config.DashboardConfig, error) {
	cfg := config.EmptyDashboardConfig()
	if c.configPath != "" {
		loaded, err := config.LoadDashboardConfig(c.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "data" {
			cfg.DataPath = &c.dataPath
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
