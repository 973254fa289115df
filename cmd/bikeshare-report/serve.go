package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/banshee-data/bikeshare.report/internal/config"
	"github.com/banshee-data/bikeshare.report/internal/dashboard"
	"github.com/banshee-data/bikeshare.report/internal/db"
	"github.com/banshee-data/bikeshare.report/internal/monitoring"
	"github.com/banshee-data/bikeshare.report/internal/rental"
)

type serveFlags struct {
	commonFlags
	listen  string
	debugDB string
}

func parseServeFlags(args []string) (*serveFlags, *config.DashboardConfig, error) {
	f := &serveFlags{}
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	f.register(fs)
	fs.StringVar(&f.listen, "listen", "", "Listen address (overrides listen)")
	fs.StringVar(&f.debugDB, "debug-db", "", "sqlite file for the debug mirror (default in-memory)")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := f.settings(fs)
	if err != nil {
		return nil, nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "listen":
			cfg.Listen = &f.listen
		case "debug-db":
			cfg.DebugDBPath = &f.debugDB
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return f, cfg, nil
}

// runServe loads the table once, mirrors it into sqlite for the debug
// console and serves the dashboard until ctx is cancelled. A dataset that
// cannot be loaded stops the process before the server starts.
func runServe(ctx context.Context, args []string) error {
	_, cfg, err := parseServeFlags(args)
	if err != nil {
		return err
	}

	table, err := rental.LoadFile(cfg.GetDataPath())
	if err != nil {
		return err
	}
	monitoring.Logf("loaded %d rows from %s (hourly=%v)", table.Len(), table.Source(), table.Hourly())

	mirror, err := db.NewDB(cfg.GetDebugDBPath())
	if err != nil {
		return err
	}
	defer mirror.Close()
	if _, err := mirror.ImportTable(ctx, table, time.Now()); err != nil {
		return err
	}

	ws, err := dashboard.NewWebServer(dashboard.WebServerConfig{
		Address:  cfg.GetListen(),
		Table:    table,
		Settings: cfg,
		Mirror:   mirror,
	})
	if err != nil {
		return err
	}
	return ws.Start(ctx)
}
