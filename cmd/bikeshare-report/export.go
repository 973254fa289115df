package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/banshee-data/bikeshare.report/internal/fsutil"
	"github.com/banshee-data/bikeshare.report/internal/rental"
	"github.com/banshee-data/bikeshare.report/internal/report"
	"github.com/banshee-data/bikeshare.report/internal/security"
)

// runExport writes the PNG charts into -out, which must lie under the
// working directory or the system temp directory.
func runExport(args []string, w io.Writer) error {
	var common commonFlags
	var out string
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	common.register(fs)
	fs.StringVar(&out, "out", "", "Output directory (overrides export_dir)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.settings(fs)
	if err != nil {
		return err
	}
	dir := cfg.GetExportDir()
	if out != "" {
		dir = out
	}
	if err := security.ValidateExportDir(dir); err != nil {
		return fmt.Errorf("export directory: %w", err)
	}

	table, err := rental.LoadFile(cfg.GetDataPath())
	if err != nil {
		return err
	}
	paths, err := report.NewExporter(fsutil.OSFileSystem{}, dir).Export(table)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(w, p)
	}
	return nil
}
