package db

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tailscale/tailsql/server/tailsql"
	"tailscale.com/tsweb"

	"github.com/banshee-data/bikeshare.report/internal/monitoring"
	"github.com/banshee-data/bikeshare.report/internal/timeutil"
)

// AttachAdminRoutes mounts the tsweb debug index on mux with a tailsql
// console over the mirror at /debug/tailsql/ and a download of the mirror
// at /debug/snapshot.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux, clock timeutil.Clock) error {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return fmt.Errorf("failed to create tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://bikeshare-mirror.db", db.DB, &tailsql.DBOptions{
		Label: "Rental mirror",
	})
	debug.Handle("tailsql/", "SQL console over the rental mirror", tsql.NewMux())

	debug.Handle("snapshot", "Download a copy of the rental mirror", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		db.serveSnapshot(w, r, clock)
	}))
	return nil
}

func (db *DB) serveSnapshot(w http.ResponseWriter, r *http.Request, clock timeutil.Clock) {
	dir, err := os.MkdirTemp("", "bikeshare-snapshot-")
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create snapshot dir: %v", err), http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			monitoring.Logf("Failed to remove snapshot dir: %v", err)
		}
	}()

	name := "bikeshare-" + strconv.FormatInt(clock.Now().Unix(), 10) + ".db"
	path := filepath.Join(dir, name)
	if _, err := db.ExecContext(r.Context(), "VACUUM INTO ?", path); err != nil {
		http.Error(w, fmt.Sprintf("Failed to create snapshot: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	w.Header().Set("Content-Type", "application/vnd.sqlite3")
	http.ServeFile(w, r, path)
}
