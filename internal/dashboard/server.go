// Package dashboard serves the sidebar-navigated rental views, their
// go-echarts charts and a small JSON API over one immutable table.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/banshee-data/bikeshare.report/internal/config"
	"github.com/banshee-data/bikeshare.report/internal/db"
	"github.com/banshee-data/bikeshare.report/internal/filter"
	"github.com/banshee-data/bikeshare.report/internal/httputil"
	"github.com/banshee-data/bikeshare.report/internal/monitoring"
	"github.com/banshee-data/bikeshare.report/internal/rental"
	"github.com/banshee-data/bikeshare.report/internal/timeutil"
)

// Mirror is the sqlite debug copy of the table.
type Mirror interface {
	MonthlyMeans(ctx context.Context) ([]db.MonthlyMean, error)
	AttachAdminRoutes(mux *http.ServeMux, clock timeutil.Clock) error
}

// WebServerConfig contains configuration options for the web server.
type WebServerConfig struct {
	Address  string
	Table    *rental.Table
	Settings *config.DashboardConfig
	Mirror   Mirror           // optional
	Template TemplateProvider // optional, defaults to the embedded pages
	Clock    timeutil.Clock   // optional, defaults to the wall clock
}

// WebServer handles the HTTP interface of the dashboard. The table is
// read-only, so handlers share it without locking.
type WebServer struct {
	address    string
	table      *rental.Table
	limits     Limits
	assetsHost string
	mirror     Mirror
	templates  TemplateProvider
	assets     AssetProvider
	clock      timeutil.Clock
	metrics    *Metrics
	handler    http.Handler
	server     *http.Server
}

// NewWebServer creates a new web server with the provided configuration.
// It fails only when the debug routes cannot be mounted.
func NewWebServer(cfg WebServerConfig) (*WebServer, error) {
	settings := cfg.Settings
	if settings == nil {
		settings = config.EmptyDashboardConfig()
	}
	table := cfg.Table
	if table == nil {
		table = rental.NewTable(nil, false, "")
	}

	ws := &WebServer{
		address:    cfg.Address,
		table:      table,
		limits:     NewLimits(settings, table),
		assetsHost: settings.GetAssetsHost(),
		mirror:     cfg.Mirror,
		templates:  cfg.Template,
		assets:     NewEmbeddedAssetProvider(embeddedFS, "static"),
		clock:      cfg.Clock,
		metrics:    NewMetrics(),
	}
	if ws.templates == nil {
		ws.templates = NewEmbeddedTemplateProvider(embeddedFS, "templates")
	}
	if ws.clock == nil {
		ws.clock = timeutil.RealClock{}
	}

	mux, err := ws.setupRoutes()
	if err != nil {
		return nil, err
	}
	ws.handler = httputil.RequestID(httputil.LoggingMiddleware(mux))
	ws.server = &http.Server{
		Addr:              ws.address,
		Handler:           ws.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return ws, nil
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (ws *WebServer) Handler() http.Handler {
	return ws.handler
}

// Metrics returns the server's metrics.
func (ws *WebServer) Metrics() *Metrics {
	return ws.metrics
}

// Start serves until ctx is cancelled, then shuts down gracefully with a
// one second timeout. It returns early if the listener fails.
func (ws *WebServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		monitoring.Logf("Starting HTTP server on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	monitoring.Logf("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		monitoring.Logf("HTTP server shutdown error: %v", err)
		if err := ws.server.Close(); err != nil {
			monitoring.Logf("HTTP server force close error: %v", err)
		}
	}

	monitoring.Logf("HTTP server routine stopped")
	return nil
}

// Close shuts down the web server immediately.
func (ws *WebServer) Close() error {
	if ws.server != nil {
		return ws.server.Close()
	}
	return nil
}

// setupRoutes configures the HTTP routes and handlers.
func (ws *WebServer) setupRoutes() (*http.ServeMux, error) {
	mux := http.NewServeMux()
	get := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, httputil.ReadOnly(h))
	}

	get("/", ws.handleOverview)
	get("/season", ws.handleSeason)
	get("/month", ws.handleMonth)
	get("/day", ws.handleDay)
	get("/weather", ws.handleWeather)
	get("/hour", ws.handleHour)

	get("/chart/season", ws.handleSeasonChart)
	get("/chart/month", ws.handleMonthChart)
	get("/chart/day", ws.handleDayChart)
	get("/chart/weather", ws.handleWeatherChart)
	get("/chart/hour", ws.handleHourChart)
	get("/chart/groups", ws.handleGroupChart)

	get("/api/records", ws.handleRecords)
	get("/api/summary", ws.handleSummary)
	get("/api/groups", ws.handleGroups)
	get("/api/db/monthly", ws.handleMirrorMonthly)
	get("/health", ws.handleHealth)
	get("/static/style.css", ws.handleStylesheet)
	mux.Handle("/metrics", ws.metrics.Handler())

	if ws.mirror != nil {
		if err := ws.mirror.AttachAdminRoutes(mux, ws.clock); err != nil {
			return nil, err
		}
	}
	return mux, nil
}

// apply runs the engine for one view and records its metrics.
func (ws *WebServer) apply(view string, spec filter.Spec) filter.Result {
	start := ws.clock.Now()
	res := filter.Apply(ws.table, spec)
	ws.metrics.observe(view, res, ws.clock.Since(start))
	return res
}

func (ws *WebServer) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	css, err := ws.assets.ReadFile("style.css")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "max-age=3600")
	_, _ = w.Write(css)
}
