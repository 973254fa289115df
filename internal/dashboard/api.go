package dashboard

import (
	"net/http"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/banshee-data/bikeshare.report/internal/filter"
	"github.com/banshee-data/bikeshare.report/internal/httputil"
	"github.com/banshee-data/bikeshare.report/internal/rental"
	"github.com/banshee-data/bikeshare.report/internal/units"
	"github.com/banshee-data/bikeshare.report/internal/version"
)

type healthResponse struct {
	Status  string `json:"status"`
	Rows    int    `json:"rows"`
	Hourly  bool   `json:"hourly"`
	Version string `json:"version"`
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, healthResponse{
		Status:  "ok",
		Rows:    ws.table.Len(),
		Hourly:  ws.table.Hourly(),
		Version: version.Version,
	})
}

type recordsResponse struct {
	Page     int             `json:"page"`
	Pages    int             `json:"pages"`
	PageSize int             `json:"page_size"`
	Total    int             `json:"total"`
	Units    string          `json:"units"`
	Records  []rental.Record `json:"records"`
}

// handleRecords pages through the table, e.g. /api/records?page=2. With
// units=metric temperatures are in °C and humidity in %.
func (ws *WebServer) handleRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unitSystem := units.Normalized
	if q.Has("units") {
		unitSystem = q.Get("units")
		if !units.IsValid(unitSystem) {
			httputil.BadRequest(w, "units must be one of "+units.GetValidUnitsString())
			return
		}
	}

	size := ws.limits.PageSize
	pages := max(1, (ws.table.Len()+size-1)/size)
	page := clampInt(q, "page", 1, 1, pages)
	records := ws.table.Page((page-1)*size, size)
	for i := range records {
		records[i].Temp = units.ConvertTemperature(records[i].Temp, unitSystem)
		records[i].ATemp = units.ConvertTemperature(records[i].ATemp, unitSystem)
		records[i].Hum = units.ConvertHumidity(records[i].Hum, unitSystem)
	}
	httputil.WriteJSONOK(w, recordsResponse{
		Page:     page,
		Pages:    pages,
		PageSize: size,
		Total:    ws.table.Len(),
		Units:    unitSystem,
		Records:  records,
	})
}

type summaryResponse struct {
	Count int         `json:"count"`
	Mean  *float64    `json:"mean"`
	Spec  filter.Spec `json:"spec"`
	Query string      `json:"query"`
}

// handleSummary runs the engine on raw normalized predicates. mean is null
// when nothing matches.
func (ws *WebServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	spec, err := parseAPISpec(r.URL.Query())
	if err != nil {
		httputil.BadRequest(w, errorText(err))
		return
	}
	res := ws.apply("api_summary", spec)
	out := summaryResponse{Count: res.Len(), Spec: spec, Query: spec.String()}
	if mean, ok := res.Mean(); ok {
		out.Mean = &mean
	}
	httputil.WriteJSONOK(w, out)
}

type groupsResponse struct {
	By     filter.GroupKey `json:"by"`
	Groups filter.Groups   `json:"groups"`
}

// handleGroups returns grouped means over the table, optionally narrowed
// by the same predicates as /api/summary.
func (ws *WebServer) handleGroups(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key, ok := filter.ParseGroupKey(q.Get("by"))
	if !ok {
		names := make([]string, len(filter.GroupKeys))
		for i, k := range filter.GroupKeys {
			names[i] = string(k)
		}
		httputil.BadRequest(w, "by must be one of "+strings.Join(names, ", "))
		return
	}
	q.Del("by")
	spec, err := parseAPISpec(q)
	if err != nil {
		httputil.BadRequest(w, errorText(err))
		return
	}
	res := ws.apply("api_groups", spec)
	httputil.WriteJSONOK(w, groupsResponse{By: key, Groups: res.Group(key)})
}

// handleMirrorMonthly reports the monthly means computed by sqlite over
// the debug mirror.
func (ws *WebServer) handleMirrorMonthly(w http.ResponseWriter, r *http.Request) {
	if ws.mirror == nil {
		httputil.NotFound(w, "debug mirror is disabled")
		return
	}
	means, err := ws.mirror.MonthlyMeans(r.Context())
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, means)
}

// errorText flattens a multierror into one line.
func errorText(err error) string {
	if merr, ok := err.(*multierror.Error); ok {
		parts := make([]string, len(merr.Errors))
		for i, e := range merr.Errors {
			parts[i] = e.Error()
		}
		return strings.Join(parts, "; ")
	}
	return err.Error()
}
