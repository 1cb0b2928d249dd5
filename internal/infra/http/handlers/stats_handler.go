package handlers

import (
	"net/http"

	"github.com/xavierca1/fortis-crm/internal/report"
	"github.com/xavierca1/fortis-crm/internal/usecase"
	"go.uber.org/zap"
)

type StatsHandler struct {
	Stats      StatsService
	TrafficSvc TrafficService
	Logger     *zap.Logger
}

func NewStatsHandler(stats StatsService, traffic TrafficService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{Stats: stats, TrafficSvc: traffic, Logger: logger}
}

func periodQuery(r *http.Request) (string, report.CustomRange) {
	q := r.URL.Query()
	return q.Get("period"), report.CustomRange{Start: q.Get("start"), End: q.Get("end")}
}

// Global (GET /stats?period=&start=&end=)
func (h *StatsHandler) Global(w http.ResponseWriter, r *http.Request) {
	token, custom := periodQuery(r)
	if token == "" {
		token = report.PeriodThisMonth
	}
	out, err := h.Stats.GlobalStats(r.Context(), token, custom)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Traffic (GET /traffic?period=&start=&end=&search=&platform=)
func (h *StatsHandler) Traffic(w http.ResponseWriter, r *http.Request) {
	page, ok := queryPage(w, r)
	if !ok {
		return
	}
	token, custom := periodQuery(r)
	filter := usecase.TrafficFilter{
		Search:   r.URL.Query().Get("search"),
		Platform: r.URL.Query().Get("platform"),
	}
	out, err := h.TrafficSvc.ListTraffic(r.Context(), token, custom, filter, page)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
