package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/xavierca1/fortis-crm/internal/entity"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_leads_created_total",
			Help: "Total number of leads created",
		},
	)

	salesRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_sales_registered_total",
			Help: "Total number of sales registered",
		},
	)

	salesValue = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_sales_value_brl_total",
			Help: "Sum of registered sale values in BRL",
		},
	)

	statusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_lead_status_changes_total",
			Help: "Lead status transitions",
		},
		[]string{"from", "to"},
	)

	purchasesUnclassified = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "purchases_unclassified_total",
			Help: "Purchases whose status is neither paid nor unpaid",
		},
	)

	statsCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_stats_cache_lookups_total",
			Help: "Dashboard cache lookups by result",
		},
		[]string{"result"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics records request counters labelled by the chi route pattern, so
// /leads/{id} is one series instead of one per lead.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// MetricsHandler serves the default registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// PromMetrics publishes use case counters to Prometheus.
type PromMetrics struct{}

func (PromMetrics) LeadCreated() {
	leadsCreated.Inc()
}

func (PromMetrics) SaleRegistered(value decimal.Decimal) {
	salesRegistered.Inc()
	salesValue.Add(value.InexactFloat64())
}

func (PromMetrics) StatusChanged(from, to entity.LeadStatus) {
	statusChanges.WithLabelValues(string(from), string(to)).Inc()
}

func (PromMetrics) PurchasesUnclassified(n int) {
	purchasesUnclassified.Add(float64(n))
}

func (PromMetrics) StatsCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	statsCacheLookups.WithLabelValues(result).Inc()
}
