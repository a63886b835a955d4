// Package metrics метрики Prometheus для сервиса поиска цен.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "perfume_proxy"

// Исходы поиска.
const (
	OutcomeOK               = "ok"
	OutcomeBadRequest       = "bad_request"
	OutcomeMethodNotAllowed = "method_not_allowed"
	OutcomeUpstreamError    = "upstream_error"
	OutcomeParseError       = "parse_error"
	OutcomeInternalError    = "internal_error"
)

type Metrics struct {
	Lookups          *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	JSONRepairs      prometheus.Counter
	HTTPRequests     *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New регистрирует все коллекторы в reg. В тестах передаём свежий prometheus.NewRegistry().
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Price lookups by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Latency of the single model call per lookup.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160},
		}, []string{"engine"}),
		JSONRepairs: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "json_repairs_total",
			Help:      "Model replies that only parsed after the repair pass.",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		gatherer: reg,
	}
}

func (m *Metrics) Lookup(outcome string) {
	m.Lookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveUpstream(engine string, started time.Time) {
	m.UpstreamDuration.WithLabelValues(engine).Observe(time.Since(started).Seconds())
}

// Handler отдаёт /metrics только по этому реестру.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware считает запросы по методу и итоговому коду ответа.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		m.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rw.status)).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
