// Package prom implements the observability hooks on top of Prometheus.
//
// Register the hooks once at startup and expose the registry over HTTP:
//
//	reg := prometheus.NewRegistry()
//	h := prom.New(reg)
//	observability.SetQueryHooks(h)
//	observability.SetHTTPHooks(h)
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	errs "github.com/matzehuels/censusacs/pkg/errors"
	"github.com/matzehuels/censusacs/pkg/observability"
)

const namespace = "censusacs"

// Hooks records query and HTTP events as Prometheus metrics.
// It implements both [observability.QueryHooks] and [observability.HTTPHooks].
type Hooks struct {
	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	rows          *prometheus.CounterVec
	requests      *prometheus.CounterVec
	reqDuration   *prometheus.HistogramVec
	httpErrors    *prometheus.CounterVec
	retries       *prometheus.CounterVec
}

var (
	_ observability.QueryHooks = (*Hooks)(nil)
	_ observability.HTTPHooks  = (*Hooks)(nil)
)

// New creates the collectors and registers them with reg.
// It panics if a collector with the same name is already registered.
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "total",
			Help:      "ACS queries by survey, geography and outcome.",
		}, []string{"survey", "geography", "outcome"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "End-to-end ACS query latency including retries.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 180},
		}, []string{"survey"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "rows_total",
			Help:      "Data rows returned to callers.",
		}, []string{"survey"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP responses from the Census API by status code.",
		}, []string{"host", "code"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of single HTTP attempts.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Transport failures before a response was received.",
		}, []string{"host"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "retries_total",
			Help:      "Failed attempts that were retried.",
		}, []string{"host"}),
	}
	reg.MustRegister(h.queries, h.queryDuration, h.rows, h.requests, h.reqDuration, h.httpErrors, h.retries)
	return h
}

func (h *Hooks) OnQueryStart(context.Context, string, string) {}

func (h *Hooks) OnQueryComplete(_ context.Context, survey, geography string, rows int, d time.Duration, err error) {
	h.queries.WithLabelValues(survey, geography, outcome(rows, err)).Inc()
	h.queryDuration.WithLabelValues(survey).Observe(d.Seconds())
	h.rows.WithLabelValues(survey).Add(float64(rows))
}

func (h *Hooks) OnRequest(context.Context, string, string, string) {}

func (h *Hooks) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	h.requests.WithLabelValues(host, strconv.Itoa(code)).Inc()
	h.reqDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (h *Hooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.httpErrors.WithLabelValues(host).Inc()
}

func (h *Hooks) OnRetry(_ context.Context, host string, _ int, _ time.Duration, _ error) {
	h.retries.WithLabelValues(host).Inc()
}

// outcome maps a query result to a low-cardinality label value.
func outcome(rows int, err error) string {
	switch {
	case err != nil:
		if code := errs.GetCode(err); code != "" {
			return string(code)
		}
		return "error"
	case rows == 0:
		return "empty"
	default:
		return "ok"
	}
}
