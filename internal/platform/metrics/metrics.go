// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes the Prometheus instruments shared by the HTTP layer,
the locale router and the document viewer.

Instruments are registered against an explicit [prometheus.Registerer] so that
tests can use a private registry instead of the global one.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bayan"

// Metrics holds every Prometheus instrument the service records.
type Metrics struct {
	// HTTP
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Locale routing
	LocaleRedirects *prometheus.CounterVec

	// Viewer
	ViewerSessions prometheus.Gauge
	SearchDuration prometheus.Histogram
	SearchesStale  prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers all instruments on registry. Passing nil uses the default registry.
func New(registry *prometheus.Registry) *Metrics {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if registry != nil {
		registerer, gatherer = registry, registry
	}

	factory := promauto.With(registerer)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route pattern and status",
		}, []string{"method", "route", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),

		LocaleRedirects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "locale_redirects_total",
			Help:      "Requests redirected to a locale-prefixed path, by chosen locale",
		}, []string{"locale"}),

		ViewerSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "viewer_sessions_open",
			Help:      "Currently open document viewer sessions",
		}),

		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "viewer_search_duration_seconds",
			Help:      "Time to search every page of a document",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		SearchesStale: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "viewer_searches_superseded_total",
			Help:      "Searches whose results were discarded because a newer search started",
		}),

		gatherer: gatherer,
	}
}

// Handler returns the Prometheus scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveLocaleRedirect implements the locale package's redirect observer.
func (m *Metrics) ObserveLocaleRedirect(locale string) {
	m.LocaleRedirects.WithLabelValues(locale).Inc()
}

// ViewerOpened implements the viewer registry's observer.
func (m *Metrics) ViewerOpened() { m.ViewerSessions.Inc() }

// ViewerClosed implements the viewer registry's observer.
func (m *Metrics) ViewerClosed() { m.ViewerSessions.Dec() }

// ObserveSearch records a completed search. Superseded searches are counted separately.
func (m *Metrics) ObserveSearch(elapsed time.Duration, superseded bool) {
	if superseded {
		m.SearchesStale.Inc()
		return
	}
	m.SearchDuration.Observe(elapsed.Seconds())
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (writer *statusWriter) WriteHeader(code int) {
	writer.status = code
	writer.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency labelled by chi route pattern.
// Unmatched requests are labelled "unmatched" to keep label cardinality bounded.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()
			recorder := &statusWriter{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request)

			route := "unmatched"
			if routeCtx := chi.RouteContext(request.Context()); routeCtx != nil {
				if pattern := routeCtx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			m.RequestsTotal.WithLabelValues(request.Method, route, strconv.Itoa(recorder.status)).Inc()
			m.RequestDuration.WithLabelValues(request.Method, route).Observe(time.Since(startTime).Seconds())
		})
	}
}
