// Package metrics exposes Prometheus counters for the polling pipeline.
//
// Every method is safe on a nil *Metrics so components can run without it.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aura-radar/internal/api"
	"aura-radar/internal/risk"
)

const namespace = "aura_radar"

type Metrics struct {
	registry      *prometheus.Registry
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	records       *prometheus.CounterVec
	evictions     *prometheus.CounterVec
	activeTraces  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Backend fetches by endpoint and outcome.",
		}, []string{"endpoint", "result"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Backend fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Connection records rendered, by risk bucket.",
		}, []string{"bucket"}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Entries dropped from the tail of a capped region.",
		}, []string{"region"}),
		activeTraces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_traces",
			Help:      "Connection arcs currently on the globe.",
		}),
	}

	m.registry.MustRegister(m.fetches, m.fetchDuration, m.records, m.evictions, m.activeTraces)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveFetch records one fetch. The result label is "ok" or the api error kind.
func (m *Metrics) ObserveFetch(endpoint string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = string(api.KindOf(err))
		if result == "" {
			result = "error"
		}
	}
	m.fetches.WithLabelValues(endpoint, result).Inc()
	m.fetchDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) ObserveRecord(bucket risk.Bucket) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(bucket.String()).Inc()
}

func (m *Metrics) Evicted(region string) {
	if m == nil {
		return
	}
	m.evictions.WithLabelValues(region).Inc()
}

func (m *Metrics) SetActiveTraces(n int) {
	if m == nil {
		return
	}
	m.activeTraces.Set(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is canceled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
