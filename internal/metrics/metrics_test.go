package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura-radar/internal/api"
	"aura-radar/internal/risk"
)

func TestObserveFetch(t *testing.T) {
	m := New()

	m.ObserveFetch(api.EndpointTraffic, 10*time.Millisecond, nil)
	m.ObserveFetch(api.EndpointTraffic, 10*time.Millisecond, &api.FetchError{Endpoint: api.EndpointTraffic, Kind: api.KindParse})
	m.ObserveFetch(api.EndpointTraffic, 10*time.Millisecond, errors.New("other"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues(api.EndpointTraffic, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues(api.EndpointTraffic, "parse")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues(api.EndpointTraffic, "error")))
}

func TestRecordsEvictionsTraces(t *testing.T) {
	m := New()

	m.ObserveRecord(risk.HighRisk)
	m.ObserveRecord(risk.HighRisk)
	m.ObserveRecord(risk.LowRisk)
	m.Evicted("alerts")
	m.SetActiveTraces(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.records.WithLabelValues("high-risk")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.records.WithLabelValues("low-risk")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.evictions.WithLabelValues("alerts")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeTraces))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFetch("/status", time.Second, nil)
		m.ObserveRecord(risk.LowRisk)
		m.Evicted("logs")
		m.SetActiveTraces(1)
	})
	assert.Nil(t, m.Registry())
}

func TestHandler(t *testing.T) {
	m := New()
	m.SetActiveTraces(2)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "aura_radar_active_traces 2")
}
