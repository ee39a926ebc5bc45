package poller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura-radar/internal/api"
	"aura-radar/internal/dashboard"
	"aura-radar/internal/metrics"
	"aura-radar/internal/risk"
	"aura-radar/internal/runloop"
	"aura-radar/internal/trace"
)

var errDown = errors.New("backend down")

// fakeBackend serves canned responses, one per call, per endpoint.
type fakeBackend struct {
	status    []api.Result[api.StatusSnapshot]
	traffic   []api.Result[[]api.ConnectionRecord]
	blocked   []api.Result[[]string]
	integrity []api.Result[[]api.IntegrityEvent]
	force     []api.Result[api.ForceScanResponse]
}

func next[T any](queue *[]api.Result[T]) (T, error) {
	if len(*queue) == 0 {
		var zero T
		return zero, errDown
	}
	r := (*queue)[0]
	*queue = (*queue)[1:]
	return r.Value, r.Err
}

func (f *fakeBackend) Status(context.Context) (api.StatusSnapshot, error) { return next(&f.status) }
func (f *fakeBackend) Traffic(context.Context) ([]api.ConnectionRecord, error) {
	return next(&f.traffic)
}
func (f *fakeBackend) Blocked(context.Context) ([]string, error) { return next(&f.blocked) }
func (f *fakeBackend) Integrity(context.Context) ([]api.IntegrityEvent, error) {
	return next(&f.integrity)
}
func (f *fakeBackend) ForceIntegrity(context.Context) (api.ForceScanResponse, error) {
	return next(&f.force)
}

type fakeTimers struct {
	pending []func()
}

func (ft *fakeTimers) AfterFunc(_ time.Duration, f func()) {
	ft.pending = append(ft.pending, f)
}

type fixture struct {
	board    *dashboard.Board
	layer    *trace.Layer
	animator *trace.Animator
	timers   *fakeTimers
	metrics  *metrics.Metrics
	deps     Deps
}

var origin = trace.Point{Lat: 39.0997, Lon: -94.5786}

func newFixture() *fixture {
	f := &fixture{
		board:   dashboard.NewBoard(dashboard.DefaultOptions()),
		layer:   trace.NewLayer(),
		timers:  &fakeTimers{},
		metrics: metrics.New(),
	}
	f.animator = trace.NewAnimator(f.layer, runloop.Immediate{}, trace.Options{AfterFunc: f.timers.AfterFunc})
	f.deps = Deps{
		Board:   f.board,
		Poster:  runloop.Immediate{},
		Logger:  zerolog.Nop(),
		Metrics: f.metrics,
	}
	return f
}

func TestStatusPoller(t *testing.T) {
	f := newFixture()
	src := &fakeBackend{status: []api.Result[api.StatusSnapshot]{
		{Value: api.StatusSnapshot{Mode: api.ModeLearning, TimeRemaining: 42}},
		{Err: errDown},
		{Value: api.StatusSnapshot{Mode: api.ModeMonitoring}},
	}}
	p := NewStatusPoller(src, f.deps)
	ctx := context.Background()

	require.NoError(t, p.Tick(ctx))
	assert.Contains(t, f.board.Status.Current().Text, "42")
	assert.Equal(t, dashboard.StatusLearning, f.board.Status.Current().State)

	assert.ErrorIs(t, p.Tick(ctx), errDown)
	assert.Equal(t, "Error", f.board.Status.Current().Text)

	require.NoError(t, p.Tick(ctx))
	assert.Equal(t, "Monitoring", f.board.Status.Current().Text)
}

func TestTrafficPollerHighRiskRecord(t *testing.T) {
	f := newFixture()
	src := &fakeBackend{traffic: []api.Result[[]api.ConnectionRecord]{
		{Value: []api.ConnectionRecord{{
			SrcIP: "192.168.1.4", DstIP: "8.8.8.8", ExternalIP: "8.8.8.8",
			Score: 0.75, Lat: api.Float(10), Lon: api.Float(20),
		}}},
	}}
	p := NewTrafficPoller(src, f.animator, origin, f.deps)

	require.NoError(t, p.Tick(context.Background()))

	require.Equal(t, 1, f.layer.Len(), "exactly one trace")
	tr := f.layer.Active()[0]
	assert.Equal(t, trace.Point{Lat: 10, Lon: 20}, tr.Destination)
	assert.Equal(t, origin, tr.Origin)
	assert.Equal(t, risk.HighRisk, tr.Severity)

	assert.Equal(t, 1, f.board.Alerts.Len(), "exactly one alert")
	assert.Zero(t, f.board.Logs.Len(), "nothing in the general log")
	assert.Len(t, f.timers.pending, 1)
}

func TestTrafficPollerMissingCoordinatesStillLogs(t *testing.T) {
	f := newFixture()
	src := &fakeBackend{traffic: []api.Result[[]api.ConnectionRecord]{
		{Value: []api.ConnectionRecord{
			{ExternalIP: "1.1.1.1", Score: 0.1},
			{ExternalIP: "2.2.2.2", Score: 0.2, Lat: api.Float(0), Lon: api.Float(0)},
			{ExternalIP: "3.3.3.3", Score: 0.9, Lat: api.Float(15)},
		}},
	}}
	p := NewTrafficPoller(src, f.animator, origin, f.deps)

	require.NoError(t, p.Tick(context.Background()))

	assert.Zero(t, f.layer.Len(), "no record has a usable location")
	assert.Equal(t, 2, f.board.Logs.Len())
	assert.Equal(t, 1, f.board.Alerts.Len())
}

func TestTrafficPollerKeepsResponseOrder(t *testing.T) {
	f := newFixture()
	var records []api.ConnectionRecord
	for _, ip := range []string{"1.0.0.1", "1.0.0.2", "1.0.0.3"} {
		records = append(records, api.ConnectionRecord{ExternalIP: ip, Score: 0.1})
	}
	src := &fakeBackend{traffic: []api.Result[[]api.ConnectionRecord]{{Value: records}}}
	p := NewTrafficPoller(src, f.animator, origin, f.deps)

	require.NoError(t, p.Tick(context.Background()))

	titles := f.board.Logs.Titles()
	require.Len(t, titles, 3)
	// Newest first: the last record of the batch sits at the head.
	assert.Contains(t, titles[0], "1.0.0.3")
	assert.Contains(t, titles[2], "1.0.0.1")
}

func TestTrafficPollerFailureLeavesState(t *testing.T) {
	f := newFixture()
	src := &fakeBackend{traffic: []api.Result[[]api.ConnectionRecord]{
		{Value: []api.ConnectionRecord{{ExternalIP: "1.1.1.1", Score: 0.1}}},
		{Err: errDown},
	}}
	p := NewTrafficPoller(src, f.animator, origin, f.deps)

	require.NoError(t, p.Tick(context.Background()))
	assert.Error(t, p.Tick(context.Background()))
	assert.Equal(t, 1, f.board.Logs.Len())
}

func TestBlockedPollerReplaces(t *testing.T) {
	f := newFixture()
	src := &fakeBackend{blocked: []api.Result[[]string]{
		{Value: []string{"1.2.3.4"}},
		{Value: []string{"5.6.7.8"}},
		{Err: errDown},
	}}
	p := NewBlockedPoller(src, f.deps)
	ctx := context.Background()

	require.NoError(t, p.Tick(ctx))
	assert.Equal(t, []string{"1.2.3.4"}, f.board.Blocked.Titles())

	require.NoError(t, p.Tick(ctx))
	assert.Equal(t, []string{"5.6.7.8"}, f.board.Blocked.Titles())

	assert.Error(t, p.Tick(ctx))
	assert.Equal(t, []string{"5.6.7.8"}, f.board.Blocked.Titles(), "failure keeps the last snapshot")
}

func TestBlockedPollerEmptySnapshotClears(t *testing.T) {
	f := newFixture()
	src := &fakeBackend{blocked: []api.Result[[]string]{
		{Value: []string{"1.2.3.4"}},
		{Value: nil},
	}}
	p := NewBlockedPoller(src, f.deps)

	require.NoError(t, p.Tick(context.Background()))
	require.NoError(t, p.Tick(context.Background()))
	assert.Zero(t, f.board.Blocked.Len())
}

func TestIntegrityPollerAccumulates(t *testing.T) {
	f := newFixture()
	src := &fakeBackend{integrity: []api.Result[[]api.IntegrityEvent]{
		{Value: []api.IntegrityEvent{{Timestamp: "first", Modified: []string{"/etc/hosts"}}}},
		{Value: []api.IntegrityEvent{{Timestamp: "second", Added: []string{"/tmp/new"}}}},
		{Value: nil},
		{Err: errDown},
	}}
	p := NewIntegrityPoller(src, f.deps)
	ctx := context.Background()

	require.NoError(t, p.Tick(ctx))
	require.NoError(t, p.Tick(ctx))
	require.NoError(t, p.Tick(ctx))
	assert.Error(t, p.Tick(ctx))

	titles := f.board.Integrity.Titles()
	require.Len(t, titles, 2)
	assert.Contains(t, titles[0], "second")
	assert.Contains(t, titles[1], "first")
}

func TestForceScan(t *testing.T) {
	f := newFixture()
	src := &fakeBackend{force: []api.Result[api.ForceScanResponse]{
		{Value: api.ForceScanResponse{Status: "ok"}},
		{Value: api.ForceScanResponse{Status: "changed", Event: &api.IntegrityEvent{Timestamp: "now", Removed: []string{"/x"}}}},
		{Err: errDown},
	}}
	p := NewIntegrityPoller(src, f.deps)
	ctx := context.Background()

	require.NoError(t, p.ForceScan(ctx))
	assert.Zero(t, f.board.Integrity.Len())
	assert.Equal(t, "Integrity scan: no drift", f.board.FlashText(time.Minute))

	require.NoError(t, p.ForceScan(ctx))
	assert.Equal(t, 1, f.board.Integrity.Len())
	assert.Equal(t, "Integrity scan: drift detected", f.board.FlashText(time.Minute))

	assert.Error(t, p.ForceScan(ctx))
	assert.Equal(t, "Integrity scan failed", f.board.FlashText(time.Minute))
}

func TestEndToEndOverHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/traffic", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"src_ip":"10.0.0.3","dst_ip":"8.8.4.4","external_ip":"8.8.4.4","country":"US","score":0.75,"lat":10,"lon":20}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := newFixture()
	client := api.NewClient(api.Config{BaseURL: srv.URL})
	p := NewTrafficPoller(client, f.animator, origin, f.deps)

	require.NoError(t, p.Tick(context.Background()))
	assert.Equal(t, 1, f.layer.Len())
	assert.Equal(t, 1, f.board.Alerts.Len())
	assert.Zero(t, f.board.Logs.Len())
}
