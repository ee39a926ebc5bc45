// Package poller fetches the backend endpoints on fixed intervals and hands
// each result to the run loop for rendering.
package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"aura-radar/internal/api"
	"aura-radar/internal/dashboard"
	"aura-radar/internal/metrics"
	"aura-radar/internal/risk"
	"aura-radar/internal/runloop"
	"aura-radar/internal/trace"
)

// Poller performs one fetch-and-render cycle per Tick. Tick returns the fetch
// error, if any, after the failure has already been handled.
type Poller interface {
	Name() string
	Tick(ctx context.Context) error
}

type StatusSource interface {
	Status(ctx context.Context) (api.StatusSnapshot, error)
}

type TrafficSource interface {
	Traffic(ctx context.Context) ([]api.ConnectionRecord, error)
}

type BlockedSource interface {
	Blocked(ctx context.Context) ([]string, error)
}

type IntegritySource interface {
	Integrity(ctx context.Context) ([]api.IntegrityEvent, error)
	ForceIntegrity(ctx context.Context) (api.ForceScanResponse, error)
}

// Deps are shared by every poller.
type Deps struct {
	Board   *dashboard.Board
	Poster  runloop.Poster
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

func fetch[T any](ctx context.Context, d Deps, endpoint string, fn func(context.Context) (T, error)) api.Result[T] {
	start := time.Now()
	res := api.Fetch(ctx, fn)
	d.Metrics.ObserveFetch(endpoint, time.Since(start), res.Err)
	return res
}

// StatusPoller keeps the status line current. Failures are shown as "Error".
type StatusPoller struct {
	deps Deps
	src  StatusSource
}

func NewStatusPoller(src StatusSource, deps Deps) *StatusPoller {
	deps.Logger = deps.Logger.With().Str("poller", "status").Logger()
	return &StatusPoller{deps: deps, src: src}
}

func (p *StatusPoller) Name() string { return "status" }

func (p *StatusPoller) Tick(ctx context.Context) error {
	res := fetch(ctx, p.deps, api.EndpointStatus, p.src.Status)
	if res.Err != nil {
		p.deps.Logger.Debug().Err(res.Err).Msg("Status fetch failed")
	}
	p.deps.Poster.Post(func() {
		p.deps.Board.SetStatus(res)
	})
	return res.Err
}

// TrafficPoller draws an arc for every located connection and logs every
// connection in its risk bucket, in response order.
type TrafficPoller struct {
	deps     Deps
	src      TrafficSource
	animator *trace.Animator
	origin   trace.Point
}

func NewTrafficPoller(src TrafficSource, animator *trace.Animator, origin trace.Point, deps Deps) *TrafficPoller {
	deps.Logger = deps.Logger.With().Str("poller", "traffic").Logger()
	return &TrafficPoller{deps: deps, src: src, animator: animator, origin: origin}
}

func (p *TrafficPoller) Name() string { return "traffic" }

func (p *TrafficPoller) Tick(ctx context.Context) error {
	res := fetch(ctx, p.deps, api.EndpointTraffic, p.src.Traffic)
	if res.Err != nil {
		p.deps.Logger.Warn().Err(res.Err).Msg("Traffic fetch failed")
		return res.Err
	}
	if len(res.Value) == 0 {
		return nil
	}

	records := res.Value
	p.deps.Logger.Debug().Int("records", len(records)).Msg("Retrieved connections")

	// One task for the whole batch keeps the records in response order.
	p.deps.Poster.Post(func() {
		for _, rec := range records {
			p.render(rec)
		}
	})
	return nil
}

func (p *TrafficPoller) render(rec api.ConnectionRecord) {
	bucket := risk.Classify(rec.Score)

	if lat, lon, ok := rec.Coordinates(); ok && p.animator != nil {
		p.animator.Draw(p.origin, trace.Point{Lat: lat, Lon: lon}, bucket)
	}

	p.deps.Board.AddConnection(rec, bucket)
	p.deps.Metrics.ObserveRecord(bucket)
}

// BlockedPoller mirrors the backend's full block-list. A failed fetch keeps the old list.
type BlockedPoller struct {
	deps Deps
	src  BlockedSource
}

func NewBlockedPoller(src BlockedSource, deps Deps) *BlockedPoller {
	deps.Logger = deps.Logger.With().Str("poller", "blocked").Logger()
	return &BlockedPoller{deps: deps, src: src}
}

func (p *BlockedPoller) Name() string { return "blocked" }

func (p *BlockedPoller) Tick(ctx context.Context) error {
	res := fetch(ctx, p.deps, api.EndpointBlocked, p.src.Blocked)
	if res.Err != nil {
		p.deps.Logger.Warn().Err(res.Err).Msg("Blocked fetch failed")
		return res.Err
	}

	ips := res.Value
	p.deps.Poster.Post(func() {
		p.deps.Board.ReplaceBlocked(ips)
	})
	return nil
}

// IntegrityPoller prepends every new drift event. Earlier events stay.
type IntegrityPoller struct {
	deps Deps
	src  IntegritySource
}

func NewIntegrityPoller(src IntegritySource, deps Deps) *IntegrityPoller {
	deps.Logger = deps.Logger.With().Str("poller", "integrity").Logger()
	return &IntegrityPoller{deps: deps, src: src}
}

func (p *IntegrityPoller) Name() string { return "integrity" }

func (p *IntegrityPoller) Tick(ctx context.Context) error {
	res := fetch(ctx, p.deps, api.EndpointIntegrity, p.src.Integrity)
	if res.Err != nil {
		p.deps.Logger.Warn().Err(res.Err).Msg("Integrity fetch failed")
		return res.Err
	}
	if len(res.Value) == 0 {
		return nil
	}

	events := res.Value
	p.deps.Poster.Post(func() {
		for _, ev := range events {
			p.deps.Board.AddIntegrity(ev)
		}
	})
	return nil
}

// ForceScan asks the backend to scan now and renders the outcome like a polled event.
func (p *IntegrityPoller) ForceScan(ctx context.Context) error {
	res := fetch(ctx, p.deps, api.EndpointForceIntegrity, p.src.ForceIntegrity)
	if res.Err != nil {
		p.deps.Logger.Warn().Err(res.Err).Msg("Forced integrity scan failed")
		p.deps.Poster.Post(func() {
			p.deps.Board.Flash("Integrity scan failed")
		})
		return res.Err
	}

	resp := res.Value
	p.deps.Poster.Post(func() {
		if !resp.Changed() {
			p.deps.Board.Flash("Integrity scan: no drift")
			return
		}
		p.deps.Board.AddIntegrity(*resp.Event)
		p.deps.Board.Flash("Integrity scan: drift detected")
	})
	return nil
}
