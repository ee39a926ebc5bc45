// Package trace draws short-lived connection arcs on the globe.
//
// Each arc owns its removal timer. When the timer fires the removal is posted
// to the run loop, so the layer is only ever touched from one goroutine.
package trace

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"aura-radar/internal/risk"
	"aura-radar/internal/runloop"
)

// DefaultTTL is how long an arc stays on screen.
const DefaultTTL = 2000 * time.Millisecond

type Point struct {
	Lat float64
	Lon float64
}

type Trace struct {
	ID          uuid.UUID
	Origin      Point
	Destination Point
	Severity    risk.Bucket
	CreatedAt   time.Time
	TTL         time.Duration

	seq uint64
}

// Progress is the fraction of the trace's lifetime that has elapsed, clamped to [0,1].
func (t Trace) Progress(now time.Time) float64 {
	if t.TTL <= 0 {
		return 1
	}
	p := float64(now.Sub(t.CreatedAt)) / float64(t.TTL)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Layer is the set of traces currently on the render surface.
type Layer struct {
	traces  map[uuid.UUID]Trace
	seq     uint64
	closed  bool
	version uint64
}

func NewLayer() *Layer {
	return &Layer{traces: make(map[uuid.UUID]Trace)}
}

func (l *Layer) add(t Trace) bool {
	if l.closed {
		return false
	}
	l.seq++
	t.seq = l.seq
	l.traces[t.ID] = t
	l.version++
	return true
}

// Remove drops one trace. Unknown ids and a closed layer are a no-op.
func (l *Layer) Remove(id uuid.UUID) bool {
	if l.closed {
		return false
	}
	if _, ok := l.traces[id]; !ok {
		return false
	}
	delete(l.traces, id)
	l.version++
	return true
}

// Has reports whether id is still drawn.
func (l *Layer) Has(id uuid.UUID) bool {
	_, ok := l.traces[id]
	return ok
}

// Active returns the live traces, oldest first.
func (l *Layer) Active() []Trace {
	out := make([]Trace, 0, len(l.traces))
	for _, t := range l.traces {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (l *Layer) Len() int { return len(l.traces) }

// Close tears the layer down. Pending removals that arrive later do nothing.
func (l *Layer) Close() {
	l.closed = true
	l.traces = make(map[uuid.UUID]Trace)
	l.version++
}

func (l *Layer) Closed() bool { return l.closed }

func (l *Layer) Version() uint64 { return l.version }

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func())

func realAfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

type Options struct {
	TTL       time.Duration
	AfterFunc AfterFunc
	Now       func() time.Time

	// OnChange receives the number of live traces after every draw and removal.
	OnChange func(active int)
}

// Animator creates traces on a layer and schedules their removal.
type Animator struct {
	layer    *Layer
	poster   runloop.Poster
	ttl      time.Duration
	after    AfterFunc
	now      func() time.Time
	onChange func(int)
}

func NewAnimator(layer *Layer, poster runloop.Poster, opts Options) *Animator {
	a := &Animator{
		layer:    layer,
		poster:   poster,
		ttl:      opts.TTL,
		after:    opts.AfterFunc,
		now:      opts.Now,
		onChange: opts.OnChange,
	}
	if a.ttl <= 0 {
		a.ttl = DefaultTTL
	}
	if a.after == nil {
		a.after = realAfterFunc
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

func (a *Animator) Layer() *Layer { return a.layer }

// Draw adds one trace from origin to destination and arms its removal timer.
// It must be called from the run loop.
func (a *Animator) Draw(origin, destination Point, severity risk.Bucket) Trace {
	t := Trace{
		ID:          uuid.New(),
		Origin:      origin,
		Destination: destination,
		Severity:    severity,
		CreatedAt:   a.now(),
		TTL:         a.ttl,
	}
	if !a.layer.add(t) {
		return t
	}
	a.changed()

	id := t.ID
	a.after(a.ttl, func() {
		a.poster.Post(func() {
			if a.layer.Remove(id) {
				a.changed()
			}
		})
	})
	return t
}

func (a *Animator) changed() {
	if a.onChange != nil {
		a.onChange(a.layer.Len())
	}
}
