package dashboard

import (
	"time"

	"aura-radar/internal/logview"
	"aura-radar/internal/risk"
)

const (
	RegionStatus    = "status"
	RegionAlerts    = "alerts"
	RegionLogs      = "logs"
	RegionBlocked   = "blocked"
	RegionIntegrity = "integrity"
)

type EntryKind int

const (
	KindAlert EntryKind = iota
	KindLog
	KindBlocked
	KindIntegrity
)

// Entry is one rendered item of a list region.
type Entry struct {
	At      time.Time
	Kind    EntryKind
	Bucket  risk.Bucket
	Title   string
	Details []string
}

// Lines is the number of screen rows the entry needs.
func (e Entry) Lines() int {
	return 1 + len(e.Details)
}

// Region is a named list panel. Every mutation bumps its version so the
// screen knows to redraw.
type Region struct {
	name    string
	log     *logview.Log[Entry]
	version uint64
}

func newRegion(name string, capacity int, onEvict func(string)) *Region {
	r := &Region{
		name: name,
		log:  logview.New[Entry](capacity),
	}
	if onEvict != nil {
		r.log.OnEvict(func(Entry) { onEvict(name) })
	}
	return r
}

func (r *Region) Name() string { return r.name }

func (r *Region) Insert(e Entry) {
	r.log.Insert(e)
	r.version++
}

func (r *Region) Replace(entries []Entry) {
	r.log.Replace(entries)
	r.version++
}

// Entries returns the region newest first.
func (r *Region) Entries() []Entry {
	return r.log.Entries()
}

func (r *Region) Len() int { return r.log.Len() }

func (r *Region) Cap() int { return r.log.Cap() }

func (r *Region) Evicted() uint64 { return r.log.Evicted() }

func (r *Region) Version() uint64 { return r.version }

// Titles is a shorthand used by the text surface and tests.
func (r *Region) Titles() []string {
	entries := r.log.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}

type StatusState int

const (
	StatusPending StatusState = iota
	StatusLearning
	StatusMonitoring
	StatusError
)

// Status is the single-line projection of the latest /status fetch.
type Status struct {
	State StatusState
	Text  string
}

// StatusRegion only ever holds the most recent status; earlier ones are dropped.
type StatusRegion struct {
	current Status
	version uint64
}

func (s *StatusRegion) set(st Status) {
	s.current = st
	s.version++
}

func (s *StatusRegion) touch() {
	s.version++
}

func (s *StatusRegion) Current() Status {
	if s.current.Text == "" {
		return Status{State: StatusPending, Text: "Connecting..."}
	}
	return s.current
}

func (s *StatusRegion) Version() uint64 { return s.version }
