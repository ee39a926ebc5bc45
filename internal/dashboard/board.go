// Package dashboard holds the rendered regions of the radar: the status line,
// the four list panels and the tab control choosing which panel is visible.
//
// A Board is owned by the run loop. Nothing here locks.
package dashboard

import (
	"time"

	"aura-radar/internal/api"
	"aura-radar/internal/risk"
)

const (
	DefaultAlertCapacity     = 40
	DefaultLogCapacity       = 50
	DefaultIntegrityCapacity = 100
)

type Options struct {
	AlertCapacity     int
	LogCapacity       int
	IntegrityCapacity int // 0 keeps every integrity entry

	// OnEvict is told which region dropped an entry.
	OnEvict func(region string)
}

func DefaultOptions() Options {
	return Options{
		AlertCapacity:     DefaultAlertCapacity,
		LogCapacity:       DefaultLogCapacity,
		IntegrityCapacity: DefaultIntegrityCapacity,
	}
}

type Board struct {
	Status    *StatusRegion
	Alerts    *Region
	Logs      *Region
	Blocked   *Region
	Integrity *Region
	Tabs      *Tabs

	flash   string
	flashAt time.Time

	now func() time.Time
}

func NewBoard(opts Options) *Board {
	b := &Board{
		Status:    &StatusRegion{},
		Alerts:    newRegion(RegionAlerts, opts.AlertCapacity, opts.OnEvict),
		Logs:      newRegion(RegionLogs, opts.LogCapacity, opts.OnEvict),
		Blocked:   newRegion(RegionBlocked, 0, opts.OnEvict),
		Integrity: newRegion(RegionIntegrity, opts.IntegrityCapacity, opts.OnEvict),
		Tabs:      NewTabs(),
		now:       time.Now,
	}
	return b
}

// SetClock replaces the time source used to stamp entries.
func (b *Board) SetClock(now func() time.Time) {
	b.now = now
}

// SetStatus overwrites the status line with the projection of one fetch.
func (b *Board) SetStatus(res api.Result[api.StatusSnapshot]) {
	b.Status.set(StatusFromResult(res))
}

// AddConnection routes a classified record to the alerts or logs region.
func (b *Board) AddConnection(rec api.ConnectionRecord, bucket risk.Bucket) {
	entry := ConnectionEntry(rec, bucket, b.now())
	if bucket == risk.HighRisk {
		b.Alerts.Insert(entry)
		return
	}
	b.Logs.Insert(entry)
}

// ReplaceBlocked swaps the block-list region for a new snapshot.
func (b *Board) ReplaceBlocked(ips []string) {
	entries := make([]Entry, 0, len(ips))
	for _, ip := range ips {
		entries = append(entries, BlockedEntry(ip))
	}
	b.Blocked.Replace(entries)
}

// AddIntegrity prepends a drift summary to the integrity region.
func (b *Board) AddIntegrity(ev api.IntegrityEvent) {
	b.Integrity.Insert(IntegrityEntry(ev, b.now()))
}

// Flash shows a transient one-line notice under the status line.
func (b *Board) Flash(msg string) {
	b.flash = msg
	b.flashAt = b.now()
	b.Status.touch()
}

// FlashText returns the current notice, or "" once it is older than ttl.
func (b *Board) FlashText(ttl time.Duration) string {
	if b.flash == "" || b.now().Sub(b.flashAt) > ttl {
		return ""
	}
	return b.flash
}

// ActiveRegion returns the list region selected by the tab control.
func (b *Board) ActiveRegion() *Region {
	switch b.Tabs.Active() {
	case TabLogs:
		return b.Logs
	case TabBlocked:
		return b.Blocked
	case TabIntegrity:
		return b.Integrity
	default:
		return b.Alerts
	}
}

// Version changes whenever anything visible on the board changes.
func (b *Board) Version() uint64 {
	return b.Status.Version() + b.Alerts.Version() + b.Logs.Version() +
		b.Blocked.Version() + b.Integrity.Version() + b.Tabs.Version()
}
