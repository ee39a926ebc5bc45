package demo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"aura-radar/internal/api"
)

const timestampLayout = "2006-01-02 15:04:05"

// debounce groups bursts of file events into one scan.
const debounce = 500 * time.Millisecond

// IntegritySource produces drift events for /integrity and /force_integrity.
type IntegritySource interface {
	// Drain returns and forgets every queued event.
	Drain() []api.IntegrityEvent
	// Force scans now. A nil event means no drift.
	Force() (*api.IntegrityEvent, error)
}

// eventQueue is the drain-on-read queue shared by both sources.
type eventQueue struct {
	mu     sync.Mutex
	events []api.IntegrityEvent
}

func (q *eventQueue) push(ev api.IntegrityEvent) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

func (q *eventQueue) Drain() []api.IntegrityEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	if out == nil {
		out = []api.IntegrityEvent{}
	}
	return out
}

// Monitor hashes every file under its directories and compares each scan to
// the baseline taken at start. The baseline is never updated, so drift keeps
// being reported until it is reverted; a new event is only queued when the
// drift differs from the previous scan.
type Monitor struct {
	eventQueue

	dirs     []string
	maxFiles int
	log      zerolog.Logger
	now      func() time.Time

	scanMu   sync.Mutex
	baseline map[string]string
	last     *api.IntegrityEvent
}

func NewMonitor(dirs []string, maxFiles int, log zerolog.Logger) *Monitor {
	return &Monitor{
		dirs:     dirs,
		maxFiles: maxFiles,
		log:      log.With().Str("component", "integrity").Logger(),
		now:      time.Now,
	}
}

// CreateBaseline records the current hashes as the reference state.
func (m *Monitor) CreateBaseline() error {
	snap, err := m.scan()
	if err != nil {
		return err
	}
	m.scanMu.Lock()
	m.baseline = snap
	m.last = nil
	m.scanMu.Unlock()
	m.log.Info().Int("files", len(snap)).Msg("Baseline created")
	return nil
}

// Detect scans and queues an event if the drift changed since the last scan.
func (m *Monitor) Detect() (*api.IntegrityEvent, error) {
	ev, err := m.diff()
	if err != nil {
		return nil, err
	}

	m.scanMu.Lock()
	defer m.scanMu.Unlock()
	if sameDrift(ev, m.last) {
		return ev, nil
	}
	m.last = ev
	if ev != nil {
		m.log.Info().Int("modified", len(ev.Modified)).Int("added", len(ev.Added)).
			Int("removed", len(ev.Removed)).Msg("Drift detected")
		m.push(*ev)
	}
	return ev, nil
}

// Force scans without queueing, so the caller sees the event exactly once.
func (m *Monitor) Force() (*api.IntegrityEvent, error) {
	ev, err := m.diff()
	if err != nil {
		return nil, err
	}
	m.scanMu.Lock()
	m.last = ev
	m.scanMu.Unlock()
	return ev, nil
}

func (m *Monitor) diff() (*api.IntegrityEvent, error) {
	current, err := m.scan()
	if err != nil {
		return nil, err
	}

	m.scanMu.Lock()
	baseline := m.baseline
	m.scanMu.Unlock()

	var modified, added, removed []string
	for path, old := range baseline {
		h, ok := current[path]
		switch {
		case !ok:
			removed = append(removed, path)
		case h != old:
			modified = append(modified, path)
		}
	}
	for path := range current {
		if _, ok := baseline[path]; !ok {
			added = append(added, path)
		}
	}

	if len(modified)+len(added)+len(removed) == 0 {
		return nil, nil
	}
	slices.Sort(modified)
	slices.Sort(added)
	slices.Sort(removed)

	return &api.IntegrityEvent{
		Timestamp:    m.now().Format(timestampLayout),
		Modified:     nonNil(modified),
		Added:        nonNil(added),
		Removed:      nonNil(removed),
		TotalChanges: len(modified) + len(added) + len(removed),
	}, nil
}

func (m *Monitor) scan() (map[string]string, error) {
	snap := make(map[string]string)
	for _, dir := range m.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir && !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if m.maxFiles > 0 && len(snap) >= m.maxFiles {
				return fs.SkipAll
			}
			if h, err := hashFile(path); err == nil {
				snap[path] = h
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
	}
	return snap, nil
}

// Run rescans on every interval and shortly after any file event under the
// watched directories.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range m.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err == nil && d.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			m.log.Warn().Err(err).Str("dir", dir).Msg("Watching directory failed, falling back to interval scans")
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	pending := time.NewTimer(debounce)
	pending.Stop()

	detect := func() {
		if _, err := m.Detect(); err != nil {
			m.log.Warn().Err(err).Msg("Integrity scan failed")
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			detect()
		case <-pending.C:
			detect()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = watcher.Add(ev.Name)
				}
			}
			pending.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.log.Warn().Err(err).Msg("Watcher error")
		}
	}
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sameDrift(a, b *api.IntegrityEvent) bool {
	if a == nil || b == nil {
		return a == b
	}
	return slices.Equal(a.Modified, b.Modified) &&
		slices.Equal(a.Added, b.Added) &&
		slices.Equal(a.Removed, b.Removed)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var syntheticPaths = []string{
	"/etc/passwd", "/etc/hosts", "/etc/ssh/sshd_config", "/usr/bin/sudo",
	"/var/www/html/index.php", "/opt/app/config.yaml", "/home/ops/.bashrc",
	"/usr/lib/systemd/system/cron.service", "/etc/crontab", "/tmp/.cache.sh",
}

// Synthetic invents drift events when there is no directory to watch.
type Synthetic struct {
	eventQueue

	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
}

func NewSynthetic(rng *rand.Rand) *Synthetic {
	return &Synthetic{rng: rng, now: time.Now}
}

// Emit queues one invented event.
func (s *Synthetic) Emit() {
	s.push(s.event())
}

// Force reports drift about half the time.
func (s *Synthetic) Force() (*api.IntegrityEvent, error) {
	s.rngMu.Lock()
	changed := s.rng.Intn(2) == 0
	s.rngMu.Unlock()
	if !changed {
		return nil, nil
	}
	ev := s.event()
	return &ev, nil
}

func (s *Synthetic) event() api.IntegrityEvent {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	pick := func(n int) []string {
		out := []string{}
		for i := 0; i < n; i++ {
			out = append(out, syntheticPaths[s.rng.Intn(len(syntheticPaths))])
		}
		return out
	}
	ev := api.IntegrityEvent{
		Timestamp: s.now().Format(timestampLayout),
		Modified:  pick(1 + s.rng.Intn(3)),
		Added:     pick(s.rng.Intn(2)),
		Removed:   pick(s.rng.Intn(2)),
	}
	ev.TotalChanges = len(ev.Modified) + len(ev.Added) + len(ev.Removed)
	return ev
}
