// Package demo is a stand-in for the detection backend. It serves the same
// five endpoints from generated traffic so the radar can be run and tested
// without packet capture.
package demo

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"aura-radar/internal/api"
	"aura-radar/internal/geo"
)

// DefaultLearningPeriod is how long the detector reports Learning after start.
const DefaultLearningPeriod = 15 * time.Second

type activity struct {
	count       int
	lastSeen    time.Time
	avgInterval float64 // seconds
}

// Detector scores addresses by how much faster they show up than their
// learned baseline. While learning it adapts the baseline.
type Detector struct {
	mu       sync.Mutex
	started  time.Time
	period   time.Duration
	learning bool
	seen     map[string]*activity
	rng      *rand.Rand
	now      func() time.Time
}

func NewDetector(period time.Duration, rng *rand.Rand, now func() time.Time) *Detector {
	if now == nil {
		now = time.Now
	}
	return &Detector{
		started:  now(),
		period:   period,
		learning: true,
		seen:     make(map[string]*activity),
		rng:      rng,
		now:      now,
	}
}

func (d *Detector) Status() api.StatusSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.updateMode()
	if d.learning {
		remaining := int((d.period - d.now().Sub(d.started)) / time.Second)
		if remaining < 0 {
			remaining = 0
		}
		return api.StatusSnapshot{Mode: api.ModeLearning, TimeRemaining: remaining}
	}
	return api.StatusSnapshot{Mode: api.ModeMonitoring}
}

func (d *Detector) updateMode() {
	if d.learning && d.now().Sub(d.started) > d.period {
		d.learning = false
	}
}

// Score returns the behavioural score for one sighting of ip, in [0,1].
func (d *Detector) Score(ip string) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.updateMode()
	now := d.now()

	a, ok := d.seen[ip]
	if !ok {
		a = &activity{lastSeen: now, avgInterval: 0.5 + d.rng.Float64()*2.5}
		d.seen[ip] = a
	}
	interval := now.Sub(a.lastSeen).Seconds()
	a.lastSeen = now
	a.count++

	// Shorter gaps than the baseline raise the score.
	deviation := math.Max(0, (a.avgInterval-interval)/a.avgInterval)
	score := deviation * (0.6 + d.rng.Float64()*0.4)
	if interval < 0.3 {
		score += 0.3
	}
	score = math.Min(1, score+d.rng.Float64()*0.2)

	if d.learning {
		a.avgInterval = (a.avgInterval + interval) / 2
	}
	return round2(score)
}

var (
	highRiskPrefixes = []string{"45.", "185.", "103.", "198.", "156."}
	medRiskPrefixes  = []string{"13.", "20.", "34.", "52.", "104.", "40.", "23."}
)

// Reputation is a prefix heuristic standing in for threat intelligence feeds.
func Reputation(ip string) float64 {
	if geo.IsPrivateString(ip) {
		return 0
	}
	bucket := float64(hashIP(ip)%10) / 10
	for _, p := range highRiskPrefixes {
		if strings.HasPrefix(ip, p) {
			return round2(0.75 + 0.2*bucket)
		}
	}
	for _, p := range medRiskPrefixes {
		if strings.HasPrefix(ip, p) {
			return round2(0.2 + 0.3*bucket)
		}
	}
	return round2(0.02 * bucket)
}

func hashIP(ip string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ip))
	return h.Sum32()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
