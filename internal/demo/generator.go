package demo

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"aura-radar/internal/api"
	"aura-radar/internal/geo"
	"aura-radar/internal/risk"
)

// Locator resolves an address to a location. *geo.Locator satisfies it.
type Locator interface {
	Locate(ip string) (geo.Location, error)
}

type place struct {
	country  string
	lat, lon float64
}

// places stands in for a GeoIP database.
var places = []place{
	{"United States", 37.7749, -122.4194},
	{"United States", 40.7128, -74.0060},
	{"Brazil", -23.5505, -46.6333},
	{"United Kingdom", 51.5074, -0.1278},
	{"Germany", 50.1109, 8.6821},
	{"Netherlands", 52.3676, 4.9041},
	{"Russia", 55.7558, 37.6173},
	{"Nigeria", 6.5244, 3.3792},
	{"South Africa", -26.2041, 28.0473},
	{"India", 19.0760, 72.8777},
	{"China", 31.2304, 121.4737},
	{"Singapore", 1.3521, 103.8198},
	{"Japan", 35.6762, 139.6503},
	{"Australia", -33.8688, 151.2093},
	{"Vietnam", 21.0278, 105.8342},
	{"Iran", 35.6892, 51.3890},
	{"Ukraine", 50.4501, 30.5234},
	{"Canada", 43.6532, -79.3832},
}

// recentPool is how many addresses are kept for repeat sightings.
const recentPool = 16

// Generator invents connections, scores them and queues them for /traffic.
type Generator struct {
	mu       sync.Mutex
	rng      *rand.Rand
	detector *Detector
	firewall *Firewall
	locator  Locator
	localIP  string

	recent []string
	queue  []api.ConnectionRecord
}

// NewGenerator returns a generator. A nil locator places addresses in a fixed
// set of cities.
func NewGenerator(rng *rand.Rand, detector *Detector, firewall *Firewall, locator Locator) *Generator {
	return &Generator{
		rng:      rng,
		detector: detector,
		firewall: firewall,
		locator:  locator,
		localIP:  "192.168.1.20",
	}
}

// Generate creates one connection, queues it and returns it.
func (g *Generator) Generate() api.ConnectionRecord {
	g.mu.Lock()
	external := g.pickAddress()
	outbound := g.rng.Intn(2) == 0
	g.mu.Unlock()

	rec := g.observe(external, outbound)

	g.mu.Lock()
	g.queue = append(g.queue, rec)
	g.mu.Unlock()
	return rec
}

// observe scores and locates one sighting of external.
func (g *Generator) observe(external string, outbound bool) api.ConnectionRecord {
	src, dst := external, g.localIP
	if outbound {
		src, dst = g.localIP, external
	}

	score := math.Min(1, round2(Reputation(external)+g.detector.Score(external)))
	blocked := score >= risk.HighRiskThreshold
	if blocked {
		g.firewall.Block(external)
	}

	rec := api.ConnectionRecord{
		SrcIP:      src,
		DstIP:      dst,
		ExternalIP: external,
		Score:      score,
		Country:    "Unknown",
		Blocked:    blocked,
	}

	if g.locator != nil {
		if loc, err := g.locator.Locate(external); err == nil {
			rec.Country = loc.Country
			rec.Lat = api.Float(loc.Latitude)
			rec.Lon = api.Float(loc.Longitude)
		}
		return rec
	}

	g.mu.Lock()
	p := places[g.rng.Intn(len(places))]
	g.mu.Unlock()
	rec.Country = p.country
	rec.Lat = api.Float(p.lat)
	rec.Lon = api.Float(p.lon)
	return rec
}

// Drain returns and forgets the queued connections.
func (g *Generator) Drain() []api.ConnectionRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := g.queue
	g.queue = nil
	if out == nil {
		out = []api.ConnectionRecord{}
	}
	return out
}

// pickAddress mostly invents new public addresses, sometimes one from a
// high-risk range, and sometimes repeats a recent one so bursts happen.
func (g *Generator) pickAddress() string {
	if len(g.recent) > 0 && g.rng.Float64() < 0.3 {
		return g.recent[g.rng.Intn(len(g.recent))]
	}

	var ip string
	for {
		if g.rng.Float64() < 0.2 {
			prefix := highRiskPrefixes[g.rng.Intn(len(highRiskPrefixes))]
			ip = fmt.Sprintf("%s%d.%d.%d", prefix, g.rng.Intn(256), g.rng.Intn(256), 1+g.rng.Intn(254))
		} else {
			ip = generateRandomIP(g.rng)
		}
		if !geo.IsPrivateString(ip) {
			break
		}
	}

	g.recent = append(g.recent, ip)
	if len(g.recent) > recentPool {
		g.recent = g.recent[1:]
	}
	return ip
}

func generateRandomIP(rng *rand.Rand) string {
	return fmt.Sprintf("%d.%d.%d.%d",
		1+rng.Intn(223), rng.Intn(256), rng.Intn(256), 1+rng.Intn(254))
}
