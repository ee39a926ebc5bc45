// Package config loads the radar's TOML configuration.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"aura-radar/internal/logger"
)

// Duration decodes TOML strings such as "1500ms" or "2s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Config struct {
	API      APIConfig      `toml:"api"`
	Poll     PollConfig     `toml:"poll"`
	Display  DisplayConfig  `toml:"display"`
	Trace    TraceConfig    `toml:"trace"`
	Buffers  BufferConfig   `toml:"buffers"`
	Observer ObserverConfig `toml:"observer"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Log      logger.Config  `toml:"log"`
}

type APIConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

// PollConfig holds the interval of each poller.
type PollConfig struct {
	Status    Duration `toml:"status"`
	Traffic   Duration `toml:"traffic"`
	Blocked   Duration `toml:"blocked"`
	Integrity Duration `toml:"integrity"`
}

type DisplayConfig struct {
	Theme          string  `toml:"theme"`
	RotationPeriod int     `toml:"rotation_period"` // seconds per revolution
	RefreshRate    int     `toml:"refresh_rate"`    // milliseconds between frames
	AspectRatio    float64 `toml:"aspect_ratio"`
}

type TraceConfig struct {
	TTL   Duration `toml:"ttl"`
	Style string   `toml:"style"` // curved, straight
}

type BufferConfig struct {
	Alerts    int `toml:"alerts"`
	Logs      int `toml:"logs"`
	Integrity int `toml:"integrity"` // 0 = unbounded
}

// ObserverConfig is where arcs start. If GeoIPDB and IP are set the origin is
// looked up at startup and Lat/Lon act as the fallback.
type ObserverConfig struct {
	Lat     float64 `toml:"lat"`
	Lon     float64 `toml:"lon"`
	IP      string  `toml:"ip"`
	GeoIPDB string  `toml:"geoip_db"`
}

type MetricsConfig struct {
	Listen string `toml:"listen"` // empty disables the listener
}

func Defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:5000",
			Timeout: Duration{10 * time.Second},
		},
		Poll: PollConfig{
			Status:    Duration{2000 * time.Millisecond},
			Traffic:   Duration{1500 * time.Millisecond},
			Blocked:   Duration{4000 * time.Millisecond},
			Integrity: Duration{5000 * time.Millisecond},
		},
		Display: DisplayConfig{
			Theme:          "default",
			RotationPeriod: 30,
			RefreshRate:    100,
			AspectRatio:    2.0,
		},
		Trace: TraceConfig{
			TTL:   Duration{2000 * time.Millisecond},
			Style: "curved",
		},
		Buffers: BufferConfig{
			Alerts:    40,
			Logs:      50,
			Integrity: 100,
		},
		Observer: ObserverConfig{
			Lat: 39.0997,
			Lon: -94.5786,
		},
		Log: logger.Config{
			Level: "info",
		},
	}
}

// Load reads path on top of Defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	return cfg, nil
}

// Validate applies the same bounds the command-line flags are documented with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout.Duration <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	intervals := []struct {
		name string
		d    time.Duration
	}{
		{"poll.status", c.Poll.Status.Duration},
		{"poll.traffic", c.Poll.Traffic.Duration},
		{"poll.blocked", c.Poll.Blocked.Duration},
		{"poll.integrity", c.Poll.Integrity.Duration},
	}
	for _, iv := range intervals {
		if iv.d < 100*time.Millisecond || iv.d > 300*time.Second {
			return fmt.Errorf("%s must be between 100ms and 300s, got %v", iv.name, iv.d)
		}
	}

	if c.Display.RotationPeriod < 10 || c.Display.RotationPeriod > 300 {
		return fmt.Errorf("display.rotation_period must be between 10 and 300 seconds")
	}
	if c.Display.RefreshRate < 50 || c.Display.RefreshRate > 1000 {
		return fmt.Errorf("display.refresh_rate must be between 50 and 1000 milliseconds")
	}
	if c.Display.AspectRatio < 1.0 || c.Display.AspectRatio > 4.0 {
		return fmt.Errorf("display.aspect_ratio must be between 1.0 and 4.0")
	}

	if c.Trace.TTL.Duration <= 0 {
		return fmt.Errorf("trace.ttl must be positive")
	}
	switch c.Trace.Style {
	case "curved", "straight":
	default:
		return fmt.Errorf("trace.style must be curved or straight, got %q", c.Trace.Style)
	}

	if c.Buffers.Alerts < 1 || c.Buffers.Logs < 1 {
		return fmt.Errorf("buffers.alerts and buffers.logs must be at least 1")
	}
	if c.Buffers.Integrity < 0 {
		return fmt.Errorf("buffers.integrity must not be negative")
	}

	if c.Observer.Lat < -90 || c.Observer.Lat > 90 || c.Observer.Lon < -180 || c.Observer.Lon > 180 {
		return fmt.Errorf("observer coordinates out of range: %v,%v", c.Observer.Lat, c.Observer.Lon)
	}

	return nil
}
