package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"aura-radar/internal/api"
	"aura-radar/internal/config"
	"aura-radar/internal/dashboard"
	"aura-radar/internal/geo"
	"aura-radar/internal/globe"
	"aura-radar/internal/logger"
	"aura-radar/internal/metrics"
	"aura-radar/internal/poller"
	"aura-radar/internal/runloop"
	"aura-radar/internal/trace"
	"aura-radar/internal/tui"
)

// loopBacklog is how many render tasks may queue before pollers block.
const loopBacklog = 256

type watchOptions struct {
	commonOptions

	rotationPeriod int
	refreshRate    int
	aspectRatio    float64
	monochrome     bool
	theme          string
	arcs           string
	trailMS        int
	pollInterval   time.Duration
	metricsListen  string
	geoIPDB        string
	observerIP     string
}

func (o *watchOptions) bind(cmd *cobra.Command) {
	o.commonOptions.bind(cmd)

	f := cmd.Flags()
	f.IntVarP(&o.rotationPeriod, "rotation", "s", 30, "globe rotation period in seconds")
	f.IntVarP(&o.refreshRate, "refresh", "r", 100, "screen refresh rate in milliseconds")
	f.Float64VarP(&o.aspectRatio, "aspect", "a", 2.0, "character aspect ratio")
	f.BoolVarP(&o.monochrome, "mono", "m", false, "monochrome mode")
	f.StringVar(&o.theme, "theme", "default", "theme: default|amber|mono")
	f.StringVar(&o.arcs, "arcs", "curved", "arc style: curved|straight")
	f.IntVar(&o.trailMS, "trail-ms", 2000, "how long each connection arc stays, in milliseconds")
	f.DurationVarP(&o.pollInterval, "poll", "p", 1500*time.Millisecond, "traffic polling interval")
	f.StringVar(&o.metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address")
	f.StringVar(&o.geoIPDB, "geoip-db", "", "GeoLite2 City database used to place the observer")
	f.StringVar(&o.observerIP, "observer-ip", "", "public address of this host, located with --geoip-db")
}

func (o *watchOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	o.commonOptions.apply(cmd, cfg)

	f := cmd.Flags()
	if f.Changed("rotation") {
		cfg.Display.RotationPeriod = o.rotationPeriod
	}
	if f.Changed("refresh") {
		cfg.Display.RefreshRate = o.refreshRate
	}
	if f.Changed("aspect") {
		cfg.Display.AspectRatio = o.aspectRatio
	}
	if f.Changed("theme") {
		cfg.Display.Theme = o.theme
	}
	if o.monochrome {
		cfg.Display.Theme = "mono"
	}
	if f.Changed("arcs") {
		cfg.Trace.Style = o.arcs
	}
	if f.Changed("trail-ms") {
		cfg.Trace.TTL = config.Duration{Duration: time.Duration(o.trailMS) * time.Millisecond}
	}
	if f.Changed("poll") {
		cfg.Poll.Traffic = config.Duration{Duration: o.pollInterval}
	}
	if f.Changed("metrics-listen") {
		cfg.Metrics.Listen = o.metricsListen
	}
	if f.Changed("geoip-db") {
		cfg.Observer.GeoIPDB = o.geoIPDB
	}
	if f.Changed("observer-ip") {
		cfg.Observer.IP = o.observerIP
	}
}

func newWatchCmd() *cobra.Command {
	opts := &watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the live radar (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions) error {
	cfg, err := loadConfig(func(c *config.Config) { opts.apply(cmd, c) })
	if err != nil {
		return err
	}

	closer, err := logger.Init(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logger.WithComponent("watch")
	log.Info().Str("url", cfg.API.BaseURL).Msg("aura-radar starting")

	theme, err := tui.ThemeByName(cfg.Display.Theme)
	if err != nil {
		return err
	}
	origin := resolveOrigin(cfg.Observer, log)

	m := metrics.New()
	board := dashboard.NewBoard(dashboard.Options{
		AlertCapacity:     cfg.Buffers.Alerts,
		LogCapacity:       cfg.Buffers.Logs,
		IntegrityCapacity: cfg.Buffers.Integrity,
		OnEvict:           m.Evicted,
	})
	loop := runloop.New(loopBacklog)
	layer := trace.NewLayer()
	defer layer.Close()
	animator := trace.NewAnimator(layer, loop, trace.Options{
		TTL:      cfg.Trace.TTL.Duration,
		OnChange: m.SetActiveTraces,
	})

	client := api.NewClient(api.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout.Duration})
	deps := poller.Deps{Board: board, Poster: loop, Logger: log, Metrics: m}
	integrity := poller.NewIntegrityPoller(client, deps)

	sched := poller.NewScheduler(loop, log,
		poller.Job{Poller: poller.NewStatusPoller(client, deps), Interval: cfg.Poll.Status.Duration},
		poller.Job{Poller: poller.NewTrafficPoller(client, animator, origin, deps), Interval: cfg.Poll.Traffic.Duration},
		poller.Job{Poller: poller.NewBlockedPoller(client, deps), Interval: cfg.Poll.Blocked.Duration},
		poller.Job{Poller: integrity, Interval: cfg.Poll.Integrity.Duration},
	)

	screen, err := tui.Open()
	if err != nil {
		return fmt.Errorf("initialising terminal: %w", err)
	}
	defer screen.Fini()

	ui := tui.New(screen, loop, board, layer, tui.Options{
		Theme:          theme,
		RotationPeriod: time.Duration(cfg.Display.RotationPeriod) * time.Second,
		RefreshRate:    time.Duration(cfg.Display.RefreshRate) * time.Millisecond,
		AspectRatio:    cfg.Display.AspectRatio,
		ArcStyle:       globe.ArcStyle(cfg.Trace.Style),
		Origin:         origin,
		ForceScan:      integrity.ForceScan,
	}, log)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(ctx)
	})
	g.Go(func() error {
		// Quitting the UI stops everything else.
		defer cancel()
		return ui.Run(ctx)
	})
	if cfg.Metrics.Listen != "" {
		g.Go(func() error {
			log.Info().Str("addr", cfg.Metrics.Listen).Msg("Serving metrics")
			return m.Serve(ctx, cfg.Metrics.Listen)
		})
	}

	err = g.Wait()
	log.Info().Msg("aura-radar stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// resolveOrigin locates the observer through GeoIP when configured, falling
// back to the configured coordinates.
func resolveOrigin(obs config.ObserverConfig, log zerolog.Logger) trace.Point {
	fallback := trace.Point{Lat: obs.Lat, Lon: obs.Lon}
	if obs.GeoIPDB == "" || obs.IP == "" {
		return fallback
	}

	locator, err := geo.Open(obs.GeoIPDB)
	if err != nil {
		log.Warn().Err(err).Msg("GeoIP database unavailable, using configured observer location")
		return fallback
	}
	defer locator.Close()

	loc, err := locator.Locate(obs.IP)
	if err != nil {
		log.Warn().Err(err).Str("ip", obs.IP).Msg("Cannot locate observer, using configured location")
		return fallback
	}
	log.Info().Str("city", loc.City).Str("country", loc.Country).Msg("Observer located")
	return trace.Point{Lat: loc.Latitude, Lon: loc.Longitude}
}
