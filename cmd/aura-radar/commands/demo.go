package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"aura-radar/internal/demo"
	"aura-radar/internal/geo"
	"aura-radar/internal/logger"
)

type demoOptions struct {
	listen            string
	learningPeriod    time.Duration
	trafficInterval   time.Duration
	integrityInterval time.Duration
	watchDirs         []string
	maxFiles          int
	seed              int64
	geoIPDB           string
	logLevel          string
}

func newDemoBackendCmd() *cobra.Command {
	defaults := demo.DefaultOptions()
	opts := &demoOptions{}

	cmd := &cobra.Command{
		Use:   "demo-backend",
		Short: "Serve generated traffic on the backend endpoints",
		Long: "demo-backend stands in for the AURA detection service. It generates scored connections, " +
			"blocks the high-risk ones and reports file integrity drift, either for real directories " +
			"(--watch) or invented paths.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemoBackend(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.listen, "listen", defaults.Listen, "address to serve on")
	f.DurationVar(&opts.learningPeriod, "learning-period", defaults.LearningPeriod, "how long status reports Learning")
	f.DurationVar(&opts.trafficInterval, "traffic-interval", defaults.TrafficInterval, "time between generated connections")
	f.DurationVar(&opts.integrityInterval, "integrity-interval", defaults.IntegrityInterval, "time between integrity scans")
	f.StringSliceVar(&opts.watchDirs, "watch", nil, "directories to monitor for file drift")
	f.IntVar(&opts.maxFiles, "max-files", 20000, "cap on files hashed per scan (0 = unlimited)")
	f.Int64Var(&opts.seed, "seed", defaults.Seed, "random seed for generated traffic")
	f.StringVar(&opts.geoIPDB, "geoip-db", "", "GeoLite2 City database used to place generated addresses")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	return cmd
}

func runDemoBackend(cmd *cobra.Command, opts *demoOptions) error {
	closer, err := logger.Init(logger.Config{Level: opts.logLevel, Stderr: true})
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logger.WithComponent("demo-backend")

	srvOpts := demo.Options{
		Listen:            opts.listen,
		LearningPeriod:    opts.learningPeriod,
		TrafficInterval:   opts.trafficInterval,
		IntegrityInterval: opts.integrityInterval,
		WatchDirs:         opts.watchDirs,
		MaxFiles:          opts.maxFiles,
		Seed:              opts.seed,
	}

	if opts.geoIPDB != "" {
		locator, err := geo.Open(opts.geoIPDB)
		if err != nil {
			return err
		}
		defer locator.Close()
		srvOpts.Locator = locator
		log.Info().Str("db", opts.geoIPDB).Msg("GeoLite2 database loaded")
	}

	srv, err := demo.NewServer(srvOpts, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
