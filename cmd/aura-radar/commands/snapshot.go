package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"aura-radar/internal/api"
	"aura-radar/internal/config"
	"aura-radar/internal/dashboard"
	"aura-radar/internal/logger"
	"aura-radar/internal/poller"
	"aura-radar/internal/runloop"
	"aura-radar/internal/textview"
	"aura-radar/internal/trace"
)

type snapshotOptions struct {
	commonOptions
	noColor bool
	verbose bool
}

func newSnapshotCmd() *cobra.Command {
	opts := &snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch every endpoint once and print the panels as text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd, opts)
		},
	}
	opts.bind(cmd)
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable coloured output")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log fetches to stderr")
	return cmd
}

func runSnapshot(cmd *cobra.Command, opts *snapshotOptions) error {
	cfg, err := loadConfig(func(c *config.Config) {
		opts.apply(cmd, c)
		if opts.verbose {
			c.Log.Stderr = true
		}
	})
	if err != nil {
		return err
	}

	closer, err := logger.Init(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logger.WithComponent("snapshot")

	board := dashboard.NewBoard(dashboard.Options{
		AlertCapacity:     cfg.Buffers.Alerts,
		LogCapacity:       cfg.Buffers.Logs,
		IntegrityCapacity: cfg.Buffers.Integrity,
	})
	client := api.NewClient(api.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout.Duration})

	// Without a render thread the results are applied inline.
	deps := poller.Deps{Board: board, Poster: runloop.Immediate{}, Logger: log}
	origin := trace.Point{Lat: cfg.Observer.Lat, Lon: cfg.Observer.Lon}
	pollers := []poller.Poller{
		poller.NewStatusPoller(client, deps),
		poller.NewTrafficPoller(client, nil, origin, deps),
		poller.NewBlockedPoller(client, deps),
		poller.NewIntegrityPoller(client, deps),
	}

	ctx := commandContext(cmd)

	failed := 0
	for _, p := range pollers {
		if err := p.Tick(ctx); err != nil {
			failed++
			log.Warn().Str("poller", p.Name()).Err(err).Msg("Fetch failed")
		}
	}

	if err := textview.New(cmd.OutOrStdout(), opts.noColor).Board(board); err != nil {
		return err
	}

	if failed == len(pollers) {
		return fmt.Errorf("all %d endpoints failed at %s", failed, cfg.API.BaseURL)
	}
	return nil
}
