package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"aura-radar/internal/runloop"
)

// Job pairs a poller with its interval.
type Job struct {
	Poller   Poller
	Interval time.Duration
}

// Scheduler runs every job on its own ticker, plus the run loop that applies
// their results.
type Scheduler struct {
	loop *runloop.Loop
	jobs []Job
	log  zerolog.Logger
}

func NewScheduler(loop *runloop.Loop, log zerolog.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{
		loop: loop,
		jobs: jobs,
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Run blocks until ctx is canceled. The first tick of every job fires immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if s.loop != nil {
		g.Go(func() error {
			return s.loop.Run(ctx)
		})
	}

	for _, job := range s.jobs {
		job := job
		g.Go(func() error {
			s.runJob(ctx, job)
			return nil
		})
	}

	return g.Wait()
}

// runJob does not wait for a slow tick before starting the next one, so ticks
// of one poller may overlap.
func (s *Scheduler) runJob(ctx context.Context, job Job) {
	name := job.Poller.Name()
	s.log.Debug().Str("poller", name).Dur("interval", job.Interval).Msg("Starting poller")

	var inflight sync.WaitGroup
	defer inflight.Wait()

	tick := func() {
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			if err := job.Poller.Tick(ctx); err != nil {
				s.log.Debug().Str("poller", name).Err(err).Msg("Tick failed")
			}
		}()
	}

	tick()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug().Str("poller", name).Msg("Stopping poller")
			return
		case <-ticker.C:
			tick()
		}
	}
}
