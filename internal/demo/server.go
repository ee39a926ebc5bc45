package demo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"aura-radar/internal/api"
)

type Options struct {
	Listen            string
	LearningPeriod    time.Duration
	TrafficInterval   time.Duration // between generated connections
	IntegrityInterval time.Duration
	WatchDirs         []string // empty means synthetic drift events
	MaxFiles          int
	Seed              int64
	Locator           Locator
}

func DefaultOptions() Options {
	return Options{
		Listen:            ":5000",
		LearningPeriod:    DefaultLearningPeriod,
		TrafficInterval:   400 * time.Millisecond,
		IntegrityInterval: 30 * time.Second,
		Seed:              time.Now().UnixNano(),
	}
}

// Server serves the backend endpoints from generated data.
type Server struct {
	opts Options
	log  zerolog.Logger

	detector  *Detector
	firewall  *Firewall
	generator *Generator
	integrity IntegritySource
	monitor   *Monitor
	synthetic *Synthetic

	rng *rand.Rand
}

func NewServer(opts Options, log zerolog.Logger) (*Server, error) {
	if opts.TrafficInterval <= 0 {
		opts.TrafficInterval = DefaultOptions().TrafficInterval
	}
	if opts.IntegrityInterval <= 0 {
		opts.IntegrityInterval = DefaultOptions().IntegrityInterval
	}

	// Each consumer gets its own source; *rand.Rand is not safe for concurrent use.
	seeds := rand.New(rand.NewSource(opts.Seed))
	newRand := func() *rand.Rand { return rand.New(rand.NewSource(seeds.Int63())) }

	s := &Server{
		opts:     opts,
		log:      log.With().Str("component", "demo").Logger(),
		firewall: NewFirewall(),
		rng:      newRand(),
	}
	s.detector = NewDetector(opts.LearningPeriod, newRand(), nil)
	s.generator = NewGenerator(newRand(), s.detector, s.firewall, opts.Locator)

	if len(opts.WatchDirs) > 0 {
		s.monitor = NewMonitor(opts.WatchDirs, opts.MaxFiles, log)
		if err := s.monitor.CreateBaseline(); err != nil {
			return nil, fmt.Errorf("creating integrity baseline: %w", err)
		}
		s.integrity = s.monitor
	} else {
		s.synthetic = NewSynthetic(newRand())
		s.integrity = s.synthetic
	}

	return s, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+api.EndpointStatus, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.detector.Status())
	})
	mux.HandleFunc("GET "+api.EndpointTraffic, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.generator.Drain())
	})
	mux.HandleFunc("GET "+api.EndpointBlocked, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.firewall.List())
	})
	mux.HandleFunc("GET "+api.EndpointIntegrity, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.integrity.Drain())
	})
	mux.HandleFunc("GET "+api.EndpointForceIntegrity, func(w http.ResponseWriter, r *http.Request) {
		ev, err := s.integrity.Force()
		if err != nil {
			s.log.Error().Err(err).Msg("Forced scan failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp := api.ForceScanResponse{Status: "ok"}
		if ev != nil {
			resp = api.ForceScanResponse{Status: "changed", Event: ev}
		}
		writeJSON(w, http.StatusOK, resp)
	})
	return logging(s.log)(mux)
}

// Run serves on opts.Listen and generates data until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.opts.Listen, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("Demo backend listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		s.generate(ctx)
		return nil
	})

	if s.monitor != nil {
		g.Go(func() error {
			return s.monitor.Run(ctx, s.opts.IntegrityInterval)
		})
	} else {
		g.Go(func() error {
			s.emitSynthetic(ctx)
			return nil
		})
	}

	return g.Wait()
}

func (s *Server) generate(ctx context.Context) {
	ticker := time.NewTicker(s.opts.TrafficInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rec := s.generator.Generate()
			s.log.Debug().Str("ip", rec.ExternalIP).Float64("score", rec.Score).
				Bool("blocked", rec.Blocked).Msg("Generated connection")
		}
	}
}

func (s *Server) emitSynthetic(ctx context.Context) {
	ticker := time.NewTicker(s.opts.IntegrityInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Not every interval finds drift.
			if s.rng.Intn(3) == 0 {
				s.synthetic.Emit()
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func logging(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug().Str("method", r.Method).Str("path", r.URL.Path).
				Dur("took", time.Since(start)).Msg("Request")
		})
	}
}
