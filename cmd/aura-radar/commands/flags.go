package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"aura-radar/internal/config"
)

// commonOptions are the flags every backend-facing command accepts. A flag
// only overrides the config file when it was given explicitly.
type commonOptions struct {
	baseURL   string
	timeout   time.Duration
	debugFile string
	logLevel  string
}

func (o *commonOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.baseURL, "url", "u", "", "base URL of the AURA backend (default http://127.0.0.1:5000)")
	f.DurationVar(&o.timeout, "timeout", 0, "per-request timeout (default 10s)")
	f.StringVarP(&o.debugFile, "debug-file", "d", "", "debug log filename")
	f.StringVar(&o.logLevel, "log-level", "", "log level: debug|info|warn|error")
}

func (o *commonOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("url") {
		cfg.API.BaseURL = o.baseURL
	}
	if f.Changed("timeout") {
		cfg.API.Timeout = config.Duration{Duration: o.timeout}
	}
	if f.Changed("debug-file") {
		cfg.Log.File = o.debugFile
		if cfg.Log.Level == "" || cfg.Log.Level == "info" {
			cfg.Log.Level = "debug"
		}
	}
	if f.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
}

// loadConfig reads --config and validates the result after apply has run.
func loadConfig(apply func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
