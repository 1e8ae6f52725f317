package cmd

import (
	"fmt"

	"github.com/midiaops/painel/internal/auth"
	"github.com/midiaops/painel/internal/config"
	"github.com/midiaops/painel/internal/dash"
	"github.com/midiaops/painel/internal/export"
	"github.com/midiaops/painel/internal/logging"
	"github.com/midiaops/painel/internal/pipeline"
	"github.com/midiaops/painel/internal/report"
	"github.com/midiaops/painel/internal/source"
)

// runtime bundles everything a subcommand needs: the configured session,
// the exporter and the logger to close on exit.
type runtime struct {
	cfg      *config.Config
	session  *dash.Session
	exporter *export.Exporter
	log      *logging.Logger
	cache    *source.CachedSource
}

// close releases the file watcher and log file.
func (r *runtime) close() {
	if r.cache != nil {
		_ = r.cache.Close()
	}
	if r.log != nil {
		_ = r.log.Close()
	}
}

// newLogger builds the logger from the logging config. Disabled logging
// yields a no-op logger so call sites stay unconditional.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.New(cfg.LogFile(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}

// newSource builds the configured fetch strategy.
func newSource(cfg *config.Config, log *logging.Logger) (source.Source, error) {
	switch cfg.Source.Mode {
	case config.SourceModeFile:
		return source.NewFileSource(cfg.Source.Path, cfg.Source.Sheet, log), nil
	case config.SourceModeRemote:
		tokens, err := auth.NewClientCredentials(
			cfg.Auth.TenantID,
			cfg.Auth.ClientID,
			cfg.Auth.ClientSecret,
			cfg.Auth.Scope,
			auth.WithTimeout(cfg.Fetch.Timeout()),
		)
		if err != nil {
			return nil, err
		}
		return source.NewGraphSource(
			cfg.Source.DriveUser,
			cfg.Source.FileID,
			cfg.Source.Sheet,
			tokens,
			log,
			source.WithFetchTimeout(cfg.Fetch.Timeout()),
			source.WithAuthRetry(cfg.Fetch.RetryOnAuthFailure),
		)
	default:
		return nil, fmt.Errorf("unknown source mode %q", cfg.Source.Mode)
	}
}

// newRuntime loads the configuration and assembles the session.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	src, err := newSource(cfg, log)
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	cache := source.NewCachedSource(src, cfg.Cache.TTL(), log)
	if cfg.Source.Mode == config.SourceModeFile && cfg.Cache.WatchLocal {
		if err := cache.Watch(cfg.Source.Path); err != nil {
			log.Warn("workbook watch unavailable", "error", err.Error())
		}
	}

	builder := pipeline.NewBuilder(cfg.Columns, cfg.Classify, log)
	engine := report.NewEngine(cfg.Columns)

	return &runtime{
		cfg:      cfg,
		session:  dash.NewSession(cache, builder, engine, log),
		exporter: export.NewExporter(builder.Classifier(), log),
		log:      log,
		cache:    cache,
	}, nil
}
