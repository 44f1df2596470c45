package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vk/paramgrid/internal/config"
	"github.com/vk/paramgrid/internal/ctxlog"
	"github.com/vk/paramgrid/internal/declare"
	"github.com/vk/paramgrid/internal/descriptor"
	"github.com/vk/paramgrid/internal/hcl"
	"github.com/vk/paramgrid/internal/inmemorystore"
	"github.com/vk/paramgrid/internal/instance"
	"github.com/vk/paramgrid/internal/livesync"
	"github.com/vk/paramgrid/internal/metrics"
	"github.com/vk/paramgrid/internal/propstore"
	"github.com/vk/paramgrid/internal/sqlitestore"
	"github.com/vk/paramgrid/internal/yamlloader"
)

// App owns the store and both registries of one process.
type App struct {
	logger      *slog.Logger
	config      *Config
	metrics     *prometheus.Registry
	store       propstore.Store
	descriptors *descriptor.Set
	instances   *instance.Set
	closers     []func() error
}

// New opens the store, declares the schema if one is configured and
// prepares the instance set. Logs go to logW. With no loaders it reads both
// HCL and YAML schemas.
func New(ctx context.Context, cfg *Config, logW io.Writer, loaders ...config.Loader) (_ *App, err error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured.")

	a := &App{
		logger:  logger,
		config:  cfg,
		metrics: prometheus.NewRegistry(),
	}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()
	recorder := metrics.NewRecorder(a.metrics)

	if cfg.StorePath == "" {
		logger.Debug("Using in-memory store.")
		a.store = inmemorystore.New()
	} else {
		st, err := sqlitestore.Open(ctx, cfg.StorePath)
		if err != nil {
			return nil, err
		}
		logger.Debug("Opened sqlite store.", "path", cfg.StorePath)
		a.store = st
		a.closers = append(a.closers, st.Close)
	}

	a.descriptors = descriptor.NewSet(a.store, recorder)
	if len(cfg.SchemaPaths) > 0 {
		if len(loaders) == 0 {
			loaders = []config.Loader{hcl.NewLoader(), yamlloader.NewLoader()}
		}
		model, err := loadModel(ctx, loaders, cfg.SchemaPaths)
		if err != nil {
			return nil, err
		}
		if err := declare.Apply(ctx, model, a.descriptors); err != nil {
			return nil, fmt.Errorf("declaration failed: %w", err)
		}
		logger.Info("Schema declared.", "params", len(a.descriptors.Names()))
	}

	a.instances = instance.NewSet(a.store, recorder)
	if cfg.LiveURL != "" {
		client, err := livesync.Dial(ctx, livesync.Options{URL: cfg.LiveURL})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.instances.Observe(livesync.NewPublisher(client, logger))
	}
	return a, nil
}

func loadModel(ctx context.Context, loaders []config.Loader, paths []string) (*config.Model, error) {
	model := &config.Model{}
	for _, l := range loaders {
		m, err := l.Load(ctx, paths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema: %w", err)
		}
		model.Merge(m)
	}
	if len(model.Params) == 0 {
		return nil, fmt.Errorf("no parameters found under %v", paths)
	}
	return model, nil
}

// Context returns ctx carrying the App's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

func (a *App) Logger() *slog.Logger         { return a.logger }
func (a *App) Store() propstore.Store       { return a.store }
func (a *App) Descriptors() *descriptor.Set { return a.descriptors }
func (a *App) Instances() *instance.Set     { return a.instances }
func (a *App) Metrics() prometheus.Gatherer { return a.metrics }

// Close releases the live connection and the store, last opened first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
