package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kilianp07/resplan/config"
	"github.com/kilianp07/resplan/core/baseline"
	"github.com/kilianp07/resplan/core/engine"
	coremetrics "github.com/kilianp07/resplan/core/metrics"
	"github.com/kilianp07/resplan/core/project"
	"github.com/kilianp07/resplan/infra/logger"
	"github.com/kilianp07/resplan/infra/metrics"
	"github.com/kilianp07/resplan/infra/store"
)

// Service wires the engine to its logger, metrics sinks and baseline store.
type Service struct {
	Engine *engine.Engine
	Store  baseline.Store
	Sink   coremetrics.MetricsSink
	log    logger.Logger
	cfg    *config.Config
}

// Option customises a Service.
type Option func(*options)

type options struct {
	logOut io.Writer
	engine []engine.Option
}

// WithLogOutput redirects process logs, stderr by default.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOut = w }
}

// WithEngineOptions passes extra options to the engine, after the ones
// derived from configuration.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(o *options) { o.engine = append(o.engine, opts...) }
}

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	o := options{logOut: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	logg, err := logger.NewWithConfig("service", cfg.Logging.Logger(), o.logOut)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, err
	}
	engOpts := append([]engine.Option{
		engine.WithLogger(logg.Named("engine")),
		engine.WithSink(sink),
	}, o.engine...)
	eng, err := engine.New(cfg.Engine, engOpts...)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	logg.Debugw("service ready", map[string]any{
		"store":   cfg.Store.Backend,
		"sinks":   len(cfg.Metrics.Sinks),
		"horizon": cfg.Engine.SearchLimitDays,
	})
	return &Service{Engine: eng, Store: st, Sink: sink, log: logg, cfg: cfg}, nil
}

// Logger returns the service logger.
func (s *Service) Logger() logger.Logger { return s.log }

// LoadProject reads and normalizes a project file. Resources without a
// capacity get the configured default.
func (s *Service) LoadProject(path string) (*project.Project, error) {
	f, err := project.Load(path)
	if err != nil {
		return nil, err
	}
	p, err := f.Resolve(s.cfg.Engine.DefaultCapacityHours)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.log.Debugf("loaded project %q: %d tasks, %d resources", p.Name, len(p.Tasks), len(p.Resources))
	return p, nil
}

// Close writes the metrics textfile when configured and releases the store
// and sinks.
func (s *Service) Close() error {
	var errs []error
	if path := s.cfg.Metrics.Textfile; path != "" {
		if err := metrics.WriteTextfile(path, nil); err != nil {
			errs = append(errs, err)
		}
	}
	closeSink(s.Sink)
	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}

func closeSink(sink coremetrics.MetricsSink) {
	switch v := sink.(type) {
	case *coremetrics.MultiSink:
		for _, s := range v.Sinks {
			closeSink(s)
		}
	case interface{ Close() }:
		v.Close()
	}
}
