// Package store provides persistent baseline stores and selects one from
// configuration.
package store

import (
	"fmt"

	"github.com/kilianp07/resplan/core/baseline"
	"github.com/kilianp07/resplan/core/factory"
)

// Config selects the baseline store backend.
type Config struct {
	Backend string `json:"backend"` // memory, file or sqlite
	Path    string `json:"path"`
}

type pathConf struct {
	Path string `json:"path"`
}

var registry = factory.NewRegistry[baseline.Store]()

func init() {
	_ = registry.Register("memory", func(map[string]any) (baseline.Store, error) {
		return baseline.NewMemoryStore(), nil
	})
	_ = registry.Register("file", func(conf map[string]any) (baseline.Store, error) {
		var c pathConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		fs, err := NewFileStore(c.Path)
		if err != nil {
			return nil, err
		}
		return fs, nil
	})
	_ = registry.Register("sqlite", func(conf map[string]any) (baseline.Store, error) {
		var c pathConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("sqlite store: path is required")
		}
		db, err := NewSQLiteStore(c.Path)
		if err != nil {
			return nil, err
		}
		return db, nil
	})
}

// Open builds the configured store. An empty backend means memory.
func Open(cfg Config) (baseline.Store, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = "memory"
	}
	s, err := registry.Create(factory.ModuleConfig{Type: backend, Conf: map[string]any{"path": cfg.Path}})
	if err != nil {
		return nil, fmt.Errorf("baseline store: %w", err)
	}
	return s, nil
}
