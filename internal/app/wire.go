package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/kairosolo/kprefs/internal/watch"
	"github.com/kairosolo/kprefs/pkg/prefs"
)

// Wire bundles the opened store and shared services for the CLI.
type Wire struct {
	Config Config
	Store  *prefs.Store
	Logger *zap.Logger
}

// NewWire opens the store described by cfg.
func NewWire(cfg Config, logger *zap.Logger) (*Wire, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := prefs.Open(prefs.Options{Dir: cfg.Dir, Logger: logger.Named("store")})
	if err != nil {
		return nil, err
	}
	return &Wire{Config: cfg, Store: s, Logger: logger}, nil
}

// Watch starts a file watcher over the store directory. The caller must
// Stop it.
func (w *Wire) Watch(ctx context.Context, onChange func(watch.Change)) (*watch.Watcher, error) {
	wt, err := watch.New(w.Config.Dir, w.Config.Debounce, onChange, w.Logger.Named("watch"))
	if err != nil {
		return nil, err
	}
	if err := wt.Start(ctx); err != nil {
		wt.Stop()
		return nil, err
	}
	return wt, nil
}
