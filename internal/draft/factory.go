package draft

import (
	"context"
	"time"

	"github.com/sreeramsuresh/steelcore/internal/clock"
	"go.uber.org/zap"
)

// Factory builds managers that share one store, clock and metrics set.
// The HTTP layer creates a short-lived manager per draft request; embedded
// consumers hold one per edited entity.
type Factory struct {
	store           Store
	clk             clock.Clock
	log             *zap.Logger
	metrics         *Metrics
	defaultInterval time.Duration
}

func NewFactory(store Store, clk clock.Clock, log *zap.Logger, metrics *Metrics, defaultInterval time.Duration) *Factory {
	return &Factory{
		store:           store,
		clk:             clk,
		log:             log,
		metrics:         metrics,
		defaultInterval: defaultInterval,
	}
}

// Manager builds a manager for ownerKey. A zero DebounceInterval takes the
// factory default before the usual flooring applies.
func (f *Factory) Manager(ctx context.Context, ownerKey string, opts Options) *Manager {
	if opts.DebounceInterval <= 0 {
		opts.DebounceInterval = f.defaultInterval
	}
	return NewManager(ctx, ownerKey, f.store, f.clk, f.log, f.metrics, opts)
}

// Store exposes the shared backend for read-only callers.
func (f *Factory) Store() Store {
	return f.store
}
