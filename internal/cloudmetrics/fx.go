package cloudmetrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sreeramsuresh/steelcore/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type dbParams struct {
	fx.In

	DB *gorm.DB `optional:"true"`
}

var Module = fx.Module("cloud.metrics",
	fx.Provide(func() *prometheus.Registry {
		return prometheus.NewRegistry()
	}),
	fx.Provide(NewPusher),
	fx.Provide(func(cfg config.Config, registry *prometheus.Registry, pusher Pusher, logger *zap.Logger) *CloudMetrics {
		if !cfg.Cloud.Metrics.Enabled {
			return nil
		}
		return New(registry, pusher, logger)
	}),
	fx.Invoke(func(lc fx.Lifecycle, c *CloudMetrics, logger *zap.Logger, p dbParams) {
		if c == nil {
			return
		}

		if logger == nil {
			logger = zap.NewNop()
		}

		ctx, cancel := context.WithCancel(context.Background())
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				logger.Info("starting cloud metrics background worker")
				go func() {
					ticker := time.NewTicker(30 * time.Minute)
					defer ticker.Stop()

					updateSystemMetrics(c)
					updateDraftCount(ctx, c, p.DB)
					if err := c.Push(ctx); err != nil {
						logger.Error("initial cloud metrics push failed", zap.Error(err))
					}

					for {
						select {
						case <-ticker.C:
							updateSystemMetrics(c)
							updateDraftCount(ctx, c, p.DB)
							if err := c.Push(ctx); err != nil {
								logger.Error("periodic cloud metrics push failed", zap.Error(err))
							}
						case <-ctx.Done():
							logger.Info("stopping cloud metrics background worker")
							return
						}
					}
				}()
				return nil
			},
			OnStop: func(context.Context) error {
				cancel()
				return nil
			},
		})
	}),
)

func updateSystemMetrics(c *CloudMetrics) {
	if c == nil {
		return
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	c.SetMemoryUsage(m.Sys)
}

func updateDraftCount(ctx context.Context, c *CloudMetrics, db *gorm.DB) {
	if c == nil || db == nil {
		return
	}
	var count int64
	if err := db.WithContext(ctx).Table("draft_snapshots").Count(&count).Error; err != nil {
		return
	}
	c.SetDraftSnapshotsTotal(count)
}
