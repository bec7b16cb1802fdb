package draft

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/sreeramsuresh/steelcore/internal/clock"
	"github.com/sreeramsuresh/steelcore/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("draft",
	fx.Provide(NewStoreFromConfig),
	fx.Provide(func() *Metrics { return SharedMetrics() }),
	fx.Provide(func(store Store, clk clock.Clock, log *zap.Logger, metrics *Metrics, cfg config.Config) *Factory {
		return NewFactory(store, clk, log, metrics, cfg.DraftDebounceInterval)
	}),
)

// StoreParams carries the optional backends a deployment may or may not
// wire.
type StoreParams struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	Redis *redis.Client `optional:"true"`
	DB    *gorm.DB      `optional:"true"`
}

// NewStoreFromConfig selects the draft backend. Misconfiguration falls back
// to the in-memory store with a warning rather than refusing to start;
// drafts are a best-effort cache.
func NewStoreFromConfig(p StoreParams) (Store, error) {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	switch p.Cfg.DraftStore {
	case config.DraftStoreRedis:
		if p.Redis == nil {
			log.Warn("draft store set to redis but no redis client configured; using memory")
			return NewMemoryStore(), nil
		}
		return NewRedisStore(p.Redis, p.Cfg.DraftTTL), nil
	case config.DraftStoreDB:
		if p.DB == nil {
			log.Warn("draft store set to db but no database configured; using memory")
			return NewMemoryStore(), nil
		}
		return NewGormStore(p.DB)
	case config.DraftStoreMemory, "":
		return NewMemoryStore(), nil
	default:
		log.Warn("unknown draft store; using memory", zap.String("store", p.Cfg.DraftStore))
		return NewMemoryStore(), nil
	}
}
