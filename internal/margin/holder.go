package margin

import (
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ChannelThresholds maps lowercase channel names to their cut-offs.
type ChannelThresholds map[string]Thresholds

func defaultChannelThresholds() ChannelThresholds {
	return ChannelThresholds{
		strings.ToLower(string(ChannelLocal)):    DefaultThresholds(ChannelLocal),
		strings.ToLower(string(ChannelImported)): DefaultThresholds(ChannelImported),
	}
}

// ThresholdsHolder serves the active threshold table, hot-reloading it from
// margin.yml when the file changes. Invalid reloads are rejected and the
// previous table stays active.
type ThresholdsHolder struct {
	current atomic.Value // holds ChannelThresholds
}

func NewThresholdsHolder(log *zap.Logger) (*ThresholdsHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("margin.config")

	v := viper.New()
	v.SetConfigName("margin")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/steelcore/config")
	v.AddConfigPath("/etc/steelcore")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STEELCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &ThresholdsHolder{}
	holder.current.Store(defaultChannelThresholds())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// no file: run on built-in defaults
		return holder, nil
	}

	table, err := unmarshalThresholds(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(table)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := unmarshalThresholds(v)
		if err != nil {
			log.Warn("invalid margin config ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("margin thresholds reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// Get returns the active thresholds for a channel, falling back to the
// LOCAL entry and then to built-in defaults.
func (h *ThresholdsHolder) Get(channel Channel) Thresholds {
	if h == nil {
		return DefaultThresholds(channel)
	}
	table := h.current.Load().(ChannelThresholds)
	if t, ok := table[strings.ToLower(string(channel))]; ok {
		return t
	}
	if t, ok := table[strings.ToLower(string(ChannelLocal))]; ok {
		return t
	}
	return DefaultThresholds(channel)
}

func unmarshalThresholds(v *viper.Viper) (ChannelThresholds, error) {
	var cfg struct {
		Channels ChannelThresholds `mapstructure:"channels"`
	}
	if err := v.UnmarshalKey("margin", &cfg); err != nil {
		return nil, err
	}
	table := defaultChannelThresholds()
	for name, t := range cfg.Channels {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		table[strings.ToLower(strings.TrimSpace(name))] = t
	}
	return table, nil
}
