package builder

import (
	"log/slog"

	"github.com/syssam/forge"
	"github.com/syssam/forge/graph"
	"github.com/syssam/forge/modifier"
)

// Option configures a Builder.
type Option func(*options) error

type options struct {
	registry *graph.Registry
	cache    forge.ReuseCache
	logger   *slog.Logger
	config   *forge.Config
	profile  []graph.Modifier
}

func defaults() options {
	return options{
		registry: graph.Default,
		cache:    forge.GlobalCache,
		config:   forge.DefaultConfig(),
	}
}

// WithRegistry sets the registry holding the model graph.
// The default is graph.Default.
func WithRegistry(r *graph.Registry) Option {
	return func(o *options) error {
		if r == nil {
			return forge.NewConfigError("Registry", nil, "registry cannot be nil")
		}
		o.registry = r
		return nil
	}
}

// WithCache sets the cache shared by reused edges that are not local.
// The default is forge.GlobalCache.
func WithCache(c forge.ReuseCache) Option {
	return func(o *options) error {
		if c == nil {
			return forge.NewConfigError("Cache", nil, "cache cannot be nil")
		}
		o.cache = c
		return nil
	}
}

// WithLogger sets the logger of the engine. Without it, builds log
// through the logger of the configuration, if any, or not at all.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) error {
		if l == nil {
			return forge.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		o.logger = l
		return nil
	}
}

// WithConfig applies a configuration and loads its profiles.
// Profile values are set before the builder's own modifiers run.
func WithConfig(cfg *forge.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return forge.NewConfigError("Config", nil, "config cannot be nil")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		var profile []graph.Modifier
		for _, path := range cfg.Profiles {
			mods, err := modifier.Profile(path)
			if err != nil {
				return forge.NewConfigError("profiles", path, err.Error())
			}
			profile = append(profile, mods...)
		}
		o.config, o.profile = cfg, profile
		return nil
	}
}

func (o *options) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	if l := o.config.Logger(); l != nil {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
