package cache

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-basemodel/internal/cacheinfra"
)

// Config sizes the query cache behind TableCache. Durations decode from YAML
// strings such as "5m".
type Config struct {
	Capacity           int           `yaml:"capacity"`
	NumShards          int           `yaml:"num_shards"`
	TTL                time.Duration `yaml:"ttl"`
	EvictionPercentage int           `yaml:"eviction_percentage"`
	// EarlyRefresh refetches hot query results in the background. nil
	// disables it.
	EarlyRefresh *EarlyRefreshConfig `yaml:"early_refresh"`
	// MissingRecordStorage caches empty lookups (a FindOne with no row).
	MissingRecordStorage bool          `yaml:"missing_record_storage"`
	EvictionInterval     time.Duration `yaml:"eviction_interval"`
}

// EarlyRefreshConfig holds the sturdyc early refresh windows.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration `yaml:"min_async_refresh_time"`
	MaxAsyncRefreshTime time.Duration `yaml:"max_async_refresh_time"`
	SyncRefreshTime     time.Duration `yaml:"sync_refresh_time"`
	RetryBaseDelay      time.Duration `yaml:"retry_base_delay"`
}

// DefaultConfig returns the sturdyc adapter defaults.
func DefaultConfig() Config {
	def := cacheinfra.DefaultConfig()
	cfg := Config{
		Capacity:             def.Capacity,
		NumShards:            def.NumShards,
		TTL:                  def.TTL,
		EvictionPercentage:   def.EvictionPercentage,
		MissingRecordStorage: def.MissingRecordStorage,
		EvictionInterval:     def.EvictionInterval,
	}
	if er := def.EarlyRefresh; er != nil {
		cfg.EarlyRefresh = &EarlyRefreshConfig{
			MinAsyncRefreshTime: er.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: er.MaxAsyncRefreshTime,
			SyncRefreshTime:     er.SyncRefreshTime,
			RetryBaseDelay:      er.RetryBaseDelay,
		}
	}
	return cfg
}

// Validate checks the sizing fields, then the early refresh windows via
// the sturdyc adapter.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
	)
	if err != nil {
		return err
	}
	return c.adapterConfig().Validate()
}

// NewCacheService builds the sturdyc-backed CacheService for cfg.
func NewCacheService(cfg Config) (CacheService, error) {
	return cacheinfra.NewSturdycService(cfg.adapterConfig())
}

func (c Config) adapterConfig() cacheinfra.Config {
	out := cacheinfra.Config{
		Capacity:             c.Capacity,
		NumShards:            c.NumShards,
		TTL:                  c.TTL,
		EvictionPercentage:   c.EvictionPercentage,
		MissingRecordStorage: c.MissingRecordStorage,
		EvictionInterval:     c.EvictionInterval,
	}
	if er := c.EarlyRefresh; er != nil {
		out.EarlyRefresh = &cacheinfra.EarlyRefreshConfig{
			MinAsyncRefreshTime: er.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: er.MaxAsyncRefreshTime,
			SyncRefreshTime:     er.SyncRefreshTime,
			RetryBaseDelay:      er.RetryBaseDelay,
		}
	}
	return out
}
