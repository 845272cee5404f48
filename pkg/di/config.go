package di

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-basemodel/cache"
	"github.com/goliatone/go-basemodel/internal/logging"
	"github.com/goliatone/go-basemodel/model"
	"github.com/goliatone/go-basemodel/store/bunstore"
)

// Config is the application-level configuration wired by the Container.
type Config struct {
	Cache cache.Config    `yaml:"cache"`
	Store bunstore.Config `yaml:"store"`
	// SoftDelete is the policy given to every model; empty members keep
	// the model defaults.
	SoftDelete        model.SoftDeletePolicy `yaml:"soft_delete"`
	DisableSoftDelete bool                   `yaml:"disable_soft_delete"`
	// DisableCache builds models without the cache proxy.
	DisableCache bool           `yaml:"disable_cache"`
	Log          logging.Config `yaml:"log"`
}

// DefaultConfig returns the defaults of every section.
func DefaultConfig() Config {
	return Config{
		Cache:      cache.DefaultConfig(),
		Store:      bunstore.DefaultConfig(),
		SoftDelete: model.DefaultSoftDeletePolicy(),
		Log:        logging.DefaultConfig(),
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Cache),
		validation.Field(&c.Store),
		validation.Field(&c.SoftDelete),
	)
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
// Keys missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
