package di

import (
	"log/slog"
	"sync"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-basemodel/cache"
	"github.com/goliatone/go-basemodel/entity"
	"github.com/goliatone/go-basemodel/internal/logging"
	"github.com/goliatone/go-basemodel/model"
	"github.com/goliatone/go-basemodel/store/bunstore"
)

// Container provides dependency injection for the model layer.
// It owns the cache service, the table-tagging cacher shared by every
// model, the model registry and, once opened, the database handle.
type Container struct {
	config        Config
	logger        *slog.Logger
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	tableCache    *cache.TableCache
	registry      *model.Registry

	dbOnce sync.Once
	db     *bun.DB
	dbErr  error
}

// NewContainer creates a new DI container from config.
// It initializes the cache service using the sturdyc adapter and sets up
// the default key serializer for consistent key generation.
func NewContainer(config Config) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cacheService, err := cache.NewCacheService(config.Cache)
	if err != nil {
		return nil, err
	}

	keySerializer := cache.NewDefaultKeySerializer()

	return &Container{
		config:        config,
		logger:        logging.New(config.Log, nil),
		cacheService:  cacheService,
		keySerializer: keySerializer,
		tableCache:    cache.NewTableCache(cacheService, keySerializer),
		registry:      model.NewRegistry(),
	}, nil
}

// NewContainerWithDefaults creates a new DI container using default configuration.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(DefaultConfig())
}

// CacheService returns the singleton cache service instance.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the singleton key serializer instance.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// TableCache returns the cacher attached to every model built here.
func (c *Container) TableCache() *cache.TableCache {
	return c.tableCache
}

// Registry returns the model registry.
func (c *Container) Registry() *model.Registry {
	return c.registry
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// SetLogger replaces the logger used for models built afterwards.
func (c *Container) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() Config {
	return c.config
}

// DB opens the configured database on first use.
func (c *Container) DB() (*bun.DB, error) {
	c.dbOnce.Do(func() {
		c.db, c.dbErr = bunstore.Open(c.config.Store, c.logger)
	})
	return c.db, c.dbErr
}

// Close closes the database if it was opened.
func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// ModelOption adjusts the options of a single model.
type ModelOption func(*model.Options)

// WithoutSoftDelete makes the model's Delete destructive.
func WithoutSoftDelete() ModelOption {
	return func(o *model.Options) {
		o.DisableSoftDelete = true
	}
}

// WithoutCache skips the cache proxy for the model.
func WithoutCache() ModelOption {
	return func(o *model.Options) {
		o.Cacher = nil
	}
}

// WithSoftDeletePolicy overrides the container-wide policy.
func WithSoftDeletePolicy(policy model.SoftDeletePolicy) ModelOption {
	return func(o *model.Options) {
		o.SoftDelete = policy
	}
}

// Model returns the model registered under name, building it over base on
// first use with the container's cacher, policy and logger.
func (c *Container) Model(name string, base entity.Entity, opts ...ModelOption) (*model.Model, error) {
	options := model.Options{
		Entity:            base,
		DisableSoftDelete: c.config.DisableSoftDelete,
		SoftDelete:        c.config.SoftDelete,
		Logger:            c.logger,
	}
	if !c.config.DisableCache {
		options.Cacher = c.tableCache
	}
	for _, opt := range opts {
		opt(&options)
	}
	return c.registry.Instance(name, options)
}

// StoreModel is Model over a bunstore.Entity for name on the container's
// database.
func (c *Container) StoreModel(name string, storeOpts []bunstore.Option, opts ...ModelOption) (*model.Model, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	return c.Model(name, bunstore.New(db, name, storeOpts...), opts...)
}
