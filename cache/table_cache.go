package cache

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-basemodel/entity"
)

var _ entity.Cacher = (*TableCache)(nil)

// DefaultFindMethods are the store methods TableCache serves from cache.
var DefaultFindMethods = []string{
	entity.MethodCount,
	entity.MethodFindAll,
	entity.MethodFindOne,
	entity.MethodFindAndCountAll,
}

// DefaultUpdateMethods are the store methods that clear a table's entries.
var DefaultUpdateMethods = []string{
	entity.MethodCreate,
	entity.MethodUpdate,
	entity.MethodDestroy,
}

type batchInvalidator interface {
	InvalidateKeys(ctx context.Context, keys []string) error
}

// TableCache is an entity.Cacher that tags every cached read with the tables
// it touched, so a write to any of those tables evicts it.
type TableCache struct {
	service       CacheService
	serializer    KeySerializer
	findMethods   []string
	updateMethods []string
	// table -> set of keys cached under it
	tags *xsync.MapOf[string, *xsync.MapOf[string, struct{}]]
	// table -> number of clears so far
	generations *xsync.MapOf[string, uint64]
}

// TableCacheOption customizes a TableCache.
type TableCacheOption func(*TableCache)

// WithFindMethods replaces the set of cached read methods.
func WithFindMethods(methods ...string) TableCacheOption {
	return func(c *TableCache) {
		c.findMethods = append([]string(nil), methods...)
	}
}

// WithUpdateMethods replaces the set of invalidating write methods.
func WithUpdateMethods(methods ...string) TableCacheOption {
	return func(c *TableCache) {
		c.updateMethods = append([]string(nil), methods...)
	}
}

// NewTableCache creates a TableCache backed by service.
func NewTableCache(service CacheService, serializer KeySerializer, opts ...TableCacheOption) *TableCache {
	if serializer == nil {
		serializer = NewDefaultKeySerializer()
	}
	c := &TableCache{
		service:       service,
		serializer:    serializer,
		findMethods:   DefaultFindMethods,
		updateMethods: DefaultUpdateMethods,
		tags:          xsync.NewMapOf[string, *xsync.MapOf[string, struct{}]](),
		generations:   xsync.NewMapOf[string, uint64](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindMethods implements entity.Cacher.
func (c *TableCache) FindMethods() []string {
	return append([]string(nil), c.findMethods...)
}

// UpdateMethods implements entity.Cacher.
func (c *TableCache) UpdateMethods() []string {
	return append([]string(nil), c.updateMethods...)
}

// Run implements entity.Cacher. The key is the sorted table list, the method
// and a hash of the serialized args. A result fetched while one of its tables
// was cleared is returned but evicted, since it may predate the write.
func (c *TableCache) Run(ctx context.Context, method string, tables []string, fetch entity.FetchFunc, args ...any) (any, error) {
	key := c.Key(method, tables, args...)
	before := c.snapshot(tables)
	for _, table := range tables {
		keys, _ := c.tags.LoadOrCompute(table, func() *xsync.MapOf[string, struct{}] {
			return xsync.NewMapOf[string, struct{}]()
		})
		keys.Store(key, struct{}{})
	}

	res, err := c.service.GetOrFetch(ctx, key, fetch)
	if err != nil {
		return nil, err
	}
	if c.clearedSince(tables, before) {
		if err := c.service.Delete(ctx, key); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (c *TableCache) snapshot(tables []string) []uint64 {
	gens := make([]uint64, len(tables))
	for i, table := range tables {
		gens[i], _ = c.generations.Load(table)
	}
	return gens
}

func (c *TableCache) clearedSince(tables []string, before []uint64) bool {
	for i, table := range tables {
		if gen, _ := c.generations.Load(table); gen != before[i] {
			return true
		}
	}
	return false
}

// BatchClearCache implements entity.Cacher. Backends that can drop several
// keys at once (InvalidateKeys) get one call per table.
func (c *TableCache) BatchClearCache(ctx context.Context, tables []string) error {
	for _, table := range tables {
		// bump before dropping tags so an in-flight Run either sees the new
		// generation or has already stored a key that is dropped below
		c.generations.Compute(table, func(gen uint64, _ bool) (uint64, bool) {
			return gen + 1, false
		})
		tagged, ok := c.tags.LoadAndDelete(table)
		if !ok {
			continue
		}
		keys := make([]string, 0, tagged.Size())
		tagged.Range(func(key string, _ struct{}) bool {
			keys = append(keys, key)
			return true
		})

		if batch, ok := c.service.(batchInvalidator); ok {
			if err := batch.InvalidateKeys(ctx, keys); err != nil {
				return err
			}
			continue
		}
		for _, key := range keys {
			if err := c.service.Delete(ctx, key); err != nil {
				return err
			}
		}
	}
	return nil
}

// Key returns the cache key Run uses for method, tables and args.
func (c *TableCache) Key(method string, tables []string, args ...any) string {
	sorted := append([]string(nil), tables...)
	sort.Strings(sorted)
	digest := xxhash.Sum64String(c.serializer.SerializeKey(method, args...))
	return strings.Join(sorted, ",") + KeySeparator + method + KeySeparator + strconv.FormatUint(digest, 16)
}

// TrackedKeys returns the keys currently tagged under table.
func (c *TableCache) TrackedKeys(table string) []string {
	keys, ok := c.tags.Load(table)
	if !ok {
		return nil
	}
	var out []string
	keys.Range(func(key string, _ struct{}) bool {
		out = append(out, key)
		return true
	})
	sort.Strings(out)
	return out
}
