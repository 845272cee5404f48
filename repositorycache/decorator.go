package repositorycache

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-basemodel/entity"
)

// Interface assertion to ensure CachedEntity implements entity.Entity
var _ entity.Entity = (*CachedEntity)(nil)

// ErrInvalidResultType is returned when the cacher hands back a value whose
// type does not match the intercepted method's result.
var ErrInvalidResultType = errors.New("cached value has unexpected type")

// CachedEntity decorates a store handle, routing the cacher's read methods
// through Cacher.Run and clearing the model's table before its write methods.
type CachedEntity struct {
	base   entity.Entity
	cacher entity.Cacher
	reads  map[string]struct{}
	writes map[string]struct{}
}

// New creates a CachedEntity. The method sets are read from cacher once.
func New(base entity.Entity, cacher entity.Cacher) *CachedEntity {
	return &CachedEntity{
		base:   base,
		cacher: cacher,
		reads:  toSet(cacher.FindMethods()),
		writes: toSet(cacher.UpdateMethods()),
	}
}

// Base returns the decorated store handle.
func (c *CachedEntity) Base() entity.Entity {
	return c.base
}

// Name returns the model name of the base entity
func (c *CachedEntity) Name() string {
	return c.base.Name()
}

// TableName returns the table of the base entity
func (c *CachedEntity) TableName() string {
	return c.base.TableName()
}

// Count counts matching rows, through the cache when "count" is a read method
func (c *CachedEntity) Count(ctx context.Context, q *entity.Query) (int, error) {
	return intercept(ctx, c, entity.MethodCount, q, func(ctx context.Context) (int, error) {
		return c.base.Count(ctx, q)
	})
}

// FindAll lists matching rows, through the cache when "findAll" is a read method
func (c *CachedEntity) FindAll(ctx context.Context, q *entity.Query) ([]entity.Row, error) {
	return intercept(ctx, c, entity.MethodFindAll, q, func(ctx context.Context) ([]entity.Row, error) {
		return c.base.FindAll(ctx, q)
	})
}

// FindOne fetches a single row, through the cache when "findOne" is a read method
func (c *CachedEntity) FindOne(ctx context.Context, q *entity.Query) (entity.Row, error) {
	return intercept(ctx, c, entity.MethodFindOne, q, func(ctx context.Context) (entity.Row, error) {
		return c.base.FindOne(ctx, q)
	})
}

// FindAndCountAll fetches a page plus total, through the cache when
// "findAndCountAll" is a read method
func (c *CachedEntity) FindAndCountAll(ctx context.Context, q *entity.Query) (entity.PageResult, error) {
	return intercept(ctx, c, entity.MethodFindAndCountAll, q, func(ctx context.Context) (entity.PageResult, error) {
		return c.base.FindAndCountAll(ctx, q)
	})
}

// Create inserts a row
func (c *CachedEntity) Create(ctx context.Context, data entity.Row) (entity.Row, error) {
	return intercept(ctx, c, entity.MethodCreate, nil, func(ctx context.Context) (entity.Row, error) {
		return c.base.Create(ctx, data)
	})
}

// Update updates matching rows
func (c *CachedEntity) Update(ctx context.Context, data entity.Row, q *entity.Query) (int64, error) {
	return intercept(ctx, c, entity.MethodUpdate, q, func(ctx context.Context) (int64, error) {
		return c.base.Update(ctx, data, q)
	})
}

// Destroy removes matching rows
func (c *CachedEntity) Destroy(ctx context.Context, q *entity.Query) (int64, error) {
	return intercept(ctx, c, entity.MethodDestroy, q, func(ctx context.Context) (int64, error) {
		return c.base.Destroy(ctx, q)
	})
}

// Tables returns the cache scope of q: the model's own table, every included
// relation's table and any tags attached to ctx, deduplicated, own table first.
func (c *CachedEntity) Tables(ctx context.Context, q *entity.Query) []string {
	tables := []string{c.base.TableName()}
	tables = append(tables, q.Tables()...)
	tables = append(tables, cacheTagsFromContext(ctx)...)
	return dedupeStrings(tables)
}

// intercept dispatches a single store call. Read methods go through the
// cacher, write methods clear the own table first, anything else passes through.
func intercept[T any](ctx context.Context, c *CachedEntity, method string, q *entity.Query, call func(context.Context) (T, error)) (T, error) {
	if _, ok := c.reads[method]; ok {
		var zero T
		res, err := c.cacher.Run(ctx, method, c.Tables(ctx, q), func(ctx context.Context) (any, error) {
			return call(ctx)
		}, q)
		if err != nil {
			return zero, err
		}
		if res == nil {
			return zero, nil
		}
		typed, ok := detach(res).(T)
		if !ok {
			return zero, fmt.Errorf("%w: %s returned %T", ErrInvalidResultType, method, res)
		}
		return typed, nil
	}

	if _, ok := c.writes[method]; ok {
		if err := c.cacher.BatchClearCache(ctx, []string{c.base.TableName()}); err != nil {
			var zero T
			return zero, err
		}
	}

	return call(ctx)
}

// detach copies row results so callers never share maps or slices with the
// cacher's stored value.
func detach(v any) any {
	switch r := v.(type) {
	case entity.Row:
		return r.Clone()
	case []entity.Row:
		return cloneRows(r)
	case entity.PageResult:
		return entity.PageResult{Count: r.Count, Rows: cloneRows(r.Rows)}
	}
	return v
}

func cloneRows(rows []entity.Row) []entity.Row {
	if rows == nil {
		return nil
	}
	out := make([]entity.Row, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
