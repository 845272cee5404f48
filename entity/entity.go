package entity

import "context"

// Method names used by cache collaborators to decide which store calls are
// reads (served through the cache) and which are writes (trigger invalidation).
const (
	MethodCount           = "count"
	MethodFindAll         = "findAll"
	MethodFindOne         = "findOne"
	MethodFindAndCountAll = "findAndCountAll"
	MethodCreate          = "create"
	MethodUpdate          = "update"
	MethodDestroy         = "destroy"
)

// TableNamer exposes the metadata a store handle carries about its model.
type TableNamer interface {
	// Name returns the model name, used as the default alias in joins.
	Name() string
	// TableName returns the physical table backing the model.
	TableName() string
}

// Entity is the store handle the model layer delegates to. Implementations
// execute the query descriptor; they never see the caller's raw inputs.
type Entity interface {
	TableNamer

	Count(ctx context.Context, q *Query) (int, error)
	FindAll(ctx context.Context, q *Query) ([]Row, error)
	// FindOne returns a nil Row and a nil error when nothing matches.
	FindOne(ctx context.Context, q *Query) (Row, error)
	FindAndCountAll(ctx context.Context, q *Query) (PageResult, error)
	Create(ctx context.Context, data Row) (Row, error)
	// Update applies data to every row matched by q and returns the number
	// of affected rows.
	Update(ctx context.Context, data Row, q *Query) (int64, error)
	// Destroy removes every row matched by q and returns the number of
	// affected rows.
	Destroy(ctx context.Context, q *Query) (int64, error)
}

// FetchFunc produces the value a Cacher stores on a miss.
type FetchFunc = func(ctx context.Context) (any, error)

// Cacher is the cache collaborator consumed by the cache interception proxy.
// Eviction, storage and TTL are entirely up to the implementation.
type Cacher interface {
	// FindMethods lists the store methods whose results may be cached.
	FindMethods() []string
	// UpdateMethods lists the store methods that invalidate cached results.
	UpdateMethods() []string
	// Run returns the cached value for method+args scoped to tables, calling
	// fetch on a miss.
	Run(ctx context.Context, method string, tables []string, fetch FetchFunc, args ...any) (any, error)
	// BatchClearCache drops every cached value touching any of tables.
	BatchClearCache(ctx context.Context, tables []string) error
}
