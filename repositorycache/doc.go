// Package repositorycache provides a cache interception proxy for store
// handles.
//
// # Overview
//
// CachedEntity wraps an entity.Entity and implements the same interface.
// Each store method is dispatched by name against the capability sets the
// cacher declares:
//
//   - methods in Cacher.FindMethods() are served by Cacher.Run
//   - methods in Cacher.UpdateMethods() call Cacher.BatchClearCache for the
//     model's own table, then reach the store
//   - any other method passes straight through
//
// # Basic Usage
//
//	base := bunstore.New(db, "User")
//	tc := cache.NewTableCache(service, cache.NewDefaultKeySerializer())
//	users := repositorycache.New(base, tc)
//
// model.New does this wrapping itself when Options.Cacher is set.
//
// # Table scope
//
// Reads are scoped to a set of table names: the model's table, the table of
// every relation in Query.Include, and any names attached with WithCacheTags.
// A query joining two other tables is therefore cached under three tables,
// and a write to any of them evicts it.
//
// # Consistency
//
// Invalidation happens before the write reaches the store. A concurrent read
// can repopulate the cache with pre-write data; read-your-writes is left to
// the cacher's invalidation semantics.
//
// # Error Handling
//
// Errors from the base entity and from the cacher are returned unchanged.
// A cached value of the wrong type yields ErrInvalidResultType.
package repositorycache
