// Package cache provides the cache collaborator used by model handles.
//
// # Overview
//
// This package exports:
//
//   - CacheService: a read-through cache backend (sturdyc by default)
//   - KeySerializer: builds stable keys from a method name and arguments
//   - TableCache: the default entity.Cacher, which tags cached reads with the
//     tables they touched and clears them per table
//
// # Basic Usage
//
//	service, err := cache.NewCacheService(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	tc := cache.NewTableCache(service, cache.NewDefaultKeySerializer())
//
//	users, err := model.New(model.Options{Entity: userStore, Cacher: tc})
//
// # Keys
//
// TableCache keys have three segments joined by KeySeparator:
//
//	<sorted,tables>::<method>::<xxhash of serialized args>
//
// The default serializer walks query descriptors with reflection. Maps are
// serialized with sorted keys, pointers are dereferenced and relation targets
// serialize as their table name, so two equal descriptors always share a key.
// Function values serialize by pointer and are only stable within a process.
//
// # Invalidation
//
// Run registers the key under every table it was given. BatchClearCache
// deletes every key registered under any listed table, so a write to "users"
// evicts plain user reads as well as reads that joined "users".
//
// # Error Handling
//
// Errors from the fetch function and the backend are returned unchanged.
// GetOrFetch reports a cached value of the wrong type as ErrInvalidResultType.
package cache
