// Package model provides a CRUD facade that shapes requests for a generic
// store handle and reshapes what comes back.
//
// # Overview
//
// A Model wraps an entity.Entity and turns loosely shaped caller input into
// an entity.Query descriptor:
//
//   - Criteria is either a Filter or a Fields list, so GetList(ctx, Fields{"id"}, nil)
//     behaves like GetList(ctx, Filter{}, Fields{"id"})
//   - the soft-delete predicate is merged under the caller filter on every read,
//     update and soft delete
//   - order specs are normalized into [field, direction] terms
//   - page number and size become offset and limit
//
// Rows produced by joined queries carry "Alias.column" keys; the Contact
// variants flatten them back to "column".
//
// # Soft delete
//
// By default a row is active while its "invalid" column holds "N". Delete
// sets it to "Y" instead of removing the row. A Filter can opt out of the
// predicate for a single call:
//
//	rows, err := users.GetList(ctx, model.Where(map[string]any{"id": 1}).Unscoped(), nil)
//
// Set Options.DisableSoftDelete to make Delete destructive.
//
// # Caching
//
// When Options.Cacher is set, the store handle is wrapped by
// repositorycache.CachedEntity: read methods are served by the cacher keyed
// by the tables they touch, write methods clear the model's table first.
//
// # Errors
//
// GetData, Delete and Update reject an empty filter with an error matching
// ErrInvalidArgument before any store call. Store and cache errors are
// returned unchanged.
package model
