package model

import "github.com/goliatone/go-basemodel/entity"

// QueryOption sets top-level descriptor options next to the filter.
type QueryOption func(q *entity.Query)

// WithPage paginates the descriptor. Offset is passed through unchecked.
func WithPage(offset, limit int) QueryOption {
	return func(q *entity.Query) {
		q.Page = &entity.Page{Offset: offset, Limit: limit}
	}
}

// WithRaw requests flat rows from the store.
func WithRaw() QueryOption {
	return func(q *entity.Query) {
		q.Raw = true
	}
}

// WithAttributes projects the given columns. An empty list selects all.
func WithAttributes(fields ...string) QueryOption {
	return func(q *entity.Query) {
		if len(fields) > 0 {
			q.Attributes = fields
		}
	}
}

// WithInclude attaches join relations.
func WithInclude(relations ...entity.Relation) QueryOption {
	return func(q *entity.Query) {
		if len(relations) > 0 {
			q.Include = relations
		}
	}
}

// WithOrder normalizes specs into the descriptor order list.
func WithOrder(specs ...OrderSpec) QueryOption {
	return func(q *entity.Query) {
		applyOrder(q, specs)
	}
}

// BuildQuery merges the soft-delete predicate with f and applies opts.
// Caller values win on key collisions, including the soft-delete field.
func (m *Model) BuildQuery(f Filter, opts ...QueryOption) *entity.Query {
	where := make(map[string]any, len(f.Where)+1)
	if m.softDelete && !f.BypassSoftDelete {
		where[m.policy.Field] = m.policy.Active
	}
	for k, v := range f.Where {
		where[k] = v
	}

	q := &entity.Query{Where: where}
	for _, opt := range opts {
		opt(q)
	}
	return q
}
