package model

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-basemodel/entity"
	"github.com/goliatone/go-basemodel/repositorycache"
)

// Model is the CRUD facade over a single store handle.
type Model struct {
	entity     entity.Entity
	softDelete bool
	policy     SoftDeletePolicy
	logger     *slog.Logger
}

// New builds a Model from opts. When opts.Cacher is set the entity is
// wrapped by the cache interception proxy.
func New(opts Options) (*Model, error) {
	opts.SoftDelete = opts.SoftDelete.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	ent := opts.Entity
	if opts.Cacher != nil {
		ent = repositorycache.New(ent, opts.Cacher)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Model{
		entity:     ent,
		softDelete: !opts.DisableSoftDelete,
		policy:     opts.SoftDelete,
		logger:     logger.With("model", opts.Entity.Name()),
	}, nil
}

// Entity returns the store handle, possibly wrapped by the cache proxy.
func (m *Model) Entity() entity.Entity {
	return m.entity
}

// SoftDelete returns the policy and whether it is enabled.
func (m *Model) SoftDelete() (SoftDeletePolicy, bool) {
	return m.policy, m.softDelete
}

// Count returns the number of active rows matching f.
func (m *Model) Count(ctx context.Context, f Filter) (int, error) {
	q := m.BuildQuery(f)
	m.trace(ctx, entity.MethodCount, q)
	return m.entity.Count(ctx, q)
}

// GetList returns the rows matching criteria. A Fields criteria is used as
// the projection with an empty filter, and fields is then ignored.
func (m *Model) GetList(ctx context.Context, criteria Criteria, fields Fields, order ...OrderSpec) ([]entity.Row, error) {
	f, cols := resolveCriteria(criteria, fields)
	q := m.BuildQuery(f, WithOrder(order...), WithAttributes(cols...))
	m.trace(ctx, entity.MethodFindAll, q)
	return m.entity.FindAll(ctx, q)
}

// GetListContact is GetList with joined relations. Rows come back flat:
// "Alias.column" keys are rewritten to "column".
func (m *Model) GetListContact(ctx context.Context, relations []entity.Relation, criteria Criteria, fields Fields, order ...OrderSpec) ([]entity.Row, error) {
	f, cols := resolveCriteria(criteria, fields)
	q := m.BuildQuery(f,
		WithRaw(),
		WithInclude(relations...),
		WithOrder(order...),
		WithAttributes(cols...),
	)
	m.trace(ctx, entity.MethodFindAll, q)
	rows, err := m.entity.FindAll(ctx, q)
	if err != nil {
		return nil, err
	}
	return FlattenRows(rows), nil
}

// GetData returns the first active row matching f, or nil. An empty filter
// is rejected so a missing condition never fetches an arbitrary row.
func (m *Model) GetData(ctx context.Context, f Filter, fields Fields) (entity.Row, error) {
	if KeyCount(f, false) == 0 {
		return nil, invalidArgument("getData", "no query conditions")
	}
	q := m.BuildQuery(f, WithRaw(), WithAttributes(fields...))
	m.trace(ctx, entity.MethodFindOne, q)
	return m.entity.FindOne(ctx, q)
}

// GetPageList returns one page of rows plus the total match count.
func (m *Model) GetPageList(ctx context.Context, currentPage, pageSize int, criteria Criteria, fields Fields, order ...OrderSpec) (entity.PageResult, error) {
	f, cols := resolveCriteria(criteria, fields)
	q := m.BuildQuery(f,
		WithPage(Offset(currentPage, pageSize), pageSize),
		WithOrder(order...),
		WithAttributes(cols...),
	)
	m.trace(ctx, entity.MethodFindAndCountAll, q)
	return m.entity.FindAndCountAll(ctx, q)
}

// GetPageListContact is GetPageList with joined relations; every row in the
// page is flattened.
func (m *Model) GetPageListContact(ctx context.Context, relations []entity.Relation, currentPage, pageSize int, criteria Criteria, fields Fields, order ...OrderSpec) (entity.PageResult, error) {
	f, cols := resolveCriteria(criteria, fields)
	q := m.BuildQuery(f,
		WithPage(Offset(currentPage, pageSize), pageSize),
		WithRaw(),
		WithInclude(relations...),
		WithOrder(order...),
		WithAttributes(cols...),
	)
	m.trace(ctx, entity.MethodFindAndCountAll, q)
	page, err := m.entity.FindAndCountAll(ctx, q)
	if err != nil {
		return entity.PageResult{}, err
	}
	return FlattenPage(page), nil
}

// Create inserts data as-is.
func (m *Model) Create(ctx context.Context, data entity.Row) (entity.Row, error) {
	m.trace(ctx, entity.MethodCreate, nil)
	return m.entity.Create(ctx, data)
}

// Delete marks matching active rows as deleted, or removes them when soft
// delete is disabled for this model.
func (m *Model) Delete(ctx context.Context, f Filter) (int64, error) {
	if KeyCount(f, false) == 0 {
		return 0, invalidArgument("delete", "no delete conditions")
	}

	q := m.BuildQuery(f)
	if !m.softDelete {
		m.trace(ctx, entity.MethodDestroy, q)
		return m.entity.Destroy(ctx, q)
	}

	m.trace(ctx, entity.MethodUpdate, q)
	return m.entity.Update(ctx, entity.Row{m.policy.Field: m.policy.Inactive}, q)
}

// Update applies data to the active rows matching f.
func (m *Model) Update(ctx context.Context, f Filter, data entity.Row) (int64, error) {
	if KeyCount(f, false) == 0 {
		return 0, invalidArgument("update", "no update conditions")
	}
	q := m.BuildQuery(f)
	m.trace(ctx, entity.MethodUpdate, q)
	return m.entity.Update(ctx, data, q)
}

func (m *Model) trace(ctx context.Context, method string, q *entity.Query) {
	if !m.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	attrs := []any{"method", method, "table", m.entity.TableName()}
	if q != nil {
		attrs = append(attrs, "where", q.Where, "include", len(q.Include))
		if q.Page != nil {
			attrs = append(attrs, "offset", q.Page.Offset, "limit", q.Page.Limit)
		}
	}
	m.logger.DebugContext(ctx, "store call", attrs...)
}
