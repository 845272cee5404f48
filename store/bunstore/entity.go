package bunstore

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-basemodel/entity"
)

var _ entity.Entity = (*Entity)(nil)

// DefaultPrimaryKey is the column Create fills from the driver's last insert
// id when the caller did not supply it.
const DefaultPrimaryKey = "id"

// Entity is a store handle over a single table. Rows are read and written as
// plain maps, so no Go model type is needed.
type Entity struct {
	db    bun.IDB
	name  string
	table string
	pk    string
}

// Option customizes an Entity.
type Option func(*Entity)

// WithTable overrides the table derived from the model name.
func WithTable(table string) Option {
	return func(e *Entity) {
		e.table = table
	}
}

// WithPrimaryKey overrides DefaultPrimaryKey.
func WithPrimaryKey(column string) Option {
	return func(e *Entity) {
		e.pk = column
	}
}

// New returns a store handle for the model called name. The table defaults
// to DefaultTableName(name); the model name is the table alias in queries.
func New(db bun.IDB, name string, opts ...Option) *Entity {
	e := &Entity{
		db:    db,
		name:  name,
		table: DefaultTableName(name),
		pk:    DefaultPrimaryKey,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements entity.TableNamer.
func (e *Entity) Name() string { return e.name }

// TableName implements entity.TableNamer.
func (e *Entity) TableName() string { return e.table }

// Count implements entity.Entity.
func (e *Entity) Count(ctx context.Context, q *entity.Query) (int, error) {
	q = orEmpty(q)
	var n int
	err := e.baseSelect(q).ColumnExpr("count(*)").Scan(ctx, &n)
	return n, err
}

// FindAll implements entity.Entity.
func (e *Entity) FindAll(ctx context.Context, q *entity.Query) ([]entity.Row, error) {
	q = orEmpty(q)
	sq := e.baseSelect(q)
	e.applyColumns(sq, q)
	e.applyOrder(sq, q)
	if q.Page != nil {
		sq.Limit(q.Page.Limit).Offset(q.Page.Offset)
	}
	return e.scan(ctx, sq)
}

// FindOne implements entity.Entity.
func (e *Entity) FindOne(ctx context.Context, q *entity.Query) (entity.Row, error) {
	q = orEmpty(q)
	sq := e.baseSelect(q)
	e.applyColumns(sq, q)
	e.applyOrder(sq, q)
	sq.Limit(1)

	rows, err := e.scan(ctx, sq)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// FindAndCountAll implements entity.Entity. The count ignores the page.
func (e *Entity) FindAndCountAll(ctx context.Context, q *entity.Query) (entity.PageResult, error) {
	q = orEmpty(q)
	count, err := e.Count(ctx, q)
	if err != nil {
		return entity.PageResult{}, err
	}
	rows, err := e.FindAll(ctx, q)
	if err != nil {
		return entity.PageResult{}, err
	}
	return entity.PageResult{Count: count, Rows: rows}, nil
}

// Create implements entity.Entity. The returned row is a copy of data with
// the primary key filled in when the driver reports a last insert id.
func (e *Entity) Create(ctx context.Context, data entity.Row) (entity.Row, error) {
	values := map[string]interface{}(data.Clone())
	res, err := e.db.NewInsert().
		Model(&values).
		TableExpr("?", bun.Ident(e.table)).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	out := entity.Row(values)
	if _, ok := out[e.pk]; !ok {
		if id, err := res.LastInsertId(); err == nil && id > 0 {
			out[e.pk] = id
		}
	}
	return out, nil
}

// Update implements entity.Entity.
func (e *Entity) Update(ctx context.Context, data entity.Row, q *entity.Query) (int64, error) {
	q = orEmpty(q)
	values := map[string]interface{}(data.Clone())
	uq := e.db.NewUpdate().
		Model(&values).
		TableExpr("?", bun.Ident(e.table))
	for _, p := range predicates("", q.Where) {
		uq.Where(p.expr, p.args...)
	}

	res, err := uq.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Destroy implements entity.Entity.
func (e *Entity) Destroy(ctx context.Context, q *entity.Query) (int64, error) {
	q = orEmpty(q)
	dq := e.db.NewDelete().TableExpr("?", bun.Ident(e.table))
	for _, p := range predicates("", q.Where) {
		dq.Where(p.expr, p.args...)
	}

	res, err := dq.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (e *Entity) scan(ctx context.Context, sq *bun.SelectQuery) ([]entity.Row, error) {
	var values []map[string]interface{}
	if err := sq.Scan(ctx, &values); err != nil {
		return nil, err
	}
	rows := make([]entity.Row, len(values))
	for i, v := range values {
		rows[i] = entity.Row(v)
	}
	return rows, nil
}
