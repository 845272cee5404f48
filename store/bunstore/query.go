package bunstore

import (
	"reflect"
	"sort"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-basemodel/entity"
)

type predicate struct {
	expr string
	args []any
}

// predicates turns an equality map into WHERE fragments in key order. nil
// becomes IS NULL and slices become IN. Keys without a dot are qualified
// with alias when one is given.
func predicates(alias string, where map[string]any) []predicate {
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]predicate, 0, len(keys))
	for _, k := range keys {
		col := qualify(alias, k)
		v := where[k]
		switch {
		case v == nil:
			out = append(out, predicate{"? IS NULL", []any{col}})
		case isList(v):
			out = append(out, predicate{"? IN (?)", []any{col, bun.In(v)}})
		default:
			out = append(out, predicate{"? = ?", []any{col, v}})
		}
	}
	return out
}

func qualify(alias, column string) bun.Ident {
	if alias == "" || strings.Contains(column, ".") {
		return bun.Ident(column)
	}
	return bun.Ident(alias + "." + column)
}

func isList(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

// baseSelect builds FROM, joins and WHERE. Columns, order and paging are
// left to the caller.
func (e *Entity) baseSelect(q *entity.Query) *bun.SelectQuery {
	sq := e.db.NewSelect().TableExpr("? AS ?", bun.Ident(e.table), bun.Ident(e.name))

	for _, rel := range q.Include {
		if rel.Target == nil {
			continue
		}
		alias := rel.Alias()
		local, foreign := joinKeys(rel)
		join := "LEFT JOIN"
		if rel.Required {
			join = "JOIN"
		}
		sq.Join(join+" ? AS ?", bun.Ident(rel.Target.TableName()), bun.Ident(alias)).
			JoinOn("? = ?", bun.Ident(alias+"."+foreign), qualify(e.name, local))
		for _, p := range predicates(alias, rel.Where) {
			sq.JoinOn(p.expr, p.args...)
		}
	}

	for _, p := range predicates(e.name, q.Where) {
		sq.Where(p.expr, p.args...)
	}
	return sq
}

// joinKeys defaults a relation to "<alias>_id = <alias>.id".
func joinKeys(rel entity.Relation) (local, foreign string) {
	local, foreign = rel.LocalKey, rel.ForeignKey
	if local == "" {
		local = toSnake(rel.Alias()) + "_id"
	}
	if foreign == "" {
		foreign = DefaultPrimaryKey
	}
	return local, foreign
}

// applyColumns selects the projected columns of the model plus every
// relation attribute, the latter aliased "Alias.column".
func (e *Entity) applyColumns(sq *bun.SelectQuery, q *entity.Query) {
	if len(q.Attributes) == 0 {
		sq.ColumnExpr("?", bun.Ident(e.name+".*"))
	}
	for _, col := range q.Attributes {
		if strings.Contains(col, ".") {
			sq.ColumnExpr("? AS ?", bun.Ident(col), e.label(col))
			continue
		}
		sq.ColumnExpr("?", qualify(e.name, col))
	}

	for _, rel := range q.Include {
		alias := rel.Alias()
		for _, col := range rel.Attributes {
			sq.ColumnExpr("? AS ?", bun.Ident(alias+"."+col), e.label(alias+"."+col))
		}
	}
}

func (e *Entity) applyOrder(sq *bun.SelectQuery, q *entity.Query) {
	for _, term := range q.Order {
		dir := "DESC"
		if strings.EqualFold(term.Direction, "asc") {
			dir = "ASC"
		}
		sq.OrderExpr("? "+dir, qualify(e.name, term.Field))
	}
}

// label quotes name as one identifier, dots included, so the result column
// keeps its "Alias.column" form.
func (e *Entity) label(name string) bun.Safe {
	quote := string(e.db.Dialect().IdentQuote())
	return bun.Safe(quote + strings.ReplaceAll(name, quote, quote+quote) + quote)
}

func orEmpty(q *entity.Query) *entity.Query {
	if q == nil {
		return &entity.Query{}
	}
	return q
}
