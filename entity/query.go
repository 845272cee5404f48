// Package entity defines the store-agnostic data model shared by the model
// facade, the cache proxy and store adapters: result rows, the query
// descriptor and the store and cache contracts.
package entity

// Row is a single result row keyed by output column name.
type Row map[string]any

// Clone returns a shallow copy of r. A nil Row clones to nil.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// PageResult is the paginated envelope returned by FindAndCountAll.
type PageResult struct {
	Count int   `json:"count"`
	Rows  []Row `json:"rows"`
}

// Page carries offset and limit together; a Query either paginates with
// both or with neither.
type Page struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// OrderTerm is a single [field, direction] ordering entry.
type OrderTerm struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// Relation describes a join. The model layer passes it through to the store
// untouched; only the dot-qualified column names it produces ("As.column")
// are interpreted on the way back.
type Relation struct {
	// Target is the joined model.
	Target TableNamer
	// As is the join alias; stores default it to Target.Name().
	As string
	// LocalKey is the column on the queried model.
	LocalKey string
	// ForeignKey is the column on Target matched against LocalKey.
	ForeignKey string
	// Where adds equality predicates to the join condition.
	Where map[string]any
	// Attributes are the joined columns to select.
	Attributes []string
	// Required turns the join into an inner join.
	Required bool
}

// Alias returns As, falling back to the target model name.
func (r Relation) Alias() string {
	if r.As != "" {
		return r.As
	}
	if r.Target != nil {
		return r.Target.Name()
	}
	return ""
}

// Query is the normalized descriptor sent to a store. It is built fresh for
// every call and never shared.
type Query struct {
	Where      map[string]any `json:"where"`
	Page       *Page          `json:"page,omitempty"`
	Attributes []string       `json:"attributes,omitempty"`
	Order      []OrderTerm    `json:"order,omitempty"`
	Include    []Relation     `json:"-"`
	Raw        bool           `json:"raw,omitempty"`
}

// Tables returns the tables of every included relation, in order.
func (q *Query) Tables() []string {
	if q == nil {
		return nil
	}
	tables := make([]string, 0, len(q.Include))
	for _, rel := range q.Include {
		if rel.Target != nil {
			tables = append(tables, rel.Target.TableName())
		}
	}
	return tables
}
