package model

import (
	"strings"

	"github.com/goliatone/go-basemodel/entity"
)

// DefaultSort is used when an OrderSpec leaves Sort empty.
const DefaultSort = "desc"

// OrderSpec is a single caller ordering entry.
type OrderSpec struct {
	Field string
	Sort  string
}

// Asc orders field ascending.
func Asc(field string) OrderSpec { return OrderSpec{Field: field, Sort: "asc"} }

// Desc orders field descending.
func Desc(field string) OrderSpec { return OrderSpec{Field: field, Sort: "desc"} }

// applyOrder converts specs into order terms. The first entry without a
// field stops processing; entries after it are dropped even when valid.
func applyOrder(q *entity.Query, specs []OrderSpec) {
	var terms []entity.OrderTerm
	for _, spec := range specs {
		if strings.TrimSpace(spec.Field) == "" {
			break
		}
		sort := spec.Sort
		if sort == "" {
			sort = DefaultSort
		}
		terms = append(terms, entity.OrderTerm{Field: spec.Field, Direction: sort})
	}
	if len(terms) > 0 {
		q.Order = terms
	}
}
