package model

import (
	"reflect"
	"strings"
)

// Criteria is either a Filter or a bare Fields list. Passing Fields where a
// filter is expected means "no filter, project these columns".
type Criteria interface {
	resolve(fields Fields) (Filter, Fields)
}

// Filter is a caller-supplied predicate. BypassSoftDelete drops the
// soft-delete predicate for a single call.
type Filter struct {
	Where            map[string]any
	BypassSoftDelete bool
}

// Where is shorthand for Filter{Where: conds}.
func Where(conds map[string]any) Filter {
	return Filter{Where: conds}
}

// Unscoped returns a copy of f that bypasses the soft-delete predicate.
func (f Filter) Unscoped() Filter {
	f.BypassSoftDelete = true
	return f
}

func (f Filter) resolve(fields Fields) (Filter, Fields) {
	return f, fields
}

// Fields is a list of columns to project.
type Fields []string

// A Fields criteria replaces the explicit field list entirely.
func (f Fields) resolve(Fields) (Filter, Fields) {
	return Filter{}, f
}

// resolveCriteria turns the overloaded (criteria, fields) pair into a filter
// and field list.
func resolveCriteria(c Criteria, fields Fields) (Filter, Fields) {
	if c == nil {
		return Filter{}, fields
	}
	return c.resolve(fields)
}

// IsEmpty reports whether v is nil, a nil pointer, or a string that is empty
// after trimming whitespace.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// KeyCount returns the number of predicate keys in f. When countBypass is
// true a set BypassSoftDelete flag counts as one extra key.
func KeyCount(f Filter, countBypass bool) int {
	n := len(f.Where)
	if countBypass && f.BypassSoftDelete {
		n++
	}
	return n
}
