package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCriteria(t *testing.T) {
	tests := []struct {
		name       string
		criteria   Criteria
		fields     Fields
		wantFilter Filter
		wantFields Fields
	}{
		{
			name:       "nil criteria",
			fields:     Fields{"id"},
			wantFilter: Filter{},
			wantFields: Fields{"id"},
		},
		{
			name:       "filter keeps fields",
			criteria:   Where(map[string]any{"id": 1}),
			fields:     Fields{"id"},
			wantFilter: Filter{Where: map[string]any{"id": 1}},
			wantFields: Fields{"id"},
		},
		{
			name:       "fields criteria replaces fields",
			criteria:   Fields{"id", "nickName"},
			fields:     Fields{"ignored"},
			wantFilter: Filter{},
			wantFields: Fields{"id", "nickName"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, cols := resolveCriteria(tt.criteria, tt.fields)
			assert.Equal(t, tt.wantFilter, f)
			assert.Equal(t, tt.wantFields, cols)
		})
	}
}

func TestIsEmpty(t *testing.T) {
	var nilPtr *int
	var nilMap map[string]any

	empty := []any{nil, "", "   ", "\t\n", nilPtr, nilMap}
	for _, v := range empty {
		assert.True(t, IsEmpty(v), "%#v", v)
	}

	notEmpty := []any{"a", 0, false, map[string]any{}, []string{}}
	for _, v := range notEmpty {
		assert.False(t, IsEmpty(v), "%#v", v)
	}
}

func TestKeyCount(t *testing.T) {
	assert.Equal(t, 0, KeyCount(Filter{}, true))
	assert.Equal(t, 2, KeyCount(Where(map[string]any{"a": 1, "b": 2}), false))

	bypassOnly := Filter{}.Unscoped()
	assert.Equal(t, 0, KeyCount(bypassOnly, false))
	assert.Equal(t, 1, KeyCount(bypassOnly, true))
}

func TestFilter_Unscoped(t *testing.T) {
	f := Where(map[string]any{"id": 1})
	u := f.Unscoped()

	assert.False(t, f.BypassSoftDelete, "receiver is not modified")
	assert.True(t, u.BypassSoftDelete)
	assert.Equal(t, f.Where, u.Where)
}
