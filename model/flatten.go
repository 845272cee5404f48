package model

import (
	"sort"
	"strings"

	"github.com/goliatone/go-basemodel/entity"
)

// FlattenRow rewrites dot-qualified keys ("User.nickName") to the text after
// the first dot, overwriting any existing key of that name. Keys are visited
// in lexical order, so on collisions the last dotted key in that order wins.
// The input row is left untouched.
func FlattenRow(row entity.Row) entity.Row {
	if row == nil {
		return nil
	}

	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := row.Clone()
	for _, k := range keys {
		_, name, found := strings.Cut(k, ".")
		if !found {
			continue
		}
		out[name] = row[k]
		delete(out, k)
	}
	return out
}

// FlattenRows flattens each row independently.
func FlattenRows(rows []entity.Row) []entity.Row {
	if rows == nil {
		return nil
	}
	out := make([]entity.Row, len(rows))
	for i, row := range rows {
		out[i] = FlattenRow(row)
	}
	return out
}

// FlattenPage flattens every row of a pagination envelope.
func FlattenPage(page entity.PageResult) entity.PageResult {
	return entity.PageResult{
		Count: page.Count,
		Rows:  FlattenRows(page.Rows),
	}
}
