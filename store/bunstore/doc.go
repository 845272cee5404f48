// Package bunstore implements entity.Entity on top of bun.
//
// Rows travel as map[string]any in both directions, so one Entity serves any
// table without a Go model type. Open wires the SQLite (modernc), PostgreSQL
// (pgx) and MySQL drivers to their bun dialects.
//
// Joined columns come back labelled "Alias.column", which is the shape the
// model package flattens.
package bunstore
