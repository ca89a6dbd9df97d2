// Package memdb provides an in-process engine.Engine loaded from Go
// values. It honors the same contracts as the libmdbsql binding: query
// failures are reported through the error slot, bound value slots are
// reused across fetches, system tables are filtered from the catalog,
// and export bind buffers are populated in place with a length cell.
//
// The supported SQL subset matches the underlying engine's: single-table
// SELECT with an optional WHERE clause of comparisons, LIKE, and IS
// [NOT] NULL tests joined by AND/OR, plus LIMIT.
//
// memdb backs the test suite and benchmarks:
//
//	db := memdb.New()
//	db.AddTable(def, rows...)
//	conn := mdbsql.New(db)
package memdb
