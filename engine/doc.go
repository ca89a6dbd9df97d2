// Package engine defines the capability surface consumed from an MDB
// database engine.
//
// The Engine interface models one open database file plus its in-progress
// query state: submitting a query string, inspecting the post-execution
// error slot, enumerating result columns and bound values, and fetching
// rows. The Table interface models a per-table session used by the export
// path: column definitions, fixed-buffer binding, row fetching, and
// on-demand reads of large-binary (OLE) values.
//
// Two implementations ship with this module:
//   - memdb: an in-process engine loaded from Go values, used by tests
//     and benchmarks.
//   - libmdb: a cgo binding to libmdbsql (mdbtools), used against real
//     .mdb files.
//
// Engines are not safe for concurrent use. The mdbsql.Connection type
// serializes all access to a single Engine behind a mutex.
package engine
