// Package libmdb implements engine.Engine over libmdbsql, the SQL
// front end of the mdbtools project. It is the production engine for
// real .mdb files and requires cgo plus the mdbtools development
// headers; without cgo, Open returns an error.
//
// The binding keeps the C API's shape: queries report failure through
// the handle's error-message slot, column metadata and bound values are
// copied out of engine-owned memory immediately, and bind buffers are
// allocated in C memory and mirrored into the caller's Go buffers on
// each fetch.
package libmdb
