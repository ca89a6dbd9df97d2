// Package snapshot versions export output in a git repository. Each
// snapshot commits every table's schema.sql and data.sql, so repeated
// exports of a live database are diffable and any earlier state can be
// read back. A memory-backed store serves tests and one-shot runs; the
// file-backed store persists across processes.
package snapshot
