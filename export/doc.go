// Package export generates portable SQL from MDB tables: schema DDL
// (CREATE TABLE plus optional index and relationship statements) and
// bulk INSERT DML, formatted for a selected destination dialect.
//
// An Exporter is bound to a Connection and serializes against it, so
// exports and queries on the same Connection never interleave. Row data
// is read through fixed bind buffers sized by Options.BindSize; columns
// whose declared capacity exceeds that ceiling are rejected up front
// rather than silently truncated. Large-binary (OLE) columns bypass the
// buffers and are read in full per row.
package export
