// Package dialect defines the destination SQL dialect used when
// exporting tables: identifier quoting and normalization, DDL type
// mapping, and literal value formatting.
//
// Postgres, MySQL, SQLite, and MSSQL dialects are provided. Lookup
// selects one by name, matching the backend-selection behavior of the
// underlying engine.
package dialect
