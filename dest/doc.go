// Package dest executes export output against a destination engine.
// Apply splits a dump script into statements and runs them in one
// transaction, so a failed import leaves no partial table behind.
//
// This package imports only database/sql and does not depend on any
// driver. The subpackages (dest/sqlite, dest/postgres, dest/mysql,
// dest/mssql) register their drivers and return a ready *sql.DB.
package dest
