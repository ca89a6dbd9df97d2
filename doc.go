// Package mdbsql provides serialized SQL access to Access (MDB/JET)
// database files, plus export of table schemas and contents as portable
// SQL statements for import into another engine.
//
// The implemented SQL subset is the underlying engine's: simple SELECT
// queries against single tables. There is no query optimizer, no
// transactions, and no writing back into the source file.
//
// # Quick Start
//
// Open a database file and run a query:
//
//	conn, err := mdbsql.Open("northwind.mdb")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	cursor, err := conn.Prepare("SELECT ID, A FROM Table1 WHERE ID = 1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for row := range cursor.Rows() {
//	    id, _ := mdbsql.Get[int](row, 0)
//	    a, _ := row.GetString(1)
//	    fmt.Println(id, a)
//	}
//
// A Connection is safe to share across goroutines: every query and every
// export is serialized behind one lock, held from Prepare until the
// cursor is closed. Rows must be decoded before advancing; a Row copies
// its values out of engine-owned buffers, so it stays valid afterwards.
//
// # Export
//
// The export package turns a table into executable SQL text:
//
//	ex := export.New(conn, export.Options{Dialect: dialect.Postgres{}})
//	dump, err := ex.Table("Orders")
//	// dump.Schema holds CREATE TABLE ..., dump.Data holds INSERT rows.
//
// See the dest package for applying dumps to a destination engine, the
// dump package for writing them to local paths or S3, and the snapshot
// package for committing them to a git repository.
package mdbsql
