package export_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/mdbgo/mdbsql"
	"github.com/mdbgo/mdbsql/dialect"
	"github.com/mdbgo/mdbsql/engine"
	"github.com/mdbgo/mdbsql/export"
	"github.com/mdbgo/mdbsql/memdb"
)

func ordersDef() engine.TableDef {
	return engine.TableDef{
		Name: "Order Details",
		Columns: []engine.Column{
			{Name: "ID", Type: engine.LongInt, Size: 4},
			{Name: "Name", Type: engine.Text, Size: 50, AllowNulls: true},
			{Name: "Photo", Type: engine.OLE, AllowNulls: true},
		},
		Indexes: []engine.Index{
			{Name: "PrimaryKey", Columns: []string{"ID"}, Unique: true, Primary: true},
			{Name: "NameIdx", Columns: []string{"Name"}},
		},
		Relationships: []engine.Relationship{
			{Table: "Order Details", Column: "ID", ForeignTable: "Orders", ForeignColumn: "OrderID"},
		},
	}
}

func newConn(t *testing.T, rows ...[]any) *mdbsql.Connection {
	t.Helper()

	eng := memdb.New()
	if err := eng.AddTable(ordersDef(), rows...); err != nil {
		t.Fatalf("AddTable failed: %v", err)
	}
	return mdbsql.New(eng)
}

func TestSchemaDDL(t *testing.T) {
	conn := newConn(t)
	exporter := export.New(conn, export.Options{
		Dialect:              dialect.SQLite{},
		IncludeIndexes:       true,
		IncludeRelationships: true,
	})

	ddl, err := exporter.Schema("Order Details")
	if err != nil {
		t.Fatalf("Schema failed: %v", err)
	}

	want := `CREATE TABLE "Order_Details" (
	"ID"	INTEGER NOT NULL,
	"Name"	TEXT,
	"Photo"	BLOB,
	PRIMARY KEY ("ID")
);
CREATE INDEX "Order_Details_NameIdx" ON "Order_Details" ("Name");
ALTER TABLE "Order_Details" ADD FOREIGN KEY ("ID") REFERENCES "Orders" ("OrderID");
`
	if ddl != want {
		t.Errorf("Unexpected DDL:\n%s\nwant:\n%s", ddl, want)
	}
}

func TestSchemaWithoutOptionalDDL(t *testing.T) {
	conn := newConn(t)
	exporter := export.New(conn, export.Options{Dialect: dialect.SQLite{}})

	ddl, err := exporter.Schema("Order Details")
	if err != nil {
		t.Fatalf("Schema failed: %v", err)
	}
	if strings.Contains(ddl, "CREATE INDEX") || strings.Contains(ddl, "FOREIGN KEY") {
		t.Errorf("Index/relationship DDL emitted without the options set:\n%s", ddl)
	}
	if !strings.Contains(ddl, `PRIMARY KEY ("ID")`) {
		t.Errorf("Primary key clause missing:\n%s", ddl)
	}
}

func TestDataDML(t *testing.T) {
	conn := newConn(t,
		[]any{1, "Foo", []byte{0x01}},
		[]any{2, nil, nil},
	)
	exporter := export.New(conn, export.Options{Dialect: dialect.SQLite{}})

	data, err := exporter.Data("Order Details")
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}

	want := `INSERT INTO "Order_Details" ("ID", "Name", "Photo") VALUES (1, 'Foo', X'01');
INSERT INTO "Order_Details" ("ID", "Name", "Photo") VALUES (2, NULL, NULL);
`
	if data != want {
		t.Errorf("Unexpected DML:\n%s\nwant:\n%s", data, want)
	}
}

func TestDataBatchRows(t *testing.T) {
	conn := newConn(t,
		[]any{1, "a", nil},
		[]any{2, "b", nil},
		[]any{3, "c", nil},
	)
	exporter := export.New(conn, export.Options{Dialect: dialect.SQLite{}, BatchRows: 2})

	data, err := exporter.Data("Order Details")
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}

	if got := strings.Count(data, "INSERT INTO"); got != 2 {
		t.Errorf("Expected 2 INSERT statements for 3 rows at BatchRows=2, got %d:\n%s", got, data)
	}
	if !strings.Contains(data, "(1, 'a', NULL),\n(2, 'b', NULL);") {
		t.Errorf("Batched tuple grouping missing:\n%s", data)
	}
}

func TestDataZeroRows(t *testing.T) {
	conn := newConn(t)
	exporter := export.New(conn, export.Options{Dialect: dialect.SQLite{}})

	data, err := exporter.Data("Order Details")
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if data != "" {
		t.Errorf("Expected empty DML body for zero rows, got %q", data)
	}

	// Schema is still produced.
	ddl, err := exporter.Schema("Order Details")
	if err != nil || ddl == "" {
		t.Errorf("Expected schema for empty table, got %q (%v)", ddl, err)
	}
}

func TestMissingTable(t *testing.T) {
	conn := newConn(t)
	exporter := export.New(conn, export.Options{Dialect: dialect.SQLite{}})

	var engErr *mdbsql.EngineError
	if _, err := exporter.Data("Missing"); !errors.As(err, &engErr) {
		t.Fatalf("Expected EngineError, got %v", err)
	}
	if _, err := exporter.Schema("Missing"); !errors.As(err, &engErr) {
		t.Fatalf("Expected EngineError, got %v", err)
	}

	// The connection stays usable.
	if _, err := exporter.Schema("Order Details"); err != nil {
		t.Fatalf("Connection unusable after missing-table export: %v", err)
	}
}

func TestCapacityViolation(t *testing.T) {
	conn := newConn(t, []any{1, "Foo", nil})
	exporter := export.New(conn, export.Options{Dialect: dialect.SQLite{}, BindSize: 10})

	_, err := exporter.Data("Order Details")
	var capErr *export.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("Expected CapacityError, got %v", err)
	}
	if capErr.Column != "Name" || capErr.BindSize != 10 {
		t.Errorf("CapacityError carries wrong context: %+v", capErr)
	}
}

func TestOversizedValueFailsExport(t *testing.T) {
	// A stored value wider than the column declares passes the declared
	// size check but overflows the bind buffer at fetch time.
	def := engine.TableDef{
		Name:    "Narrow",
		Columns: []engine.Column{{Name: "V", Type: engine.Text, Size: 5, AllowNulls: true}},
	}
	eng := memdb.New()
	if err := eng.AddTable(def, []any{"0123456789"}); err != nil {
		t.Fatalf("AddTable failed: %v", err)
	}
	conn := mdbsql.New(eng)
	exporter := export.New(conn, export.Options{Dialect: dialect.SQLite{}, BindSize: 7})

	_, err := exporter.Data("Narrow")
	var capErr *export.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("Expected CapacityError, got %v", err)
	}
	if capErr.Column != "V" || capErr.Size != 10 || capErr.BindSize != 7 {
		t.Errorf("CapacityError carries wrong context: %+v", capErr)
	}

	// The failure is an error return, not a panic, so the connection
	// lock is released intact.
	cur, err := conn.Prepare("SELECT * FROM Narrow")
	if err != nil {
		t.Fatalf("Connection unusable after oversized-value export: %v", err)
	}
	cur.Close()
}

func TestTableDump(t *testing.T) {
	conn := newConn(t, []any{1, "Foo", nil})
	exporter := export.New(conn, export.Options{Dialect: dialect.Postgres{}})

	d, err := exporter.Table("Order Details")
	if err != nil {
		t.Fatalf("Table failed: %v", err)
	}
	if d.Table != "Order Details" {
		t.Errorf("Expected table name carried on dump, got %q", d.Table)
	}
	if !strings.Contains(d.Schema, `CREATE TABLE "order_details"`) {
		t.Errorf("Postgres identifiers not normalized:\n%s", d.Schema)
	}
	if !strings.Contains(d.Data, `INSERT INTO "order_details" ("id", "name", "photo") VALUES (1, 'Foo', NULL);`) {
		t.Errorf("Unexpected data:\n%s", d.Data)
	}
}

func TestDatabaseExportsAllTables(t *testing.T) {
	eng := memdb.New()
	if err := eng.AddTable(ordersDef(), []any{1, "Foo", nil}); err != nil {
		t.Fatal(err)
	}
	second := engine.TableDef{
		Name:    "Plain",
		Columns: []engine.Column{{Name: "V", Type: engine.Text, Size: 10, AllowNulls: true}},
	}
	if err := eng.AddTable(second, []any{"x"}); err != nil {
		t.Fatal(err)
	}

	conn := mdbsql.New(eng)
	exporter := export.New(conn, export.Options{Dialect: dialect.SQLite{}})

	dumps, err := exporter.Database()
	if err != nil {
		t.Fatalf("Database failed: %v", err)
	}
	if len(dumps) != 2 {
		t.Fatalf("Expected 2 dumps, got %d", len(dumps))
	}
	if dumps[0].Table != "Order Details" || dumps[1].Table != "Plain" {
		t.Errorf("Unexpected dump order: %s, %s", dumps[0].Table, dumps[1].Table)
	}
}
