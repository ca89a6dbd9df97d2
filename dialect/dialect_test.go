package dialect

import (
	"errors"
	"testing"

	"github.com/mdbgo/mdbsql"
	"github.com/mdbgo/mdbsql/engine"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"postgres", "postgresql", "mysql", "sqlite", "sqlite3", "mssql", "sqlserver", "MySQL"} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Lookup(%q) failed: %v", name, err)
		}
	}

	_, err := Lookup("oracle")
	if err == nil {
		t.Fatal("Expected error for unknown backend")
	}
	var engErr *mdbsql.EngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("Expected *mdbsql.EngineError, got %T", err)
	}
	if engErr.Message != "invalid backend type: oracle" {
		t.Errorf("Unexpected error message: %q", engErr.Message)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		d    Dialect
		in   string
		want string
	}{
		{Postgres{}, "users", `"users"`},
		{Postgres{}, `we"ird`, `"we""ird"`},
		{SQLite{}, "users", `"users"`},
		{MySQL{}, "users", "`users`"},
		{MSSQL{}, "users", "[users]"},
	}

	for _, tc := range tests {
		if got := tc.d.QuoteIdentifier(tc.in); got != tc.want {
			t.Errorf("%s.QuoteIdentifier(%q) = %q, want %q", tc.d.Name(), tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	if got := (Postgres{}).NormalizeIdentifier("Order Details"); got != "order_details" {
		t.Errorf("Postgres normalize: got %q", got)
	}
	if got := (SQLite{}).NormalizeIdentifier("Order Details"); got != "Order_Details" {
		t.Errorf("SQLite normalize: got %q", got)
	}
}

func TestColumnTypes(t *testing.T) {
	text := engine.Column{Name: "A", Type: engine.Text, Size: 50}
	boolean := engine.Column{Name: "E", Type: engine.Bool}
	blob := engine.Column{Name: "P", Type: engine.OLE}

	if got := (Postgres{}).ColumnType(text); got != "VARCHAR(50)" {
		t.Errorf("Postgres text type: got %q", got)
	}
	if got := (Postgres{}).ColumnType(boolean); got != "BOOLEAN" {
		t.Errorf("Postgres bool type: got %q", got)
	}
	if got := (Postgres{}).ColumnType(blob); got != "BYTEA" {
		t.Errorf("Postgres OLE type: got %q", got)
	}
	if got := (SQLite{}).ColumnType(boolean); got != "INTEGER" {
		t.Errorf("SQLite bool type: got %q", got)
	}
	if got := (SQLite{}).ColumnType(blob); got != "BLOB" {
		t.Errorf("SQLite OLE type: got %q", got)
	}
}

func TestFormatLiteral(t *testing.T) {
	text := engine.Column{Name: "A", Type: engine.Text}
	num := engine.Column{Name: "B", Type: engine.LongInt}
	boolean := engine.Column{Name: "E", Type: engine.Bool}
	blob := engine.Column{Name: "P", Type: engine.OLE}

	// NULL is dialect-independent
	for _, d := range []Dialect{Postgres{}, MySQL{}, SQLite{}, MSSQL{}} {
		if got := d.FormatLiteral(text, nil); got != "NULL" {
			t.Errorf("%s: nil raw should format as NULL, got %q", d.Name(), got)
		}
	}

	if got := (Postgres{}).FormatLiteral(text, []byte("it's")); got != "'it''s'" {
		t.Errorf("Postgres text escape: got %q", got)
	}
	if got := (Postgres{}).FormatLiteral(num, []byte(" 42 ")); got != "42" {
		t.Errorf("Postgres numeric: got %q", got)
	}
	if got := (Postgres{}).FormatLiteral(boolean, []byte("1")); got != "TRUE" {
		t.Errorf("Postgres bool: got %q", got)
	}
	if got := (Postgres{}).FormatLiteral(boolean, []byte("0")); got != "FALSE" {
		t.Errorf("Postgres bool: got %q", got)
	}
	if got := (Postgres{}).FormatLiteral(blob, []byte{0xde, 0xad}); got != `'\xdead'` {
		t.Errorf("Postgres bytea: got %q", got)
	}

	if got := (SQLite{}).FormatLiteral(boolean, []byte("1")); got != "1" {
		t.Errorf("SQLite bool: got %q", got)
	}
	if got := (SQLite{}).FormatLiteral(blob, []byte{0xde, 0xad}); got != "X'dead'" {
		t.Errorf("SQLite blob: got %q", got)
	}

	if got := (MySQL{}).FormatLiteral(boolean, []byte("0")); got != "0" {
		t.Errorf("MySQL bool: got %q", got)
	}
	if got := (MSSQL{}).FormatLiteral(blob, []byte{0xde, 0xad}); got != "0xdead" {
		t.Errorf("MSSQL binary: got %q", got)
	}
}
