package enginemock

import (
	"errors"
	"strings"
	"testing"

	"github.com/mdbgo/mdbsql/engine"
)

func testColumns() []engine.SQLColumn {
	return []engine.SQLColumn{
		{Name: "ID", BindType: engine.LongInt},
		{Name: "Name", BindType: engine.Text},
	}
}

func TestRunQueryReturnsConfiguredResult(t *testing.T) {
	mock := New(Config{
		Columns: testColumns(),
		Rows:    [][]string{{"1", "Foo"}, {"2", "Bar"}},
	})

	mock.RunQuery("SELECT * FROM T")

	if msg := mock.ErrorMessage(); msg != "" {
		t.Fatalf("Unexpected error message: %q", msg)
	}
	if len(mock.Columns()) != 2 {
		t.Fatalf("Expected 2 columns, got %d", len(mock.Columns()))
	}

	var rows [][]string
	for mock.FetchRow() {
		row := make([]string, len(mock.BoundValues()))
		copy(row, mock.BoundValues())
		rows = append(rows, row)
	}
	if len(rows) != 2 || rows[0][1] != "Foo" || rows[1][0] != "2" {
		t.Errorf("Unexpected rows: %v", rows)
	}

	if len(mock.Queries) != 1 || mock.Queries[0] != "SELECT * FROM T" {
		t.Errorf("Queries not recorded: %v", mock.Queries)
	}
}

func TestExpectedQueryMismatch(t *testing.T) {
	mock := New(Config{
		ExpectedQuery: "SELECT * FROM T",
		Columns:       testColumns(),
	})

	mock.RunQuery("SELECT * FROM Other")

	msg := mock.ErrorMessage()
	if !strings.Contains(msg, ErrUnexpectedQuery.Error()) {
		t.Errorf("Expected unexpected-query message, got %q", msg)
	}
	if mock.Columns() != nil {
		t.Error("Expected no columns after a rejected query")
	}
	if mock.FetchRow() {
		t.Error("Expected no rows after a rejected query")
	}
}

func TestQueryError(t *testing.T) {
	mock := New(Config{QueryError: "Table T does not exist in this database."})

	mock.RunQuery("SELECT * FROM T")

	if msg := mock.ErrorMessage(); msg != "Table T does not exist in this database." {
		t.Errorf("Unexpected error message: %q", msg)
	}
}

func TestReset(t *testing.T) {
	mock := New(Config{QueryError: "boom"})

	mock.RunQuery("SELECT 1")
	mock.Reset()

	if mock.ErrorMessage() != "" {
		t.Error("Expected error slot cleared after Reset")
	}
	if mock.Resets != 1 {
		t.Errorf("Expected 1 reset, got %d", mock.Resets)
	}
}

func TestFailures(t *testing.T) {
	custom := errors.New("disk on fire")

	mock := New(Config{Fail: true, Error: custom})
	if _, err := mock.TableNames(); !errors.Is(err, custom) {
		t.Errorf("Expected custom error from TableNames, got %v", err)
	}
	if _, err := mock.OpenTable("T"); !errors.Is(err, custom) {
		t.Errorf("Expected custom error from OpenTable, got %v", err)
	}
	if err := mock.Close(); !errors.Is(err, custom) {
		t.Errorf("Expected custom error from Close, got %v", err)
	}
	if !mock.Closed {
		t.Error("Expected Closed to be recorded even on failure")
	}

	fallback := New(Config{Fail: true})
	if _, err := fallback.TableNames(); !errors.Is(err, ErrOperationFailed) {
		t.Errorf("Expected ErrOperationFailed, got %v", err)
	}
}

func TestTableSession(t *testing.T) {
	mock := New(Config{
		TableDef: engine.TableDef{
			Name: "T",
			Columns: []engine.Column{
				{Name: "ID", Type: engine.LongInt, Size: 4},
				{Name: "Blob", Type: engine.OLE},
			},
		},
		TableRows: [][]string{{"1", "abc"}, {"2", "def"}},
	})

	if _, err := mock.OpenTable("Missing"); err == nil {
		t.Fatal("Expected error opening an unknown table")
	}

	tbl, err := mock.OpenTable("T")
	if err != nil {
		t.Fatalf("OpenTable failed: %v", err)
	}
	session := tbl.(*Table)

	buf := make([]byte, 16)
	var length int32
	if err := tbl.Bind(0, buf, &length); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if err := tbl.Bind(5, buf, &length); err == nil {
		t.Error("Expected error binding an out-of-range column")
	}

	var ids []string
	for tbl.Fetch() {
		ids = append(ids, string(buf[:length]))
	}
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "2" {
		t.Errorf("Unexpected fetched values: %v", ids)
	}

	blob, err := tbl.ReadOLE(1)
	if err != nil {
		t.Fatalf("ReadOLE failed: %v", err)
	}
	if string(blob) != "def" {
		t.Errorf("Expected OLE value of the current row, got %q", blob)
	}

	tbl.Rewind()
	if _, err := tbl.ReadOLE(1); err == nil {
		t.Error("Expected error reading OLE with no current row")
	}

	tbl.Release()
	if !session.Released {
		t.Error("Expected Released to be recorded")
	}
	if tbl.Fetch() {
		t.Error("Expected no rows after Release")
	}
	if err := tbl.Bind(0, buf, &length); err == nil {
		t.Error("Expected error binding a released session")
	}

	if got := session.Binds; len(got) != 1 || got[0] != 0 {
		t.Errorf("Unexpected bind record: %v", got)
	}
}
