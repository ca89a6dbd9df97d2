// Package enginemock provides a scriptable engine.Engine with validation
// and configurable responses for consumers' tests. Expectations are
// declared through Config; the mock records every call so tests can
// assert on ordering and payloads.
package enginemock

import (
	"errors"
	"fmt"

	"github.com/mdbgo/mdbsql/engine"
)

var (
	// ErrUnexpectedQuery is reported when the query is not as expected.
	ErrUnexpectedQuery = errors.New("unexpected query")

	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")
)

// Config represents the configuration for creating a Mock instance.
type Config struct {
	// ExpectedQuery, when non-empty, makes any other query fill the
	// error slot with ErrUnexpectedQuery.
	ExpectedQuery string

	// Columns defines the result columns returned after a query.
	Columns []engine.SQLColumn

	// Rows defines the result rows fetched after a query.
	Rows [][]string

	// QueryError, when non-empty, fills the error slot after RunQuery
	// regardless of the query.
	QueryError string

	// Tables is the catalog returned by TableNames.
	Tables []string

	// TableDef is the definition served by OpenTable.
	TableDef engine.TableDef

	// TableRows are the rows served through Table.Fetch/ReadOLE.
	TableRows [][]string

	// Error is the error to return if the mock is configured to fail.
	Error error

	// Fail makes TableNames, OpenTable, and Close return Error (or
	// ErrOperationFailed when Error is nil).
	Fail bool
}

// Mock simulates an engine with validation and configurable responses.
type Mock struct {
	Config

	// Queries records every RunQuery call in order.
	Queries []string

	// Resets counts Reset calls.
	Resets int

	// Closed reports whether Close was called.
	Closed bool

	// BindSize records the last SetBindSize call.
	BindSize int

	errmsg string
	pos    int
	bound  []string
	cols   []engine.SQLColumn
}

var _ engine.Engine = (*Mock)(nil)

// New creates a new Mock based on the provided Config.
func New(config Config) *Mock {
	return &Mock{Config: config}
}

func (m *Mock) RunQuery(query string) {
	m.Queries = append(m.Queries, query)
	m.errmsg = ""
	m.cols = nil
	m.bound = nil
	m.pos = 0

	if m.QueryError != "" {
		m.errmsg = m.QueryError
		return
	}
	if m.ExpectedQuery != "" && query != m.ExpectedQuery {
		m.errmsg = fmt.Sprintf("%v: expected %q, got %q", ErrUnexpectedQuery, m.ExpectedQuery, query)
		return
	}

	m.cols = m.Config.Columns
	m.bound = make([]string, len(m.Config.Columns))
}

func (m *Mock) ErrorMessage() string { return m.errmsg }

func (m *Mock) Columns() []engine.SQLColumn { return m.cols }

func (m *Mock) BoundValues() []string { return m.bound }

func (m *Mock) FetchRow() bool {
	if m.bound == nil || m.pos >= len(m.Rows) {
		return false
	}
	copy(m.bound, m.Rows[m.pos])
	m.pos++
	return true
}

func (m *Mock) Reset() {
	m.Resets++
	m.errmsg = ""
	m.cols = nil
	m.bound = nil
	m.pos = 0
}

func (m *Mock) TableNames() ([]string, error) {
	if err := m.failure(); err != nil {
		return nil, err
	}
	return m.Tables, nil
}

func (m *Mock) OpenTable(name string) (engine.Table, error) {
	if err := m.failure(); err != nil {
		return nil, err
	}
	if name != m.TableDef.Name {
		return nil, fmt.Errorf("Table %s does not exist in this database.", name)
	}
	return &Table{def: m.TableDef, rows: m.TableRows, pos: -1}, nil
}

func (m *Mock) SetBindSize(n int) { m.BindSize = n }

func (m *Mock) Close() error {
	m.Closed = true
	return m.failure()
}

func (m *Mock) failure() error {
	if m.Fail && m.Error != nil {
		return m.Error
	}
	if m.Fail {
		return ErrOperationFailed
	}
	return nil
}

type tableBind struct {
	col    int
	buf    []byte
	length *int32
}

// Table is the scripted table session returned by Mock.OpenTable. It
// records bind and release activity for assertions.
type Table struct {
	def  engine.TableDef
	rows [][]string
	pos  int

	// Binds records every Bind call's column index.
	Binds []int

	// Released reports whether Release was called.
	Released bool

	binds []tableBind
}

var _ engine.Table = (*Table)(nil)

func (t *Table) Def() engine.TableDef { return t.def }

func (t *Table) Bind(col int, buf []byte, length *int32) error {
	if t.Released {
		return errors.New("table session released")
	}
	if col < 0 || col >= len(t.def.Columns) {
		return fmt.Errorf("bind column %d out of range", col)
	}
	t.Binds = append(t.Binds, col)
	t.binds = append(t.binds, tableBind{col: col, buf: buf, length: length})
	return nil
}

func (t *Table) Fetch() bool {
	if t.Released || t.pos+1 >= len(t.rows) {
		return false
	}
	t.pos++

	row := t.rows[t.pos]
	for _, b := range t.binds {
		v := row[b.col]
		*b.length = int32(len(v))
		copy(b.buf, v)
	}
	return true
}

func (t *Table) ReadOLE(col int) ([]byte, error) {
	if t.pos < 0 || t.pos >= len(t.rows) {
		return nil, errors.New("no current row")
	}
	return []byte(t.rows[t.pos][col]), nil
}

func (t *Table) Rewind() { t.pos = -1 }

func (t *Table) Release() {
	t.Released = true
	t.binds = nil
}
