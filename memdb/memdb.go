package memdb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mdbgo/mdbsql/engine"
)

// ErrClosed is returned by operations on a closed engine.
var ErrClosed = errors.New("memdb: engine is closed")

// cell is one stored value: engine-formatted text plus, for binary
// columns, the raw bytes.
type cell struct {
	null bool
	text string
	blob []byte
}

type memTable struct {
	def  engine.TableDef
	rows [][]cell
}

// DB is an in-memory engine. It implements engine.Engine. A DB is not
// safe for concurrent use; wrap it in an mdbsql.Connection.
type DB struct {
	tables map[string]*memTable // keyed by lowercased name
	order  []string
	closed bool

	errmsg string

	// current query result
	cols   []engine.SQLColumn
	result [][]string
	pos    int
	bound  []string // value slots, reused across fetches
}

var _ engine.Engine = (*DB)(nil)

// New returns an empty engine. The catalog starts with the engine's
// system tables, which TableNames filters out.
func New() *DB {
	return &DB{tables: make(map[string]*memTable)}
}

// AddTable registers a table definition and its rows. Row values are
// converted to the engine's textual formatting by column type: nil for
// NULL, []byte for Binary/OLE columns, and string, bool, integer,
// float, or time.Time values elsewhere.
func (d *DB) AddTable(def engine.TableDef, rows ...[]any) error {
	key := strings.ToLower(def.Name)
	if _, exists := d.tables[key]; exists {
		return fmt.Errorf("memdb: table %s already exists", def.Name)
	}

	t := &memTable{def: def}
	for _, row := range rows {
		if len(row) != len(def.Columns) {
			return fmt.Errorf("memdb: table %s: row has %d values, want %d", def.Name, len(row), len(def.Columns))
		}
		cells := make([]cell, len(row))
		for i, v := range row {
			c, err := formatCell(def.Columns[i], v)
			if err != nil {
				return fmt.Errorf("memdb: table %s column %s: %w", def.Name, def.Columns[i].Name, err)
			}
			cells[i] = c
		}
		t.rows = append(t.rows, cells)
	}

	d.tables[key] = t
	d.order = append(d.order, def.Name)
	return nil
}

// formatCell renders one Go value the way the engine formats bound
// values: booleans as 0/1, dates in the engine's default date format.
func formatCell(col engine.Column, v any) (cell, error) {
	switch x := v.(type) {
	case nil:
		return cell{null: true}, nil
	case string:
		return cell{text: x}, nil
	case bool:
		if x {
			return cell{text: "1"}, nil
		}
		return cell{text: "0"}, nil
	case int:
		return cell{text: strconv.Itoa(x)}, nil
	case int32:
		return cell{text: strconv.FormatInt(int64(x), 10)}, nil
	case int64:
		return cell{text: strconv.FormatInt(x, 10)}, nil
	case float32:
		return cell{text: strconv.FormatFloat(float64(x), 'f', -1, 32)}, nil
	case float64:
		return cell{text: strconv.FormatFloat(x, 'f', -1, 64)}, nil
	case time.Time:
		return cell{text: x.Format("01/02/06 15:04:05")}, nil
	case []byte:
		return cell{text: string(x), blob: x}, nil
	default:
		return cell{}, fmt.Errorf("unsupported value type %T", v)
	}
}

func (d *DB) RunQuery(query string) {
	d.errmsg = ""
	d.clearResult()
	if d.closed {
		d.errmsg = ErrClosed.Error()
		return
	}

	stmt, err := parseSelect(query)
	if err != nil {
		d.errmsg = err.Error()
		return
	}

	t, ok := d.tables[strings.ToLower(stmt.table)]
	if !ok {
		d.errmsg = fmt.Sprintf("Table %s does not exist in this database.", stmt.table)
		return
	}

	// Resolve the projection to column indexes.
	var idx []int
	if len(stmt.columns) == 0 {
		idx = make([]int, len(t.def.Columns))
		for i := range idx {
			idx[i] = i
		}
	} else {
		for _, name := range stmt.columns {
			i := columnIndex(t.def, name)
			if i < 0 {
				d.errmsg = fmt.Sprintf("Column %s not found", name)
				return
			}
			idx = append(idx, i)
		}
	}

	for _, i := range idx {
		col := t.def.Columns[i]
		d.cols = append(d.cols, engine.SQLColumn{Name: col.Name, BindType: col.Type})
	}

	for _, row := range t.rows {
		ok, err := stmt.matches(t.def, row)
		if err != nil {
			d.errmsg = err.Error()
			d.clearResult()
			return
		}
		if !ok {
			continue
		}
		out := make([]string, len(idx))
		for j, i := range idx {
			out[j] = row[i].text
		}
		d.result = append(d.result, out)
		if stmt.limit > 0 && len(d.result) == stmt.limit {
			break
		}
	}

	d.bound = make([]string, len(idx))
}

func (d *DB) ErrorMessage() string {
	return d.errmsg
}

func (d *DB) Columns() []engine.SQLColumn {
	return d.cols
}

func (d *DB) BoundValues() []string {
	return d.bound
}

func (d *DB) FetchRow() bool {
	if d.pos >= len(d.result) {
		return false
	}
	copy(d.bound, d.result[d.pos])
	d.pos++
	return true
}

func (d *DB) Reset() {
	d.errmsg = ""
	d.clearResult()
}

func (d *DB) clearResult() {
	d.cols = nil
	d.result = nil
	d.bound = nil
	d.pos = 0
}

// TableNames lists user tables in creation order. System tables are
// engine-internal and never surface here.
func (d *DB) TableNames() ([]string, error) {
	if d.closed {
		return nil, ErrClosed
	}
	names := make([]string, 0, len(d.order))
	for _, name := range d.order {
		// Access files carry MSys* catalog tables; they are not part
		// of the user schema.
		if strings.HasPrefix(strings.ToLower(name), "msys") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func (d *DB) OpenTable(name string) (engine.Table, error) {
	if d.closed {
		return nil, ErrClosed
	}
	t, ok := d.tables[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("Table %s does not exist in this database.", name)
	}
	return &Table{table: t, pos: -1}, nil
}

// SetBindSize is a no-op: export sessions bind caller-provided buffers,
// so the engine needs no capacity hint of its own.
func (d *DB) SetBindSize(n int) {}

func (d *DB) Close() error {
	d.closed = true
	d.tables = nil
	d.clearResult()
	return nil
}

func columnIndex(def engine.TableDef, name string) int {
	for i, col := range def.Columns {
		if strings.EqualFold(col.Name, name) {
			return i
		}
	}
	return -1
}

type bind struct {
	col    int
	buf    []byte
	length *int32
}

// Table is a per-table export session. Fetch fills all bound buffers in
// place and records value lengths, -1 signalling NULL.
type Table struct {
	table    *memTable
	pos      int
	binds    []bind
	released bool
}

var _ engine.Table = (*Table)(nil)

func (t *Table) Def() engine.TableDef {
	return t.table.def
}

func (t *Table) Bind(col int, buf []byte, length *int32) error {
	if t.released {
		return errors.New("memdb: table session released")
	}
	if col < 0 || col >= len(t.table.def.Columns) {
		return fmt.Errorf("memdb: bind column %d out of range", col)
	}
	if length == nil {
		return errors.New("memdb: bind requires a length cell")
	}
	t.binds = append(t.binds, bind{col: col, buf: buf, length: length})
	return nil
}

func (t *Table) Fetch() bool {
	if t.released || t.pos+1 >= len(t.table.rows) {
		return false
	}
	t.pos++

	row := t.table.rows[t.pos]
	for _, b := range t.binds {
		c := row[b.col]
		if c.null {
			*b.length = -1
			continue
		}
		raw := c.raw()
		// The length cell always carries the full value size; when it
		// exceeds the buffer, copy clamps and the caller detects the
		// overflow by comparing length against its buffer.
		*b.length = int32(len(raw))
		copy(b.buf, raw)
	}
	return true
}

func (t *Table) ReadOLE(col int) ([]byte, error) {
	if t.pos < 0 || t.pos >= len(t.table.rows) {
		return nil, errors.New("memdb: no current row")
	}
	if col < 0 || col >= len(t.table.def.Columns) {
		return nil, fmt.Errorf("memdb: column %d out of range", col)
	}
	c := t.table.rows[t.pos][col]
	if c.null {
		return nil, nil
	}
	return c.raw(), nil
}

func (t *Table) Rewind() {
	t.pos = -1
}

func (t *Table) Release() {
	t.released = true
	t.binds = nil
}

func (c cell) raw() []byte {
	if c.blob != nil {
		return c.blob
	}
	return []byte(c.text)
}
