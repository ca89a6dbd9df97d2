//go:build cgo

package libmdb

/*
#cgo pkg-config: libmdbsql
#include <stdlib.h>
#include <string.h>
#include <mdbtools.h>
#include <mdbsql.h>

static MdbSQLColumn *sql_column_at(MdbSQL *sql, guint i) {
	return g_ptr_array_index(sql->columns, i);
}

static char *bound_value_at(MdbSQL *sql, guint i) {
	return g_ptr_array_index(sql->bound_values, i);
}

static MdbCatalogEntry *catalog_entry_at(MdbHandle *mdb, guint i) {
	return g_ptr_array_index(mdb->catalog, i);
}

static MdbColumn *table_column_at(MdbTableDef *table, guint i) {
	return g_ptr_array_index(table->columns, i);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/mdbgo/mdbsql/engine"
)

// ErrNotMdb is returned by Open when the engine does not recognize the
// file as an Access database.
var ErrNotMdb = errors.New("libmdb: file is not a recognizable mdb database")

// DB is an open libmdbsql session. It implements engine.Engine. A DB is
// not safe for concurrent use; wrap it in an mdbsql.Connection.
type DB struct {
	sql *C.MdbSQL
}

var _ engine.Engine = (*DB)(nil)

// Open opens the database file at path and initializes a query session
// bound to it.
func Open(path string) (engine.Engine, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.mdb_open(cpath, C.MDB_NOFLAGS)
	if handle == nil {
		return nil, ErrNotMdb
	}

	sql := C.mdb_sql_init()
	sql.mdb = handle
	return &DB{sql: sql}, nil
}

func (d *DB) RunQuery(query string) {
	cquery := C.CString(query)
	defer C.free(unsafe.Pointer(cquery))
	C.mdb_sql_run_query(d.sql, cquery)
}

func (d *DB) ErrorMessage() string {
	if d.sql.error_msg[0] == 0 {
		return ""
	}
	return C.GoString(&d.sql.error_msg[0])
}

func (d *DB) Columns() []engine.SQLColumn {
	n := int(d.sql.num_columns)
	cols := make([]engine.SQLColumn, 0, n)
	for i := 0; i < n; i++ {
		c := C.sql_column_at(d.sql, C.guint(i))
		cols = append(cols, engine.SQLColumn{
			Name:     C.GoString(c.name),
			BindType: engine.ColumnType(c.bind_type),
		})
	}
	return cols
}

func (d *DB) BoundValues() []string {
	n := int(d.sql.num_columns)
	values := make([]string, 0, n)
	for i := 0; i < n; i++ {
		values = append(values, C.GoString(C.bound_value_at(d.sql, C.guint(i))))
	}
	return values
}

func (d *DB) FetchRow() bool {
	return C.mdb_sql_fetch_row(d.sql, d.sql.cur_table) == 1
}

func (d *DB) Reset() {
	C.mdb_sql_reset(d.sql)
}

func (d *DB) TableNames() ([]string, error) {
	mdb := d.sql.mdb
	if C.mdb_read_catalog(mdb, C.MDB_TABLE) == nil {
		return nil, errors.New("libmdb: cannot read catalog")
	}

	var names []string
	for i := 0; i < int(mdb.num_catalog); i++ {
		entry := C.catalog_entry_at(mdb, C.guint(i))
		if C.mdb_is_system_table(entry) != 0 {
			continue
		}
		names = append(names, C.GoString(&entry.object_name[0]))
	}
	return names, nil
}

func (d *DB) OpenTable(name string) (engine.Table, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	table := C.mdb_read_table_by_name(d.sql.mdb, cname, C.MDB_TABLE)
	if table == nil {
		return nil, fmt.Errorf("Table %s does not exist in this database.", name)
	}

	C.mdb_read_columns(table)
	C.mdb_rewind_table(table)

	return &Table{db: d, table: table, def: readDef(name, table)}, nil
}

func (d *DB) SetBindSize(n int) {
	C.mdb_set_bind_size(d.sql.mdb, C.size_t(n))
}

// Close tears down the query session and releases the file handle.
func (d *DB) Close() error {
	if d.sql != nil {
		C.mdb_sql_exit(d.sql)
		d.sql = nil
	}
	return nil
}

func readDef(name string, table *C.MdbTableDef) engine.TableDef {
	def := engine.TableDef{Name: name}
	for i := 0; i < int(table.num_cols); i++ {
		c := C.table_column_at(table, C.guint(i))
		def.Columns = append(def.Columns, engine.Column{
			Name:  C.GoString(&c.name[0]),
			Type:  engine.ColumnType(c.col_type),
			Size:  int(c.col_size),
			Scale: int(c.col_scale),
			// JET column metadata carries no NOT NULL flag; primary key
			// columns are constrained through the PRIMARY KEY clause.
			AllowNulls: true,
		})
	}
	return def
}

type cbind struct {
	col    int
	cbuf   unsafe.Pointer
	clen   *C.int
	buf    []byte
	length *int32
}

// Table is a per-table export session over an MdbTableDef. Bind buffers
// live in C memory per cgo pointer-passing rules and are mirrored into
// the caller's Go buffers on each Fetch.
type Table struct {
	db       *DB
	table    *C.MdbTableDef
	def      engine.TableDef
	binds    []cbind
	released bool
}

func (t *Table) Def() engine.TableDef {
	return t.def
}

func (t *Table) Bind(col int, buf []byte, length *int32) error {
	if col < 0 || col >= len(t.def.Columns) {
		return fmt.Errorf("libmdb: bind column %d out of range", col)
	}

	cbuf := C.calloc(C.size_t(len(buf)), 1)
	clen := (*C.int)(C.calloc(1, C.size_t(unsafe.Sizeof(C.int(0)))))

	// mdb_bind_column indexes columns from 1.
	C.mdb_bind_column(t.table, C.int(col+1), cbuf, clen)

	t.binds = append(t.binds, cbind{col: col, cbuf: cbuf, clen: clen, buf: buf, length: length})
	return nil
}

func (t *Table) Fetch() bool {
	if C.mdb_fetch_row(t.table) != 1 {
		return false
	}
	for _, b := range t.binds {
		n := int32(*b.clen)
		*b.length = n
		if n > 0 {
			copy(b.buf, C.GoBytes(b.cbuf, C.int(min(int(n), len(b.buf)))))
		}
	}
	return true
}

func (t *Table) ReadOLE(col int) ([]byte, error) {
	if col < 0 || col >= len(t.def.Columns) {
		return nil, fmt.Errorf("libmdb: column %d out of range", col)
	}

	c := C.table_column_at(t.table, C.guint(col))
	var size C.size_t
	ptr := C.mdb_ole_read_full(t.db.sql.mdb, c, &size)
	if ptr == nil {
		return nil, nil
	}
	defer C.g_free(C.gpointer(ptr))

	return C.GoBytes(unsafe.Pointer(ptr), C.int(size)), nil
}

func (t *Table) Rewind() {
	C.mdb_rewind_table(t.table)
}

func (t *Table) Release() {
	if t.released {
		return
	}
	t.released = true

	for _, b := range t.binds {
		C.free(b.cbuf)
		C.free(unsafe.Pointer(b.clen))
	}
	t.binds = nil
	C.mdb_free_tabledef(t.table)
	t.table = nil
}
