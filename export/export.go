package export

import (
	"fmt"
	"strings"

	"github.com/mdbgo/mdbsql"
	"github.com/mdbgo/mdbsql/dialect"
	"github.com/mdbgo/mdbsql/engine"
)

// DefaultBindSize is the per-column value buffer capacity, in bytes,
// used when Options.BindSize is zero.
const DefaultBindSize = 200000

// Options controls what an export emits and how rows are read.
type Options struct {
	// Dialect selects identifier quoting, DDL type names, and literal
	// formatting for the destination engine. Required.
	Dialect dialect.Dialect

	// BindSize is the capacity ceiling for non-OLE column buffers.
	// Zero means DefaultBindSize.
	BindSize int

	// IncludeIndexes adds CREATE INDEX statements to schema output.
	IncludeIndexes bool

	// IncludeRelationships adds foreign key constraints to schema output.
	IncludeRelationships bool

	// BatchRows groups this many VALUES tuples per INSERT statement.
	// Values below 2 emit one statement per row.
	BatchRows int
}

// Dump is the exported form of one table: executable schema DDL and
// bulk-insert DML, both ready to run against the destination engine.
type Dump struct {
	Table  string
	Schema string
	Data   string
}

// CapacityError reports a column whose declared maximum size, or an
// actual row value, exceeds the configured bind buffer capacity. The
// export fails rather than truncate values.
type CapacityError struct {
	Table    string
	Column   string
	Size     int
	BindSize int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("export %s: column %s needs %d bytes, exceeding the bind buffer capacity of %d",
		e.Table, e.Column, e.Size, e.BindSize)
}

// Exporter generates SQL dumps of tables reachable through one
// Connection. It holds the connection's lock for the full span of each
// call, so an Exporter is safe to share across goroutines.
type Exporter struct {
	conn *mdbsql.Connection
	opts Options
}

// New returns an Exporter over conn. Options.Dialect must be set.
func New(conn *mdbsql.Connection, opts Options) *Exporter {
	if opts.BindSize <= 0 {
		opts.BindSize = DefaultBindSize
	}
	return &Exporter{conn: conn, opts: opts}
}

// Schema returns the DDL for table: a CREATE TABLE statement, plus
// CREATE INDEX statements and foreign key constraints when the
// corresponding options are enabled.
func (e *Exporter) Schema(table string) (string, error) {
	var out string
	err := e.conn.Exclusive(func(eng engine.Engine) error {
		t, err := openTable(eng, table)
		if err != nil {
			return err
		}
		defer t.Release()

		out = e.schemaDDL(t.Def())
		return nil
	})
	return out, err
}

// Data returns the bulk INSERT statements for every row of table. A
// table with zero rows yields an empty string.
func (e *Exporter) Data(table string) (string, error) {
	var out string
	err := e.conn.Exclusive(func(eng engine.Engine) error {
		var err error
		out, err = e.dataDML(eng, table)
		return err
	})
	return out, err
}

// Table exports both schema and data for one table.
func (e *Exporter) Table(table string) (Dump, error) {
	d := Dump{Table: table}
	err := e.conn.Exclusive(func(eng engine.Engine) error {
		t, err := openTable(eng, table)
		if err != nil {
			return err
		}
		def := t.Def()
		t.Release()

		d.Schema = e.schemaDDL(def)
		d.Data, err = e.dataDML(eng, table)
		return err
	})
	if err != nil {
		return Dump{}, err
	}
	return d, nil
}

// Database exports every user table in the catalog.
func (e *Exporter) Database() ([]Dump, error) {
	names, err := e.conn.TableNames()
	if err != nil {
		return nil, err
	}

	dumps := make([]Dump, 0, len(names))
	for _, name := range names {
		d, err := e.Table(name)
		if err != nil {
			return nil, err
		}
		dumps = append(dumps, d)
	}
	return dumps, nil
}

func openTable(eng engine.Engine, table string) (engine.Table, error) {
	t, err := eng.OpenTable(table)
	if err != nil {
		return nil, &mdbsql.EngineError{Message: err.Error()}
	}
	return t, nil
}

func (e *Exporter) schemaDDL(def engine.TableDef) string {
	d := e.opts.Dialect
	name := d.QuoteIdentifier(d.NormalizeIdentifier(def.Name))

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", name)
	for i, col := range def.Columns {
		fmt.Fprintf(&b, "\t%s\t%s", e.ident(col.Name), d.ColumnType(col))
		if !col.AllowNulls {
			b.WriteString(" NOT NULL")
		}
		if i < len(def.Columns)-1 || hasPrimary(def) {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	if pk := primaryIndex(def); pk != nil {
		fmt.Fprintf(&b, "\tPRIMARY KEY (%s)\n", e.identList(pk.Columns))
	}
	b.WriteString(");\n")

	if e.opts.IncludeIndexes {
		for _, idx := range def.Indexes {
			if idx.Primary {
				continue
			}
			unique := ""
			if idx.Unique {
				unique = "UNIQUE "
			}
			fmt.Fprintf(&b, "CREATE %sINDEX %s ON %s (%s);\n",
				unique, e.ident(def.Name+"_"+idx.Name), name, e.identList(idx.Columns))
		}
	}

	if e.opts.IncludeRelationships {
		for _, rel := range def.Relationships {
			fmt.Fprintf(&b, "ALTER TABLE %s ADD FOREIGN KEY (%s) REFERENCES %s (%s);\n",
				name, e.ident(rel.Column), e.ident(rel.ForeignTable), e.ident(rel.ForeignColumn))
		}
	}

	return b.String()
}

func (e *Exporter) dataDML(eng engine.Engine, table string) (string, error) {
	t, err := openTable(eng, table)
	if err != nil {
		return "", err
	}
	defer t.Release()

	def := t.Def()

	// Bind phase. Every non-OLE column gets a fixed buffer and a length
	// cell; a column that cannot fit is a hard failure, never a
	// truncation. Release on any failure drops partial binds.
	eng.SetBindSize(e.opts.BindSize)
	bufs := make([][]byte, len(def.Columns))
	lengths := make([]int32, len(def.Columns))
	for i, col := range def.Columns {
		if col.Type.IsLarge() {
			continue
		}
		if col.Size+1 > e.opts.BindSize {
			return "", &CapacityError{Table: def.Name, Column: col.Name, Size: col.Size + 1, BindSize: e.opts.BindSize}
		}
		bufs[i] = make([]byte, e.opts.BindSize)
		if err := t.Bind(i, bufs[i], &lengths[i]); err != nil {
			return "", &mdbsql.EngineError{Message: err.Error()}
		}
	}
	t.Rewind()

	prefix := e.insertPrefix(def)

	// Row phase.
	var b strings.Builder
	pending := 0
	for t.Fetch() {
		tuple, err := e.rowTuple(t, def, bufs, lengths)
		if err != nil {
			return "", err
		}

		if pending == 0 {
			b.WriteString(prefix)
		} else {
			b.WriteString(",\n")
		}
		b.WriteString(tuple)
		pending++

		if e.opts.BatchRows < 2 || pending == e.opts.BatchRows {
			b.WriteString(";\n")
			pending = 0
		}
	}
	if pending > 0 {
		b.WriteString(";\n")
	}

	return b.String(), nil
}

func (e *Exporter) insertPrefix(def engine.TableDef) string {
	d := e.opts.Dialect

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (", d.QuoteIdentifier(d.NormalizeIdentifier(def.Name)))
	for i, col := range def.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.ident(col.Name))
	}
	b.WriteString(") VALUES ")
	return b.String()
}

func (e *Exporter) rowTuple(t engine.Table, def engine.TableDef, bufs [][]byte, lengths []int32) (string, error) {
	d := e.opts.Dialect

	var b strings.Builder
	b.WriteString("(")
	for i, col := range def.Columns {
		if i > 0 {
			b.WriteString(", ")
		}

		var raw []byte
		if col.Type.IsLarge() {
			// Unbounded value, read in full for this row.
			ole, err := t.ReadOLE(i)
			if err != nil {
				return "", &mdbsql.EngineError{Message: err.Error()}
			}
			raw = ole
		} else if lengths[i] >= 0 {
			// The length cell reports the full value size, which can
			// exceed the buffer when a stored value is wider than the
			// column declares.
			if int(lengths[i]) > len(bufs[i]) {
				return "", &CapacityError{Table: def.Name, Column: col.Name, Size: int(lengths[i]), BindSize: len(bufs[i])}
			}
			raw = bufs[i][:lengths[i]]
		}

		b.WriteString(d.FormatLiteral(col, raw))
	}
	b.WriteString(")")
	return b.String(), nil
}

func (e *Exporter) ident(name string) string {
	d := e.opts.Dialect
	return d.QuoteIdentifier(d.NormalizeIdentifier(name))
}

func (e *Exporter) identList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = e.ident(n)
	}
	return strings.Join(quoted, ", ")
}

func primaryIndex(def engine.TableDef) *engine.Index {
	for i := range def.Indexes {
		if def.Indexes[i].Primary {
			return &def.Indexes[i]
		}
	}
	return nil
}

func hasPrimary(def engine.TableDef) bool {
	return primaryIndex(def) != nil
}
