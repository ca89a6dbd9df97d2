package engine

// ColumnType identifies the declared storage type of a table column.
// The values mirror the JET column type tags used by the underlying
// engine.
type ColumnType int

const (
	Bool ColumnType = iota + 1
	Byte
	Int
	LongInt
	Money
	Float
	Double
	DateTime
	Binary
	Text
	OLE
	Memo
	RepID
	Numeric
)

// String returns the engine's name for the column type.
func (t ColumnType) String() string {
	switch t {
	case Bool:
		return "Boolean"
	case Byte:
		return "Byte"
	case Int:
		return "Integer"
	case LongInt:
		return "Long Integer"
	case Money:
		return "Currency"
	case Float:
		return "Single"
	case Double:
		return "Double"
	case DateTime:
		return "DateTime"
	case Binary:
		return "Binary"
	case Text:
		return "Text"
	case OLE:
		return "OLE"
	case Memo:
		return "Memo/Hyperlink"
	case RepID:
		return "Replication ID"
	case Numeric:
		return "Numeric"
	default:
		return "Unknown"
	}
}

// IsLarge reports whether values of this type are unbounded in size and
// must be read per row instead of through a fixed bind buffer.
func (t ColumnType) IsLarge() bool {
	return t == OLE
}

// IsNumeric reports whether values of this type are emitted as unquoted
// SQL literals.
func (t ColumnType) IsNumeric() bool {
	switch t {
	case Byte, Int, LongInt, Money, Float, Double, Numeric:
		return true
	}
	return false
}

// Column describes one column of a table definition.
type Column struct {
	Name       string
	Type       ColumnType
	Size       int // declared maximum value size in bytes
	Scale      int // decimal scale for Money/Numeric
	AllowNulls bool
}

// SQLColumn describes one column of a query result: the projected name
// and the bind type the engine uses for its value slot.
type SQLColumn struct {
	Name     string
	BindType ColumnType
}

// Index describes a table index for schema export.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
	Primary bool
}

// Relationship describes a foreign-key relationship for schema export.
type Relationship struct {
	Table         string
	Column        string
	ForeignTable  string
	ForeignColumn string
}

// TableDef is the full definition of a named table.
type TableDef struct {
	Name          string
	Columns       []Column
	Indexes       []Index
	Relationships []Relationship
}
