package engine

// Engine is one open database file plus its in-progress query state.
//
// The contract follows the underlying engine's C API: RunQuery never
// returns an error directly; callers must inspect ErrorMessage afterwards
// (empty string means success). Column metadata and bound values point
// into engine-owned state that is reused by the next operation, so
// callers copy them out before advancing.
//
// At most one logical operation (query execution, row fetch, table
// export) may be in flight against an Engine at any instant.
type Engine interface {
	// RunQuery submits a query string for execution. Failures are
	// reported through the error slot, not a return value.
	RunQuery(query string)

	// ErrorMessage returns the contents of the engine's error slot.
	// Empty means the last operation succeeded.
	ErrorMessage() string

	// Columns enumerates the current result columns in projection order.
	Columns() []SQLColumn

	// BoundValues returns the textual value slots for the current row.
	// The returned strings are only valid until the next FetchRow or
	// Reset call.
	BoundValues() []string

	// FetchRow advances to the next result row, populating the bound
	// value slots. It returns false when the result set is exhausted.
	FetchRow() bool

	// Reset clears the current query state, releasing the result set
	// and emptying the error slot. The engine is reusable afterwards.
	Reset()

	// TableNames enumerates user tables from the catalog. Engine-internal
	// system tables are filtered out.
	TableNames() ([]string, error)

	// OpenTable reads the full definition of a named table, forces a
	// column read, and rewinds its cursor to the first row.
	OpenTable(name string) (Table, error)

	// SetBindSize sets the capacity ceiling, in bytes, for buffers
	// subsequently bound through Table.Bind.
	SetBindSize(n int)

	// Close releases the engine handle. The Engine must not be used
	// afterwards.
	Close() error
}

// Table is a per-table session handle used during export. It owns a
// cursor positioned before the first row and the set of column bind
// registrations made through Bind.
type Table interface {
	// Def returns the table definition captured at open time.
	Def() TableDef

	// Bind registers a fixed-capacity buffer and a length cell for the
	// column at index (zero-based). Each subsequent Fetch populates the
	// buffer in place and stores the value length, or -1 for NULL.
	Bind(col int, buf []byte, length *int32) error

	// Fetch advances the table cursor one row, filling all bound
	// buffers. It returns false at end of data.
	Fetch() bool

	// ReadOLE reads the full value of a large-binary column for the
	// current row, bypassing any bind buffer. A nil slice means NULL.
	ReadOLE(col int) ([]byte, error)

	// Rewind repositions the cursor before the first row.
	Rewind()

	// Release drops all bind registrations and frees the session. The
	// Table must not be used afterwards. Release is idempotent.
	Release()
}
