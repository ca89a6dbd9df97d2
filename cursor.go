package mdbsql

import (
	"iter"
	"slices"

	"github.com/mdbgo/mdbsql/engine"
)

// Cursor is a live handle to one query's result stream. It produces a
// lazy, single-pass, non-restartable sequence of rows in the engine's
// native fetch order, and holds the connection lock for its entire
// lifetime. Close must be called (or the Rows iterator run to
// completion) to release the lock.
type Cursor struct {
	conn   *Connection
	cols   []engine.SQLColumn
	done   bool
	closed bool
}

// Columns returns the result's column metadata, captured once when the
// cursor was created. The snapshot is immutable for the cursor's
// lifetime regardless of later engine operations.
func (cur *Cursor) Columns() []engine.SQLColumn {
	return cur.cols
}

// Next fetches the next row. It returns false when the result set is
// exhausted or the cursor is closed. The returned Row owns copies of the
// engine's value slots and stays valid after further fetches.
func (cur *Cursor) Next() (Row, bool) {
	if cur.closed || cur.done {
		return Row{}, false
	}

	defer func() {
		if r := recover(); r != nil {
			cur.conn.poisoned.Store(true)
			cur.closed = true
			cur.conn.mu.Unlock()
			panic(r)
		}
	}()

	if !cur.conn.eng.FetchRow() {
		cur.conn.eng.Reset()
		cur.done = true
		return Row{}, false
	}

	return Row{values: slices.Clone(cur.conn.eng.BoundValues())}, true
}

// Rows returns a single-use iterator over the remaining rows. The cursor
// is closed when the iterator finishes, whether by exhaustion or by an
// early break.
func (cur *Cursor) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		defer cur.Close()
		for {
			row, ok := cur.Next()
			if !ok || !yield(row) {
				return
			}
		}
	}
}

// Close releases the connection lock and ends the result stream. If the
// cursor was abandoned before exhaustion, engine-side cursor state is
// reset first. Close is idempotent.
func (cur *Cursor) Close() error {
	if cur.closed {
		return nil
	}
	cur.closed = true

	if !cur.done {
		cur.conn.eng.Reset()
	}
	cur.conn.mu.Unlock()
	return nil
}

// Row is one fetched record. Its values are copied out of engine-owned
// buffers at fetch time, so a Row stays valid after the cursor advances.
type Row struct {
	values []string
}

// Len returns the number of values in the row.
func (r Row) Len() int {
	return len(r.values)
}
