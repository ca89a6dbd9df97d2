package mdbsql

import (
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/mdbgo/mdbsql/engine"
	"github.com/mdbgo/mdbsql/libmdb"
)

// Connection wraps exactly one engine handle behind a mutex. A Connection
// may be shared across goroutines; every operation that touches the
// engine first acquires the lock and holds it for the operation's full
// span. A Cursor returned by Prepare keeps the lock until it is closed,
// so a second Prepare blocks until the first cursor is done.
type Connection struct {
	mu       sync.Mutex
	eng      engine.Engine
	poisoned atomic.Bool
}

// Open opens the MDB database file at path. It fails with ErrInvalidPath
// if the path does not name a regular file and with ErrInvalidMdbFile if
// the engine rejects the file contents.
func Open(path string) (*Connection, error) {
	if err := checkText(path); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	eng, err := libmdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMdbFile, path)
	}

	return New(eng), nil
}

// New wraps an already-open engine in a Connection. It is the injection
// point for alternative engine implementations such as memdb.
func New(eng engine.Engine) *Connection {
	return &Connection{eng: eng}
}

// Prepare submits query to the engine and returns a live Cursor over the
// result. The returned Cursor holds the connection lock until closed.
func (c *Connection) Prepare(query string) (*Cursor, error) {
	if err := checkText(query); err != nil {
		return nil, err
	}

	if err := c.acquire(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			c.poisoned.Store(true)
			c.mu.Unlock()
			panic(r)
		}
	}()

	c.eng.RunQuery(query)
	if msg := c.eng.ErrorMessage(); msg != "" {
		c.eng.Reset()
		c.mu.Unlock()
		return nil, &EngineError{Message: msg}
	}

	// Column metadata points into engine state reused by later
	// operations, so it is copied out eagerly.
	cols := slices.Clone(c.eng.Columns())

	return &Cursor{conn: c, cols: cols}, nil
}

// TableNames lists the user tables in the database, excluding
// engine-internal system tables.
func (c *Connection) TableNames() ([]string, error) {
	var names []string
	err := c.Exclusive(func(eng engine.Engine) error {
		var err error
		names, err = eng.TableNames()
		if err != nil {
			return &EngineError{Message: err.Error()}
		}
		return nil
	})
	return names, err
}

// Exclusive runs fn while holding the connection's engine lock. It exists
// for operations, such as table export, that need multi-step exclusive
// access to the engine. fn must not retain the engine past its return.
func (c *Connection) Exclusive(fn func(eng engine.Engine) error) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	defer c.poison()

	return fn(c.eng)
}

// Close releases the engine handle. Any error from the engine teardown is
// returned. Close blocks until in-flight operations complete.
func (c *Connection) Close() error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	return c.eng.Close()
}

func (c *Connection) acquire() error {
	c.mu.Lock()
	if c.poisoned.Load() {
		c.mu.Unlock()
		return ErrLockPoisoned
	}
	return nil
}

// poison marks the connection unusable when a panic escapes while the
// lock is held, then re-raises. It must be deferred after the unlock so
// the lock is still released during unwinding.
func (c *Connection) poison() {
	if r := recover(); r != nil {
		c.poisoned.Store(true)
		panic(r)
	}
}

// checkText rejects strings that cannot cross into the engine: embedded
// NUL bytes and invalid UTF-8.
func checkText(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return &EncodingError{Reason: "string contains an embedded NUL byte"}
		}
	}
	if !utf8.ValidString(s) {
		return &EncodingError{Reason: "string is not valid UTF-8"}
	}
	return nil
}
