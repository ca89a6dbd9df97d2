//go:build !cgo

package libmdb

import (
	"errors"

	"github.com/mdbgo/mdbsql/engine"
)

// ErrNotMdb is returned by Open when the engine does not recognize the
// file as an Access database.
var ErrNotMdb = errors.New("libmdb: file is not a recognizable mdb database")

// Open always fails when the module is built without cgo; the libmdbsql
// binding is unavailable. Use memdb or another engine.Engine instead.
func Open(path string) (engine.Engine, error) {
	return nil, errors.New("libmdb: built without cgo, libmdbsql is unavailable")
}
