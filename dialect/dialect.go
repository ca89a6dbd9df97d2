package dialect

import (
	"fmt"
	"strings"

	"github.com/mdbgo/mdbsql"
	"github.com/mdbgo/mdbsql/engine"
)

// Dialect is the capability surface a destination engine contributes to
// an export: how identifiers are quoted and normalized, how source
// column types map to DDL type names, and how raw cell bytes become
// literal SQL text. Implementations are stateless; one is selected per
// export call.
type Dialect interface {
	// Name is the backend name used for selection, e.g. "postgres".
	Name() string

	// QuoteIdentifier wraps an identifier in the dialect's quoting
	// characters, escaping embedded quotes.
	QuoteIdentifier(name string) string

	// NormalizeIdentifier rewrites an identifier so it is legal in the
	// destination dialect without quoting surprises.
	NormalizeIdentifier(name string) string

	// ColumnType returns the DDL type name for a source column.
	ColumnType(col engine.Column) string

	// FormatLiteral formats one raw cell into literal SQL text. A nil
	// raw slice means NULL.
	FormatLiteral(col engine.Column, raw []byte) string
}

// Lookup returns the dialect registered under name.
func Lookup(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql":
		return Postgres{}, nil
	case "mysql":
		return MySQL{}, nil
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	case "mssql", "sqlserver":
		return MSSQL{}, nil
	}
	return nil, &mdbsql.EngineError{Message: fmt.Sprintf("invalid backend type: %s", name)}
}

// normalize replaces characters that are illegal or awkward in
// unquoted identifiers (spaces, punctuation from Access table names)
// with underscores.
func normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// quoteText single-quotes s, doubling embedded single quotes.
func quoteText(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// numericText trims the engine's textual formatting of a numeric value
// so it can pass through as an unquoted literal.
func numericText(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return "NULL"
	}
	return s
}
