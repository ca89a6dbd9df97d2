package dialect

import (
	"fmt"
	"strings"

	"github.com/mdbgo/mdbsql/engine"
)

// SQLite formats exports for SQLite.
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (SQLite) NormalizeIdentifier(name string) string {
	return normalize(name)
}

func (SQLite) ColumnType(col engine.Column) string {
	switch col.Type {
	case engine.Bool, engine.Byte, engine.Int, engine.LongInt:
		return "INTEGER"
	case engine.Float, engine.Double:
		return "REAL"
	case engine.Money, engine.Numeric:
		return "NUMERIC"
	case engine.DateTime:
		return "DATETIME"
	case engine.Binary, engine.OLE:
		return "BLOB"
	default:
		return "TEXT"
	}
}

func (SQLite) FormatLiteral(col engine.Column, raw []byte) string {
	if raw == nil {
		return "NULL"
	}
	switch col.Type {
	case engine.Bool:
		if isTruthy(raw) {
			return "1"
		}
		return "0"
	case engine.Binary, engine.OLE:
		return fmt.Sprintf("X'%x'", raw)
	default:
		if col.Type.IsNumeric() {
			return numericText(raw)
		}
		return quoteText(string(raw))
	}
}
