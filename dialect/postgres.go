package dialect

import (
	"fmt"
	"strings"

	"github.com/mdbgo/mdbsql/engine"
)

// Postgres formats exports for PostgreSQL.
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (Postgres) NormalizeIdentifier(name string) string {
	// Postgres folds unquoted identifiers to lower case; match that so
	// quoted and unquoted references agree after import.
	return strings.ToLower(normalize(name))
}

func (Postgres) ColumnType(col engine.Column) string {
	switch col.Type {
	case engine.Bool:
		return "BOOLEAN"
	case engine.Byte, engine.Int:
		return "SMALLINT"
	case engine.LongInt:
		return "INTEGER"
	case engine.Money:
		return "NUMERIC(19,4)"
	case engine.Float:
		return "REAL"
	case engine.Double:
		return "DOUBLE PRECISION"
	case engine.DateTime:
		return "TIMESTAMP"
	case engine.Binary, engine.OLE:
		return "BYTEA"
	case engine.Text:
		return fmt.Sprintf("VARCHAR(%d)", col.Size)
	case engine.Memo:
		return "TEXT"
	case engine.RepID:
		return "UUID"
	case engine.Numeric:
		return fmt.Sprintf("NUMERIC(%d,%d)", col.Size, col.Scale)
	default:
		return "TEXT"
	}
}

func (Postgres) FormatLiteral(col engine.Column, raw []byte) string {
	if raw == nil {
		return "NULL"
	}
	switch col.Type {
	case engine.Bool:
		if isTruthy(raw) {
			return "TRUE"
		}
		return "FALSE"
	case engine.Binary, engine.OLE:
		return fmt.Sprintf(`'\x%x'`, raw)
	default:
		if col.Type.IsNumeric() {
			return numericText(raw)
		}
		return quoteText(string(raw))
	}
}

// isTruthy interprets the engine's boolean formatting ("0"/"1").
func isTruthy(raw []byte) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "0"
}
