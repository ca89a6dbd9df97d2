package dialect

import (
	"fmt"
	"strings"

	"github.com/mdbgo/mdbsql/engine"
)

// MSSQL formats exports for Microsoft SQL Server.
type MSSQL struct{}

func (MSSQL) Name() string { return "mssql" }

func (MSSQL) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (MSSQL) NormalizeIdentifier(name string) string {
	return normalize(name)
}

func (MSSQL) ColumnType(col engine.Column) string {
	switch col.Type {
	case engine.Bool:
		return "BIT"
	case engine.Byte:
		return "TINYINT"
	case engine.Int:
		return "SMALLINT"
	case engine.LongInt:
		return "INT"
	case engine.Money:
		return "MONEY"
	case engine.Float:
		return "REAL"
	case engine.Double:
		return "FLOAT"
	case engine.DateTime:
		return "DATETIME"
	case engine.Binary:
		return "VARBINARY(MAX)"
	case engine.OLE:
		return "IMAGE"
	case engine.Text:
		return fmt.Sprintf("VARCHAR(%d)", col.Size)
	case engine.Memo:
		return "TEXT"
	case engine.RepID:
		return "UNIQUEIDENTIFIER"
	case engine.Numeric:
		return fmt.Sprintf("NUMERIC(%d,%d)", col.Size, col.Scale)
	default:
		return "TEXT"
	}
}

func (MSSQL) FormatLiteral(col engine.Column, raw []byte) string {
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
		return fmt.Sprintf("0x%x", raw)
	default:
		if col.Type.IsNumeric() {
			return numericText(raw)
		}
		return quoteText(string(raw))
	}
}
