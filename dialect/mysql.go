package dialect

import (
	"fmt"
	"strings"

	"github.com/mdbgo/mdbsql/engine"
)

// MySQL formats exports for MySQL and MariaDB.
type MySQL struct{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (MySQL) NormalizeIdentifier(name string) string {
	return normalize(name)
}

func (MySQL) ColumnType(col engine.Column) string {
	switch col.Type {
	case engine.Bool:
		return "TINYINT(1)"
	case engine.Byte:
		return "TINYINT UNSIGNED"
	case engine.Int:
		return "SMALLINT"
	case engine.LongInt:
		return "INT"
	case engine.Money:
		return "DECIMAL(19,4)"
	case engine.Float:
		return "FLOAT"
	case engine.Double:
		return "DOUBLE"
	case engine.DateTime:
		return "DATETIME"
	case engine.Binary:
		return "BLOB"
	case engine.OLE:
		return "LONGBLOB"
	case engine.Text:
		return fmt.Sprintf("VARCHAR(%d)", col.Size)
	case engine.Memo:
		return "LONGTEXT"
	case engine.RepID:
		return "CHAR(38)"
	case engine.Numeric:
		return fmt.Sprintf("DECIMAL(%d,%d)", col.Size, col.Scale)
	default:
		return "TEXT"
	}
}

func (MySQL) FormatLiteral(col engine.Column, raw []byte) string {
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
		// MySQL treats backslash as an escape inside string literals
		// by default, so it must be doubled along with quotes.
		s := strings.ReplaceAll(string(raw), `\`, `\\`)
		return quoteText(s)
	}
}
