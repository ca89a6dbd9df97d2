package dest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mdbgo/mdbsql/export"
)

// Apply splits script into statements and executes them within a single
// transaction, returning the number of statements executed. If any
// statement fails, the transaction rolls back and the error names the
// statement's position.
func Apply(ctx context.Context, db *sql.DB, script string) (int, error) {
	stmts := splitStatements(script)
	if len(stmts) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("executing statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(stmts), nil
}

// ApplyDump imports one table dump: schema first, then data.
func ApplyDump(ctx context.Context, db *sql.DB, d export.Dump) error {
	if _, err := Apply(ctx, db, d.Schema); err != nil {
		return fmt.Errorf("applying schema for %s: %w", d.Table, err)
	}
	if _, err := Apply(ctx, db, d.Data); err != nil {
		return fmt.Errorf("applying data for %s: %w", d.Table, err)
	}
	return nil
}

// splitStatements breaks a script on semicolons that sit outside quoted
// regions. Semicolons inside single-quoted literals, double-quoted or
// bracketed identifiers, and backtick identifiers do not split.
func splitStatements(script string) []string {
	var stmts []string
	var b strings.Builder

	var quote byte // active quote character, 0 when outside
	for i := 0; i < len(script); i++ {
		c := script[i]

		switch {
		case quote != 0:
			b.WriteByte(c)
			if c == quote {
				// doubled quote is an escape, stay inside
				if i+1 < len(script) && script[i+1] == quote {
					b.WriteByte(script[i+1])
					i++
					continue
				}
				quote = 0
			}

		case c == '\'' || c == '"' || c == '`':
			quote = c
			b.WriteByte(c)

		case c == '[':
			quote = ']'
			b.WriteByte(c)

		case c == ';':
			if s := strings.TrimSpace(b.String()); s != "" {
				stmts = append(stmts, s)
			}
			b.Reset()

		default:
			b.WriteByte(c)
		}
	}

	if s := strings.TrimSpace(b.String()); s != "" {
		stmts = append(stmts, s)
	}
	return stmts
}
