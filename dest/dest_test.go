package dest

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/mdbgo/mdbsql/export"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "two statements",
			script: "CREATE TABLE t (a INT);\nINSERT INTO t VALUES (1);",
			want:   []string{"CREATE TABLE t (a INT)", "INSERT INTO t VALUES (1)"},
		},
		{
			name:   "semicolon inside string literal",
			script: "INSERT INTO t VALUES ('a;b');",
			want:   []string{"INSERT INTO t VALUES ('a;b')"},
		},
		{
			name:   "escaped quote inside string literal",
			script: "INSERT INTO t VALUES ('it''s; fine');",
			want:   []string{"INSERT INTO t VALUES ('it''s; fine')"},
		},
		{
			name:   "semicolon inside quoted identifier",
			script: `CREATE TABLE "a;b" (c INT);`,
			want:   []string{`CREATE TABLE "a;b" (c INT)`},
		},
		{
			name:   "semicolon inside bracketed identifier",
			script: "CREATE TABLE [a;b] (c INT);",
			want:   []string{"CREATE TABLE [a;b] (c INT)"},
		},
		{
			name:   "trailing statement without semicolon",
			script: "SELECT 1",
			want:   []string{"SELECT 1"},
		},
		{
			name:   "empty script",
			script: "  \n\t ",
			want:   nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := splitStatements(tc.script)
			if len(got) != len(tc.want) {
				t.Fatalf("Expected %d statements, got %d: %q", len(tc.want), len(got), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("Statement %d: got %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestApply(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	script := `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);
INSERT INTO users VALUES (1, 'Alice');
INSERT INTO users VALUES (2, 'Bo;b');`

	n, err := Apply(ctx, db, script)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("Expected 3 statements, got %d", n)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Expected 2 rows, got %d", count)
	}

	var name string
	if err := db.QueryRow("SELECT name FROM users WHERE id = 2").Scan(&name); err != nil {
		t.Fatal(err)
	}
	if name != "Bo;b" {
		t.Errorf("Expected Bo;b, got %q", name)
	}
}

func TestApplyRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := Apply(ctx, db, "CREATE TABLE t (a INTEGER);"); err != nil {
		t.Fatal(err)
	}

	script := `INSERT INTO t VALUES (1);
INSERT INTO nope VALUES (2);`

	if _, err := Apply(ctx, db, script); err == nil {
		t.Fatal("Expected error for bad statement")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM t").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("Expected rollback to leave 0 rows, got %d", count)
	}
}

func TestApplyEmptyScript(t *testing.T) {
	db := newTestDB(t)

	n, err := Apply(context.Background(), db, "")
	if err != nil {
		t.Fatalf("Apply failed on empty script: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 statements, got %d", n)
	}
}

func TestApplyDump(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	d := export.Dump{
		Table:  "t",
		Schema: "CREATE TABLE t (a INTEGER, b TEXT);",
		Data:   "INSERT INTO t VALUES (1, 'x');\nINSERT INTO t VALUES (2, 'y');",
	}

	if err := ApplyDump(ctx, db, d); err != nil {
		t.Fatalf("ApplyDump failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM t").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Expected 2 rows, got %d", count)
	}
}
