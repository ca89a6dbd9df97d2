package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mdbgo/mdbsql"
	"github.com/mdbgo/mdbsql/dialect"
	"github.com/mdbgo/mdbsql/engine"
	"github.com/mdbgo/mdbsql/memdb"
)

func setupTestCLI(t *testing.T) *CLI {
	db := memdb.New()
	def := engine.TableDef{
		Name: "People",
		Columns: []engine.Column{
			{Name: "ID", Type: engine.LongInt, Size: 4},
			{Name: "Name", Type: engine.Text, Size: 50},
		},
		Indexes: []engine.Index{
			{Name: "PrimaryKey", Columns: []string{"ID"}, Unique: true, Primary: true},
		},
	}
	if err := db.AddTable(def,
		[]any{1, "Alice"},
		[]any{2, "Bob"},
	); err != nil {
		t.Fatalf("Failed to add table: %v", err)
	}

	return &CLI{
		conn:     mdbsql.New(db),
		dialect:  dialect.SQLite{},
		history:  make([]string, 0),
		database: "test.mdb",
	}
}

func TestCLIRunQuery(t *testing.T) {
	cli := setupTestCLI(t)

	if err := cli.runQuery("SELECT * FROM People"); err != nil {
		t.Fatalf("runQuery failed: %v", err)
	}

	// The connection is released afterwards, so a second query works.
	if err := cli.runQuery("SELECT Name FROM People WHERE ID = 2"); err != nil {
		t.Fatalf("Second runQuery failed: %v", err)
	}
}

func TestCLIRunQueryError(t *testing.T) {
	cli := setupTestCLI(t)

	if err := cli.runQuery("SELECT * FROM Missing"); err == nil {
		t.Fatal("Expected error for unknown table")
	}

	// Still usable after the error
	if err := cli.runQuery("SELECT * FROM People"); err != nil {
		t.Fatalf("runQuery after error failed: %v", err)
	}
}

func TestCLIAddToHistory(t *testing.T) {
	cli := setupTestCLI(t)

	cli.addToHistory("SELECT * FROM People;")
	cli.addToHistory("SELECT Name FROM People;")

	if len(cli.history) != 2 {
		t.Errorf("Expected 2 history entries, got %d", len(cli.history))
	}

	// Adding duplicate of last command should not increase count
	cli.addToHistory("SELECT Name FROM People;")
	if len(cli.history) != 2 {
		t.Errorf("Expected 2 history entries after duplicate, got %d", len(cli.history))
	}
}

func TestCLIHistoryLimit(t *testing.T) {
	cli := setupTestCLI(t)

	// Add more than 1000 entries
	for i := 0; i < 1100; i++ {
		cli.addToHistory(fmt.Sprintf("SELECT %d;", i))
	}

	if len(cli.history) > 1000 {
		t.Errorf("Expected history to be limited to 1000, got %d", len(cli.history))
	}
}

func TestCLIHistoryRoundTrip(t *testing.T) {
	cli := setupTestCLI(t)
	cli.historyFile = filepath.Join(t.TempDir(), "history")

	cli.addToHistory("SELECT * FROM People;")
	cli.addToHistory("SELECT Name FROM People;")
	cli.saveHistory()

	reloaded := setupTestCLI(t)
	reloaded.historyFile = cli.historyFile
	reloaded.loadHistory()

	if len(reloaded.history) != 2 || reloaded.history[1] != "SELECT Name FROM People;" {
		t.Errorf("History did not round-trip: %v", reloaded.history)
	}
}

func TestCLIGetPrompt(t *testing.T) {
	cli := setupTestCLI(t)

	prompt := cli.getPrompt(false)
	if !strings.Contains(prompt, "mdbsql") || !strings.Contains(prompt, "test.mdb") {
		t.Errorf("Unexpected prompt: %q", prompt)
	}

	// Multi-line prompt
	prompt = cli.getPrompt(true)
	if !strings.Contains(prompt, "...") {
		t.Errorf("Unexpected continuation prompt: %q", prompt)
	}
}

func TestCLIExportTable(t *testing.T) {
	cli := setupTestCLI(t)
	dir := t.TempDir()

	cli.exportTable("People", dir)

	schema, err := os.ReadFile(filepath.Join(dir, "People", "schema.sql"))
	if err != nil {
		t.Fatalf("Failed to read exported schema: %v", err)
	}
	if !strings.Contains(string(schema), "CREATE TABLE") {
		t.Errorf("Unexpected schema output: %s", schema)
	}

	data, err := os.ReadFile(filepath.Join(dir, "People", "data.sql"))
	if err != nil {
		t.Fatalf("Failed to read exported data: %v", err)
	}
	if got := strings.Count(string(data), "INSERT INTO"); got != 2 {
		t.Errorf("Expected 2 inserts, got %d:\n%s", got, data)
	}
}

func TestVersionVariable(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
}

func TestSimpleTableRender(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf)
	table.Header([]string{"ID", "Name"})
	table.Row([]string{"1", "Alice"})
	table.Row([]string{"2", "Bob"})
	table.Render()

	out := buf.String()
	for _, want := range []string{"ID", "Name", "Alice", "Bob", "+"} {
		if !strings.Contains(out, want) {
			t.Errorf("Rendered table missing %q:\n%s", want, out)
		}
	}
}
