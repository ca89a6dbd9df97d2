package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdbgo/mdbsql"
	"github.com/mdbgo/mdbsql/dialect"
	"github.com/mdbgo/mdbsql/dump"
	"github.com/mdbgo/mdbsql/export"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// Version is set at build time via -ldflags
var Version = "dev"

// CLI holds the CLI state
type CLI struct {
	conn        *mdbsql.Connection
	dialect     dialect.Dialect
	exportDir   string
	s3cfg       *dump.S3Config
	history     []string
	historyFile string
	database    string // name of the open file, for the prompt
}

func main() {
	backend := flag.String("backend", "postgres", "Destination dialect for .export (postgres, mysql, sqlite, mssql)")
	exportDir := flag.String("exportDir", ".", "Location for .export output (local path, file://, or s3://)")
	query := flag.String("query", "", "Query to execute (non-interactive)")
	s3AccessKey := flag.String("s3AccessKey", "", "S3 access key for s3:// export locations")
	s3SecretKey := flag.String("s3SecretKey", "", "S3 secret key for s3:// export locations")
	s3Region := flag.String("s3Region", "", "S3 region for s3:// export locations")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <database.mdb>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	d, err := dialect.Lookup(*backend)
	if err != nil {
		fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
		os.Exit(1)
	}

	conn, err := mdbsql.Open(path)
	if err != nil {
		fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
		os.Exit(1)
	}
	defer conn.Close()

	var s3cfg *dump.S3Config
	if *s3AccessKey != "" {
		s3cfg = &dump.S3Config{
			AccessKey: *s3AccessKey,
			SecretKey: *s3SecretKey,
			Region:    *s3Region,
		}
	}

	cli := &CLI{
		conn:        conn,
		dialect:     d,
		exportDir:   *exportDir,
		s3cfg:       s3cfg,
		history:     make([]string, 0),
		historyFile: getHistoryPath(),
		database:    filepath.Base(path),
	}

	// Execute a single query if provided
	if *query != "" {
		if err := cli.runQuery(*query); err != nil {
			fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
			os.Exit(1)
		}
		return
	}

	printBanner()
	cli.loadHistory()
	cli.run()
}

func printBanner() {
	fmt.Println()
	bannerWidth := 39 // inner width of the banner box
	versionLine := fmt.Sprintf("mdbsql v%s", Version)
	padding := bannerWidth - len(versionLine) - 2 // -2 for "  " margins
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	fmt.Printf("%s%s╔═══════════════════════════════════════╗%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s║ %*s%s%*s ║%s\n", BoldColor, PromptColor, leftPad, "", versionLine, rightPad, "", ResetColor)
	fmt.Printf("%s%s║   SQL access to Access MDB files      ║%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s╚═══════════════════════════════════════╝%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
	fmt.Println("Type .help for commands, .quit to exit")
	fmt.Println()
}

func (cli *CLI) run() {
	reader := bufio.NewReader(os.Stdin)
	var multiLineBuffer strings.Builder

	for {
		prompt := cli.getPrompt(multiLineBuffer.Len() > 0)
		fmt.Print(prompt)

		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\n%sGoodbye!%s\n", SuccessColor, ResetColor)
			return
		}

		input = strings.TrimSuffix(input, "\n")
		input = strings.TrimSuffix(input, "\r")

		if strings.TrimSpace(input) == "" {
			continue
		}

		// Special commands only apply outside multi-line mode
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(input, ".") {
			if cli.handleCommand(input) {
				continue
			}
		}

		// Multi-line support: accumulate until we see a semicolon
		multiLineBuffer.WriteString(input)

		trimmed := strings.TrimSpace(multiLineBuffer.String())
		if !strings.HasSuffix(trimmed, ";") {
			multiLineBuffer.WriteString(" ")
			continue
		}

		sql := strings.TrimSuffix(trimmed, ";")
		multiLineBuffer.Reset()

		if strings.TrimSpace(sql) == "" {
			continue
		}

		cli.addToHistory(sql + ";")

		if err := cli.runQuery(sql); err != nil {
			fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		}
	}
}

func (cli *CLI) getPrompt(multiLine bool) string {
	if multiLine {
		return fmt.Sprintf("%s   ...>%s ", PromptColor, ResetColor)
	}
	return fmt.Sprintf("%smdbsql (%s)>%s ", PromptColor, cli.database, ResetColor)
}

func (cli *CLI) runQuery(sql string) error {
	cursor, err := cli.conn.Prepare(sql)
	if err != nil {
		return err
	}
	defer cursor.Close()

	cols := cursor.Columns()
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Name
	}

	table := NewTable(os.Stdout)
	table.Header(headers)

	count := 0
	for row := range cursor.Rows() {
		cells := make([]string, row.Len())
		for i := range cells {
			cells[i], _ = row.Value(i)
		}
		table.Row(cells)
		count++
	}

	if count > 0 {
		table.Render()
	}
	fmt.Printf("%d rows\n", count)
	return nil
}

func (cli *CLI) handleCommand(input string) bool {
	parts := strings.Fields(strings.TrimSpace(input))
	if len(parts) == 0 {
		return true
	}

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		fmt.Printf("%sGoodbye!%s\n", SuccessColor, ResetColor)
		cli.saveHistory()
		cli.conn.Close()
		os.Exit(0)

	case ".help", ".h", ".?":
		cli.printHelp()

	case ".tables":
		cli.showTables()

	case ".schema":
		if len(parts) > 1 {
			cli.showSchema(parts[1])
		} else {
			fmt.Printf("%s✗ Usage: .schema <table>%s\n", ErrorColor, ResetColor)
		}

	case ".export":
		switch len(parts) {
		case 2:
			cli.exportTable(parts[1], cli.exportDir)
		case 3:
			cli.exportTable(parts[1], parts[2])
		default:
			fmt.Printf("%s✗ Usage: .export <table> [location]%s\n", ErrorColor, ResetColor)
		}

	case ".clear", ".cls":
		fmt.Print("\033[H\033[2J")

	case ".history":
		cli.printHistory()

	case ".version":
		fmt.Printf("mdbsql version %s\n", Version)

	default:
		fmt.Printf("%s✗ Unknown command: %s (type .help for commands)%s\n", ErrorColor, parts[0], ResetColor)
	}

	return true
}

func (cli *CLI) printHelp() {
	fmt.Println()
	fmt.Printf("%s%sSpecial Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  .help, .h            Show this help message")
	fmt.Println("  .quit, .exit         Exit the CLI")
	fmt.Println("  .tables              List tables in the database")
	fmt.Println("  .schema <table>      Show CREATE TABLE DDL for a table")
	fmt.Println("  .export <table> [loc] Export schema and data to a location")
	fmt.Println("  .history             Show command history")
	fmt.Println("  .clear               Clear the screen")
	fmt.Println("  .version             Show version info")
	fmt.Println()
	fmt.Printf("%s%sQueries:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  SELECT <cols> FROM <table> [WHERE ...];")
	fmt.Println()
}

func (cli *CLI) showTables() {
	names, err := cli.conn.TableNames()
	if err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}

	table := NewTable(os.Stdout)
	table.Header([]string{"Table"})
	for _, name := range names {
		table.Row([]string{name})
	}
	table.Render()
}

func (cli *CLI) showSchema(name string) {
	exporter := export.New(cli.conn, export.Options{
		Dialect:              cli.dialect,
		IncludeIndexes:       true,
		IncludeRelationships: true,
	})

	ddl, err := exporter.Schema(name)
	if err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	fmt.Print(ddl)
}

func (cli *CLI) exportTable(name, location string) {
	exporter := export.New(cli.conn, export.Options{
		Dialect:              cli.dialect,
		IncludeIndexes:       true,
		IncludeRelationships: true,
	})

	d, err := exporter.Table(name)
	if err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}

	if err := dump.WriteDump(location, d, cli.s3cfg); err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}

	fmt.Printf("%s✓ Exported %s to %s%s\n", SuccessColor, name, location, ResetColor)
}

func (cli *CLI) addToHistory(cmd string) {
	// Don't add duplicates of the last command
	if len(cli.history) > 0 && cli.history[len(cli.history)-1] == cmd {
		return
	}
	cli.history = append(cli.history, cmd)

	if len(cli.history) > 1000 {
		cli.history = cli.history[len(cli.history)-1000:]
	}
}

func (cli *CLI) printHistory() {
	if len(cli.history) == 0 {
		fmt.Println("No command history")
		return
	}

	start := 0
	if len(cli.history) > 20 {
		start = len(cli.history) - 20
	}

	for i := start; i < len(cli.history); i++ {
		fmt.Printf("  %3d  %s\n", i+1, cli.history[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mdbsql_history")
}

func (cli *CLI) loadHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Open(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		cli.history = append(cli.history, scanner.Text())
	}
}

func (cli *CLI) saveHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Create(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	start := 0
	if len(cli.history) > 1000 {
		start = len(cli.history) - 1000
	}

	for i := start; i < len(cli.history); i++ {
		_, _ = file.WriteString(cli.history[i] + "\n")
	}
}
