package command

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joeandaverde/leafdb/engine"
	"github.com/joeandaverde/leafdb/internal/interpret"
)

// ShellCommand runs an interactive statement shell over a database.
type ShellCommand struct {
	ShutDownCh <-chan struct{}
}

func (i *ShellCommand) Help() string {
	helpText := `
Usage: leafdb shell [options]

Options:

	-data-dir="."	Directory holding the database file
	-page-size=0	Page size for a new database (0 = OS page size)
`

	return strings.TrimSpace(helpText)
}

func (i *ShellCommand) Synopsis() string {
	return "Runs an interactive shell against a database"
}

func (i *ShellCommand) Run(args []string) int {
	var dataDir string
	var pageSize int

	cmdFlags := flag.NewFlagSet("shell", flag.ContinueOnError)
	cmdFlags.StringVar(&dataDir, "data-dir", ".", "data directory")
	cmdFlags.IntVar(&pageSize, "page-size", 0, "page size for a new database")

	if err := cmdFlags.Parse(args); err != nil {
		return 1
	}

	db, err := engine.Start(&engine.Config{
		DataDir:  dataDir,
		PageSize: pageSize,
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error opening database: %s\n", err.Error())
		return 1
	}
	defer db.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(">> ")
		if !scanner.Scan() {
			return 0
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if line == ".exit" {
				return 0
			}
			fmt.Printf("Unknown meta command: %s\n", line)
			continue
		}

		result, err := interpret.Execute(db, line)
		if err != nil {
			fmt.Printf("error: %s\n", err)
			continue
		}

		for _, row := range result.Rows {
			fmt.Println(interpret.FormatRow(row))
		}
		if result.Message != "" {
			fmt.Println(result.Message)
		}
	}
}
