// Package interpret maps plain-text statements onto the engine API. The
// grammar is a deliberately small verb syntax; the storage core itself
// never sees text.
//
//	create <table> <column>:<type> ...
//	insert <table> <column>=<value> ...
//	select <table>
package interpret

import (
	"fmt"
	"strings"

	"github.com/joeandaverde/leafdb/engine"
	"github.com/joeandaverde/leafdb/internal/catalog"
	"github.com/joeandaverde/leafdb/internal/storage"
)

// Result is the outcome of one executed statement.
type Result struct {
	Rows    [][]storage.Column
	Message string
}

// Execute runs a statement against the database engine.
func Execute(e *engine.Engine, text string) (*Result, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return &Result{}, nil
	}

	verb, args := strings.ToLower(fields[0]), fields[1:]
	switch verb {
	case "create":
		return executeCreate(e, args)
	case "insert":
		return executeInsert(e, args)
	case "select":
		return executeSelect(e, args)
	}

	return nil, fmt.Errorf("unknown statement %q", verb)
}

func executeCreate(e *engine.Engine, args []string) (*Result, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("create wants a table name and at least one column")
	}

	table := args[0]
	columns := make([]catalog.ColumnDefinition, 0, len(args)-1)
	for _, arg := range args[1:] {
		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("column %q is not name:type", arg)
		}
		columnType, ok := storage.ColumnTypeFromString(parts[1])
		if !ok {
			return nil, fmt.Errorf("unknown column type %q", parts[1])
		}
		columns = append(columns, catalog.ColumnDefinition{Name: parts[0], Type: columnType})
	}

	if err := e.CreateTable(table, columns); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("created table %s", table)}, nil
}

func executeInsert(e *engine.Engine, args []string) (*Result, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("insert wants a table name and at least one column=value")
	}

	table := args[0]
	values := make(map[string]string, len(args)-1)
	for _, arg := range args[1:] {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("value %q is not column=value", arg)
		}
		values[parts[0]] = parts[1]
	}

	if err := e.InsertRecord(table, values); err != nil {
		return nil, err
	}
	return &Result{Message: "inserted 1 record"}, nil
}

func executeSelect(e *engine.Engine, args []string) (*Result, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("select wants exactly a table name")
	}

	rows, err := e.SelectAllRecords(args[0])
	if err != nil {
		return nil, err
	}
	return &Result{Rows: rows}, nil
}

// FormatRow renders a row for the shell and server output.
func FormatRow(row []storage.Column) string {
	parts := make([]string, len(row))
	for i, c := range row {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
