// Package catalog maintains the master table on page 1: one row per user
// table, carrying the table's root page and its serialized column list.
package catalog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/joeandaverde/leafdb/internal/storage"
)

var (
	// ErrNoSuchTable indicates a catalog lookup matched no row.
	ErrNoSuchTable = errors.New("no such table")

	// ErrAmbiguousTable indicates a catalog lookup matched more than one row.
	ErrAmbiguousTable = errors.New("ambiguous table")
)

// schemaTypeTable tags catalog rows that describe tables.
const schemaTypeTable = 1

// ColumnDefinition is a column in a table schema.
type ColumnDefinition struct {
	Name string
	Type storage.ColumnType
}

// TableDefinition describes a user table.
type TableDefinition struct {
	Name     string
	RootPage int
	Columns  []ColumnDefinition
}

// Column looks up a column definition by name.
func (t *TableDefinition) Column(name string) (ColumnDefinition, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDefinition{}, false
}

// CreateTable allocates a fresh leaf page for the table and stages its
// catalog row on page 1. The caller commits.
func CreateTable(pager *storage.Pager, name string, columns []ColumnDefinition) (*TableDefinition, error) {
	rootPage, err := pager.Allocate()
	if err != nil {
		return nil, err
	}

	row := storage.NewRecord([]storage.Column{
		storage.Integer(schemaTypeTable),
		storage.Text(name),
		storage.Integer(int64(rootPage)),
		storage.Blob(EncodeColumns(columns)),
	})

	if err := storage.NewBTreeTable(1, pager).Insert(row); err != nil {
		return nil, fmt.Errorf("catalog row for %q: %w", name, err)
	}

	return &TableDefinition{Name: name, RootPage: rootPage, Columns: columns}, nil
}

// GetTableDefinition scans page 1 for the named table.
func GetTableDefinition(pager *storage.Pager, name string) (*TableDefinition, error) {
	matches := func(row []storage.Column) bool {
		return len(row) >= 4 && row[1].Type == storage.TypeText && row[1].Text == name
	}

	rows, err := storage.NewBTreeTable(1, pager).Scan(matches, storage.AllColumns)
	if err != nil {
		return nil, err
	}

	switch len(rows) {
	case 0:
		return nil, fmt.Errorf("table %q: %w", name, ErrNoSuchTable)
	case 1:
	default:
		return nil, fmt.Errorf("table %q has %d catalog rows: %w", name, len(rows), ErrAmbiguousTable)
	}

	row := rows[0]
	if row[2].Type != storage.TypeInteger || row[3].Type != storage.TypeBlob {
		return nil, fmt.Errorf("catalog row for %q stored incorrectly: %w", name, storage.ErrCorruption)
	}

	columns, err := DecodeColumns(row[3].Blob)
	if err != nil {
		return nil, fmt.Errorf("catalog row for %q: %w", name, err)
	}

	return &TableDefinition{
		Name:     name,
		RootPage: int(row[2].Int),
		Columns:  columns,
	}, nil
}

// EncodeColumns serializes a column list deterministically: a u32 count,
// then per column a u32 name length, the name bytes, and the type tag.
// All integers are big-endian.
func EncodeColumns(columns []ColumnDefinition) []byte {
	buf := bytes.Buffer{}

	var scratch [4]byte
	binary.BigEndian.PutUint32(scratch[:], uint32(len(columns)))
	buf.Write(scratch[:])

	for _, c := range columns {
		binary.BigEndian.PutUint32(scratch[:], uint32(len(c.Name)))
		buf.Write(scratch[:])
		buf.WriteString(c.Name)
		buf.WriteByte(byte(c.Type))
	}

	return buf.Bytes()
}

// DecodeColumns reverses EncodeColumns.
func DecodeColumns(data []byte) ([]ColumnDefinition, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("column list truncated: %w", storage.ErrCorruption)
	}

	count := binary.BigEndian.Uint32(data)
	data = data[4:]

	columns := make([]ColumnDefinition, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(data) < 4 {
			return nil, fmt.Errorf("column %d truncated: %w", i, storage.ErrCorruption)
		}
		nameLen := binary.BigEndian.Uint32(data)
		data = data[4:]

		if uint32(len(data)) < nameLen+1 {
			return nil, fmt.Errorf("column %d truncated: %w", i, storage.ErrCorruption)
		}
		name := data[:nameLen]
		if !utf8.Valid(name) {
			return nil, fmt.Errorf("column %d name is not valid utf-8: %w", i, storage.ErrCorruption)
		}

		columns = append(columns, ColumnDefinition{
			Name: string(name),
			Type: storage.ColumnType(data[nameLen]),
		})
		data = data[nameLen+1:]
	}

	if len(data) != 0 {
		return nil, fmt.Errorf("%d trailing bytes after column list: %w", len(data), storage.ErrCorruption)
	}
	return columns, nil
}
