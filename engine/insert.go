package engine

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/joeandaverde/leafdb/internal/catalog"
	"github.com/joeandaverde/leafdb/internal/storage"
)

// ErrBadValue indicates a value string that cannot be parsed into the
// column's declared type.
var ErrBadValue = errors.New("bad value")

// InsertRecord parses one row of string values against the table's
// schema, appends it to the table's leaf, and commits. Columns absent
// from the map are stored as NULL.
func (e *Engine) InsertRecord(table string, values map[string]string) error {
	return e.InsertRecords(table, []map[string]string{values})
}

// InsertRecords inserts each row in order and commits once at the end.
// On failure nothing is committed.
func (e *Engine) InsertRecords(table string, rows []map[string]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	def, err := catalog.GetTableDefinition(e.pager, table)
	if err != nil {
		return err
	}

	tree := storage.NewBTreeTable(def.RootPage, e.pager)
	for _, values := range rows {
		row, err := createRow(def, values)
		if err != nil {
			e.pager.Reset()
			return err
		}
		if err := tree.Insert(storage.NewRecord(row)); err != nil {
			e.pager.Reset()
			return fmt.Errorf("insert into %q: %w", table, err)
		}
	}

	if err := e.commit(); err != nil {
		return err
	}

	e.Log.WithField("table", table).Debugf("inserted %d record(s)", len(rows))
	return nil
}

// InsertRow inserts one row of typed column values, keyed by column
// name. Unlike InsertRecord this accepts blobs as raw byte sequences.
func (e *Engine) InsertRow(table string, values map[string]storage.Column) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	def, err := catalog.GetTableDefinition(e.pager, table)
	if err != nil {
		return err
	}

	row := make([]storage.Column, 0, len(def.Columns))
	for _, col := range def.Columns {
		value, ok := values[col.Name]
		if !ok {
			row = append(row, storage.Null())
			continue
		}
		if value.Type != storage.TypeNull && value.Type != col.Type {
			return fmt.Errorf("column %q expects %s, got %s: %w", col.Name, col.Type, value.Type, ErrBadValue)
		}
		row = append(row, value)
	}

	if err := storage.NewBTreeTable(def.RootPage, e.pager).Insert(storage.NewRecord(row)); err != nil {
		e.pager.Reset()
		return fmt.Errorf("insert into %q: %w", table, err)
	}

	return e.commit()
}

// createRow orders and parses a string-keyed row against the schema.
func createRow(def *catalog.TableDefinition, values map[string]string) ([]storage.Column, error) {
	row := make([]storage.Column, 0, len(def.Columns))
	for _, col := range def.Columns {
		raw, ok := values[col.Name]
		if !ok {
			row = append(row, storage.Null())
			continue
		}

		value, err := parseColumn(col, raw)
		if err != nil {
			return nil, err
		}
		row = append(row, value)
	}
	return row, nil
}

func parseColumn(col catalog.ColumnDefinition, raw string) (storage.Column, error) {
	switch col.Type {
	case storage.TypeInteger:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return storage.Column{}, fmt.Errorf("column %q value %q: %w", col.Name, raw, storage.ErrIntegerOverflow)
			}
			return storage.Column{}, fmt.Errorf("column %q value %q is not an integer: %w", col.Name, raw, ErrBadValue)
		}
		return storage.Integer(v), nil

	case storage.TypeReal:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return storage.Column{}, fmt.Errorf("column %q value %q is not a real: %w", col.Name, raw, ErrBadValue)
		}
		return storage.Real(v), nil

	case storage.TypeText:
		return storage.Text(raw), nil

	case storage.TypeBlob:
		// The string surface carries blobs as their UTF-8 bytes; use
		// InsertRow for byte-faithful blob values.
		return storage.Blob([]byte(raw)), nil
	}

	return storage.Column{}, fmt.Errorf("column %q has unknown type %d: %w", col.Name, col.Type, ErrBadValue)
}
