package engine

import (
	"github.com/joeandaverde/leafdb/internal/catalog"
	"github.com/joeandaverde/leafdb/internal/storage"
)

// SelectRecords scans the table's leaf in insertion order. Rows pass
// through the record filter (keep or drop) and survivors through the
// column filter (projection).
func (e *Engine) SelectRecords(table string, recordFilter storage.RecordFilter, columnFilter storage.ColumnFilter) ([][]storage.Column, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	def, err := catalog.GetTableDefinition(e.pager, table)
	if err != nil {
		return nil, err
	}

	return storage.NewBTreeTable(def.RootPage, e.pager).Scan(recordFilter, columnFilter)
}

// SelectAllRecords returns every row of the table unprojected.
func (e *Engine) SelectAllRecords(table string) ([][]storage.Column, error) {
	return e.SelectRecords(table, storage.KeepAll, storage.AllColumns)
}
