package storage

import (
	"fmt"
)

// RecordFilter decides whether a scanned row is kept. It must only
// inspect the row.
type RecordFilter func(row []Column) bool

// ColumnFilter projects a kept row; it may drop or reorder columns and
// owns the slice it is given.
type ColumnFilter func(row []Column) []Column

// KeepAll is the identity record filter.
func KeepAll(row []Column) bool { return true }

// AllColumns is the identity column filter.
func AllColumns(row []Column) []Column { return row }

// BTreeTable is a table rooted at a single page. Only table-leaf roots
// are implemented; rows append in insertion order. The table never grows
// past its root leaf: an insert that does not fit surfaces ErrPageFull,
// and leaves are not split.
type BTreeTable struct {
	rootPage int
	pager    *Pager
}

// NewBTreeTable opens the table rooted at rootPage.
func NewBTreeTable(rootPage int, pager *Pager) *BTreeTable {
	return &BTreeTable{rootPage: rootPage, pager: pager}
}

// RootPage is the page number of the table's root.
func (b *BTreeTable) RootPage() int {
	return b.rootPage
}

// Insert appends a record to the root leaf and stages the mutated page.
// A record that does not fit surfaces ErrPageFull and leaves both the
// page and the dirty cache untouched.
func (b *BTreeTable) Insert(r Record) error {
	cell, err := r.ToBytes()
	if err != nil {
		return err
	}

	root, err := b.pager.Read(b.rootPage)
	if err != nil {
		return err
	}

	if err := root.AddCell(cell); err != nil {
		return err
	}

	b.pager.Write(root)
	return nil
}

// Scan walks every cell on the root leaf in stored order, decodes it,
// and accumulates the rows that survive the record filter, projected
// through the column filter.
func (b *BTreeTable) Scan(recordFilter RecordFilter, columnFilter ColumnFilter) ([][]Column, error) {
	root, err := b.pager.Read(b.rootPage)
	if err != nil {
		return nil, err
	}

	var rows [][]Column
	for i := 0; i < root.CellCount(); i++ {
		record, err := root.ReadRecord(i)
		if err != nil {
			return nil, fmt.Errorf("cell %d of page %d: %w", i, b.rootPage, err)
		}

		if !recordFilter(record.Columns) {
			continue
		}
		rows = append(rows, columnFilter(record.Columns))
	}

	return rows, nil
}
