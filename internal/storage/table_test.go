package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, pageSize int) (*Pager, *BTreeTable) {
	t.Helper()
	pager := NewPager(NewMemoryFile(pageSize))

	// Page one stands in for the catalog; the table roots on page two.
	_, err := pager.Allocate()
	require.NoError(t, err)
	rootPage, err := pager.Allocate()
	require.NoError(t, err)
	return pager, NewBTreeTable(rootPage, pager)
}

func TestBTreeTable_InsertAndScan(t *testing.T) {
	assert := require.New(t)
	_, table := newTestTable(t, testPageSize)

	rows := [][]Column{
		{Integer(1), Text("fred")},
		{Integer(2), Text("george")},
		{Null(), Text("nobody")},
	}
	for _, row := range rows {
		assert.NoError(table.Insert(NewRecord(row)))
	}

	got, err := table.Scan(KeepAll, AllColumns)
	assert.NoError(err)
	assert.Equal(rows, got)
}

func TestBTreeTable_ScanFilters(t *testing.T) {
	assert := require.New(t)
	_, table := newTestTable(t, testPageSize)

	assert.NoError(table.Insert(NewRecord([]Column{Integer(1), Text("fred")})))
	assert.NoError(table.Insert(NewRecord([]Column{Integer(2), Text("george")})))

	got, err := table.Scan(
		func(row []Column) bool { return row[1].Equal(Text("fred")) },
		func(row []Column) []Column { return row[:1] },
	)
	assert.NoError(err)
	assert.Equal([][]Column{{Integer(1)}}, got)
}

func TestBTreeTable_PageFullLeavesCacheClean(t *testing.T) {
	assert := require.New(t)
	pager, table := newTestTable(t, 128)

	var inserted int
	for {
		err := table.Insert(NewRecord([]Column{Integer(int64(inserted + 1))}))
		if err != nil {
			assert.ErrorIs(err, ErrPageFull)
			break
		}
		inserted++
	}
	assert.Greater(inserted, 0)

	// The failed insert must not have polluted the staged page.
	rows, err := table.Scan(KeepAll, AllColumns)
	assert.NoError(err)
	assert.Len(rows, inserted)

	assert.NoError(pager.Flush())

	rows, err = table.Scan(KeepAll, AllColumns)
	assert.NoError(err)
	assert.Len(rows, inserted)
}
