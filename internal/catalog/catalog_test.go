package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joeandaverde/leafdb/internal/storage"
)

const testPageSize = 4096

func newTestPager(t *testing.T) *storage.Pager {
	t.Helper()
	pager := storage.NewPager(storage.NewMemoryFile(testPageSize))

	// Page 1 plays the master table.
	pageOne, err := pager.Allocate()
	require.NoError(t, err)
	require.Equal(t, 1, pageOne)
	return pager
}

func TestEncodeColumns_RoundTrip(t *testing.T) {
	assert := require.New(t)

	schemas := [][]ColumnDefinition{
		nil,
		{{Name: "count", Type: storage.TypeInteger}},
		{
			{Name: "count", Type: storage.TypeInteger},
			{Name: "ratio", Type: storage.TypeReal},
			{Name: "payload", Type: storage.TypeBlob},
			{Name: "name", Type: storage.TypeText},
		},
		{{Name: "naïve", Type: storage.TypeText}, {Name: "", Type: storage.TypeBlob}},
	}

	for _, schema := range schemas {
		decoded, err := DecodeColumns(EncodeColumns(schema))
		assert.NoError(err)
		assert.Len(decoded, len(schema))
		for i, col := range schema {
			assert.Equal(col, decoded[i])
		}
	}
}

func TestEncodeColumns_Layout(t *testing.T) {
	assert := require.New(t)

	bs := EncodeColumns([]ColumnDefinition{{Name: "id", Type: storage.TypeInteger}})
	assert.Equal([]byte{
		0x00, 0x00, 0x00, 0x01, // element count
		0x00, 0x00, 0x00, 0x02, // name length
		'i', 'd',
		0x01, // integer tag
	}, bs)
}

func TestDecodeColumns_Truncated(t *testing.T) {
	assert := require.New(t)

	bs := EncodeColumns([]ColumnDefinition{{Name: "id", Type: storage.TypeInteger}})
	for _, cut := range []int{1, 5, len(bs) - 1} {
		_, err := DecodeColumns(bs[:cut])
		assert.ErrorIs(err, storage.ErrCorruption)
	}

	_, err := DecodeColumns(append(bs, 0x00))
	assert.ErrorIs(err, storage.ErrCorruption)
}

func TestCreateAndGetTableDefinition(t *testing.T) {
	assert := require.New(t)
	pager := newTestPager(t)

	columns := []ColumnDefinition{
		{Name: "count", Type: storage.TypeInteger},
		{Name: "name", Type: storage.TypeText},
	}

	created, err := CreateTable(pager, "table1", columns)
	assert.NoError(err)
	assert.Equal(2, created.RootPage)

	def, err := GetTableDefinition(pager, "table1")
	assert.NoError(err)
	assert.Equal("table1", def.Name)
	assert.Equal(2, def.RootPage)
	assert.Equal(columns, def.Columns)

	col, ok := def.Column("name")
	assert.True(ok)
	assert.Equal(storage.TypeText, col.Type)

	_, ok = def.Column("missing")
	assert.False(ok)
}

func TestGetTableDefinition_NoSuchTable(t *testing.T) {
	assert := require.New(t)
	pager := newTestPager(t)

	_, err := GetTableDefinition(pager, "missing")
	assert.ErrorIs(err, ErrNoSuchTable)
}

func TestGetTableDefinition_AmbiguousTable(t *testing.T) {
	assert := require.New(t)
	pager := newTestPager(t)

	columns := []ColumnDefinition{{Name: "count", Type: storage.TypeInteger}}
	_, err := CreateTable(pager, "dup", columns)
	assert.NoError(err)
	_, err = CreateTable(pager, "dup", columns)
	assert.NoError(err)

	_, err = GetTableDefinition(pager, "dup")
	assert.ErrorIs(err, ErrAmbiguousTable)
}

func TestCreateTable_DistinctRootPages(t *testing.T) {
	assert := require.New(t)
	pager := newTestPager(t)

	columns := []ColumnDefinition{{Name: "n", Type: storage.TypeInteger}}
	for i, name := range []string{"a", "b", "c"} {
		def, err := CreateTable(pager, name, columns)
		assert.NoError(err)
		assert.Equal(i+2, def.RootPage)
	}
}
