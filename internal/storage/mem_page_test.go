package storage

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

const testPageSize = 256

func TestMemPage_AddCell(t *testing.T) {
	assert := require.New(t)

	p := NewLeafPage(2, testPageSize)
	assert.Equal(0, p.CellCount())
	assert.Equal(testPageSize-LeafHeaderLen, p.FreeSpace())

	assert.NoError(p.AddCell([]byte{0xB, 0xE, 0xE, 0xF}))
	assert.NoError(p.AddCell([]byte{0xD, 0xE, 0xA, 0xD}))

	assert.Equal(2, p.CellCount())

	// Cells grow down from the end of the page; pointers pack up from
	// the end of the header.
	assert.Equal([]byte{0xB, 0xE, 0xE, 0xF}, p.Data()[testPageSize-4:])
	assert.Equal([]byte{0xD, 0xE, 0xA, 0xD}, p.Data()[testPageSize-8:testPageSize-4])

	first, err := p.CellPointer(0)
	assert.NoError(err)
	assert.Equal(testPageSize-4, first)

	second, err := p.CellPointer(1)
	assert.NoError(err)
	assert.Equal(testPageSize-8, second)

	// Header bytes track the projection.
	assert.Equal(uint16(2), binary.BigEndian.Uint16(p.Data()[3:5]))
	assert.Equal(uint16(testPageSize-8), binary.BigEndian.Uint16(p.Data()[5:7]))
}

func TestMemPage_PageOneOffsets(t *testing.T) {
	assert := require.New(t)

	p := NewLeafPage(1, testPageSize)
	assert.Equal(byte(PageTypeLeaf), p.Data()[FileHeaderLen])
	assert.Equal(testPageSize-FileHeaderLen-LeafHeaderLen, p.FreeSpace())

	assert.NoError(p.AddCell([]byte{0x01, 0x02}))

	// The pointer array begins after the file header and page header.
	pointer := binary.BigEndian.Uint16(p.Data()[FileHeaderLen+LeafHeaderLen:])
	assert.Equal(uint16(testPageSize-2), pointer)
}

func TestMemPage_ExactFitThenFull(t *testing.T) {
	assert := require.New(t)

	p := NewLeafPage(2, testPageSize)

	// A cell that leaves exactly zero free space must succeed.
	cell := make([]byte, p.FreeSpace()-2)
	assert.NoError(p.AddCell(cell))
	assert.Equal(0, p.FreeSpace())

	// The next insert must fail and leave the page untouched.
	before := append([]byte(nil), p.Data()...)
	err := p.AddCell([]byte{0x00})
	assert.ErrorIs(err, ErrPageFull)
	assert.Equal(before, p.Data())
	assert.Equal(1, p.CellCount())
}

func TestMemPage_Clone(t *testing.T) {
	assert := require.New(t)

	p := NewLeafPage(2, testPageSize)
	assert.NoError(p.AddCell([]byte{0x01}))

	clone := p.Clone()
	assert.NoError(clone.AddCell([]byte{0x02}))

	assert.Equal(1, p.CellCount())
	assert.Equal(2, clone.CellCount())
}

func TestFromBytes_UnsupportedPageTypes(t *testing.T) {
	assert := require.New(t)

	for _, pageType := range []PageType{PageTypeInterior, PageTypeInteriorIndex, PageTypeLeafIndex} {
		data := make([]byte, testPageSize)
		data[0] = byte(pageType)

		_, err := FromBytes(2, data)
		assert.ErrorIs(err, ErrUnsupported)
	}
}

func TestFromBytes_UnknownPageType(t *testing.T) {
	assert := require.New(t)

	data := make([]byte, testPageSize)
	data[0] = 0x42

	_, err := FromBytes(2, data)
	assert.ErrorIs(err, ErrCorruption)
}

func TestMemPage_RecordRoundTrip(t *testing.T) {
	assert := require.New(t)

	p := NewLeafPage(2, testPageSize)

	rows := [][]Column{
		{Integer(1), Text("fred")},
		{Integer(2), Text("george")},
	}
	for _, row := range rows {
		cell, err := NewRecord(row).ToBytes()
		assert.NoError(err)
		assert.NoError(p.AddCell(cell))
	}

	for i, row := range rows {
		record, err := p.ReadRecord(i)
		assert.NoError(err)
		assert.Equal(row, record.Columns)
	}
}
