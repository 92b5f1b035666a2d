package storage

import (
	"encoding/binary"
	"fmt"
)

// MemPage is a raw page paired with its projected header. The header and
// the underlying bytes are mutated in lockstep; the header never drifts
// from the buffer.
type MemPage struct {
	header     PageHeader
	pageNumber int
	data       []byte
}

// FromBytes parses a byte slice to a MemPage and takes ownership of the slice.
func FromBytes(pageNumber int, data []byte) (*MemPage, error) {
	offset := headerOffset(pageNumber)
	if len(data) < offset+LeafHeaderLen {
		return nil, fmt.Errorf("page %d shorter than its header: %w", pageNumber, ErrCorruption)
	}

	view := data[offset:]
	if err := checkPageType(PageType(view[0])); err != nil {
		return nil, fmt.Errorf("page %d: %w", pageNumber, err)
	}

	return &MemPage{
		header: PageHeader{
			Type:                PageType(view[0]),
			FreeBlock:           binary.BigEndian.Uint16(view[1:3]),
			NumCells:            binary.BigEndian.Uint16(view[3:5]),
			CellsOffset:         binary.BigEndian.Uint16(view[5:7]),
			FragmentedFreeBytes: view[7],
		},
		pageNumber: pageNumber,
		data:       data,
	}, nil
}

// NewLeafPage creates an empty table-leaf page of the given size.
func NewLeafPage(pageNumber int, pageSize int) *MemPage {
	p := &MemPage{
		header:     NewPageHeader(PageTypeLeaf),
		pageNumber: pageNumber,
		data:       make([]byte, pageSize),
	}
	p.updateHeaderData()
	return p
}

// Number is the page number.
func (p *MemPage) Number() int {
	return p.pageNumber
}

// Size is the page size in bytes.
func (p *MemPage) Size() int {
	return len(p.data)
}

// Data exposes the raw page bytes.
func (p *MemPage) Data() []byte {
	return p.data
}

// Header returns a copy of the projected page header.
func (p *MemPage) Header() PageHeader {
	return p.header
}

// CellCount is the total number of cells in this page.
func (p *MemPage) CellCount() int {
	return int(p.header.NumCells)
}

// Clone returns an independent copy of the page.
func (p *MemPage) Clone() *MemPage {
	data := make([]byte, len(p.data))
	copy(data, p.data)
	return &MemPage{
		header:     p.header,
		pageNumber: p.pageNumber,
		data:       data,
	}
}

// cellsOffset is the recorded cell content start, with zero read as the
// page size.
func (p *MemPage) cellsOffset() int {
	if p.header.CellsOffset == 0 {
		return len(p.data)
	}
	return int(p.header.CellsOffset)
}

// FreeSpace is the gap between the cell pointer array and the cell
// content area.
func (p *MemPage) FreeSpace() int {
	return p.cellsOffset() - (cellPointersStart(p.pageNumber) + 2*p.CellCount())
}

// Fits determines if there's enough space in the page for a cell of the
// specified size plus its pointer.
func (p *MemPage) Fits(cellLen int) bool {
	pointerEnd := cellPointersStart(p.pageNumber) + 2*(p.CellCount()+1)
	return p.cellsOffset()-cellLen >= pointerEnd
}

// AddCell places a cell at the bottom of the free region and appends its
// pointer. The page is left untouched when the cell does not fit.
func (p *MemPage) AddCell(cell []byte) error {
	if !p.Fits(len(cell)) {
		return fmt.Errorf("cell of %d bytes on page %d: %w", len(cell), p.pageNumber, ErrPageFull)
	}

	cellOffset := p.cellsOffset() - len(cell)
	copy(p.data[cellOffset:], cell)

	pointerOffset := cellPointersStart(p.pageNumber) + 2*p.CellCount()
	binary.BigEndian.PutUint16(p.data[pointerOffset:], uint16(cellOffset))

	p.header.CellsOffset = uint16(cellOffset)
	p.header.NumCells++
	p.updateHeaderData()
	return nil
}

// CellPointer returns the offset of the requested cell's first byte.
func (p *MemPage) CellPointer(cellIndex int) (int, error) {
	if cellIndex < 0 || cellIndex >= p.CellCount() {
		return 0, fmt.Errorf("cell index %d out of range on page %d", cellIndex, p.pageNumber)
	}

	pointerOffset := cellPointersStart(p.pageNumber) + 2*cellIndex
	cellOffset := int(binary.BigEndian.Uint16(p.data[pointerOffset:]))
	if cellOffset < cellPointersStart(p.pageNumber) || cellOffset >= len(p.data) {
		return 0, fmt.Errorf("cell pointer %d out of bounds on page %d: %w", cellOffset, p.pageNumber, ErrCorruption)
	}
	return cellOffset, nil
}

// ReadRecord decodes the record stored in the requested cell.
func (p *MemPage) ReadRecord(cellIndex int) (Record, error) {
	cellOffset, err := p.CellPointer(cellIndex)
	if err != nil {
		return Record{}, err
	}
	return ReadRecord(p.data[cellOffset:])
}

// updateHeaderData writes the projected header back into the page bytes.
func (p *MemPage) updateHeaderData() {
	header := p.data[headerOffset(p.pageNumber):]
	header[0] = byte(p.header.Type)
	binary.BigEndian.PutUint16(header[1:3], p.header.FreeBlock)
	binary.BigEndian.PutUint16(header[3:5], p.header.NumCells)
	binary.BigEndian.PutUint16(header[5:7], p.header.CellsOffset)
	header[7] = p.header.FragmentedFreeBytes
}
