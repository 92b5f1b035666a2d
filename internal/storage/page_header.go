package storage

import "fmt"

// LeafHeaderLen is the length of a table-leaf page header.
const LeafHeaderLen = 8

// FileHeaderLen is the length of the database file header on page 1.
const FileHeaderLen = 100

// PageType is the type byte of a page. See associated enumeration values.
type PageType byte

const (
	// PageTypeInteriorIndex interior index page
	PageTypeInteriorIndex PageType = 0x02

	// PageTypeInterior interior table page
	PageTypeInterior PageType = 0x05

	// PageTypeLeafIndex leaf index page
	PageTypeLeafIndex PageType = 0x0A

	// PageTypeLeaf leaf table page
	PageTypeLeaf PageType = 0x0D
)

// checkPageType separates recognized-but-unimplemented page types from
// garbage type bytes.
func checkPageType(t PageType) error {
	switch t {
	case PageTypeLeaf:
		return nil
	case PageTypeInterior, PageTypeInteriorIndex, PageTypeLeafIndex:
		return fmt.Errorf("page type %#x: %w", byte(t), ErrUnsupported)
	}
	return fmt.Errorf("unknown page type %#x: %w", byte(t), ErrCorruption)
}

// PageHeader contains metadata about a table-leaf page.
//
// Layout, starting at the header offset:
//
//	+0 page type (1 byte)
//	+1 first freeblock offset (2 bytes), zero when there is no free list
//	+3 number of cells (2 bytes)
//	+5 start of the cell content area (2 bytes), zero meaning page size
//	+7 fragmented free bytes (1 byte)
type PageHeader struct {
	// Type is the PageType for the page.
	Type PageType

	// FreeBlock is the offset of the first freeblock, reserved.
	FreeBlock uint16

	// NumCells is the number of cells stored in this page.
	NumCells uint16

	// CellsOffset is the start of the cell content area. If the page
	// contains no cells this holds zero and is read as the page size.
	CellsOffset uint16

	// FragmentedFreeBytes counts fragmented free bytes, reserved.
	FragmentedFreeBytes byte
}

// NewPageHeader creates a header for an empty page.
func NewPageHeader(pageType PageType) PageHeader {
	return PageHeader{Type: pageType}
}

// headerOffset is where the page header begins. Page 1 carries the
// database file header in its first 100 bytes.
func headerOffset(pageNumber int) int {
	if pageNumber == 1 {
		return FileHeaderLen
	}
	return 0
}

// cellPointersStart is where the cell pointer array begins.
func cellPointersStart(pageNumber int) int {
	return headerOffset(pageNumber) + LeafHeaderLen
}
