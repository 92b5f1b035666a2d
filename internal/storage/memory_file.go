package storage

import "fmt"

// MemoryFile is an in-memory File used by tests.
type MemoryFile struct {
	pageSize int
	data     []byte
}

// NewMemoryFile creates an empty in-memory page file.
func NewMemoryFile(pageSize int) *MemoryFile {
	return &MemoryFile{pageSize: pageSize}
}

func (m *MemoryFile) PageSize() int {
	return m.pageSize
}

func (m *MemoryFile) TotalPages() int {
	return len(m.data) / m.pageSize
}

func (m *MemoryFile) Read(page int) ([]byte, error) {
	offset := (page - 1) * m.pageSize
	if page < 1 || offset+m.pageSize > len(m.data) {
		return nil, fmt.Errorf("page does not exist: %d", page)
	}

	dest := make([]byte, m.pageSize)
	copy(dest, m.data[offset:])
	return dest, nil
}

func (m *MemoryFile) Write(pages ...Page) error {
	for _, p := range pages {
		if p.PageNumber < 1 || p.PageNumber > m.TotalPages() {
			return fmt.Errorf("page [%d] out of bounds", p.PageNumber)
		}
		copy(m.data[(p.PageNumber-1)*m.pageSize:][:m.pageSize], p.Data)
	}
	return nil
}

func (m *MemoryFile) Allocate() (int, error) {
	page := make([]byte, m.pageSize)
	pageNumber := m.TotalPages() + 1
	page[headerOffset(pageNumber)] = byte(PageTypeLeaf)
	m.data = append(m.data, page...)
	return pageNumber, nil
}

func (m *MemoryFile) Sync() error {
	return nil
}

var _ File = (*MemoryFile)(nil)
