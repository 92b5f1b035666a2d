package storage

import (
	"fmt"
)

// Pager manages database paging. Mutated pages accumulate in the dirty
// cache until Flush writes them back to the underlying file; reads of
// dirty pages return clones so callers never mutate the cache in place.
type Pager struct {
	file  File
	dirty map[int]*MemPage
}

// NewPager creates a pager over an open page file.
func NewPager(file File) *Pager {
	return &Pager{
		file:  file,
		dirty: make(map[int]*MemPage),
	}
}

// PageSize returns the page size of the underlying file.
func (p *Pager) PageSize() int {
	return p.file.PageSize()
}

// TotalPages returns the number of allocated pages.
func (p *Pager) TotalPages() int {
	return p.file.TotalPages()
}

// Read returns the requested page: a clone of the dirty copy when one is
// staged, otherwise a fresh projection of the on-disk bytes.
func (p *Pager) Read(pageNumber int) (*MemPage, error) {
	if pageNumber < 1 || pageNumber > p.TotalPages() {
		return nil, fmt.Errorf("page [%d] out of bounds", pageNumber)
	}

	if page, ok := p.dirty[pageNumber]; ok {
		return page.Clone(), nil
	}

	data, err := p.file.Read(pageNumber)
	if err != nil {
		return nil, err
	}
	return FromBytes(pageNumber, data)
}

// Write stages pages in the dirty cache. No file I/O happens until Flush.
func (p *Pager) Write(pages ...*MemPage) {
	for _, page := range pages {
		p.dirty[page.Number()] = page
	}
}

// Flush writes every dirty page back to the file, syncs, and empties the
// cache. After a successful flush the on-disk pages equal the staged ones.
func (p *Pager) Flush() error {
	if len(p.dirty) == 0 {
		return nil
	}

	for _, page := range p.dirty {
		if err := p.file.Write(Page{PageNumber: page.Number(), Data: page.Data()}); err != nil {
			return err
		}
	}
	if err := p.file.Sync(); err != nil {
		return fmt.Errorf("sync database: %w", err)
	}

	p.dirty = make(map[int]*MemPage)
	return nil
}

// Reset drops all staged pages without writing them.
func (p *Pager) Reset() {
	p.dirty = make(map[int]*MemPage)
}

// Allocate extends the file by one empty table-leaf page and returns its
// page number. The new page is written through immediately; only cell
// mutations go through the dirty cache.
func (p *Pager) Allocate() (int, error) {
	return p.file.Allocate()
}
