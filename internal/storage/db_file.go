package storage

import (
	"fmt"
	"io"
	"os"
)

// DbFile is the on-disk page file. It owns the open file descriptor and
// the 100-byte file header; the header is rewritten on every mutation so
// the recorded page count always matches the file length.
type DbFile struct {
	header FileHeader
	file   *os.File
	path   string
}

// OpenDbFile opens the database file at path, creating and initializing
// it when it does not exist. pageSize is only consulted at creation; an
// existing file keeps the page size recorded in its header.
func OpenDbFile(path string, pageSize int) (*DbFile, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat database %s: %w", path, err)
	}

	if info.Size() == 0 {
		f := &DbFile{header: NewFileHeader(uint16(pageSize)), file: file, path: path}
		if err := f.init(); err != nil {
			file.Close()
			return nil, err
		}
		return f, nil
	}

	headerBytes := make([]byte, FileHeaderLen)
	if _, err := file.ReadAt(headerBytes, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("read file header of %s: %w", path, ErrCorruption)
	}

	header, err := ParseFileHeader(headerBytes)
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.Size()%int64(header.PageSize) != 0 || info.Size() == 0 {
		file.Close()
		return nil, fmt.Errorf("file length %d is not a multiple of page size %d: %w",
			info.Size(), header.PageSize, ErrCorruption)
	}

	return &DbFile{header: header, file: file, path: path}, nil
}

// init lays out a new single-page file: the file header in bytes 0..6 of
// page 1, and an empty table-leaf header at byte 100.
func (f *DbFile) init() error {
	page := make([]byte, f.header.PageSize)
	page[FileHeaderLen] = byte(PageTypeLeaf)

	if _, err := f.file.WriteAt(page, 0); err != nil {
		return fmt.Errorf("initialize database %s: %w", f.path, err)
	}
	if err := f.writeHeader(); err != nil {
		return err
	}
	return f.Sync()
}

// Path is the file system path of the database file.
func (f *DbFile) Path() string {
	return f.path
}

// PageSize is the page size recorded in the file header.
func (f *DbFile) PageSize() int {
	return int(f.header.PageSize)
}

// TotalPages is the page count recorded in the file header.
func (f *DbFile) TotalPages() int {
	return int(f.header.PageCount)
}

// Read reads the full raw bytes of a page.
func (f *DbFile) Read(page int) ([]byte, error) {
	if page < 1 || page > f.TotalPages() {
		return nil, fmt.Errorf("page [%d] out of bounds", page)
	}

	data := make([]byte, f.header.PageSize)
	if _, err := f.file.ReadAt(data, f.pageOffset(page)); err != nil {
		return nil, fmt.Errorf("read page %d: %w", page, err)
	}
	return data, nil
}

// Write writes full pages at their offsets. Page 1 writes skip the first
// 100 bytes: the file header is owned by this type and rewritten from the
// authoritative in-memory copy instead.
func (f *DbFile) Write(pages ...Page) error {
	for _, p := range pages {
		if p.PageNumber < 1 || p.PageNumber > f.TotalPages() {
			return fmt.Errorf("page [%d] out of bounds", p.PageNumber)
		}
		if len(p.Data) != int(f.header.PageSize) {
			return fmt.Errorf("page %d has %d bytes, want %d", p.PageNumber, len(p.Data), f.header.PageSize)
		}

		data, offset := p.Data, f.pageOffset(p.PageNumber)
		if p.PageNumber == 1 {
			data, offset = data[FileHeaderLen:], FileHeaderLen
		}
		if _, err := f.file.WriteAt(data, offset); err != nil {
			return fmt.Errorf("write page %d: %w", p.PageNumber, err)
		}
	}

	return f.writeHeader()
}

// Allocate extends the file by one zero-filled table-leaf page and
// returns its page number.
func (f *DbFile) Allocate() (int, error) {
	pageNumber := f.TotalPages() + 1

	page := make([]byte, f.header.PageSize)
	page[headerOffset(pageNumber)] = byte(PageTypeLeaf)
	if _, err := f.file.WriteAt(page, f.pageOffset(pageNumber)); err != nil {
		return 0, fmt.Errorf("allocate page %d: %w", pageNumber, err)
	}

	f.header.PageCount = uint32(pageNumber)
	if err := f.writeHeader(); err != nil {
		return 0, err
	}
	return pageNumber, nil
}

// Sync flushes the file to stable storage.
func (f *DbFile) Sync() error {
	return f.file.Sync()
}

// Close releases the file descriptor.
func (f *DbFile) Close() error {
	return f.file.Close()
}

func (f *DbFile) writeHeader() error {
	if _, err := f.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek file header: %w", err)
	}
	if _, err := f.header.WriteTo(f.file); err != nil {
		return fmt.Errorf("write file header: %w", err)
	}
	return nil
}

func (f *DbFile) pageOffset(page int) int64 {
	return int64(page-1) * int64(f.header.PageSize)
}

var _ File = (*DbFile)(nil)
