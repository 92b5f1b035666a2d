package storage

import (
	"encoding/binary"
	"fmt"
	"io"
)

// FileHeader is the database file header stored in the first 100 bytes
// of page 1.
//
//	0-2	PageSize	uint16	Size of a database page, fixed at creation.
//	2-6	PageCount	uint32	Number of allocated pages.
//	6-100	reserved, zero-filled.
type FileHeader struct {
	PageSize  uint16
	PageCount uint32
}

// NewFileHeader creates the header for a freshly created single-page file.
func NewFileHeader(pageSize uint16) FileHeader {
	return FileHeader{
		PageSize:  pageSize,
		PageCount: 1,
	}
}

// WriteTo writes the 100-byte header to the provided writer.
func (h FileHeader) WriteTo(w io.Writer) (int64, error) {
	data := make([]byte, FileHeaderLen)
	binary.BigEndian.PutUint16(data[0:], h.PageSize)
	binary.BigEndian.PutUint32(data[2:], h.PageCount)

	if _, err := w.Write(data); err != nil {
		return 0, err
	}
	return FileHeaderLen, nil
}

// ParseFileHeader deserializes a FileHeader.
func ParseFileHeader(buf []byte) (FileHeader, error) {
	if len(buf) < 6 {
		return FileHeader{}, fmt.Errorf("file shorter than its header: %w", ErrCorruption)
	}

	header := FileHeader{
		PageSize:  binary.BigEndian.Uint16(buf[0:2]),
		PageCount: binary.BigEndian.Uint32(buf[2:6]),
	}
	if header.PageSize == 0 {
		return FileHeader{}, fmt.Errorf("zero page size in file header: %w", ErrCorruption)
	}
	return header, nil
}
