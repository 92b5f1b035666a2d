package storage

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDbFile_Create(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "t1.db")

	f, err := OpenDbFile(path, 4096)
	assert.NoError(err)
	defer f.Close()

	assert.Equal(4096, f.PageSize())
	assert.Equal(1, f.TotalPages())

	info, err := os.Stat(path)
	assert.NoError(err)
	assert.Equal(int64(4096), info.Size())

	// File header decodes to (page_size, 1); page 1 is an empty
	// table-leaf with its header at byte 100.
	data, err := f.Read(1)
	assert.NoError(err)
	assert.Equal(uint16(4096), binary.BigEndian.Uint16(data[0:2]))
	assert.Equal(uint32(1), binary.BigEndian.Uint32(data[2:6]))
	assert.Equal(byte(PageTypeLeaf), data[FileHeaderLen])
}

func TestDbFile_Reopen(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "t1.db")

	f, err := OpenDbFile(path, 512)
	assert.NoError(err)

	_, err = f.Allocate()
	assert.NoError(err)
	assert.NoError(f.Close())

	// The recorded page size wins over the caller's on reopen.
	reopened, err := OpenDbFile(path, 4096)
	assert.NoError(err)
	defer reopened.Close()

	assert.Equal(512, reopened.PageSize())
	assert.Equal(2, reopened.TotalPages())
}

func TestDbFile_Allocate(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "t1.db")

	f, err := OpenDbFile(path, 256)
	assert.NoError(err)
	defer f.Close()

	pageNumber, err := f.Allocate()
	assert.NoError(err)
	assert.Equal(2, pageNumber)

	info, err := os.Stat(path)
	assert.NoError(err)
	assert.Equal(int64(512), info.Size())

	data, err := f.Read(2)
	assert.NoError(err)
	assert.Equal(byte(PageTypeLeaf), data[0])

	// The on-disk header tracks the allocation.
	header := make([]byte, 6)
	raw, err := os.ReadFile(path)
	assert.NoError(err)
	copy(header, raw)
	assert.Equal(uint32(2), binary.BigEndian.Uint32(header[2:6]))
}

func TestDbFile_CorruptLength(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "t1.db")

	f, err := OpenDbFile(path, 256)
	assert.NoError(err)
	assert.NoError(f.Close())

	// Grow the file so its length is no longer a page multiple.
	assert.NoError(os.WriteFile(path, append(mustRead(t, path), 0x00), 0644))

	_, err = OpenDbFile(path, 256)
	assert.ErrorIs(err, ErrCorruption)
}

func TestDbFile_WritePreservesHeader(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "t1.db")

	f, err := OpenDbFile(path, 256)
	assert.NoError(err)
	defer f.Close()

	// Write a page-1 buffer with garbage in the header region; the
	// authoritative header must survive.
	data, err := f.Read(1)
	assert.NoError(err)
	copy(data[0:6], []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	assert.NoError(f.Write(Page{PageNumber: 1, Data: data}))

	raw := mustRead(t, path)
	assert.Equal(uint16(256), binary.BigEndian.Uint16(raw[0:2]))
	assert.Equal(uint32(1), binary.BigEndian.Uint32(raw[2:6]))
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return raw
}
