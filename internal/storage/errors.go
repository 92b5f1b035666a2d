package storage

import "errors"

var (
	// ErrPageFull indicates a table leaf cannot fit another cell and its pointer.
	ErrPageFull = errors.New("page full")

	// ErrCorruption indicates the file contents violate the storage format.
	ErrCorruption = errors.New("file corruption")

	// ErrUnsupported indicates a recognized but unimplemented page type.
	ErrUnsupported = errors.New("unsupported page type")

	// ErrIntegerOverflow indicates an integer outside the 8-byte signed range.
	ErrIntegerOverflow = errors.New("integer too large to store")
)
