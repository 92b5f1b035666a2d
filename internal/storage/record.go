package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ColumnType is the declared type of a column. The numeric values are
// stable on disk: the catalog serializes them as single-byte tags.
type ColumnType byte

const (
	// TypeNull is never declared in a schema; it tags absent values.
	TypeNull ColumnType = 0

	// TypeInteger is a signed integer of up to 8 bytes.
	TypeInteger ColumnType = 1

	// TypeReal is an IEEE-754 64-bit float.
	TypeReal ColumnType = 2

	// TypeBlob is an arbitrary byte sequence.
	TypeBlob ColumnType = 3

	// TypeText is a UTF-8 string.
	TypeText ColumnType = 4
)

// ColumnTypeFromString resolves a type name used by schema declarations.
func ColumnTypeFromString(t string) (ColumnType, bool) {
	switch t {
	case "integer", "int":
		return TypeInteger, true
	case "real":
		return TypeReal, true
	case "blob":
		return TypeBlob, true
	case "text":
		return TypeText, true
	}
	return TypeNull, false
}

func (t ColumnType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeBlob:
		return "blob"
	case TypeText:
		return "text"
	}
	return fmt.Sprintf("ColumnType(%d)", byte(t))
}

// Column is a single column value in a record.
type Column struct {
	Type ColumnType
	Int  int64
	Real float64
	Blob []byte
	Text string
}

// Null returns an absent column value.
func Null() Column {
	return Column{Type: TypeNull}
}

// Integer returns an integer column value.
func Integer(v int64) Column {
	return Column{Type: TypeInteger, Int: v}
}

// Real returns a real column value.
func Real(v float64) Column {
	return Column{Type: TypeReal, Real: v}
}

// Blob returns a blob column value. The column owns the slice.
func Blob(v []byte) Column {
	return Column{Type: TypeBlob, Blob: v}
}

// Text returns a text column value.
func Text(v string) Column {
	return Column{Type: TypeText, Text: v}
}

// Equal reports whether two column values have the same type and payload.
func (c Column) Equal(o Column) bool {
	if c.Type != o.Type {
		return false
	}
	switch c.Type {
	case TypeNull:
		return true
	case TypeInteger:
		return c.Int == o.Int
	case TypeReal:
		return c.Real == o.Real
	case TypeBlob:
		return bytes.Equal(c.Blob, o.Blob)
	case TypeText:
		return c.Text == o.Text
	}
	return false
}

func (c Column) String() string {
	switch c.Type {
	case TypeNull:
		return "null"
	case TypeInteger:
		return fmt.Sprintf("int: %d", c.Int)
	case TypeReal:
		return fmt.Sprintf("real: %g", c.Real)
	case TypeBlob:
		return fmt.Sprintf("blob (%d)", len(c.Blob))
	case TypeText:
		return fmt.Sprintf("text: %s", c.Text)
	}
	return "invalid"
}

// Record is a row of column values.
type Record struct {
	Columns []Column
}

// NewRecord creates a record from a set of column values.
func NewRecord(columns []Column) Record {
	return Record{Columns: columns}
}

// Write serializes the record as header size, serial types, then payloads.
// The header size varint counts the serial type bytes plus its own length.
func (r Record) Write(w io.Writer) error {
	types := bytes.Buffer{}
	body := bytes.Buffer{}

	for _, c := range r.Columns {
		serial, payload, err := serialValue(c)
		if err != nil {
			return err
		}
		if _, err := WriteVarint(&types, serial); err != nil {
			return err
		}
		body.Write(payload)
	}

	// The header size includes its own varint, so the length feeds back
	// into itself. One byte covers headers under 128 bytes; re-measure
	// until the size is stable.
	sizeLen := 1
	for VarintLen(uint64(types.Len()+sizeLen)) != sizeLen {
		sizeLen = VarintLen(uint64(types.Len() + sizeLen))
	}

	header := bytes.Buffer{}
	if _, err := WriteVarint(&header, uint64(types.Len()+sizeLen)); err != nil {
		return err
	}

	if _, err := w.Write(header.Bytes()); err != nil {
		return err
	}
	if _, err := w.Write(types.Bytes()); err != nil {
		return err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	return nil
}

// ToBytes serializes the record to a byte slice.
func (r Record) ToBytes() ([]byte, error) {
	buf := bytes.Buffer{}
	if err := r.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadRecord decodes a single record starting at the beginning of data.
func ReadRecord(data []byte) (Record, error) {
	reader := bytes.NewReader(data)

	headerSize, n, err := ReadVarint(reader)
	if err != nil {
		return Record{}, fmt.Errorf("record header size: %w", ErrCorruption)
	}
	if headerSize < uint64(n) || headerSize > uint64(len(data)) {
		return Record{}, fmt.Errorf("record header size %d out of range: %w", headerSize, ErrCorruption)
	}

	var serials []uint64
	remaining := headerSize - uint64(n)
	for remaining > 0 {
		serial, n, err := ReadVarint(reader)
		if err != nil || uint64(n) > remaining {
			return Record{}, fmt.Errorf("record serial types: %w", ErrCorruption)
		}
		serials = append(serials, serial)
		remaining -= uint64(n)
	}

	columns := make([]Column, 0, len(serials))
	for _, serial := range serials {
		column, err := readColumn(reader, serial)
		if err != nil {
			return Record{}, err
		}
		columns = append(columns, column)
	}

	return Record{Columns: columns}, nil
}

// serialValue maps a column value to its serial type and payload bytes.
func serialValue(c Column) (uint64, []byte, error) {
	switch c.Type {
	case TypeNull:
		return 0, nil, nil
	case TypeInteger:
		return serialInteger(c.Int)
	case TypeReal:
		payload := make([]byte, 8)
		binary.BigEndian.PutUint64(payload, math.Float64bits(c.Real))
		return 7, payload, nil
	case TypeBlob:
		return uint64(len(c.Blob))*2 + 12, c.Blob, nil
	case TypeText:
		return uint64(len(c.Text))*2 + 13, []byte(c.Text), nil
	}
	return 0, nil, fmt.Errorf("cannot serialize column type %s", c.Type)
}

// serialInteger picks the smallest width whose two's-complement
// representation round-trips v. Zero and one use the literal types.
func serialInteger(v int64) (uint64, []byte, error) {
	switch v {
	case 0:
		return 8, nil, nil
	case 1:
		return 9, nil, nil
	}

	for serial, width := range integerWidths {
		if width > 0 && fitsSigned(v, width) {
			payload := make([]byte, width)
			putTwosComplement(payload, v, width)
			return uint64(serial), payload, nil
		}
	}

	// Unreachable: every int64 fits in 8 bytes.
	return 0, nil, ErrIntegerOverflow
}

// integerWidths maps serial types to payload widths; index is the serial type.
var integerWidths = [...]int{0, 1, 2, 3, 4, 6, 8}

func readColumn(r *bytes.Reader, serial uint64) (Column, error) {
	switch serial {
	case 0:
		return Null(), nil
	case 1, 2, 3, 4, 5, 6:
		bs, err := readPayload(r, integerWidths[int(serial)])
		if err != nil {
			return Column{}, err
		}
		return Integer(readTwosComplement(bs)), nil
	case 7:
		bs, err := readPayload(r, 8)
		if err != nil {
			return Column{}, err
		}
		return Real(math.Float64frombits(binary.BigEndian.Uint64(bs))), nil
	case 8:
		return Integer(0), nil
	case 9:
		return Integer(1), nil
	case 10, 11:
		return Column{}, fmt.Errorf("reserved serial type %d: %w", serial, ErrCorruption)
	}

	if serial%2 == 0 {
		bs, err := readPayload(r, int(serial-12)/2)
		if err != nil {
			return Column{}, err
		}
		return Blob(bs), nil
	}

	bs, err := readPayload(r, int(serial-13)/2)
	if err != nil {
		return Column{}, err
	}
	text, err := decodeText(bs)
	if err != nil {
		return Column{}, err
	}
	return Text(text), nil
}

func readPayload(r *bytes.Reader, size int) ([]byte, error) {
	bs := make([]byte, size)
	if _, err := io.ReadFull(r, bs); err != nil {
		return nil, fmt.Errorf("record payload truncated: %w", ErrCorruption)
	}
	return bs, nil
}
