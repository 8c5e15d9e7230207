package record

import (
	"bytes"
	"math"
	"unicode/utf8"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
)

// Encode returns the block for e, always RecordSize bytes long.
func Encode(e *data.Employee) []byte {
	block := make([]byte, RecordSize)
	EncodeTo(block, e)
	return block
}

// EncodeTo writes the block for e into dst, which must hold at least
// RecordSize bytes; the caller must check.
func EncodeTo(dst []byte, e *data.Employee) {
	for _, field := range Schema {
		slot := dst[field.Offset : field.Offset+field.Width]
		switch v := field.ref(e).(type) {
		case *int32:
			byteOrder.PutUint32(slot, uint32(*v))
		case *float64:
			byteOrder.PutUint64(slot, math.Float64bits(*v))
		case *string:
			n := copy(slot, *v)
			clear(slot[n:])
		}
	}
}

// Decode reads one employee from the first RecordSize bytes of block. A
// shorter block returns ErrIncomplete and never a partial employee.
func Decode(block []byte) (*data.Employee, error) {
	if len(block) < RecordSize {
		return nil, ErrIncomplete
	}
	e := &data.Employee{}
	for _, field := range Schema {
		slot := block[field.Offset : field.Offset+field.Width]
		switch v := field.ref(e).(type) {
		case *int32:
			*v = int32(byteOrder.Uint32(slot))
		case *float64:
			*v = math.Float64frombits(byteOrder.Uint64(slot))
		case *string:
			if i := bytes.IndexByte(slot, 0); i >= 0 {
				slot = slot[:i]
			}
			if !utf8.Valid(slot) {
				return nil, &DecodeError{Field: field.Name, Offset: field.Offset}
			}
			*v = string(slot)
		}
	}
	return e, nil
}

// Truncate returns s as it would be stored in a text field of the given
// width (before padding).
func Truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width]
}

// Fits reports whether e survives a round trip unchanged: every text field
// is valid UTF-8, within its width and free of zero bytes.
func Fits(e *data.Employee) bool {
	for _, field := range Schema {
		v, ok := field.ref(e).(*string)
		if !ok {
			continue
		}
		if len(*v) > field.Width || !utf8.ValidString(*v) ||
			bytes.IndexByte([]byte(*v), 0) >= 0 {
			return false
		}
	}
	return true
}
