package farm

import (
	"encoding/hex"
	"fmt"
	"slices"
)

// field locates an integer inside a packed record. A non-zero width reads
// that many bytes big-endian; a non-zero mask reads the masked bits of a
// single byte shifted right by shift; otherwise the raw byte is used.
type field struct {
	offset int
	width  int
	mask   byte
	shift  uint
}

// memory is the fixed-size packed form of a State.
type memory []byte

func newMemory() memory {
	return make(memory, MemorySize)
}

func (m memory) getField(f field) int {
	switch {
	case f.width > 0:
		result := 0
		for i := 0; i < f.width; i++ {
			result <<= 8
			result |= int(m[f.offset+i])
		}
		return result
	case f.mask != 0:
		return int((m[f.offset] & f.mask) >> f.shift)
	default:
		return int(m[f.offset])
	}
}

func (m memory) setField(f field, value int) {
	switch {
	case f.width > 0:
		for i := f.width - 1; i >= 0; i-- {
			m[f.offset+i] = byte(value & 0xff)
			value >>= 8
		}
	case f.mask != 0:
		m[f.offset] &^= f.mask
		m[f.offset] |= (byte(value) << f.shift) & f.mask
	default:
		m[f.offset] = byte(value)
	}
}

// getEnum maps the field through values by index. ok is false when the
// stored index has no entry.
func getEnum[T any](m memory, values []T, f field) (T, bool) {
	i := m.getField(f)
	if i < 0 || i >= len(values) {
		var zero T
		return zero, false
	}
	return values[i], true
}

func setEnum[T comparable](m memory, values []T, f field, v T) {
	i := slices.Index(values, v)
	if i < 0 {
		i = 0
	}
	m.setField(f, i)
}

// String encodes the record as two lowercase hex digits per byte.
func (m memory) String() string {
	return hex.EncodeToString(m)
}

func memoryFromHex(s string) (memory, error) {
	if len(s) != MemorySize*2 {
		return nil, fmt.Errorf("%w: expected %d hex digits, got %d", ErrCorruptRecord, MemorySize*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	return memory(b), nil
}
