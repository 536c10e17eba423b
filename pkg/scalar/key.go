package scalar

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

const (
	tagNull byte = iota
	tagInt
	tagFloat
	tagText
	tagNaN
)

// AppendKey appends a canonical encoding of s to buf. Scalars that are
// Equal produce identical encodings, so the encoding can back hash-based
// grouping and join indexes.
func AppendKey(buf []byte, s Scalar) []byte {
	switch s.kind {
	case KindNull:
		return append(buf, tagNull)
	case KindInteger:
		buf = append(buf, tagInt)
		return binary.LittleEndian.AppendUint64(buf, uint64(s.i))
	case KindFloat:
		if math.IsNaN(s.f) {
			return append(buf, tagNaN)
		}
		if i, ok := exactInt(s.f); ok {
			buf = append(buf, tagInt)
			return binary.LittleEndian.AppendUint64(buf, uint64(i))
		}
		buf = append(buf, tagFloat)
		return binary.LittleEndian.AppendUint64(buf, math.Float64bits(s.f))
	default:
		buf = append(buf, tagText)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.s)))
		return append(buf, s.s...)
	}
}

// Hash returns the xxhash of the canonical key encoding of s.
func Hash(s Scalar) uint64 {
	var scratch [16]byte
	return xxhash.Sum64(AppendKey(scratch[:0], s))
}
