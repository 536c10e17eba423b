package scalar

import (
	"math"
	"strings"
)

// rank orders the kind families: Null < numeric < Text.
func rank(k Kind) int {
	switch k {
	case KindNull:
		return 0
	case KindInteger, KindFloat:
		return 1
	default:
		return 2
	}
}

// Compare defines the total order used by sort, min/max and key equality.
//
// Null sorts lowest. Integer and Float compare by numeric value, with NaN
// below every other number. Text sorts above all numbers and compares
// byte-wise. It returns -1, 0 or +1.
func Compare(a, b Scalar) int {
	ra, rb := rank(a.kind), rank(b.kind)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case 0:
		return 0
	case 2:
		return strings.Compare(a.s, b.s)
	}
	if a.kind == KindInteger && b.kind == KindInteger {
		return cmpInt(a.i, b.i)
	}
	return cmpNumeric(a, b)
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpNumeric(a, b Scalar) int {
	af, _ := a.AsFloat()
	bf, _ := b.AsFloat()
	aNaN, bNaN := math.IsNaN(af), math.IsNaN(bf)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case af < bf:
		return -1
	case af > bf:
		return 1
	}
	// Equal as float64; break the tie exactly when one side is an Integer
	// that float64 cannot represent.
	// A float equal to float64(int) yet outside the int64 range can only be
	// 2^63, which is above every Integer.
	if a.kind == KindInteger && b.kind == KindFloat {
		if bi, ok := exactInt(b.f); ok {
			return cmpInt(a.i, bi)
		}
		return -1
	}
	if a.kind == KindFloat && b.kind == KindInteger {
		if ai, ok := exactInt(a.f); ok {
			return cmpInt(ai, b.i)
		}
		return 1
	}
	return 0
}

// exactInt converts an integral float inside the int64 range.
func exactInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < -9.223372036854775808e18 || f >= 9.223372036854775808e18 {
		return 0, false
	}
	return int64(f), true
}

// Equal reports whether a and b are equal under Compare. Integer 1 equals
// Float 1.0 and Null equals Null.
func Equal(a, b Scalar) bool { return Compare(a, b) == 0 }

// Less reports whether a sorts before b.
func Less(a, b Scalar) bool { return Compare(a, b) < 0 }
