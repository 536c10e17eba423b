package scalar

import (
	"math"
	"strconv"
	"strings"
)

// Convert attempts to change s to the target kind. Null and empty Text
// convert to Null. When the conversion is not possible the original value is
// returned with ok == false.
//
//   - Integer: Float truncates toward zero; Text must parse as a base-10 integer.
//   - Float: Integer widens; Text must parse as a float.
//   - Text: numbers are formatted with Format.
func Convert(s Scalar, target Kind) (out Scalar, ok bool) {
	if s.IsMissing() {
		return Null(), true
	}
	if s.kind == target {
		return s, true
	}
	switch target {
	case KindInteger:
		switch s.kind {
		case KindFloat:
			if math.IsNaN(s.f) || math.IsInf(s.f, 0) {
				return s, false
			}
			if i, exact := exactInt(math.Trunc(s.f)); exact {
				return Int(i), true
			}
			return s, false
		case KindText:
			i, err := strconv.ParseInt(strings.TrimSpace(s.s), 10, 64)
			if err != nil {
				return s, false
			}
			return Int(i), true
		}
	case KindFloat:
		switch s.kind {
		case KindInteger:
			return Float(float64(s.i)), true
		case KindText:
			f, err := strconv.ParseFloat(strings.TrimSpace(s.s), 64)
			if err != nil {
				return s, false
			}
			return Float(f), true
		}
	case KindText:
		return Text(s.Format()), true
	case KindNull:
		return Null(), true
	}
	return s, false
}

// Round rounds numeric values to the given number of decimal places, with
// ties going to the even neighbour. Integers are unchanged for decimals >= 0
// and rounded to a power of ten for negative decimals, so Round(Int(25), -1)
// is 20. Non-numeric values pass through. Rounding goes
// through the decimal representation, so applying Round twice with the same
// precision yields the same value.
func Round(s Scalar, decimals int) Scalar {
	switch s.kind {
	case KindInteger:
		if decimals >= 0 {
			return s
		}
		return roundInt(s.i, -decimals)
	case KindFloat:
		if math.IsNaN(s.f) || math.IsInf(s.f, 0) {
			return s
		}
		if decimals < 0 {
			p := math.Pow10(-decimals)
			return Float(math.RoundToEven(s.f/p) * p)
		}
		f, err := strconv.ParseFloat(strconv.FormatFloat(s.f, 'f', decimals, 64), 64)
		if err != nil {
			return s
		}
		return Float(f)
	}
	return s
}

// roundInt rounds i to a multiple of 10^places, ties to even. A result that
// does not fit in int64 leaves i unchanged.
func roundInt(i int64, places int) Scalar {
	if places > 18 {
		// 10^19 is outside int64; only values within half of it round to 0
		if places == 19 && (i > 5e18 || i < -5e18) {
			return Int(i)
		}
		return Int(0)
	}
	p := int64(1)
	for k := 0; k < places; k++ {
		p *= 10
	}
	q, r := i/p, i%p
	if r < 0 {
		r = -r
	}
	if 2*r > p || (2*r == p && q%2 != 0) {
		if i < 0 {
			q--
		} else {
			q++
		}
	}
	out := q * p
	if out/p != q {
		return Int(i)
	}
	return Int(out)
}
