package scalar

import (
	"errors"
	"strconv"
	"strings"
)

// Infer converts one raw field to a Scalar.
//
// The empty string is Null. A value that starts with a digit, or with '-'
// followed by a digit, is tried as a number: Integer when it has no '.',
// Float otherwise. Anything else, or any value that fails to parse, stays
// Text. Inference is per value, so "007" becomes Integer 7 and "1.2.3"
// stays Text. A single underscore between two digits is a digit separator:
// "1_000" is Integer 1000 while "1__000" and "1000_" stay Text.
func Infer(raw string) Scalar {
	if raw == "" {
		return Null()
	}
	if !looksNumeric(raw) {
		return Text(raw)
	}
	v, ok := stripDigitSeparators(strings.TrimSpace(raw))
	if !ok {
		return Text(raw)
	}
	if strings.IndexByte(v, '.') < 0 {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return Int(i)
		}
		// Digits beyond the int64 range still denote a number.
		if errors.Is(err, strconv.ErrRange) {
			if f, ferr := strconv.ParseFloat(v, 64); ferr == nil {
				return Float(f)
			}
		}
		return Text(raw)
	}
	if strings.ContainsAny(v, "xXpP") {
		return Text(raw)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Text(raw)
	}
	return Float(f)
}

// InferText is the inference-off policy: empty is Null, everything else is
// kept verbatim as Text.
func InferText(raw string) Scalar {
	if raw == "" {
		return Null()
	}
	return Text(raw)
}

func looksNumeric(v string) bool {
	if isDigit(v[0]) {
		return true
	}
	return len(v) > 1 && v[0] == '-' && isDigit(v[1])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// stripDigitSeparators removes underscores that sit between two digits. It
// reports false when any other underscore is present.
func stripDigitSeparators(v string) (string, bool) {
	if strings.IndexByte(v, '_') < 0 {
		return v, true
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		if v[i] != '_' {
			b.WriteByte(v[i])
			continue
		}
		if i == 0 || i == len(v)-1 || !isDigit(v[i-1]) || !isDigit(v[i+1]) {
			return v, false
		}
	}
	return b.String(), true
}
