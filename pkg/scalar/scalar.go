// Package scalar defines the null-aware value every table cell holds.
//
// A Scalar is one of four kinds: Null, Integer, Float or Text. Columns are
// not homogeneous; the kind is carried per value, so a single column may mix
// Integer, Float and Text rows.
package scalar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Scalar.
type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindText
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKind maps a user-facing type name to a Kind. It accepts the names
// used by the query layer ("int", "float", "str") as well as the kind names.
func ParseKind(name string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int", "int64", "integer":
		return KindInteger, true
	case "float", "float64", "double":
		return KindFloat, true
	case "str", "string", "text":
		return KindText, true
	case "null", "none":
		return KindNull, true
	}
	return KindNull, false
}

// Scalar is an immutable tagged value. The zero value is Null.
type Scalar struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Null returns the null scalar.
func Null() Scalar { return Scalar{} }

// Int returns an Integer scalar.
func Int(v int64) Scalar { return Scalar{kind: KindInteger, i: v} }

// Float returns a Float scalar.
func Float(v float64) Scalar { return Scalar{kind: KindFloat, f: v} }

// Text returns a Text scalar. The empty string is kept as Text; use
// Infer to map empty input to Null.
func Text(v string) Scalar { return Scalar{kind: KindText, s: v} }

// Kind returns the variant tag.
func (s Scalar) Kind() Kind { return s.kind }

// IsNull reports whether s is Null.
func (s Scalar) IsNull() bool { return s.kind == KindNull }

// IsMissing reports whether s is Null or empty Text. Aggregations and
// fillna treat both as absent.
func (s Scalar) IsMissing() bool {
	return s.kind == KindNull || (s.kind == KindText && s.s == "")
}

// IsNumeric reports whether s is an Integer or a Float.
func (s Scalar) IsNumeric() bool { return s.kind == KindInteger || s.kind == KindFloat }

// AsInt returns the Integer payload.
func (s Scalar) AsInt() (int64, bool) { return s.i, s.kind == KindInteger }

// AsText returns the Text payload.
func (s Scalar) AsText() (string, bool) { return s.s, s.kind == KindText }

// AsFloat returns the numeric payload widened to float64. It succeeds for
// both Integer and Float.
func (s Scalar) AsFloat() (float64, bool) {
	switch s.kind {
	case KindInteger:
		return float64(s.i), true
	case KindFloat:
		return s.f, true
	}
	return 0, false
}

// Interface converts s to a plain Go value: nil, int64, float64 or string.
func (s Scalar) Interface() interface{} {
	switch s.kind {
	case KindInteger:
		return s.i
	case KindFloat:
		return s.f
	case KindText:
		return s.s
	}
	return nil
}

// FromInterface converts a plain Go value to a Scalar. Unsupported types
// are rendered as Text.
func FromInterface(v interface{}) Scalar {
	switch x := v.(type) {
	case nil:
		return Null()
	case Scalar:
		return x
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case string:
		return Text(x)
	case bool:
		if x {
			return Int(1)
		}
		return Int(0)
	default:
		return Text(fmt.Sprint(x))
	}
}

// Format renders s for serialization: Null is the empty string, Float uses
// the shortest representation that round-trips and always shows a decimal
// point for integral values.
func (s Scalar) Format() string {
	switch s.kind {
	case KindInteger:
		return strconv.FormatInt(s.i, 10)
	case KindFloat:
		return formatFloat(s.f)
	case KindText:
		return s.s
	}
	return ""
}

// String renders s for display; Null prints as "null".
func (s Scalar) String() string {
	if s.kind == KindNull {
		return "null"
	}
	return s.Format()
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	abs := math.Abs(f)
	var out string
	if abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		out = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		out = strconv.FormatFloat(f, 'g', -1, 64)
	}
	if !strings.ContainsAny(out, ".e") {
		out += ".0"
	}
	return out
}
