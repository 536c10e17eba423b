package export

import (
	"strconv"
	"strings"

	"github.com/ajitpratap0/quarry/pkg/frame"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

// fieldType is the physical type a column is exported as.
type fieldType int

const (
	fieldInt fieldType = iota
	fieldFloat
	fieldText
)

// columnType picks Int64 when every non-null value is an Integer, Float64
// when every non-null value is numeric, and text otherwise. An all-null
// column is text.
func columnType(c frame.Column) fieldType {
	ft := fieldInt
	seen := false
	for i := 0; i < c.Len(); i++ {
		switch c.At(i).Kind() {
		case scalar.KindNull:
			continue
		case scalar.KindInteger:
		case scalar.KindFloat:
			ft = fieldFloat
		default:
			return fieldText
		}
		seen = true
	}
	if !seen {
		return fieldText
	}
	return ft
}

// avroName maps a column name onto the Avro name grammar
// [A-Za-z_][A-Za-z0-9_]*, disambiguating collisions with a numeric suffix.
func avroName(name string, used map[string]struct{}) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	base := b.String()
	if base == "" {
		base = "_"
	}
	out := base
	for n := 2; ; n++ {
		if _, taken := used[out]; !taken {
			break
		}
		out = base + "_" + strconv.Itoa(n)
	}
	used[out] = struct{}{}
	return out
}
