package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		sep  rune
		want []string
	}{
		{"plain", "a,b,c", ',', []string{"a", "b", "c"}},
		{"quoted separator", `1,"Smith, J."`, ',', []string{"1", "Smith, J."}},
		{"doubled quote", `a,"He said ""hi"""`, ',', []string{"a", `He said "hi"`}},
		{"apostrophe", "2,O'Brien", ',', []string{"2", "O'Brien"}},
		{"empty line", "", ',', []string{""}},
		{"empty fields", "a,,b,", ',', []string{"a", "", "b", ""}},
		{"unterminated quote", `x,"open, still open`, ',', []string{"x", "open, still open"}},
		{"mid-field quotes", `ab"c,d"e,f`, ',', []string{"abc,de", "f"}},
		{"semicolon", "a;b", ';', []string{"a", "b"}},
		{"tab", "a\tb c", '\t', []string{"a", "b c"}},
		{"multibyte separator", "a¦b¦\"c¦d\"", '¦', []string{"a", "b", "c¦d"}},
		{"multibyte separator unquoted", "x¦y", '¦', []string{"x", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLine(tt.line, tt.sep))
		})
	}
}

func TestAppendFieldsReusesBuffer(t *testing.T) {
	buf := make([]string, 0, 4)
	out := appendFields(buf[:0], "a,b", ',')
	assert.Equal(t, []string{"a", "b"}, out)
	out = appendFields(out[:0], `"c"`, ',')
	assert.Equal(t, []string{"c"}, out)
}
