package ingest

import (
	"strings"
	"unicode/utf8"
)

// ParseLine splits one physical line into fields. Double quotes toggle
// quoting anywhere in a field and are not part of the value; inside quotes
// a doubled quote yields one literal quote and sep is ordinary text. An
// unterminated quote runs to the end of the line. The result always has at
// least one field.
func ParseLine(line string, sep rune) []string {
	return appendFields(nil, line, sep)
}

func appendFields(dst []string, line string, sep rune) []string {
	if !strings.ContainsRune(line, '"') {
		// fast path: no quoting, fields are substrings of line
		if sep < utf8.RuneSelf {
			for {
				i := strings.IndexByte(line, byte(sep))
				if i < 0 {
					return append(dst, line)
				}
				dst = append(dst, line[:i])
				line = line[i+1:]
			}
		}
		return append(dst, strings.Split(line, string(sep))...)
	}

	var field strings.Builder
	inQuotes := false
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		switch {
		case r == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				field.WriteByte('"')
				i += 2
				continue
			}
			inQuotes = !inQuotes
		case r == sep && !inQuotes:
			dst = append(dst, field.String())
			field.Reset()
		default:
			field.WriteString(line[i : i+size])
		}
		i += size
	}
	return append(dst, field.String())
}
