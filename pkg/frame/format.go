package frame

import (
	"fmt"
	"sort"
	"strings"
)

const (
	previewRows  = 10
	maxCellWidth = 30
)

// String renders up to the first ten rows as an aligned text grid followed
// by a shape line such as "[3 rows x 2 columns]".
func (t *Table) String() string {
	n := t.rows
	if n > previewRows {
		n = previewRows
	}
	cells := make([][]string, n+1)
	cells[0] = make([]string, len(t.names))
	for c, name := range t.names {
		cells[0][c] = truncate(name)
	}
	for i := 0; i < n; i++ {
		row := make([]string, len(t.names))
		for c, name := range t.names {
			row[c] = truncate(t.data[name][i].String())
		}
		cells[i+1] = row
	}
	widths := make([]int, len(t.names))
	for _, row := range cells {
		for c, cell := range row {
			if w := len([]rune(cell)); w > widths[c] {
				widths[c] = w
			}
		}
	}

	var b strings.Builder
	for _, row := range cells {
		for c, cell := range row {
			if c > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if c < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[c]-len([]rune(cell))))
			}
		}
		b.WriteByte('\n')
	}
	if t.rows > n {
		b.WriteString("...\n")
	}
	fmt.Fprintf(&b, "[%d rows x %d columns]", t.rows, len(t.names))
	return b.String()
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-3]) + "..."
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
