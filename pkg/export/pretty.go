package export

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/ajitpratap0/quarry/pkg/frame"
)

// Pretty renders up to maxRows rows of t as a bordered text table followed
// by the table shape. maxRows <= 0 renders every row.
func Pretty(w io.Writer, t *frame.Table, maxRows int) error {
	rows := t.NumRows()
	if maxRows > 0 && rows > maxRows {
		rows = maxRows
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Columns())
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	cols := columns(t)
	for r := 0; r < rows; r++ {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = c.At(r).String()
		}
		table.Append(line)
	}
	table.Render()

	if rows < t.NumRows() {
		if _, err := fmt.Fprintf(w, "... %d more rows\n", t.NumRows()-rows); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "[%d rows x %d columns]\n", t.NumRows(), t.NumColumns())
	return err
}
