package export

import (
	"encoding/csv"
	"io"

	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/frame"
)

// WriteCSV writes t as delimited text with a header line. Null values are
// empty fields; fields containing the separator, quotes or line breaks are
// quoted so that ingest reads them back.
func WriteCSV(w io.Writer, t *frame.Table, sep rune) error {
	if sep == 0 {
		sep = ','
	}
	if sep == '"' || sep == '\n' || sep == '\r' {
		return errors.Newf(errors.ErrorTypeValidation, "invalid separator %q", sep)
	}

	cw := csv.NewWriter(w)
	cw.Comma = sep
	if err := cw.Write(t.Columns()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write CSV header")
	}

	cols := columns(t)
	record := make([]string, len(cols))
	for r := 0; r < t.NumRows(); r++ {
		for i, c := range cols {
			record[i] = c.At(r).Format()
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write CSV row").WithDetail("row", r)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush CSV")
	}
	return nil
}
