// Package frame implements the in-memory columnar table that every analytic
// query is built from.
//
// A Table is an ordered list of uniquely named columns of equal length.
// Tables are immutable: Select, Filter, Sort, Join, GroupBy and the column
// transforms all return a new Table that owns freshly allocated column
// storage, so a constructed Table can be read from many goroutines without
// synchronization.
//
// Ordering and equality of cell values follow scalar.Compare: Null sorts
// lowest, Integer and Float compare numerically, Text sorts above numbers.
//
// Basic usage:
//
//	t, err := ingest.ReadFileParallel(ctx, "state_year.csv", ingest.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	g, err := t.GroupBy("State")
//	if err != nil {
//	    return err
//	}
//	totals, err := g.Agg(frame.Aggregation{Column: "total_accidents", Func: frame.Sum})
//	if err != nil {
//	    return err
//	}
//	top, err := totals.Sort([]string{"total_accidents"}, false)
package frame
