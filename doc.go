// Package quarry is an in-memory columnar data engine for analytic queries
// over large delimited files.
//
// Quarry loads CSV and other delimited text into a Table of typed columns,
// splitting large files into byte-range chunks that are parsed concurrently,
// and answers queries with a small set of composable table operations:
// projection, filtering, sorting, grouping with aggregation, joining and
// type/shape transforms. Every operation returns a new Table.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/ajitpratap0/quarry/pkg/frame"
//	    "github.com/ajitpratap0/quarry/pkg/ingest"
//	)
//
//	table, stats, err := ingest.ReadFileParallel(context.Background(), "sales.csv", ingest.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//
//	groups, err := table.GroupBy("state")
//	if err != nil {
//	    return err
//	}
//	totals, err := groups.Sum("amount")
//	if err != nil {
//	    return err
//	}
//	top, err := totals.Sort([]string{"amount"}, false)
//	fmt.Println(top.Head(5))
//
// # Key Packages
//
//	pkg/scalar        - Typed cell values, inference, ordering and conversion
//	pkg/ingest        - Sequential and parallel chunked CSV readers
//	pkg/frame         - Table, core operations, GroupBy and Join
//	pkg/dataset       - Load-once dataset cache with explicit invalidation
//	pkg/export        - JSON, CSV, Arrow IPC, Avro and text table writers
//	pkg/compression   - Transparent gzip, zstd, snappy, s2 and lz4 streams
//	pkg/config        - YAML engine configuration
//	pkg/errors        - Structured error handling
//	pkg/logger        - Structured logging
//	pkg/metrics       - Prometheus metrics
//	pkg/observability - OpenTelemetry tracing
//
// # Values
//
// A cell holds Null, Integer, Float or Text. Values are ordered Null, then
// numbers by value, then text byte-wise, so Integer 1 and Float 1.0 are
// equal for filtering, grouping and joining.
//
// # Ingestion
//
// The first line of a file is the header. A data line whose field count
// differs from the header is skipped and counted. Double quotes protect
// separators inside a field; records never span lines. The parallel reader
// assigns each record to the chunk holding its first byte, so its result is
// identical to the sequential reader for any worker count.
//
// # Command Line
//
//	quarry head sales.csv -n 5
//	quarry groupby sales.csv --by state --agg amount:sum --sort amount --desc
//	quarry join sales.csv states.csv --on state --how left
//	quarry export sales.csv --out sales.arrow
//	quarry --config quarry.yaml datasets --load
//
// Flags may also be set through QUARRY_* environment variables or a .env
// file.
package quarry
