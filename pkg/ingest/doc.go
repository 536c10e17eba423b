// Package ingest reads delimited text files into frame tables.
//
// Two readers are provided. ReadFile scans the file once on the calling
// goroutine and supports row limits and compressed input. ReadFileParallel
// splits the data section into byte-range chunks and parses them on a pool
// of shared-nothing workers, each with its own file handle, decoder and
// string interner, then concatenates the chunk results in file order.
//
// # Format
//
// The first line is the header. Fields are separated by a single character
// and may be wrapped in double quotes; inside quotes the separator is
// literal and a doubled quote decodes to one quote. Each physical line is
// one record: a quoted field cannot contain a newline. Lines are trimmed of
// surrounding whitespace, blank lines are ignored, and a line whose field
// count differs from the header is skipped and counted in Stats.Skipped.
//
// # Chunk ownership
//
// In parallel mode a record belongs to the chunk that contains its first
// byte. A worker whose range does not begin right after a newline discards
// the partial line it landed in, and every worker keeps reading while the
// next line starts inside its range, finishing a record that straddles its
// end offset. Every record is therefore parsed exactly once whatever the
// worker count.
package ingest
