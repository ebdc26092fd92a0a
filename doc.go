// Package treescan reads Consistent-Trees style ASCII halo catalogs into
// typed, caller-owned buffers, selecting columns by name instead of by
// position so files stay readable when producers add or reorder columns.
//
// A catalog is a whitespace/comma-delimited table: one '#'-prefixed header
// line naming the columns, followed by tree blocks, each introduced by
// another '#' line and holding one data row per line. treescan resolves a
// caller's column requests against the header once, then streams every
// block through a destination map that routes each wanted token straight
// into its destination buffer.
//
// # Architecture
//
// The library is split along the three phases of a scan:
//
// 1. Header resolution (pkg/catalog): the header line is tokenized in two
// passes, "(N)" position annotations are verified, and requested columns
// are matched case-insensitively. The resolved columns are sorted by file
// position into a DestinationMap, so the line parser walks each row left
// to right exactly once.
//
// 2. Destination buffers (pkg/buffer): a Registry of byte slots, each with
// a fixed per-row stride, shares one row count and one capacity across all
// slots. Slots are addressed by index, never by pointer, so geometric
// growth can swap the backing storage without invalidating anything the
// caller holds. A 4- or 8-byte stride gives a plain column; a struct-sized
// stride packs several columns into one row record.
//
// 3. Block scanning (pkg/scan): positional reads walk the file in
// fixed-size chunks, parsing complete lines and re-reading partial ones,
// stopping at the next block's '#' sentinel. Token conversion follows
// strtol/strtod: leading numeric prefixes convert, trailing garbage is
// ignored, out-of-range values clamp.
//
// # Quick Start
//
//	import (
//	    "github.com/cosmoforge/treescan/pkg/buffer"
//	    "github.com/cosmoforge/treescan/pkg/catalog"
//	    "github.com/cosmoforge/treescan/pkg/scan"
//	)
//
//	reg := buffer.NewRegistry()
//	mvir, _ := reg.AddSlot(4) // float32 column
//	id, _ := reg.AddSlot(8)   // int64 column
//
//	sc, err := scan.NewScanner("forest.dat", []catalog.Request{
//	    {Name: "mvir", Type: catalog.Float32, Slot: mvir},
//	    {Name: "id", Type: catalog.Int64, Slot: id},
//	}, reg, nil)
//	if err != nil {
//	    return err
//	}
//	defer sc.Close()
//
//	if err := sc.ReadAll(); err != nil {
//	    return err
//	}
//	masses, _ := reg.Float32s(mvir) // typed view over all rows
//
// # Key Packages
//
//	pkg/catalog      - Header parsing and column resolution
//	pkg/buffer       - Destination slot registry with geometric growth
//	pkg/scan         - Chunked block reader, line parser, Scanner
//	pkg/export       - Apache Arrow records and IPC streams
//	pkg/compression  - Scanning gzip/zstd catalogs via a scratch file
//	pkg/mmap         - Memory-mapped positional reads
//	pkg/config       - Unified configuration with YAML loading
//	pkg/errors       - Structured error handling
//	pkg/logger       - Structured logging
//	pkg/metrics      - Prometheus scan counters
//
// # CLI
//
// The treescan command wraps the library for shell use:
//
//	treescan columns forest.dat            # list declared columns
//	treescan scan forest.dat --fields cols.yaml --format arrow --output out.arrow
//	treescan scan forest.dat.gz --fields cols.yaml --mmap
//
// Configuration files use YAML with ${VAR_NAME} environment substitution;
// the TREESCAN_LOG_LEVEL variable and --log-level flag control logging.
package treescan
