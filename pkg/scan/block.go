// Package scan walks a catalog file one tree block at a time, feeding each
// data line through the destination map into caller-owned buffers. The
// block reader works on positional reads only, so independent registries
// can scan independent files concurrently with no shared state.
package scan

import (
	"io"

	"github.com/cosmoforge/treescan/pkg/buffer"
	"github.com/cosmoforge/treescan/pkg/catalog"
	"github.com/cosmoforge/treescan/pkg/config"
	"github.com/cosmoforge/treescan/pkg/errors"
	"github.com/cosmoforge/treescan/pkg/pool"
)

// headerWindow is the starting read size when locating a line terminator;
// it doubles until the terminator is found or the line limit is hit.
const headerWindow = 256

// ReadTree reads one tree block.
//
// offset must be the file position of the block's header line (the line
// beginning with the sentinel); the header is skipped, then data lines are
// consumed in fixed-size chunks until the next block's sentinel or end of
// file. Each complete line is copied into a scratch buffer and parsed
// through ParseLine.
//
// The returned next offset advances by exactly the bytes consumed: a line
// straddling a chunk boundary is re-read by the next chunk, and on hitting
// the next block's sentinel the offset is left at the start of that
// block's header line. At end of file a final line with no terminator is
// still parsed.
//
// Returns the rows appended to the registry and the next offset. io.EOF is
// returned when offset is already at end of file.
func ReadTree(r io.ReaderAt, offset int64, dm *catalog.DestinationMap, reg *buffer.Registry, cfg *config.Config) (int64, int64, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	// Skip past this block's header line.
	_, next, err := readLineAt(r, offset, cfg.Limits.MaxLineBytes)
	if err != nil {
		if err == io.EOF {
			return 0, offset, io.EOF
		}
		return 0, offset, err
	}
	offset = next

	chunkSize := cfg.EffectiveChunkBytes()
	chunkBuf := pool.GetBuffer(chunkSize)
	defer pool.PutBuffer(chunkBuf)
	chunk := (*chunkBuf)[:chunkSize]

	lineBuf := pool.GetBuffer(cfg.Limits.MaxLineBytes)
	defer pool.PutBuffer(lineBuf)

	rowsBefore := reg.Rows()
	done := false

	for !done {
		n, rerr := r.ReadAt(chunk, offset)
		if rerr != nil && rerr != io.EOF {
			return reg.Rows() - rowsBefore, offset,
				errors.Wrap(rerr, errors.ErrorTypeIO, "positional read failed")
		}
		if n == 0 {
			// Clean end of file.
			break
		}
		atEOF := rerr == io.EOF
		buf := chunk[:n]
		processed := 0

		for processed < len(buf) {
			i := processed
			foundTerm := false
			for i < len(buf) {
				if buf[i] == '\n' {
					foundTerm = true
					break
				}
				if buf[i] == catalog.Sentinel {
					// Start of the next block. Do not consume this line;
					// the remaining bytes belong to its header.
					done = true
					break
				}
				i++
			}
			if done {
				break
			}
			if !foundTerm {
				// Partial line at the end of the chunk.
				if atEOF {
					// True end of file: a terminator-less tail is the
					// final row.
					if i > processed {
						if err := emitLine(buf[processed:i], lineBuf, dm, reg, cfg); err != nil {
							return reg.Rows() - rowsBefore, offset, err
						}
						processed = i
					}
					done = true
				} else if processed == 0 {
					return reg.Rows() - rowsBefore, offset, errors.Newf(errors.ErrorTypeFormat,
						"line at offset %d has no terminator within %d bytes", offset, chunkSize)
				}
				// Otherwise leave the partial line unconsumed; the next
				// chunk read starts at its first byte.
				break
			}

			if err := emitLine(buf[processed:i], lineBuf, dm, reg, cfg); err != nil {
				return reg.Rows() - rowsBefore, offset, err
			}
			processed = i + 1
		}

		// Advance by exactly the bytes consumed in this chunk.
		offset += int64(processed)
		if atEOF && processed == len(buf) {
			done = true
		}
	}

	return reg.Rows() - rowsBefore, offset, nil
}

// emitLine copies one complete line into the scratch buffer and parses it.
func emitLine(line []byte, scratch *[]byte, dm *catalog.DestinationMap, reg *buffer.Registry, cfg *config.Config) error {
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	if len(line) > cfg.Limits.MaxLineBytes {
		return errors.Newf(errors.ErrorTypeFormat,
			"line of %d bytes exceeds max_line_bytes %d", len(line), cfg.Limits.MaxLineBytes)
	}
	*scratch = append((*scratch)[:0], line...)
	return ParseLine(*scratch, dm, reg)
}

// readLineAt returns the line starting at offset, without its terminator,
// and the offset just past it. The read window starts small and doubles up
// to maxLine; a line that long with no terminator is a format error. At
// end of file a terminator-less tail is returned as the final line, and
// io.EOF is returned only when offset is at or past end of file.
func readLineAt(r io.ReaderAt, offset int64, maxLine int) ([]byte, int64, error) {
	window := headerWindow
	if window > maxLine {
		window = maxLine
	}

	for {
		buf := make([]byte, window)
		n, rerr := r.ReadAt(buf, offset)
		if rerr != nil && rerr != io.EOF {
			return nil, offset, errors.Wrap(rerr, errors.ErrorTypeIO, "positional read failed")
		}
		if n == 0 {
			return nil, offset, io.EOF
		}

		for i := 0; i < n; i++ {
			if buf[i] == '\n' {
				line := buf[:i]
				if i > 0 && line[i-1] == '\r' {
					line = line[:i-1]
				}
				return line, offset + int64(i) + 1, nil
			}
		}

		if rerr == io.EOF {
			// Last line of the file has no terminator.
			return buf[:n], offset + int64(n), nil
		}
		if window >= maxLine {
			return nil, offset, errors.Newf(errors.ErrorTypeFormat,
				"line at offset %d has no terminator within %d bytes", offset, maxLine)
		}
		window *= 2
		if window > maxLine {
			window = maxLine
		}
	}
}
