package scan

import (
	"github.com/cosmoforge/treescan/pkg/buffer"
	"github.com/cosmoforge/treescan/pkg/catalog"
	"github.com/cosmoforge/treescan/pkg/errors"
)

// ParseLine routes one data line into the registry.
//
// The line is tokenized lazily on spaces, with a token cursor that starts
// before the first column and only ever moves forward: unwanted columns
// are stepped over and discarded, and a duplicate request for the current
// column reuses the token already in hand. Running out of tokens before
// reaching a wanted column means the row declares fewer fields than the
// header and is a format error.
//
// Each wanted token is converted to the column's destination type and
// stored at the shared row index; the index advances by one after the
// whole line. When the registry is full it is doubled first.
func ParseLine(line []byte, dm *catalog.DestinationMap, reg *buffer.Registry) error {
	if reg.Rows() == reg.Capacity() {
		if reg.Capacity() == 0 {
			return errors.New(errors.ErrorTypeConfig,
				"registry has zero capacity; pre-size it with Grow before parsing")
		}
		if err := reg.Grow(2 * reg.Capacity()); err != nil {
			return err
		}
	}

	row := reg.Rows()
	pos := 0
	cursor := -1
	var token []byte

	for _, col := range dm.Columns() {
		for cursor < col.Column {
			token, pos = nextToken(line, pos)
			if token == nil {
				return errors.Newf(errors.ErrorTypeFormat,
					"row %d ends after %d fields, column %d (%s) requested",
					row, cursor+1, col.Column, col.Name)
			}
			cursor++
		}
		if len(token) == 0 {
			return errors.Newf(errors.ErrorTypeFormat,
				"row %d: empty field at column %d (%s)", row, col.Column, col.Name)
		}

		switch col.Type {
		case catalog.Float32:
			reg.PutFloat32(col.Slot, row, col.Offset, float32(parseFloat(token)))
		case catalog.Float64:
			reg.PutFloat64(col.Slot, row, col.Offset, parseFloat(token))
		case catalog.Int32:
			reg.PutInt32(col.Slot, row, col.Offset, int32(parseInt(token)))
		case catalog.Int64:
			reg.PutInt64(col.Slot, row, col.Offset, parseInt(token))
		case catalog.Uint32:
			reg.PutUint32(col.Slot, row, col.Offset, uint32(parseUint(token)))
		case catalog.Uint64:
			reg.PutUint64(col.Slot, row, col.Offset, parseUint(token))
		default:
			return errors.Newf(errors.ErrorTypeInternal,
				"column %s: unhandled numeric type %d", col.Name, int(col.Type))
		}
	}

	reg.AdvanceRow()
	return nil
}

// nextToken returns the next space-delimited token at or after pos and the
// scan position following it, skipping runs of spaces. A nil token means
// the line is exhausted.
func nextToken(line []byte, pos int) ([]byte, int) {
	for pos < len(line) && line[pos] == ' ' {
		pos++
	}
	if pos >= len(line) {
		return nil, pos
	}
	start := pos
	for pos < len(line) && line[pos] != ' ' {
		pos++
	}
	return line[start:pos], pos
}
