package catalog

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cosmoforge/treescan/pkg/buffer"
	"github.com/cosmoforge/treescan/pkg/config"
	"github.com/cosmoforge/treescan/pkg/errors"
	"github.com/cosmoforge/treescan/pkg/logger"
)

// Request declares one wanted column: its name as it appears in the
// header (matched case-insensitively), the destination scalar type, the
// registry slot it lands in, and the byte offset inside that slot's
// per-row stride (zero for structure-of-arrays slots).
type Request struct {
	Name   string
	Type   NumericType
	Slot   int
	Offset int
}

// ResolvedColumn is a Request that matched a file column. Column is the
// zero-based position of the matched column in the file.
type ResolvedColumn struct {
	Request
	Column int
}

// notFound marks a request whose name is absent from the header.
const notFound = -1

// DestinationMap is the finalized routing table of a scan: the resolved
// columns in ascending file-column order, plus the file's declared column
// count. It is built once per file and immutable afterwards.
type DestinationMap struct {
	cols        []ResolvedColumn
	fileColumns int
}

// Len returns the number of resolved columns. It can be smaller than the
// request count when some names were not found.
func (m *DestinationMap) Len() int {
	return len(m.cols)
}

// Columns returns the resolved columns in ascending file-column order.
// Callers must not modify the returned slice.
func (m *DestinationMap) Columns() []ResolvedColumn {
	return m.cols
}

// FileColumns returns the number of columns the file header declares.
func (m *DestinationMap) FileColumns() int {
	return m.fileColumns
}

// Resolve matches the requested columns against the header and builds the
// DestinationMap.
//
// Each request is matched case-insensitively against the header names,
// first match wins. Requests whose name is absent are logged and dropped,
// never an error. The surviving set is stable-sorted by file column; the
// whole descriptor moves as one unit, so type, slot, offset, and name stay
// in lock-step with the sort key. Duplicate requests for the same file
// column are legal.
//
// Slot indices, offsets, and the request count are validated here, once,
// against the registry and limits; the parse path performs no per-write
// validation.
func Resolve(hdr *Header, reqs []Request, reg *buffer.Registry, limits config.LimitsConfig) (*DestinationMap, error) {
	if len(reqs) > limits.MaxColumns {
		return nil, errors.Newf(errors.ErrorTypeConfig,
			"%d columns requested but the configured maximum is %d", len(reqs), limits.MaxColumns)
	}

	resolved := make([]ResolvedColumn, 0, len(reqs))
	for _, req := range reqs {
		if !req.Type.Valid() {
			return nil, errors.Newf(errors.ErrorTypeConfig,
				"column %q: invalid numeric type %d", req.Name, int(req.Type))
		}
		if len(req.Name) >= limits.MaxNameLen {
			return nil, errors.Newf(errors.ErrorTypeConfig,
				"requested column name %q exceeds maximum length %d", req.Name, limits.MaxNameLen)
		}
		if req.Slot < 0 || req.Slot >= reg.NumSlots() {
			return nil, errors.Newf(errors.ErrorTypeConfig,
				"column %q: slot %d out of range [0, %d)", req.Name, req.Slot, reg.NumSlots())
		}
		stride := reg.Stride(req.Slot)
		if req.Offset < 0 || req.Offset+req.Type.Size() > stride {
			return nil, errors.Newf(errors.ErrorTypeConfig,
				"column %q: offset %d with %s does not fit the slot stride %d",
				req.Name, req.Offset, req.Type, stride)
		}

		col := matchColumn(req.Name, hdr.Names)
		if col == notFound {
			logger.Warn("requested column not found in catalog header",
				zap.String("column", req.Name))
			continue
		}
		resolved = append(resolved, ResolvedColumn{Request: req, Column: col})
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Column < resolved[j].Column
	})

	return &DestinationMap{cols: resolved, fileColumns: hdr.Columns()}, nil
}

// matchColumn returns the file column number of the first header name
// equal to wanted under case folding, or notFound.
func matchColumn(wanted string, names []string) int {
	for i, name := range names {
		if strings.EqualFold(wanted, name) {
			return i
		}
	}
	return notFound
}
