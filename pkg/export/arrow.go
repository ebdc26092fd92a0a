// Package export converts filled destination buffers into Apache Arrow
// records, one array per resolved column, for interchange with columnar
// tooling.
package export

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/cosmoforge/treescan/pkg/buffer"
	"github.com/cosmoforge/treescan/pkg/catalog"
	"github.com/cosmoforge/treescan/pkg/errors"
)

// arrowType maps a destination scalar type to its Arrow equivalent.
func arrowType(t catalog.NumericType) (arrow.DataType, error) {
	switch t {
	case catalog.Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case catalog.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case catalog.Uint32:
		return arrow.PrimitiveTypes.Uint32, nil
	case catalog.Uint64:
		return arrow.PrimitiveTypes.Uint64, nil
	case catalog.Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case catalog.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	}
	return nil, errors.Newf(errors.ErrorTypeConfig, "no arrow mapping for numeric type %d", int(t))
}

// Schema builds the Arrow schema for a destination map, one field per
// resolved column in file-column order.
func Schema(dm *catalog.DestinationMap) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, dm.Len())
	for _, col := range dm.Columns() {
		dt, err := arrowType(col.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{Name: col.Name, Type: dt})
	}
	return arrow.NewSchema(fields, nil), nil
}

// NewRecord copies the filled rows of every resolved column out of the
// registry into one Arrow record. The caller owns the record and must
// Release it.
func NewRecord(dm *catalog.DestinationMap, reg *buffer.Registry) (arrow.Record, error) {
	schema, err := Schema(dm)
	if err != nil {
		return nil, err
	}

	rb := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer rb.Release()

	rows := reg.Rows()
	for i, col := range dm.Columns() {
		switch col.Type {
		case catalog.Int32:
			b := rb.Field(i).(*array.Int32Builder)
			b.Reserve(int(rows))
			for row := int64(0); row < rows; row++ {
				b.Append(reg.Int32At(col.Slot, row, col.Offset))
			}
		case catalog.Int64:
			b := rb.Field(i).(*array.Int64Builder)
			b.Reserve(int(rows))
			for row := int64(0); row < rows; row++ {
				b.Append(reg.Int64At(col.Slot, row, col.Offset))
			}
		case catalog.Uint32:
			b := rb.Field(i).(*array.Uint32Builder)
			b.Reserve(int(rows))
			for row := int64(0); row < rows; row++ {
				b.Append(reg.Uint32At(col.Slot, row, col.Offset))
			}
		case catalog.Uint64:
			b := rb.Field(i).(*array.Uint64Builder)
			b.Reserve(int(rows))
			for row := int64(0); row < rows; row++ {
				b.Append(reg.Uint64At(col.Slot, row, col.Offset))
			}
		case catalog.Float32:
			b := rb.Field(i).(*array.Float32Builder)
			b.Reserve(int(rows))
			for row := int64(0); row < rows; row++ {
				b.Append(reg.Float32At(col.Slot, row, col.Offset))
			}
		case catalog.Float64:
			b := rb.Field(i).(*array.Float64Builder)
			b.Reserve(int(rows))
			for row := int64(0); row < rows; row++ {
				b.Append(reg.Float64At(col.Slot, row, col.Offset))
			}
		}
	}

	return rb.NewRecord(), nil
}

// WriteIPC writes one record as an Arrow IPC stream.
func WriteIPC(w io.Writer, rec arrow.Record) error {
	wr := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()))
	if err := wr.Write(rec); err != nil {
		wr.Close()
		return errors.Wrap(err, errors.ErrorTypeIO, "writing arrow record")
	}
	if err := wr.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "closing arrow writer")
	}
	return nil
}
