package export

import (
	"bytes"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmoforge/treescan/pkg/buffer"
	"github.com/cosmoforge/treescan/pkg/catalog"
	"github.com/cosmoforge/treescan/pkg/config"
)

func filledRegistry(t *testing.T) (*catalog.DestinationMap, *buffer.Registry) {
	t.Helper()
	limits := config.Default().Limits

	hdr, err := catalog.ParseHeader("#scale(0) id(1)", limits)
	require.NoError(t, err)

	reg := buffer.NewRegistry()
	_, err = reg.AddSlot(4)
	require.NoError(t, err)
	_, err = reg.AddSlot(8)
	require.NoError(t, err)

	dm, err := catalog.Resolve(hdr, []catalog.Request{
		{Name: "scale", Type: catalog.Float32, Slot: 0},
		{Name: "id", Type: catalog.Int64, Slot: 1},
	}, reg, limits)
	require.NoError(t, err)

	require.NoError(t, reg.Grow(4))
	for row := int64(0); row < 3; row++ {
		reg.PutFloat32(0, row, 0, float32(row)*0.5)
		reg.PutInt64(1, row, 0, 100+row)
		reg.AdvanceRow()
	}
	return dm, reg
}

func TestSchema(t *testing.T) {
	dm, _ := filledRegistry(t)

	schema, err := Schema(dm)
	require.NoError(t, err)
	require.Equal(t, 2, schema.NumFields())
	assert.Equal(t, "scale", schema.Field(0).Name)
	assert.Equal(t, arrow.PrimitiveTypes.Float32, schema.Field(0).Type)
	assert.Equal(t, "id", schema.Field(1).Name)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, schema.Field(1).Type)
}

func TestNewRecord(t *testing.T) {
	dm, reg := filledRegistry(t)

	rec, err := NewRecord(dm, reg)
	require.NoError(t, err)
	defer rec.Release()

	require.Equal(t, int64(3), rec.NumRows())
	require.Equal(t, int64(2), rec.NumCols())

	scales := rec.Column(0).(*array.Float32)
	ids := rec.Column(1).(*array.Int64)
	assert.Equal(t, []float32{0, 0.5, 1.0}, scales.Float32Values())
	assert.Equal(t, []int64{100, 101, 102}, ids.Int64Values())
}

func TestWriteIPCRoundTrip(t *testing.T) {
	dm, reg := filledRegistry(t)

	rec, err := NewRecord(dm, reg)
	require.NoError(t, err)
	defer rec.Release()

	var buf bytes.Buffer
	require.NoError(t, WriteIPC(&buf, rec))

	r, err := ipc.NewReader(&buf)
	require.NoError(t, err)
	defer r.Release()

	require.True(t, r.Next())
	got := r.Record()
	assert.Equal(t, int64(3), got.NumRows())
	assert.Equal(t, "scale", got.Schema().Field(0).Name)
	assert.Equal(t, []int64{100, 101, 102}, got.Column(1).(*array.Int64).Int64Values())
	assert.False(t, r.Next())
}
