package buffer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmoforge/treescan/pkg/errors"
)

func TestAddSlot(t *testing.T) {
	reg := NewRegistry()

	s0, err := reg.AddSlot(4)
	require.NoError(t, err)
	s1, err := reg.AddSlot(8)
	require.NoError(t, err)

	assert.Equal(t, 0, s0)
	assert.Equal(t, 1, s1)
	assert.Equal(t, 2, reg.NumSlots())
	assert.Equal(t, 4, reg.Stride(s0))
	assert.Equal(t, 8, reg.Stride(s1))
}

func TestAddSlotStrideTooSmall(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.AddSlot(2)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestAddSlotAfterSizing(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.AddSlot(4)
	require.NoError(t, err)
	require.NoError(t, reg.Grow(8))

	_, err = reg.AddSlot(4)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestGrowPreservesContents(t *testing.T) {
	reg := NewRegistry()
	s, err := reg.AddSlot(8)
	require.NoError(t, err)
	require.NoError(t, reg.Grow(2))

	reg.PutFloat64(s, 0, 0, 1.5)
	reg.PutFloat64(s, 1, 0, -2.25)
	reg.AdvanceRow()
	reg.AdvanceRow()

	require.NoError(t, reg.Grow(16))
	assert.Equal(t, int64(16), reg.Capacity())
	assert.Equal(t, int64(2), reg.Rows())
	assert.Equal(t, 1.5, reg.Float64At(s, 0, 0))
	assert.Equal(t, -2.25, reg.Float64At(s, 1, 0))
}

func TestGrowToSmallerCapacityIsNoOp(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.AddSlot(4)
	require.NoError(t, err)
	require.NoError(t, reg.Grow(16))

	require.NoError(t, reg.Grow(8))
	assert.Equal(t, int64(16), reg.Capacity())
	require.NoError(t, reg.Grow(16))
	assert.Equal(t, int64(16), reg.Capacity())
}

func TestGrowMemoryLimit(t *testing.T) {
	reg := NewRegistry()
	s, err := reg.AddSlot(8)
	require.NoError(t, err)
	reg.SetMemoryLimit(64) // 8 rows of one 8-byte slot

	require.NoError(t, reg.Grow(8))
	reg.PutInt64(s, 0, 0, 42)
	reg.AdvanceRow()

	err = reg.Grow(16)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAllocation))

	// A refused growth leaves the registry at its committed state.
	assert.Equal(t, int64(8), reg.Capacity())
	assert.Equal(t, int64(1), reg.Rows())
	assert.Equal(t, int64(42), reg.Int64At(s, 0, 0))

	reg.SetMemoryLimit(0)
	require.NoError(t, reg.Grow(16))
}

func TestPutGetRoundTrip(t *testing.T) {
	reg := NewRegistry()
	i32, _ := reg.AddSlot(4)
	i64, _ := reg.AddSlot(8)
	u32, _ := reg.AddSlot(4)
	u64, _ := reg.AddSlot(8)
	f32, _ := reg.AddSlot(4)
	f64, _ := reg.AddSlot(8)
	require.NoError(t, reg.Grow(4))

	reg.PutInt32(i32, 0, 0, math.MinInt32)
	reg.PutInt32(i32, 1, 0, math.MaxInt32)
	reg.PutInt64(i64, 0, 0, math.MinInt64)
	reg.PutInt64(i64, 1, 0, math.MaxInt64)
	reg.PutUint32(u32, 0, 0, math.MaxUint32)
	reg.PutUint64(u64, 0, 0, math.MaxUint64)
	reg.PutFloat32(f32, 0, 0, float32(math.Pi))
	reg.PutFloat64(f64, 0, 0, 1.23e12)

	assert.Equal(t, int32(math.MinInt32), reg.Int32At(i32, 0, 0))
	assert.Equal(t, int32(math.MaxInt32), reg.Int32At(i32, 1, 0))
	assert.Equal(t, int64(math.MinInt64), reg.Int64At(i64, 0, 0))
	assert.Equal(t, int64(math.MaxInt64), reg.Int64At(i64, 1, 0))
	assert.Equal(t, uint32(math.MaxUint32), reg.Uint32At(u32, 0, 0))
	assert.Equal(t, uint64(math.MaxUint64), reg.Uint64At(u64, 0, 0))
	assert.Equal(t, float32(math.Pi), reg.Float32At(f32, 0, 0))
	assert.Equal(t, 1.23e12, reg.Float64At(f64, 0, 0))
}

func TestStructStrideOffsets(t *testing.T) {
	// One slot holding a 16-byte struct per row: a float64 at offset 0
	// and an int64 at offset 8.
	reg := NewRegistry()
	s, err := reg.AddSlot(16)
	require.NoError(t, err)
	require.NoError(t, reg.Grow(3))

	for row := int64(0); row < 3; row++ {
		reg.PutFloat64(s, row, 0, float64(row)+0.5)
		reg.PutInt64(s, row, 8, row*100)
	}

	for row := int64(0); row < 3; row++ {
		assert.Equal(t, float64(row)+0.5, reg.Float64At(s, row, 0))
		assert.Equal(t, row*100, reg.Int64At(s, row, 8))
	}
}

func TestTypedViews(t *testing.T) {
	reg := NewRegistry()
	f, _ := reg.AddSlot(4)
	wide, _ := reg.AddSlot(16)
	require.NoError(t, reg.Grow(4))

	reg.PutFloat32(f, 0, 0, 1.0)
	reg.PutFloat32(f, 1, 0, 2.0)
	reg.AdvanceRow()
	reg.AdvanceRow()

	vals, err := reg.Float32s(f)
	require.NoError(t, err)
	assert.Equal(t, []float32{1.0, 2.0}, vals)

	// Views only cover the rows filled so far.
	reg.PutFloat32(f, 2, 0, 3.0)
	reg.AdvanceRow()
	vals, err = reg.Float32s(f)
	require.NoError(t, err)
	assert.Len(t, vals, 3)

	_, err = reg.Float64s(f)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = reg.Float32s(wide)
	require.Error(t, err)

	_, err = reg.Int32s(7)
	require.Error(t, err)
}

func TestTypedViewEmpty(t *testing.T) {
	reg := NewRegistry()
	f, _ := reg.AddSlot(8)
	require.NoError(t, reg.Grow(4))

	vals, err := reg.Float64s(f)
	require.NoError(t, err)
	assert.Nil(t, vals)
}

func TestResetRowsKeepsCapacity(t *testing.T) {
	reg := NewRegistry()
	s, _ := reg.AddSlot(4)
	require.NoError(t, reg.Grow(8))

	reg.PutInt32(s, 0, 0, 7)
	reg.AdvanceRow()
	require.Equal(t, int64(1), reg.Rows())

	reg.ResetRows()
	assert.Equal(t, int64(0), reg.Rows())
	assert.Equal(t, int64(8), reg.Capacity())
}

func TestTotalBytes(t *testing.T) {
	reg := NewRegistry()
	reg.AddSlot(4)
	reg.AddSlot(8)
	assert.Equal(t, int64(0), reg.TotalBytes())

	require.NoError(t, reg.Grow(10))
	assert.Equal(t, int64(120), reg.TotalBytes())
}
