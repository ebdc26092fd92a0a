package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmoforge/treescan/pkg/buffer"
	"github.com/cosmoforge/treescan/pkg/errors"
	"github.com/cosmoforge/treescan/pkg/testutil"
)

func TestLoadFields(t *testing.T) {
	path := testutil.WriteCatalog(t, "fields.yaml", `fields:
  - name: scale
    type: float32
  - name: id
    type: int64
  - name: mvir
    type: float64
    slot: 1
    offset: 8
`)

	specs, err := LoadFields(path)
	require.NoError(t, err)
	require.Len(t, specs, 3)

	assert.Equal(t, "scale", specs[0].Name)
	assert.Nil(t, specs[0].Slot)
	require.NotNil(t, specs[2].Slot)
	assert.Equal(t, 1, *specs[2].Slot)
	assert.Equal(t, 8, specs[2].Offset)
}

func TestLoadFieldsEmpty(t *testing.T) {
	path := testutil.WriteCatalog(t, "fields.yaml", "fields: []\n")

	_, err := LoadFields(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestApplyFieldsAllocatesSlots(t *testing.T) {
	reg := buffer.NewRegistry()
	reqs, err := ApplyFields([]FieldSpec{
		{Name: "scale", Type: "float32"},
		{Name: "id", Type: "int64"},
	}, reg)
	require.NoError(t, err)

	require.Len(t, reqs, 2)
	assert.Equal(t, 2, reg.NumSlots())
	assert.Equal(t, Request{Name: "scale", Type: Float32, Slot: 0}, reqs[0])
	assert.Equal(t, Request{Name: "id", Type: Int64, Slot: 1}, reqs[1])
	assert.Equal(t, 4, reg.Stride(0))
	assert.Equal(t, 8, reg.Stride(1))
}

func TestApplyFieldsExplicitSlot(t *testing.T) {
	reg := buffer.NewRegistry()
	_, err := reg.AddSlot(16)
	require.NoError(t, err)

	slot := 0
	reqs, err := ApplyFields([]FieldSpec{
		{Name: "x", Type: "float64", Slot: &slot},
		{Name: "y", Type: "float64", Slot: &slot, Offset: 8},
	}, reg)
	require.NoError(t, err)

	assert.Equal(t, 1, reg.NumSlots())
	assert.Equal(t, 0, reqs[0].Offset)
	assert.Equal(t, 8, reqs[1].Offset)
}

func TestApplyFieldsBadType(t *testing.T) {
	_, err := ApplyFields([]FieldSpec{{Name: "x", Type: "quaternion"}}, buffer.NewRegistry())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
