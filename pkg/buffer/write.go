package buffer

import (
	"unsafe"

	"github.com/cosmoforge/treescan/pkg/errors"
)

// The write primitives store one scalar at base + row*stride + offset in
// native byte order. Offsets are validated once, when the destination map
// is built, so these stay minimal; the sub-slice expressions still bound
// every access to the slot's allocation.

// PutInt32 stores v for the given slot, row, and byte offset.
func (r *Registry) PutInt32(slot int, row int64, offset int, v int32) {
	s := &r.slots[slot]
	idx := row*int64(s.stride) + int64(offset)
	b := s.data[idx : idx+4 : idx+4]
	*(*int32)(unsafe.Pointer(&b[0])) = v
}

// PutInt64 stores v for the given slot, row, and byte offset.
func (r *Registry) PutInt64(slot int, row int64, offset int, v int64) {
	s := &r.slots[slot]
	idx := row*int64(s.stride) + int64(offset)
	b := s.data[idx : idx+8 : idx+8]
	*(*int64)(unsafe.Pointer(&b[0])) = v
}

// PutUint32 stores v for the given slot, row, and byte offset.
func (r *Registry) PutUint32(slot int, row int64, offset int, v uint32) {
	s := &r.slots[slot]
	idx := row*int64(s.stride) + int64(offset)
	b := s.data[idx : idx+4 : idx+4]
	*(*uint32)(unsafe.Pointer(&b[0])) = v
}

// PutUint64 stores v for the given slot, row, and byte offset.
func (r *Registry) PutUint64(slot int, row int64, offset int, v uint64) {
	s := &r.slots[slot]
	idx := row*int64(s.stride) + int64(offset)
	b := s.data[idx : idx+8 : idx+8]
	*(*uint64)(unsafe.Pointer(&b[0])) = v
}

// PutFloat32 stores v for the given slot, row, and byte offset.
func (r *Registry) PutFloat32(slot int, row int64, offset int, v float32) {
	s := &r.slots[slot]
	idx := row*int64(s.stride) + int64(offset)
	b := s.data[idx : idx+4 : idx+4]
	*(*float32)(unsafe.Pointer(&b[0])) = v
}

// PutFloat64 stores v for the given slot, row, and byte offset.
func (r *Registry) PutFloat64(slot int, row int64, offset int, v float64) {
	s := &r.slots[slot]
	idx := row*int64(s.stride) + int64(offset)
	b := s.data[idx : idx+8 : idx+8]
	*(*float64)(unsafe.Pointer(&b[0])) = v
}

// Int32At reads the value previously stored at slot/row/offset.
func (r *Registry) Int32At(slot int, row int64, offset int) int32 {
	s := &r.slots[slot]
	idx := row*int64(s.stride) + int64(offset)
	return *(*int32)(unsafe.Pointer(&s.data[idx : idx+4 : idx+4][0]))
}

// Int64At reads the value previously stored at slot/row/offset.
func (r *Registry) Int64At(slot int, row int64, offset int) int64 {
	s := &r.slots[slot]
	idx := row*int64(s.stride) + int64(offset)
	return *(*int64)(unsafe.Pointer(&s.data[idx : idx+8 : idx+8][0]))
}

// Uint32At reads the value previously stored at slot/row/offset.
func (r *Registry) Uint32At(slot int, row int64, offset int) uint32 {
	s := &r.slots[slot]
	idx := row*int64(s.stride) + int64(offset)
	return *(*uint32)(unsafe.Pointer(&s.data[idx : idx+4 : idx+4][0]))
}

// Uint64At reads the value previously stored at slot/row/offset.
func (r *Registry) Uint64At(slot int, row int64, offset int) uint64 {
	s := &r.slots[slot]
	idx := row*int64(s.stride) + int64(offset)
	return *(*uint64)(unsafe.Pointer(&s.data[idx : idx+8 : idx+8][0]))
}

// Float32At reads the value previously stored at slot/row/offset.
func (r *Registry) Float32At(slot int, row int64, offset int) float32 {
	s := &r.slots[slot]
	idx := row*int64(s.stride) + int64(offset)
	return *(*float32)(unsafe.Pointer(&s.data[idx : idx+4 : idx+4][0]))
}

// Float64At reads the value previously stored at slot/row/offset.
func (r *Registry) Float64At(slot int, row int64, offset int) float64 {
	s := &r.slots[slot]
	idx := row*int64(s.stride) + int64(offset)
	return *(*float64)(unsafe.Pointer(&s.data[idx : idx+8 : idx+8][0]))
}

// Float32s returns the filled rows of a structure-of-arrays slot as a
// typed view over the backing storage. The view is invalidated by the next
// Grow.
func (r *Registry) Float32s(slot int) ([]float32, error) {
	if err := r.checkView(slot, 4); err != nil {
		return nil, err
	}
	return viewSlice[float32](r, slot), nil
}

// Float64s returns the filled rows of a structure-of-arrays slot as a
// typed view over the backing storage.
func (r *Registry) Float64s(slot int) ([]float64, error) {
	if err := r.checkView(slot, 8); err != nil {
		return nil, err
	}
	return viewSlice[float64](r, slot), nil
}

// Int32s returns the filled rows of a structure-of-arrays slot as a typed
// view over the backing storage.
func (r *Registry) Int32s(slot int) ([]int32, error) {
	if err := r.checkView(slot, 4); err != nil {
		return nil, err
	}
	return viewSlice[int32](r, slot), nil
}

// Int64s returns the filled rows of a structure-of-arrays slot as a typed
// view over the backing storage.
func (r *Registry) Int64s(slot int) ([]int64, error) {
	if err := r.checkView(slot, 8); err != nil {
		return nil, err
	}
	return viewSlice[int64](r, slot), nil
}

// Uint32s returns the filled rows of a structure-of-arrays slot as a typed
// view over the backing storage.
func (r *Registry) Uint32s(slot int) ([]uint32, error) {
	if err := r.checkView(slot, 4); err != nil {
		return nil, err
	}
	return viewSlice[uint32](r, slot), nil
}

// Uint64s returns the filled rows of a structure-of-arrays slot as a typed
// view over the backing storage.
func (r *Registry) Uint64s(slot int) ([]uint64, error) {
	if err := r.checkView(slot, 8); err != nil {
		return nil, err
	}
	return viewSlice[uint64](r, slot), nil
}

func (r *Registry) checkView(slot, width int) error {
	if slot < 0 || slot >= len(r.slots) {
		return errors.Newf(errors.ErrorTypeConfig, "slot %d out of range [0, %d)", slot, len(r.slots))
	}
	if r.slots[slot].stride != width {
		return errors.Newf(errors.ErrorTypeConfig,
			"typed view needs stride %d, slot %d has stride %d", width, slot, r.slots[slot].stride)
	}
	return nil
}

func viewSlice[T any](r *Registry, slot int) []T {
	s := &r.slots[slot]
	if r.rows == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&s.data[0])), r.rows)
}
