// Package buffer owns the destination side of a scan: a registry of
// caller-declared slots, each a resizable byte region with a fixed per-row
// stride, sharing one row count and one allocated capacity. A slot with
// stride equal to one scalar width is a structure-of-arrays column; a slot
// with a struct-sized stride receives array-of-structures rows, with each
// requested column landing at its byte offset inside the stride.
//
// Slots are addressed by index, never by pointer, so growth can swap the
// backing storage without invalidating anything the caller holds.
package buffer

import (
	"github.com/cosmoforge/treescan/pkg/errors"
)

// MinStride is the smallest legal slot stride: the width of the smallest
// supported scalar.
const MinStride = 4

type slot struct {
	data   []byte
	stride int
}

// Registry is the set of destination slots for one scan. All slots grow in
// lock-step and advance with the same logical row index.
type Registry struct {
	slots    []slot
	rows     int64
	capacity int64
	maxBytes int64 // 0 = unlimited
}

// NewRegistry creates an empty registry with no memory limit.
func NewRegistry() *Registry {
	return &Registry{}
}

// SetMemoryLimit caps the total bytes the registry may allocate across all
// slots. Zero removes the cap.
func (r *Registry) SetMemoryLimit(bytes int64) {
	r.maxBytes = bytes
}

// AddSlot declares a destination slot with the given per-row stride in
// bytes and returns its index. Slots must be declared before the first
// Grow; the stride must cover at least one 4-byte scalar.
func (r *Registry) AddSlot(stride int) (int, error) {
	if stride < MinStride {
		return 0, errors.Newf(errors.ErrorTypeConfig,
			"slot stride must be at least %d bytes, got %d (did you forget to multiply by the element size?)",
			MinStride, stride)
	}
	if r.capacity > 0 {
		return 0, errors.New(errors.ErrorTypeConfig,
			"slots must be declared before the registry is sized")
	}
	r.slots = append(r.slots, slot{stride: stride})
	return len(r.slots) - 1, nil
}

// NumSlots returns the number of declared slots.
func (r *Registry) NumSlots() int {
	return len(r.slots)
}

// Stride returns the per-row stride of a slot in bytes.
func (r *Registry) Stride(slot int) int {
	return r.slots[slot].stride
}

// Rows returns the shared logical row count.
func (r *Registry) Rows() int64 {
	return r.rows
}

// Capacity returns the shared allocated row capacity.
func (r *Registry) Capacity() int64 {
	return r.capacity
}

// TotalBytes returns the bytes currently allocated across all slots.
func (r *Registry) TotalBytes() int64 {
	var total int64
	for i := range r.slots {
		total += int64(len(r.slots[i].data))
	}
	return total
}

// AdvanceRow increments the shared row count and returns the index of the
// row that was just completed.
func (r *Registry) AdvanceRow() int64 {
	row := r.rows
	r.rows++
	return row
}

// ResetRows rewinds the shared row count to zero without releasing
// capacity, so one registry can be reused across catalogs.
func (r *Registry) ResetRows() {
	r.rows = 0
}

// Grow reallocates every slot to newCap rows, preserving existing
// contents. Growing to the current capacity or below is a no-op. The new
// capacity is committed only after every slot's buffer has been
// reallocated; if the configured memory limit would be exceeded, nothing
// is touched and the registry stays at its last committed capacity.
func (r *Registry) Grow(newCap int64) error {
	if newCap <= r.capacity {
		return nil
	}

	var need int64
	for i := range r.slots {
		need += newCap * int64(r.slots[i].stride)
	}
	if r.maxBytes > 0 && need > r.maxBytes {
		return errors.Newf(errors.ErrorTypeAllocation,
			"growing to %d rows needs %d bytes, exceeding the %d byte limit",
			newCap, need, r.maxBytes).
			WithDetail("committed_capacity", r.capacity)
	}

	fresh := make([][]byte, len(r.slots))
	for i := range r.slots {
		buf := make([]byte, newCap*int64(r.slots[i].stride))
		copy(buf, r.slots[i].data)
		fresh[i] = buf
	}

	// All allocations succeeded: swap and commit.
	for i := range r.slots {
		r.slots[i].data = fresh[i]
	}
	r.capacity = newCap
	return nil
}
