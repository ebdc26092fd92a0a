// Package pool provides object pooling for treescan's hot paths.
// The block reader copies every catalog line into a scratch buffer before
// parsing; those buffers are recycled here so a full-catalog scan settles
// into zero steady-state allocations.
//
// Example usage:
//
//	buf := pool.GetBuffer(cfg.Limits.MaxLineBytes)
//	defer pool.PutBuffer(buf)
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with statistics tracking and automatic reset.
// The pool is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	new   func() T
	reset func(T)
	stats struct {
		allocated int64
		hits      int64
		misses    int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The reset function, if non-nil, is called before an object is returned
// to the pool.
func New[T any](newFn func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{
		new:   newFn,
		reset: reset,
	}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		atomic.AddInt64(&p.stats.misses, 1)
		return newFn()
	}
	return p
}

// Get retrieves an object from the pool, allocating one if empty.
func (p *Pool[T]) Get() T {
	obj := p.pool.Get().(T)
	atomic.AddInt64(&p.stats.hits, 1)
	return obj
}

// Put returns an object to the pool after resetting it.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	p.pool.Put(obj)
}

// Stats returns pool statistics: total allocations, gets served, and
// gets that required a fresh allocation.
func (p *Pool[T]) Stats() (allocated, hits, misses int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.hits),
		atomic.LoadInt64(&p.stats.misses)
}

// byteBuffers pools the scratch buffers used by the block reader: one per
// in-flight read chunk and one per line handed to the line parser.
var byteBuffers = New(
	func() *[]byte {
		b := make([]byte, 0, 1024)
		return &b
	},
	func(b *[]byte) { *b = (*b)[:0] },
)

// GetBuffer returns a byte buffer with at least minCap capacity.
func GetBuffer(minCap int) *[]byte {
	b := byteBuffers.Get()
	if cap(*b) < minCap {
		*b = make([]byte, 0, minCap)
	}
	return b
}

// PutBuffer returns a byte buffer to the pool.
func PutBuffer(b *[]byte) {
	if b == nil {
		return
	}
	byteBuffers.Put(b)
}
