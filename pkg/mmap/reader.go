// Package mmap provides a memory-mapped positional reader for catalog
// files. The block reader only ever issues ReadAt calls, so a mapped
// catalog serves them straight out of the page cache with no read
// syscalls and no userspace copy beyond the parser's own.
package mmap

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/cosmoforge/treescan/pkg/errors"
)

// Reader is a read-only memory mapping of one file, usable anywhere an
// io.ReaderAt is accepted. It is safe for concurrent ReadAt calls.
type Reader struct {
	f         *os.File
	data      []byte
	size      int64
	bytesRead int64
}

// Open maps path read-only. An empty file maps to a Reader that reports
// io.EOF on every read, so header parsing sees the same thing it would on
// an empty *os.File.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path) //nolint:gosec // G304: caller-chosen catalog path
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "opening catalog for mapping")
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "stat failed")
	}

	size := stat.Size()
	if size == 0 {
		return &Reader{f: f}, nil
	}

	data, err := mapFile(int(f.Fd()), int(size))
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "mapping catalog")
	}
	// Catalogs are consumed front to back.
	_ = adviseSequential(data)

	return &Reader{f: f, data: data, size: size}, nil
}

// ReadAt implements io.ReaderAt over the mapping.
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.Newf(errors.ErrorTypeIO, "negative offset %d", off)
	}
	if off >= r.size {
		return 0, io.EOF
	}
	n := copy(p, r.data[off:])
	atomic.AddInt64(&r.bytesRead, int64(n))
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the mapped file size in bytes.
func (r *Reader) Size() int64 { return r.size }

// BytesRead returns the bytes served by ReadAt so far.
func (r *Reader) BytesRead() int64 { return atomic.LoadInt64(&r.bytesRead) }

// Close unmaps the file and closes it.
func (r *Reader) Close() error {
	var err error
	if r.data != nil {
		err = unmapFile(r.data)
		r.data = nil
	}
	if r.f != nil {
		if cerr := r.f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		r.f = nil
	}
	return err
}
