// Package compression makes compressed catalogs scannable. The block
// reader needs positional reads, which compressed streams cannot serve,
// so gzip and zstd catalogs are inflated into a temporary file first.
package compression

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/cosmoforge/treescan/pkg/errors"
)

// Codec identifies a supported compression scheme.
type Codec int

const (
	// None means the file is plain and can be scanned in place.
	None Codec = iota
	// Gzip is RFC 1952 gzip (.gz).
	Gzip
	// Zstd is Zstandard (.zst).
	Zstd
)

// Detect returns the codec implied by the file name.
func Detect(path string) Codec {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return Gzip
	case strings.HasSuffix(path, ".zst"):
		return Zstd
	}
	return None
}

// NewReader wraps r with the decompressor for the given codec. For None
// the reader is returned as-is behind a no-op closer.
func NewReader(r io.Reader, codec Codec) (io.ReadCloser, error) {
	switch codec {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "reading gzip stream")
		}
		return zr, nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "reading zstd stream")
		}
		return zr.IOReadCloser(), nil
	}
	return nil, errors.Newf(errors.ErrorTypeConfig, "unknown codec %d", int(codec))
}

// Inflate returns a path holding the uncompressed contents of the
// catalog at path. Plain files come back unchanged; compressed ones are
// inflated into a temporary file. The returned cleanup removes the
// temporary file and is a no-op for plain files.
func Inflate(path string) (string, func(), error) {
	noop := func() {}

	codec := Detect(path)
	if codec == None {
		return path, noop, nil
	}

	f, err := os.Open(path) //nolint:gosec // G304: user-supplied catalog path
	if err != nil {
		return "", noop, errors.Wrap(err, errors.ErrorTypeIO, "opening compressed catalog")
	}
	defer f.Close()

	zr, err := NewReader(f, codec)
	if err != nil {
		return "", noop, err
	}
	defer zr.Close()

	tmp, err := os.CreateTemp("", "treescan-*.dat")
	if err != nil {
		return "", noop, errors.Wrap(err, errors.ErrorTypeIO, "creating scratch file")
	}

	if _, err := io.Copy(tmp, zr); err != nil { //nolint:gosec // G110: caller-chosen local input
		tmp.Close()
		os.Remove(tmp.Name())
		return "", noop, errors.Wrap(err, errors.ErrorTypeIO, "inflating catalog")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", noop, errors.Wrap(err, errors.ErrorTypeIO, "flushing scratch file")
	}

	name := tmp.Name()
	return name, func() { os.Remove(name) }, nil
}
