package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.dat")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadAt(t *testing.T) {
	r, err := Open(writeFile(t, "0123456789"))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, int64(10), r.Size())

	buf := make([]byte, 4)
	n, err := r.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "0123", string(buf))

	n, err = r.ReadAt(buf, 6)
	require.NoError(t, err)
	assert.Equal(t, "6789", string(buf[:n]))

	// Short read at the tail reports io.EOF alongside the bytes.
	n, err = r.ReadAt(buf, 8)
	assert.Equal(t, 2, n)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, "89", string(buf[:n]))

	_, err = r.ReadAt(buf, 10)
	assert.Equal(t, io.EOF, err)

	assert.Equal(t, int64(10), r.BytesRead())
}

func TestOpenEmptyFile(t *testing.T) {
	r, err := Open(writeFile(t, ""))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, int64(0), r.Size())
	_, err = r.ReadAt(make([]byte, 8), 0)
	assert.Equal(t, io.EOF, err)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("/does/not/exist.dat")
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	r, err := Open(writeFile(t, "data"))
	require.NoError(t, err)
	require.NoError(t, r.Close())
	// Closing twice is harmless.
	require.NoError(t, r.Close())
}
