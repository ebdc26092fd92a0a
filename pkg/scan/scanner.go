package scan

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cosmoforge/treescan/pkg/buffer"
	"github.com/cosmoforge/treescan/pkg/catalog"
	"github.com/cosmoforge/treescan/pkg/config"
	"github.com/cosmoforge/treescan/pkg/errors"
	"github.com/cosmoforge/treescan/pkg/logger"
	"github.com/cosmoforge/treescan/pkg/metrics"
)

// Scanner drives a whole catalog: it resolves the column header once at
// file start, then yields one tree block per NextTree call until end of
// file. All rows accumulate in the registry across trees, so a caller can
// load an entire forest into one set of buffers.
type Scanner struct {
	src       io.ReaderAt
	closer    io.Closer
	cfg       *config.Config
	hdr       *catalog.Header
	dm        *catalog.DestinationMap
	reg       *buffer.Registry
	offset    int64
	trees     int64
	rows      int64
	log       *zap.Logger
	collector *metrics.Collector
}

// NewScanner opens a catalog file and prepares it for scanning.
func NewScanner(path string, reqs []catalog.Request, reg *buffer.Registry, cfg *config.Config) (*Scanner, error) {
	f, err := os.Open(path) //nolint:gosec // G304: caller-chosen catalog path
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "opening catalog")
	}
	sc, err := NewScannerFrom(f, path, reqs, reg, cfg)
	if err != nil {
		f.Close()
		return nil, err
	}
	return sc, nil
}

// NewScannerFrom prepares a scanner over any positional reader, such as an
// mmap.Reader or an already-open file. The catalog's column header is
// parsed, the requested columns are resolved against it, and the registry
// is pre-sized if the caller has not done so. If src also implements
// io.Closer, Close closes it.
func NewScannerFrom(src io.ReaderAt, name string, reqs []catalog.Request, reg *buffer.Registry, cfg *config.Config) (*Scanner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	line, next, err := readLineAt(src, 0, cfg.Limits.MaxLineBytes)
	if err != nil {
		if err == io.EOF {
			return nil, errors.Newf(errors.ErrorTypeFormat, "catalog %s is empty", name)
		}
		return nil, err
	}

	hdr, err := catalog.ParseHeader(string(line), cfg.Limits)
	if err != nil {
		return nil, err
	}

	if cfg.Scan.MemoryLimitMB > 0 {
		reg.SetMemoryLimit(cfg.Scan.MemoryLimitMB << 20)
	}

	dm, err := catalog.Resolve(hdr, reqs, reg, cfg.Limits)
	if err != nil {
		return nil, err
	}

	if reg.Capacity() == 0 {
		if err := reg.Grow(cfg.Scan.InitialCapacity); err != nil {
			return nil, err
		}
	}

	log := logger.With(zap.String("catalog", name))
	log.Info("catalog opened",
		zap.Int("file_columns", hdr.Columns()),
		zap.Int("requested", len(reqs)),
		zap.Int("resolved", dm.Len()))

	closer, _ := src.(io.Closer)
	return &Scanner{
		src:       src,
		closer:    closer,
		cfg:       cfg,
		hdr:       hdr,
		dm:        dm,
		reg:       reg,
		offset:    next,
		log:       log,
		collector: metrics.NewCollector(filepath.Base(name)),
	}, nil
}

// Header returns the catalog's resolved column header.
func (s *Scanner) Header() *catalog.Header { return s.hdr }

// Map returns the destination map built for this catalog.
func (s *Scanner) Map() *catalog.DestinationMap { return s.dm }

// Registry returns the destination registry rows accumulate in.
func (s *Scanner) Registry() *buffer.Registry { return s.reg }

// NextTree consumes the next tree block and returns the rows it added.
// Comment-only blocks between the column header and the first tree are
// skipped. Returns io.EOF when the catalog is exhausted.
func (s *Scanner) NextTree() (int64, error) {
	for {
		rows, next, err := ReadTree(s.src, s.offset, s.dm, s.reg, s.cfg)
		if err == io.EOF {
			return 0, io.EOF
		}
		s.collector.AddBytes(next - s.offset)
		s.offset = next
		if err != nil {
			s.collector.IncError()
			return rows, err
		}
		if rows == 0 {
			// Preamble comment line; keep walking.
			continue
		}
		s.trees++
		s.rows += rows
		s.collector.AddTree()
		s.collector.AddRows(rows)
		s.log.Debug("tree consumed",
			zap.Int64("rows", rows),
			zap.Int64("next_offset", next))
		return rows, nil
	}
}

// ReadAll consumes every remaining tree.
func (s *Scanner) ReadAll() error {
	for {
		if _, err := s.NextTree(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// Totals returns the trees and rows consumed so far.
func (s *Scanner) Totals() (trees, rows int64) {
	return s.trees, s.rows
}

// Offset returns the file position the next tree block starts at.
func (s *Scanner) Offset() int64 { return s.offset }

// Close releases the underlying reader if it is closable.
func (s *Scanner) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
