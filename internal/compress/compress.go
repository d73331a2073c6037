// Package compress wraps files in zstd or LZ4 streams chosen by extension.
package compress

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Kind identifies a stream compression algorithm.
type Kind uint8

const (
	// None stores bytes as-is.
	None Kind = iota
	// Zstd compresses with zstd (better ratio).
	Zstd
	// LZ4 compresses with LZ4 frames (faster).
	LZ4
)

func (k Kind) String() string {
	switch k {
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return "none"
	}
}

// KindOf selects the compression for path: ".zst" is Zstd, ".lz4" is LZ4,
// anything else is None.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w in a compressor. Close flushes the compressor but does
// not close w.
func NewWriter(w io.Writer, kind Kind) (io.WriteCloser, error) {
	switch kind {
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		return enc, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type zstdReadCloser struct{ *zstd.Decoder }

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// NewReader wraps r in a decompressor. Close releases decompressor state but
// does not close r.
func NewReader(r io.Reader, kind Kind) (io.ReadCloser, error) {
	switch kind {
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{dec}, nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

type fileWriter struct {
	io.WriteCloser
	f *os.File
}

// Close flushes the compressor and closes the file, reporting both errors.
func (w *fileWriter) Close() error {
	var merr *multierror.Error
	if err := w.WriteCloser.Close(); err != nil {
		merr = multierror.Append(merr, err)
	}
	if err := w.f.Close(); err != nil {
		merr = multierror.Append(merr, err)
	}
	return merr.ErrorOrNil()
}

// Create creates path and returns a writer compressing by KindOf(path).
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f, KindOf(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileWriter{WriteCloser: w, f: f}, nil
}

type fileReader struct {
	io.ReadCloser
	f *os.File
}

func (r *fileReader) Close() error {
	var merr *multierror.Error
	if err := r.ReadCloser.Close(); err != nil {
		merr = multierror.Append(merr, err)
	}
	if err := r.f.Close(); err != nil {
		merr = multierror.Append(merr, err)
	}
	return merr.ErrorOrNil()
}

// Open opens path and returns a reader decompressing by KindOf(path).
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, KindOf(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileReader{ReadCloser: r, f: f}, nil
}
