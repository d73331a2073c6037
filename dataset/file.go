// Package dataset provides gmm.Dataset implementations that stream feature
// vectors from disk, so training never holds the full dataset in memory.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ieee0824/mixture/gmm"
	"github.com/ieee0824/mixture/internal/compress"
)

// File is a text file with one vector per line as whitespace-separated
// floats. Blank lines and lines starting with '#' are skipped. Files ending
// in ".zst" or ".lz4" are decompressed on the fly. Every call to Each
// re-reads the file from the start.
type File struct {
	Path string
	Dim  int // expected vector length; 0 accepts the length of the first vector
}

// Each implements gmm.Dataset.
func (f File) Each(fn func(x []float64) error) (re error) {
	r, err := compress.Open(f.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := r.Close(); err != nil && re == nil {
			re = err
		}
	}()
	if err := ReadVectors(r, f.Dim, fn); err != nil {
		return fmt.Errorf("%s: %w", f.Path, err)
	}
	return nil
}

// ReadVectors parses vectors from r and calls fn with each. The slice passed
// to fn is reused between calls. dim 0 fixes the dimension from the first
// vector.
func ReadVectors(r io.Reader, dim int, fn func(x []float64) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	var x []float64
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if dim == 0 {
			dim = len(fields)
		}
		if len(fields) != dim {
			return fmt.Errorf("line %d: %w", lineNum, &gmm.ErrDimensionMismatch{Expected: dim, Actual: len(fields)})
		}
		if x == nil {
			x = make([]float64, dim)
		}
		for i, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("line %d: field %d: %w", lineNum, i+1, err)
			}
			x[i] = v
		}
		if err := fn(x); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	return scanner.Err()
}

// WriteVectors writes one vector per line in the format read by File.
// Values are written with the shortest representation that round-trips.
func WriteVectors(w io.Writer, ds gmm.Dataset) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)
	err := ds.Each(func(x []float64) error {
		buf = buf[:0]
		for i, v := range x {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		}
		buf = append(buf, '\n')
		_, err := bw.Write(buf)
		return err
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// WriteFile writes ds to path, compressing by extension.
func WriteFile(path string, ds gmm.Dataset) (re error) {
	w, err := compress.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil && re == nil {
			re = err
		}
	}()
	return WriteVectors(w, ds)
}
