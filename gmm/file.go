package gmm

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/ieee0824/mixture/internal/compress"
)

// SaveFile writes the model to path. A ".zst" or ".lz4" extension compresses
// the record with zstd or LZ4.
func (m *Model) SaveFile(path string) (re error) {
	w, err := compress.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			re = multierror.Append(re, err).ErrorOrNil()
		}
	}()
	if err := m.Save(w); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a model written by SaveFile, decompressing by extension.
func LoadFile(path string, opts ...Option) (*Model, error) {
	r, err := compress.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	m, err := Load(r, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

// LoadFile replaces the parameters of m with the model stored at path.
func (m *Model) LoadFile(path string) error {
	loaded, err := LoadFile(path)
	if err != nil {
		return err
	}
	m.restore(loaded)
	return nil
}
