package gmm

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Persisted record layout (little endian):
//
//	magic "GMMX" | version u16 | flags u16
//	nFeatures u32 | nComponents u32 | nIter u32
//	thresh f64 | minCovar f64
//	weights [k]f64 | means [k*d]f64 | covars [k*d]f64 (row-major)
//	crc32 (IEEE) of every preceding byte
const (
	formatVersion = 1

	// maxParams bounds k*d so a corrupt header cannot trigger a huge allocation.
	maxParams = 1 << 28
)

var formatMagic = [4]byte{'G', 'M', 'M', 'X'}

type recordHeader struct {
	Magic       [4]byte
	Version     uint16
	Flags       uint16
	NFeatures   uint32
	NComponents uint32
	NIter       uint32
	Thresh      float64
	MinCovar    float64
}

// Save writes the model parameters as one versioned binary record.
// Training history (LogProbs) is not persisted.
func (m *Model) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	crc := crc32.NewIEEE()
	out := io.MultiWriter(bw, crc)

	for _, f := range []struct {
		name string
		v    int
	}{{"n_features", m.nFeatures}, {"n_components", m.nComponents}, {"n_iter", m.nIter}} {
		if uint64(f.v) > math.MaxUint32 {
			return serializationError("%s %d does not fit the record header", f.name, f.v)
		}
	}

	hdr := recordHeader{
		Magic:       formatMagic,
		Version:     formatVersion,
		NFeatures:   uint32(m.nFeatures),
		NComponents: uint32(m.nComponents),
		NIter:       uint32(m.nIter),
		Thresh:      m.thresh,
		MinCovar:    m.minCovar,
	}
	if err := binary.Write(out, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	if err := binary.Write(out, binary.LittleEndian, m.weights); err != nil {
		return err
	}
	if err := binary.Write(out, binary.LittleEndian, m.means.RawMatrix().Data); err != nil {
		return err
	}
	if err := binary.Write(out, binary.LittleEndian, m.covars.RawMatrix().Data); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, crc.Sum32()); err != nil {
		return err
	}
	return bw.Flush()
}

// Load reads one record written by Save. Exactly the bytes of the record are
// consumed from r.
func Load(r io.Reader, opts ...Option) (*Model, error) {
	crc := crc32.NewIEEE()
	in := io.TeeReader(r, crc)

	var hdr recordHeader
	if err := binary.Read(in, binary.LittleEndian, &hdr); err != nil {
		return nil, serializationError("read header: %v", err)
	}
	if hdr.Magic != formatMagic {
		return nil, serializationError("bad magic %q", hdr.Magic[:])
	}
	if hdr.Version != formatVersion {
		return nil, serializationError("unsupported version %d", hdr.Version)
	}
	cfg := Config{
		NFeatures:   int(hdr.NFeatures),
		NComponents: int(hdr.NComponents),
		Thresh:      hdr.Thresh,
		MinCovar:    hdr.MinCovar,
		NIter:       int(hdr.NIter),
	}
	if err := cfg.Validate(); err != nil {
		return nil, serializationError("%v", err)
	}
	k, d := cfg.NComponents, cfg.NFeatures
	if uint64(k)*uint64(d) > maxParams {
		return nil, serializationError("%d x %d parameters exceed limit", k, d)
	}

	weights, err := readFloats(in, k)
	if err != nil {
		return nil, serializationError("read weights: %v", err)
	}
	means, err := readFloats(in, k*d)
	if err != nil {
		return nil, serializationError("read means: %v", err)
	}
	covars, err := readFloats(in, k*d)
	if err != nil {
		return nil, serializationError("read covars: %v", err)
	}

	want := crc.Sum32()
	var got uint32
	if err := binary.Read(r, binary.LittleEndian, &got); err != nil {
		return nil, serializationError("read checksum: %v", err)
	}
	if got != want {
		return nil, serializationError("checksum mismatch: stored %08x, computed %08x", got, want)
	}
	if err := checkWeights(weights); err != nil {
		return nil, serializationError("%v", err)
	}
	for i, v := range covars {
		if !(v > 0) {
			return nil, serializationError("covariance %d of component %d is not positive: %g", i%d, i/d, v)
		}
	}

	m := newModel(cfg, opts)
	m.weights = weights
	m.means = mat.NewDense(k, d, means)
	m.covars = mat.NewDense(k, d, covars)
	m.assertShape()
	return m, nil
}

// readChunk is the number of float64 values decoded per read.
const readChunk = 1 << 13

// readFloats decodes n little-endian float64 values. The result grows with
// the data actually read, so a header announcing more values than the
// stream holds fails without allocating the announced size.
func readFloats(r io.Reader, n int) ([]float64, error) {
	out := make([]float64, 0, min(n, readChunk))
	buf := make([]float64, min(n, readChunk))
	for len(out) < n {
		c := min(readChunk, n-len(out))
		if err := binary.Read(r, binary.LittleEndian, buf[:c]); err != nil {
			return nil, err
		}
		out = append(out, buf[:c]...)
	}
	return out, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *Model) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. It replaces the
// parameters of m and keeps its logger and random source. Trailing bytes
// after the record are an error.
func (m *Model) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	loaded, err := Load(r)
	if err != nil {
		return err
	}
	if r.Len() != 0 {
		return serializationError("%d trailing bytes", r.Len())
	}
	m.restore(loaded)
	return nil
}

func (m *Model) restore(src *Model) {
	m.nFeatures = src.nFeatures
	m.nComponents = src.nComponents
	m.thresh = src.thresh
	m.minCovar = src.minCovar
	m.nIter = src.nIter
	m.weights = src.weights
	m.means = src.means
	m.covars = src.covars
	m.logProbs = nil
	if m.logger == nil {
		m.logger = src.logger
	}
	if m.rng == nil {
		m.rng = src.rng
	}
	m.assertShape()
}
