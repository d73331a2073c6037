package feature

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// Vocabulary maps feature keys to dense vector indices.
type Vocabulary struct {
	index  map[string]int
	names  []string
	counts []float64 // total count over the features the vocabulary was built from
}

// BuildVocabulary collects every feature key of fs. Indices follow the sorted
// key order, so the mapping does not depend on input order.
func BuildVocabulary(fs ...Features) *Vocabulary {
	totals := make(map[string]float64)
	for _, f := range fs {
		for key, count := range f {
			totals[key] += count
		}
	}
	names := make([]string, 0, len(totals))
	for key := range totals {
		names = append(names, key)
	}
	sort.Strings(names)

	v := &Vocabulary{
		index:  make(map[string]int, len(names)),
		names:  names,
		counts: make([]float64, len(names)),
	}
	for i, name := range names {
		v.index[name] = i
		v.counts[i] = totals[name]
	}
	return v
}

// Len returns the vector dimension.
func (v *Vocabulary) Len() int { return len(v.names) }

// Index returns the vector index of a feature key.
func (v *Vocabulary) Index(key string) (int, bool) {
	i, ok := v.index[key]
	return i, ok
}

// Name returns the feature key at index i.
func (v *Vocabulary) Name(i int) string { return v.names[i] }

// Count returns the total count of the feature at index i.
func (v *Vocabulary) Count(i int) float64 { return v.counts[i] }

// Vector returns the dense vector of f. Features outside the vocabulary are
// ignored.
func (v *Vocabulary) Vector(f Features) []float64 {
	vec := make([]float64, len(v.names))
	for key, count := range f {
		if i, ok := v.index[key]; ok {
			vec[i] = count
		}
	}
	return vec
}

// Prune removes features whose total count is below minCount and re-indexes
// the survivors in their previous order. It returns the removed (old)
// indices.
func (v *Vocabulary) Prune(minCount float64) *roaring.Bitmap {
	removed := roaring.New()
	for i, c := range v.counts {
		if c < minCount {
			removed.Add(uint32(i))
		}
	}
	if removed.IsEmpty() {
		return removed
	}

	keep := len(v.names) - int(removed.GetCardinality())
	names := make([]string, 0, keep)
	counts := make([]float64, 0, keep)
	for i, name := range v.names {
		if removed.Contains(uint32(i)) {
			continue
		}
		names = append(names, name)
		counts = append(counts, v.counts[i])
	}
	v.names = names
	v.counts = counts
	v.index = make(map[string]int, len(names))
	for i, name := range names {
		v.index[name] = i
	}
	return removed
}

// Save writes one "feature<TAB>index<TAB>count" line per feature.
func (v *Vocabulary) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, name := range v.names {
		if _, err := fmt.Fprintf(bw, "%s\t%d\t%s\n", name, i, strconv.FormatFloat(v.counts[i], 'g', -1, 64)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// LoadVocabulary reads a vocabulary written by Save. Indices must be dense
// and unique.
func LoadVocabulary(r io.Reader) (*Vocabulary, error) {
	type entry struct {
		name  string
		count float64
	}
	var entries []entry
	seen := make(map[int]bool)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 tab-separated fields, got %d", lineNum, len(parts))
		}
		idx, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: index: %w", lineNum, err)
		}
		count, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: count: %w", lineNum, err)
		}
		if idx < 0 || seen[idx] {
			return nil, fmt.Errorf("line %d: invalid or duplicate index %d", lineNum, idx)
		}
		seen[idx] = true
		for len(entries) <= idx {
			entries = append(entries, entry{})
		}
		entries[idx] = entry{name: parts[0], count: count}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(seen) != len(entries) {
		return nil, fmt.Errorf("indices are not dense: %d entries, max index %d", len(seen), len(entries)-1)
	}

	v := &Vocabulary{
		index:  make(map[string]int, len(entries)),
		names:  make([]string, len(entries)),
		counts: make([]float64, len(entries)),
	}
	for i, e := range entries {
		if _, dup := v.index[e.name]; dup {
			return nil, fmt.Errorf("duplicate feature %q", e.name)
		}
		v.index[e.name] = i
		v.names[i] = e.name
		v.counts[i] = e.count
	}
	return v, nil
}

// LoadVocabularyFile is a convenience wrapper that opens a file path.
func LoadVocabularyFile(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadVocabulary(f)
}
