package feature

import (
	"sort"
	"strings"
)

// Skip-gram gap markers: every distinct 3-gram (a b c) adds one (a *1 c) and
// every distinct 4-gram (a b c d) one (a *2 d), however often it occurs.
const (
	skip1 = "*1"
	skip2 = "*2"
)

// Features holds feature counts keyed by space-joined token tuples.
type Features map[string]float64

// NewNGramFeatures counts every n-gram of u with length 1..size, then adds
// the skip-gram features derived from the 3- and 4-grams.
func NewNGramFeatures(u Utterance, size int) Features {
	f := make(Features)
	for k := 1; k <= size; k++ {
		for i := 0; i+k <= len(u); i++ {
			f[strings.Join(u[i:i+k], " ")]++
		}
	}

	skips := make(Features)
	for key := range f {
		toks := strings.Split(key, " ")
		switch len(toks) {
		case 3:
			skips[toks[0]+" "+skip1+" "+toks[2]]++
		case 4:
			skips[toks[0]+" "+skip2+" "+toks[3]]++
		}
	}
	for key, count := range skips {
		f[key] += count
	}
	return f
}

// Prune removes the given features.
func (f Features) Prune(remove ...string) {
	for _, key := range remove {
		delete(f, key)
	}
}

// Keys returns the feature keys in sorted order.
func (f Features) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
