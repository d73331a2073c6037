// Package nbest manages probability-weighted lists of recognized utterance
// hypotheses.
//
// A list is updated by adding hypotheses, then merging duplicates,
// normalizing and sorting.
package nbest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ieee0824/mixture/feature"
)

// Other is the hypothesis standing for "none of the listed utterances".
const Other = "__other__"

// sumTolerance absorbs rounding when probabilities add up to exactly one.
const sumTolerance = 1e-9

var (
	// ErrMultipleOther is returned when a list holds more than one Other entry.
	ErrMultipleOther = errors.New("n-best list contains multiple " + Other + " hypotheses")

	// ErrProbabilityMass is returned when the listed probabilities exceed one
	// and there is no Other entry to renormalize against.
	ErrProbabilityMass = errors.New("n-best probabilities sum to more than 1")
)

// Hypothesis is one entry of an n-best list.
type Hypothesis struct {
	Prob      float64
	Utterance string
}

// List is an n-best list of hypotheses.
type List struct {
	hyps []Hypothesis
}

// Add appends a hypothesis.
func (l *List) Add(prob float64, utterance string) {
	l.hyps = append(l.hyps, Hypothesis{Prob: prob, Utterance: utterance})
}

// Len returns the number of hypotheses.
func (l *List) Len() int { return len(l.hyps) }

// At returns the i-th hypothesis.
func (l *List) At(i int) Hypothesis { return l.hyps[i] }

// Hypotheses returns a copy of the entries.
func (l *List) Hypotheses() []Hypothesis {
	return append([]Hypothesis(nil), l.hyps...)
}

// Merge sums the probabilities of identical utterances. The merged entry
// stays at the position of the first occurrence.
func (l *List) Merge() {
	if len(l.hyps) <= 1 {
		return
	}
	pos := make(map[string]int, len(l.hyps))
	merged := make([]Hypothesis, 0, len(l.hyps))
	for _, h := range l.hyps {
		if i, ok := pos[h.Utterance]; ok {
			merged[i].Prob += h.Prob
			continue
		}
		pos[h.Utterance] = len(merged)
		merged = append(merged, h)
	}
	l.hyps = merged
}

// Normalize makes the probabilities sum to one. Without an Other entry the
// remaining mass 1-sum is appended as Other; with one, every entry is divided
// by the sum.
func (l *List) Normalize() error {
	sum := 0.0
	other := -1
	for i, h := range l.hyps {
		sum += h.Prob
		if h.Utterance == Other {
			if other != -1 {
				return ErrMultipleOther
			}
			other = i
		}
	}

	if other == -1 {
		if sum > 1+sumTolerance {
			return fmt.Errorf("%w: %.6f", ErrProbabilityMass, sum)
		}
		rest := 1 - sum
		if rest < 0 {
			rest = 0
		}
		l.Add(rest, Other)
		return nil
	}

	if sum == 0 {
		return fmt.Errorf("%w: all probabilities are zero", ErrProbabilityMass)
	}
	for i := range l.hyps {
		l.hyps[i].Prob /= sum
	}
	return nil
}

// Sort orders hypotheses by decreasing probability; ties keep their order.
func (l *List) Sort() {
	sort.SliceStable(l.hyps, func(i, j int) bool {
		return l.hyps[i].Prob > l.hyps[j].Prob
	})
}

// Oracle returns the hypothesis closest to ref by word edit distance,
// together with that distance. Other is never chosen. ok is false when the
// list holds no candidate.
func (l *List) Oracle(ref string) (best Hypothesis, dist int, ok bool) {
	refToks := feature.Tokenize(ref)
	for _, h := range l.hyps {
		if h.Utterance == Other {
			continue
		}
		d := feature.EditDistance(refToks, feature.Tokenize(h.Utterance))
		if !ok || d < dist {
			best, dist, ok = h, d, true
		}
	}
	return best, dist, ok
}
