package dataset

import (
	"github.com/ieee0824/mixture/feature"
	"github.com/ieee0824/mixture/internal/compress"
)

// UtteranceFile streams an utterance file ("key => text" lines) as n-gram
// feature vectors over a fixed vocabulary.
type UtteranceFile struct {
	Path  string
	Size  int // maximum n-gram length
	Vocab *feature.Vocabulary
	Limit int // maximum number of lines read; 0 reads all
}

// Each implements gmm.Dataset.
func (u UtteranceFile) Each(fn func(x []float64) error) (re error) {
	r, err := compress.Open(u.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := r.Close(); err != nil && re == nil {
			re = err
		}
	}()
	return feature.ScanUtterances(r, u.Limit, func(_ string, utt feature.Utterance) error {
		return fn(u.Vocab.Vector(feature.NewNGramFeatures(utt, u.Size)))
	})
}

// BuildVocabulary scans the file once and builds the vocabulary of its
// n-gram features.
func (u UtteranceFile) BuildVocabulary() (voc *feature.Vocabulary, re error) {
	r, err := compress.Open(u.Path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := r.Close(); err != nil && re == nil {
			re = err
		}
	}()
	totals := make(feature.Features)
	err = feature.ScanUtterances(r, u.Limit, func(_ string, utt feature.Utterance) error {
		for key, count := range feature.NewNGramFeatures(utt, u.Size) {
			totals[key] += count
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return feature.BuildVocabulary(totals), nil
}
