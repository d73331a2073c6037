package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ieee0824/mixture"
	"github.com/ieee0824/mixture/dataset"
	"github.com/ieee0824/mixture/feature"
	"github.com/ieee0824/mixture/gmm"
)

func main() {
	uttPath := flag.String("utterances", "", `utterance file with "key => text" lines`)
	size := flag.Int("size", 2, "maximum n-gram length")
	minCount := flag.Float64("min-count", 2, "drop features seen fewer times than this")
	limit := flag.Int("limit", 0, "read at most this many lines (0=all)")
	vocabPath := flag.String("vocab", "vocab.tsv", "vocabulary output path")
	output := flag.String("output", "features.txt", "vector output path (.zst/.lz4 compressed)")
	normalize := flag.Bool("normalize", false, "scale every dimension to zero mean and unit variance")
	flag.Parse()

	logger := mixture.NewLogger(nil)
	if *uttPath == "" {
		fmt.Fprintln(os.Stderr, "-utterances is required")
		flag.Usage()
		os.Exit(2)
	}

	src := dataset.UtteranceFile{Path: *uttPath, Size: *size, Limit: *limit}
	voc, err := src.BuildVocabulary()
	if err != nil {
		logger.Error("build vocabulary", "path", *uttPath, "error", err)
		os.Exit(1)
	}
	total := voc.Len()
	removed := voc.Prune(*minCount)
	logger.Info("vocabulary", "features", voc.Len(), "pruned", removed.GetCardinality(), "seen", total)
	if voc.Len() == 0 {
		logger.Error("no features left after pruning", "min_count", *minCount)
		os.Exit(1)
	}

	f, err := os.Create(*vocabPath)
	if err != nil {
		logger.Error("create vocabulary", "path", *vocabPath, "error", err)
		os.Exit(1)
	}
	if err := voc.Save(f); err != nil {
		f.Close()
		logger.Error("write vocabulary", "path", *vocabPath, "error", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		logger.Error("close vocabulary", "path", *vocabPath, "error", err)
		os.Exit(1)
	}

	src.Vocab = voc
	var ds gmm.Dataset = src
	if *normalize {
		nz, err := feature.FitNormalizer(src)
		if err != nil {
			logger.Error("normalize", "error", err)
			os.Exit(1)
		}
		ds = nz.Dataset(src)
	}
	if err := dataset.WriteFile(*output, ds); err != nil {
		logger.Error("write vectors", "path", *output, "error", err)
		os.Exit(1)
	}
	logger.Info("wrote vectors", "path", *output, "dim", voc.Len())
}
