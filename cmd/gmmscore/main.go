package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/ieee0824/mixture"
	"github.com/ieee0824/mixture/dataset"
	"github.com/ieee0824/mixture/gmm"
)

const batchSize = 512

type fileScore struct {
	n       int
	logProb float64
}

func main() {
	modelPath := flag.String("model", "gmm.bin", "model path")
	jobs := flag.Int("j", runtime.GOMAXPROCS(0), "files scored in parallel")
	flag.Parse()

	logger := mixture.NewLogger(nil)
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: gmmscore -model gmm.bin data.txt...")
		os.Exit(2)
	}

	m, err := gmm.LoadFile(*modelPath)
	if err != nil {
		logger.Error("load model", "path", *modelPath, "error", err)
		os.Exit(1)
	}

	paths := flag.Args()
	scores := make([]fileScore, len(paths))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(*jobs, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := scoreFile(m, dataset.File{Path: path, Dim: m.NFeatures()})
			if err != nil {
				return err
			}
			scores[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("score", "error", err)
		os.Exit(1)
	}

	for i, path := range paths {
		s := scores[i]
		if s.n == 0 {
			fmt.Printf("%s\t0\tNaN\n", path)
			continue
		}
		fmt.Printf("%s\t%d\t%.6f\n", path, s.n, s.logProb/float64(s.n))
	}
}

// scoreFile sums the log-likelihood of every vector in ds, scoring them in
// batches of batchSize rows. m is only read.
func scoreFile(m *gmm.Model, ds dataset.File) (fileScore, error) {
	var s fileScore
	d := m.NFeatures()
	buf := mat.NewDense(batchSize, d, nil)
	rows := 0
	flush := func() error {
		if rows == 0 {
			return nil
		}
		lps, err := m.ScoreBatch(buf.Slice(0, rows, 0, d))
		if err != nil {
			return err
		}
		for _, lp := range lps {
			s.logProb += lp
		}
		s.n += rows
		rows = 0
		return nil
	}
	err := ds.Each(func(x []float64) error {
		buf.SetRow(rows, x)
		rows++
		if rows == batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return s, err
	}
	return s, flush()
}
