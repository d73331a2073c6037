package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/ieee0824/mixture"
	"github.com/ieee0824/mixture/dataset"
	"github.com/ieee0824/mixture/gmm"
	"github.com/ieee0824/mixture/report"
)

func main() {
	dataPath := flag.String("data", "", "training vectors, one per line (.zst/.lz4 decompressed)")
	dim := flag.Int("dim", 0, "feature dimension (0=infer from the first vector)")
	initPath := flag.String("init", "", "continue growing an existing model; its dim, iter, thresh and min-covar are kept")
	numMix := flag.Int("mix", 1, "target number of mixture components")
	step := flag.Int("step", 1, "components added per mixup round")
	maxIter := flag.Int("iter", 20, "max EM iterations per round")
	thresh := flag.Float64("thresh", 1e-3, "convergence threshold on the mean log-likelihood")
	minCovar := flag.Float64("min-covar", 1e-3, "variance floor")
	seed := flag.Uint64("seed", 1, "random seed for mixup perturbation")
	output := flag.String("output", "gmm.bin", "output model path (.zst/.lz4 compressed)")
	plotPath := flag.String("plot", "", "write a log-likelihood chart (png/svg/pdf)")
	verbose := flag.Bool("v", false, "log every EM iteration")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := mixture.NewTextLogger(level)

	if *dataPath == "" {
		fmt.Fprintln(os.Stderr, "-data is required")
		flag.Usage()
		os.Exit(2)
	}

	if *initPath != "" {
		if conflicts := initConflicts(flag.CommandLine); len(conflicts) > 0 {
			fmt.Fprintf(os.Stderr, "%v cannot be combined with -init: the loaded model keeps its own settings\n", conflicts)
			os.Exit(2)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ds := dataset.File{Path: *dataPath, Dim: *dim}
	var m *gmm.Model
	if *initPath != "" {
		var err error
		m, err = gmm.LoadFile(*initPath, gmm.WithLogger(logger.Logger))
		if err != nil {
			logger.Error("load initial model", "path", *initPath, "error", err)
			os.Exit(1)
		}
		ds.Dim = m.NFeatures()
	} else if ds.Dim == 0 {
		d, err := firstDim(ds)
		if err != nil {
			logger.Error("read data", "path", *dataPath, "error", err)
			os.Exit(1)
		}
		ds.Dim = d
	}

	cfg := gmm.DefaultConfig()
	cfg.NFeatures = ds.Dim
	cfg.NIter = *maxIter
	cfg.Thresh = *thresh
	cfg.MinCovar = *minCovar
	if m != nil {
		cfg = m.Config()
	}

	target := max(*numMix, cfg.NComponents)
	tr, err := mixture.NewTrainer(cfg,
		mixture.WithLogger(logger),
		mixture.WithRand(rand.New(rand.NewPCG(*seed, *seed))),
		mixture.WithSchedule(target, *step),
	)
	if err != nil {
		logger.Error("configure trainer", "error", err)
		os.Exit(1)
	}

	logger.Info("training", "data", *dataPath, "dim", ds.Dim, "components", cfg.NComponents, "target", target, "step", *step)
	var res *mixture.Result
	if m != nil {
		res, err = tr.Grow(ctx, m, ds)
	} else {
		res, err = tr.Train(ctx, ds)
	}
	if err != nil {
		logger.Error("train", "error", err)
		if res == nil {
			os.Exit(1)
		}
		logger.Warn("saving partially grown model", "components", res.Model.NComponents())
	}

	if err := res.Model.SaveFile(*output); err != nil {
		logger.Error("save model", "path", *output, "error", err)
		os.Exit(1)
	}
	logger.Info("saved model", "path", *output, "components", res.Model.NComponents(), "rounds", len(res.Rounds))

	if *plotPath != "" {
		if err := report.PlotLogLikelihood(res.Rounds, *plotPath); err != nil {
			logger.Error("plot", "path", *plotPath, "error", err)
			os.Exit(1)
		}
	}
}

// initConflicts lists the explicitly set flags that a model loaded with
// -init would override with its own settings.
func initConflicts(fs *flag.FlagSet) []string {
	var conflicts []string
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dim", "iter", "thresh", "min-covar":
			conflicts = append(conflicts, "-"+f.Name)
		}
	})
	return conflicts
}

// errStop ends a scan after the first vector.
var errStop = errors.New("stop")

func firstDim(ds dataset.File) (int, error) {
	d := 0
	err := ds.Each(func(x []float64) error {
		d = len(x)
		return errStop
	})
	if err != nil && d == 0 {
		return 0, err
	}
	if d == 0 {
		return 0, gmm.ErrEmptyDataset
	}
	return d, nil
}
