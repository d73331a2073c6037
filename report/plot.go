// Package report renders training diagnostics.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ieee0824/mixture"
)

// Default chart size.
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// ErrNoRounds is returned when there is nothing to plot.
var ErrNoRounds = errors.New("report: no training rounds")

// NewLogLikelihoodPlot charts the mean log-likelihood of every EM iteration.
// Each round is drawn as its own line; the x axis counts iterations across
// all rounds so consecutive rounds follow each other.
func NewLogLikelihoodPlot(rounds []mixture.Round) (*plot.Plot, error) {
	if len(rounds) == 0 {
		return nil, ErrNoRounds
	}
	p := plot.New()
	p.Title.Text = "EM training"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "mean log-likelihood"
	p.Add(plotter.NewGrid())

	x := 0
	for i, r := range rounds {
		if len(r.LogProbs) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(r.LogProbs))
		for j, lp := range r.LogProbs {
			pts[j].X = float64(x)
			pts[j].Y = lp
			x++
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", i, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("k=%d", r.Components), line)
	}
	if x == 0 {
		return nil, ErrNoRounds
	}
	p.Legend.Top = false
	return p, nil
}

// WritePlot renders p to w in the given format (png, svg, pdf, ...).
func WritePlot(p *plot.Plot, w io.Writer, format string) error {
	wt, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// PlotLogLikelihood charts rounds and saves the image to path. The format is
// taken from the file extension.
func PlotLogLikelihood(rounds []mixture.Round, path string) (re error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return fmt.Errorf("report: %s: missing image extension", path)
	}
	p, err := NewLogLikelihoodPlot(rounds)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			re = multierror.Append(re, err).ErrorOrNil()
		}
	}()
	return WritePlot(p, f, format)
}
