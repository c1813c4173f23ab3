package nbutils

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotHistogram Plots histogram of values with provided number of bins
func PlotHistogram(values []float64, bins int, title, fname string) error {
	if len(values) == 0 {
		return fmt.Errorf("No values provided")
	}
	if bins <= 0 {
		return fmt.Errorf("Number of bins must be positive, but got %d", bins)
	}
	hist, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return errors.Wrap(err, "Can't init new histogram")
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Count"
	p.Add(hist)
	if err := p.Save(4*vg.Inch, 4*vg.Inch, fname); err != nil {
		return errors.Wrap(err, "Can't save plot")
	}
	return nil
}

// IntsToValues Converts class labels for PlotHistogram
func IntsToValues(labels []int) []float64 {
	values := make([]float64, len(labels))
	for i, l := range labels {
		values[i] = float64(l)
	}
	return values
}
