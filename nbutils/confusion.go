package nbutils

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ConfusionMatrix Counts (truth, prediction) pairs. Rows are indexed by true class and columns by predicted class.
// Classes must be in range [0;numClasses)
func ConfusionMatrix(truth, predicted []int, numClasses int) (*mat.Dense, error) {
	if numClasses <= 0 {
		return nil, fmt.Errorf("Number of classes must be positive, but got %d", numClasses)
	}
	if len(truth) != len(predicted) {
		return nil, fmt.Errorf("Number of truth values %d doesn't match number of predictions %d", len(truth), len(predicted))
	}
	cm := mat.NewDense(numClasses, numClasses, nil)
	for i := range truth {
		t, p := truth[i], predicted[i]
		if t < 0 || t >= numClasses {
			return nil, fmt.Errorf("Truth value #%d is %d, which is out of range [0;%d)", i, t, numClasses)
		}
		if p < 0 || p >= numClasses {
			return nil, fmt.Errorf("Prediction #%d is %d, which is out of range [0;%d)", i, p, numClasses)
		}
		cm.Set(t, p, cm.At(t, p)+1)
	}
	return cm, nil
}

// confusionGrid Implements plotter.GridXYZ: column is predicted class, row is true class
type confusionGrid struct {
	cm *mat.Dense
}

func (g confusionGrid) Dims() (c, r int) {
	r, c = g.cm.Dims()
	return c, r
}

func (g confusionGrid) Z(c, r int) float64 { return g.cm.At(r, c) }
func (g confusionGrid) X(c int) float64    { return float64(c) }
func (g confusionGrid) Y(r int) float64    { return float64(r) }

// PlotConfusionMatrix Plots confusion matrix as heat map annotated by counts
//
// classNames - optional (could be nil) names of classes for axes ticks
//
func PlotConfusionMatrix(cm *mat.Dense, classNames []string, fname string) error {
	if cm == nil {
		return fmt.Errorf("Confusion matrix is nil")
	}
	r, c := cm.Dims()
	if r != c {
		return fmt.Errorf("Confusion matrix must be square, but got %dx%d", r, c)
	}
	if classNames != nil && len(classNames) != r {
		return fmt.Errorf("Number of class names %d doesn't match number of classes %d", len(classNames), r)
	}
	grid := confusionGrid{cm: cm}
	heatMap := plotter.NewHeatMap(grid, palette.Heat(12, 1))

	cellsXYs := make(plotter.XYs, 0, r*c)
	cellsLabels := make([]string, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			cellsXYs = append(cellsXYs, plotter.XY{X: float64(j), Y: float64(i)})
			cellsLabels = append(cellsLabels, fmt.Sprintf("%g", cm.At(i, j)))
		}
	}
	counts, err := plotter.NewLabels(plotter.XYLabels{XYs: cellsXYs, Labels: cellsLabels})
	if err != nil {
		return errors.Wrap(err, "Can't init labels for cells")
	}

	p := plot.New()
	p.Title.Text = "Confusion matrix"
	p.X.Label.Text = "Predicted"
	p.Y.Label.Text = "Truth"
	ticks := classTicks(r, classNames)
	p.X.Tick.Marker = ticks
	p.Y.Tick.Marker = ticks
	p.Add(heatMap, counts)
	if err := p.Save(4*vg.Inch, 4*vg.Inch, fname); err != nil {
		return errors.Wrap(err, "Can't save plot")
	}
	return nil
}

func classTicks(n int, classNames []string) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, n)
	for i := range ticks {
		label := fmt.Sprintf("%d", i)
		if classNames != nil {
			label = classNames[i]
		}
		ticks[i] = plot.Tick{Value: float64(i), Label: label}
	}
	return ticks
}
