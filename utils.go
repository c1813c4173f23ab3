package gan_utils

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gorgonia.org/tensor"
)

// NormRandDense Return reference to tensor.Dense filled with normally distributed float64 values (mean = 0, variance = 1)
//
// rng - random source. Global math/rand source is used when nil
// batchSize - Simply batch size
// n - Number of elements in each batch
// Resulting dense will have batchSize*n elements
//
func NormRandDense(rng *rand.Rand, batchSize, n int) *tensor.Dense {
	normFloat64 := rand.NormFloat64
	if rng != nil {
		normFloat64 = rng.NormFloat64
	}
	data := make([]float64, batchSize*n)
	for i := range data {
		data[i] = normFloat64()
	}
	return tensor.New(tensor.WithShape(batchSize, n), tensor.WithBacking(data))
}

// UniformRandDense Return reference to tensor.Dense filled with pseudo-random float64 values in range [0.0,1.0)
//
// rng - random source. Global math/rand source is used when nil
// batchSize - Simply batch size
// n - Number of elements in each batch
// Resulting dense will have batchSize*n elements
//
func UniformRandDense(rng *rand.Rand, batchSize, n int) *tensor.Dense {
	float64Fn := rand.Float64
	if rng != nil {
		float64Fn = rng.Float64
	}
	data := make([]float64, batchSize*n)
	for i := range data {
		data[i] = float64Fn()
	}
	return tensor.New(tensor.WithShape(batchSize, n), tensor.WithBacking(data))
}

type ReferenceFunction func(float64) float64
type ArgumentFunction func() float64

// GenerateDataset Builds (numSamples, 2) dataset of points [x, y(x)]
func GenerateDataset(numSamples int, xFunc ArgumentFunction, yFunc ReferenceFunction) (*tensor.Dense, error) {
	if numSamples <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "number of samples must be positive, but got %d", numSamples)
	}
	dataXAxis := make([]float64, numSamples)
	dataYAxis := make([]float64, numSamples)
	for i := range dataXAxis {
		dataXAxis[i] = xFunc()
		dataYAxis[i] = yFunc(dataXAxis[i])
	}
	inputTensor := tensor.New(tensor.WithShape(numSamples, 1), tensor.WithBacking(dataXAxis))
	outputTensor := tensor.New(tensor.WithShape(numSamples, 1), tensor.WithBacking(dataYAxis))
	hstack, err := inputTensor.Hstack(outputTensor)
	if err != nil {
		return nil, errors.Wrap(err, "Can't stack X and Y(X)")
	}
	return hstack, nil
}

// DatasetFromRows Builds (len(rows), d) dataset. Every row must have the same length d > 0
func DatasetFromRows(rows [][]float64) (*tensor.Dense, error) {
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrInvalidConfiguration, "dataset is empty")
	}
	rowSize := len(rows[0])
	if rowSize == 0 {
		return nil, errors.Wrap(ErrInvalidConfiguration, "dataset rows are empty")
	}
	data := make([]float64, 0, len(rows)*rowSize)
	for i, row := range rows {
		if len(row) != rowSize {
			return nil, errors.Wrapf(ErrInvalidConfiguration, "row #%d has %d elements, but %d expected", i, len(row), rowSize)
		}
		data = append(data, row...)
	}
	return tensor.New(tensor.WithShape(len(rows), rowSize), tensor.WithBacking(data)), nil
}

// SelectRows Gathers float64 rows (sub-tensors along axis 0) into new tensor.Dense
//
// Resulting dense has shape (len(indices), d.Shape()[1:]...). Indices may repeat
//
func SelectRows(d *tensor.Dense, indices []int) (*tensor.Dense, error) {
	if d == nil || d.Dims() == 0 {
		return nil, fmt.Errorf("Tensor must have one dimension atleast")
	}
	if d.Dtype() != tensor.Float64 {
		return nil, fmt.Errorf("Tensor must have dtype %v, but got %v", tensor.Float64, d.Dtype())
	}
	materialized, ok := d.Materialize().(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("Can't materialize tensor of type %T", d)
	}
	backing, err := float64Backing(materialized)
	if err != nil {
		return nil, err
	}
	rowsNum := materialized.Shape()[0]
	if rowsNum == 0 {
		return nil, fmt.Errorf("Tensor has no rows")
	}
	rowSize := len(backing) / rowsNum
	data := make([]float64, 0, len(indices)*rowSize)
	for _, idx := range indices {
		if idx < 0 || idx >= rowsNum {
			return nil, fmt.Errorf("Row index %d is out of range [0;%d)", idx, rowsNum)
		}
		data = append(data, backing[idx*rowSize:(idx+1)*rowSize]...)
	}
	shape := materialized.Shape().Clone()
	shape[0] = len(indices)
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(data)), nil
}

// PlotXY Plot chart for input y(x)
func PlotXY(x, y tensor.Tensor, fname string) error {
	if x.Dims() != 1 {
		return fmt.Errorf("X must have one dimension, but got %d", x.Dims())
	}
	if y.Dims() != 1 {
		return fmt.Errorf("Y(X) must have one dimension, but got %d", y.Dims())
	}
	if x.DataSize() != y.DataSize() {
		return fmt.Errorf("X and Y(X) must have same number of elements, but X has %d elements and Y(X) has %d elements", x.DataSize(), y.DataSize())
	}
	scatterData := make(plotter.XYs, x.DataSize())
	for i := 0; i < x.DataSize(); i++ {
		xval, err := x.At(i)
		if err != nil {
			return errors.Wrap(err, "Can't select X-value")
		}
		yval, err := y.At(i)
		if err != nil {
			return errors.Wrap(err, "Can't select Y(x)-value")
		}
		xf, ok := xval.(float64)
		if !ok {
			return fmt.Errorf("X-value must be float64, but got %T", xval)
		}
		yf, ok := yval.(float64)
		if !ok {
			return fmt.Errorf("Y(X)-value must be float64, but got %T", yval)
		}
		scatterData[i].X = xf
		scatterData[i].Y = yf
	}
	scatter, err := plotter.NewScatter(scatterData)
	if err != nil {
		return errors.Wrap(err, "Can't init new scatter")
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
	p := plot.New()
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Add(plotter.NewGrid())
	p.Add(scatter)
	// Save the plot to a PNG file.
	if err := p.Save(4*vg.Inch, 4*vg.Inch, fname); err != nil {
		return errors.Wrap(err, "Can't save plot")
	}
	return nil
}

// float64Backing Returns backing slice of float64 tensor. Scalar-like tensors are handled too
func float64Backing(d *tensor.Dense) ([]float64, error) {
	switch data := d.Data().(type) {
	case []float64:
		return data, nil
	case float64:
		return []float64{data}, nil
	default:
		return nil, fmt.Errorf("Tensor must have dtype %v, but got %v", tensor.Float64, d.Dtype())
	}
}
