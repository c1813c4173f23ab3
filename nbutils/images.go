package nbutils

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gorgonia.org/tensor"

	gan "github.com/LdDl/gan-utils"
)

// PlotRandomImage Picks random image and plots it via PlotSpecificImage. Returns index of picked image
//
// rng - random source. Global math/rand source is used when nil
//
func PlotRandomImage(rng *rand.Rand, images *tensor.Dense, labels, predictions []int, fname string) (int, error) {
	if images == nil || images.Dims() == 0 || images.Shape()[0] == 0 {
		return -1, fmt.Errorf("No images provided")
	}
	intn := rand.Intn
	if rng != nil {
		intn = rng.Intn
	}
	n := intn(images.Shape()[0])
	return n, PlotSpecificImage(n, images, labels, predictions, fname)
}

// PlotSpecificImage Plots n-th image in grayscale. Labels and predictions are optional (could be nil) and are put into the title.
//
// images - tensor with shape (N, height, width) or (N, 1, height, width)
//
func PlotSpecificImage(n int, images *tensor.Dense, labels, predictions []int, fname string) error {
	if images == nil {
		return fmt.Errorf("No images provided")
	}
	shape := images.Shape()
	var height, width int
	switch {
	case len(shape) == 3:
		height, width = shape[1], shape[2]
	case len(shape) == 4 && shape[1] == 1:
		height, width = shape[2], shape[3]
	default:
		return fmt.Errorf("Images must have shape (N, H, W) or (N, 1, H, W), but got %v", shape)
	}
	if n < 0 || n >= shape[0] {
		return fmt.Errorf("Image index %d is out of range [0;%d)", n, shape[0])
	}
	if labels != nil && len(labels) != shape[0] {
		return fmt.Errorf("Number of labels %d doesn't match number of images %d", len(labels), shape[0])
	}
	if predictions != nil && len(predictions) != shape[0] {
		return fmt.Errorf("Number of predictions %d doesn't match number of images %d", len(predictions), shape[0])
	}
	selected, err := gan.SelectRows(images, []int{n})
	if err != nil {
		return errors.Wrap(err, "Can't select image")
	}
	pixels := selected.Data().([]float64)
	img := grayImage(pixels, height, width)

	p := plot.New()
	p.Title.Text = imageTitle(n, labels, predictions)
	p.HideAxes()
	p.Add(plotter.NewImage(img, 0, 0, float64(width), float64(height)))
	if err := p.Save(4*vg.Inch, 4*vg.Inch, fname); err != nil {
		return errors.Wrap(err, "Can't save plot")
	}
	return nil
}

func imageTitle(n int, labels, predictions []int) string {
	title := fmt.Sprintf("Image id: %d", n)
	if labels != nil {
		title += fmt.Sprintf(" - Truth: %d", labels[n])
	}
	if predictions != nil {
		title += fmt.Sprintf(" - Prediction: %d", predictions[n])
	}
	return title
}

// grayImage Min-max scales pixels into [0;255]. Constant image becomes black
func grayImage(pixels []float64, height, width int) *image.Gray {
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, v := range pixels {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	scale := 0.0
	if maxV > minV {
		scale = 255.0 / (maxV - minV)
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := (pixels[y*width+x] - minV) * scale
			img.SetGray(x, y, color.Gray{Y: uint8(math.Round(v))})
		}
	}
	return img
}
