package gan_utils

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Batch Labeled set of samples for Discriminator
//
// Data - samples. Leading axis indexes samples
// Labels - targets with shape (Length, 1): 1.0 for real samples, 0.0 for fake ones
// Length - number of samples
//
type Batch struct {
	Data   *tensor.Dense
	Labels *tensor.Dense
	Length int
}

// RealLabels Returns (n, 1) tensor filled with 1.0
func RealLabels(n int) *tensor.Dense {
	return tensor.Ones(tensor.Float64, n, 1)
}

// FakeLabels Returns (n, 1) tensor filled with 0.0
func FakeLabels(n int) *tensor.Dense {
	zeros := tensor.Ones(tensor.Float64, n, 1)
	zeros.Zero()
	return zeros
}

// ConcatBatches Concatenates batches along samples axis keeping provided order
func ConcatBatches(first *Batch, others ...*Batch) (*Batch, error) {
	data := make([]tensor.Tensor, 0, len(others))
	labels := make([]tensor.Tensor, 0, len(others))
	length := first.Length
	for _, b := range others {
		data = append(data, b.Data)
		labels = append(labels, b.Labels)
		length += b.Length
	}
	allSamples, err := tensor.Concat(0, first.Data, data...)
	if err != nil {
		return nil, errors.Wrap(err, "Can't do concatenation of samples")
	}
	allLabels, err := tensor.Concat(0, first.Labels, labels...)
	if err != nil {
		return nil, errors.Wrap(err, "Can't do concatenation of labels")
	}
	samplesDense, ok := allSamples.(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("Concatenated samples have unexpected type %T", allSamples)
	}
	labelsDense, ok := allLabels.(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("Concatenated labels have unexpected type %T", allLabels)
	}
	return &Batch{
		Data:   samplesDense,
		Labels: labelsDense,
		Length: length,
	}, nil
}
