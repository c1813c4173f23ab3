// Package nbutils Helpers keeping notebook-like programs short: plotting of images, histograms and confusion matrices, introspection of variables and class rebalancing.
package nbutils

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// DiscretizePredictions Transforms predictions with shape [number_of_predictions x possible_prediction_outcomes] to
// predicted outcome indices with shape [number_of_predictions].
//
// Example: [[0, 0, 0, 1], [1, 0, 0, 0]] => [3, 0]
//
func DiscretizePredictions(predictions *tensor.Dense) ([]int, error) {
	if predictions == nil || predictions.Dims() != 2 {
		return nil, fmt.Errorf("Predictions must have two dimensions")
	}
	argmax, err := predictions.Argmax(1)
	if err != nil {
		return nil, errors.Wrap(err, "Can't do argmax(axis=1)")
	}
	switch data := argmax.Data().(type) {
	case []int:
		return data, nil
	case int:
		return []int{data}, nil
	default:
		return nil, fmt.Errorf("Argmax returned unexpected type %T", data)
	}
}
