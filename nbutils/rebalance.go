package nbutils

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	gan "github.com/LdDl/gan-utils"
)

// CountClasses Returns number of occurrences for every class
func CountClasses(labels []int) map[int]int {
	counts := make(map[int]int)
	for _, l := range labels {
		counts[l]++
	}
	return counts
}

// RebalanceIndices Oversamples every class with replacement until it reaches size of the majority class.
// Every original index is kept. Result is shuffled
//
// rng - random source. Global math/rand source is used when nil
//
func RebalanceIndices(rng *rand.Rand, labels []int) ([]int, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("No labels provided")
	}
	intn, shuffle := rand.Intn, rand.Shuffle
	if rng != nil {
		intn, shuffle = rng.Intn, rng.Shuffle
	}
	byClass := make(map[int][]int)
	for i, l := range labels {
		byClass[l] = append(byClass[l], i)
	}
	classes := make([]int, 0, len(byClass))
	target := 0
	for c, idx := range byClass {
		classes = append(classes, c)
		if len(idx) > target {
			target = len(idx)
		}
	}
	// Map iteration order is random, sort classes to keep rng consumption reproducible
	sort.Ints(classes)
	result := make([]int, 0, target*len(classes))
	for _, c := range classes {
		idx := byClass[c]
		result = append(result, idx...)
		for i := len(idx); i < target; i++ {
			result = append(result, idx[intn(len(idx))])
		}
	}
	shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})
	return result, nil
}

// Rebalance Applies RebalanceIndices to rows of data and to labels
func Rebalance(rng *rand.Rand, data *tensor.Dense, labels []int) (*tensor.Dense, []int, error) {
	if data == nil || data.Dims() == 0 {
		return nil, nil, fmt.Errorf("Data must have one dimension atleast")
	}
	if data.Shape()[0] != len(labels) {
		return nil, nil, fmt.Errorf("Number of rows %d doesn't match number of labels %d", data.Shape()[0], len(labels))
	}
	indices, err := RebalanceIndices(rng, labels)
	if err != nil {
		return nil, nil, err
	}
	rebalanced, err := gan.SelectRows(data, indices)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't select rows")
	}
	rebalancedLabels := make([]int, len(indices))
	for i, idx := range indices {
		rebalancedLabels[i] = labels[idx]
	}
	return rebalanced, rebalancedLabels, nil
}
