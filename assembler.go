package gan_utils

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// BatchAssembler Produces labeled batches for GAN training: latent vectors, generated (fake) samples, real samples and combinations of them.
//
// latentLength - dimensionality of latent vectors
// batchSize - default number of samples
// dataset - real samples. Leading axis indexes samples
// datasetSize - number of real samples. Fixed at construction
// generator - model turning latent vectors into samples
// rng - random source for latent vectors and sampling of real data
//
type BatchAssembler struct {
	latentLength int
	batchSize    int
	dataset      *tensor.Dense
	datasetSize  int
	generator    Generator
	rng          *rand.Rand
}

// AssemblerOption Optional setting for BatchAssembler
type AssemblerOption func(*BatchAssembler)

// WithRand Use provided random source
func WithRand(rng *rand.Rand) AssemblerOption {
	return func(ba *BatchAssembler) {
		if rng != nil {
			ba.rng = rng
		}
	}
}

// WithSeed Use random source initialized with provided seed
func WithSeed(seed int64) AssemblerOption {
	return func(ba *BatchAssembler) {
		ba.rng = rand.New(rand.NewSource(seed))
	}
}

// NewBatchAssembler Constructor for BatchAssembler
//
// Dataset must be non-empty float64 tensor with one dimension atleast. The dataset is not copied and must not be modified afterwards
//
func NewBatchAssembler(latentLength, batchSize int, dataset *tensor.Dense, generator Generator, opts ...AssemblerOption) (*BatchAssembler, error) {
	if latentLength <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "latent length must be positive, but got %d", latentLength)
	}
	if batchSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "batch size must be positive, but got %d", batchSize)
	}
	if dataset == nil || dataset.Dims() == 0 || dataset.Shape()[0] == 0 {
		return nil, errors.Wrap(ErrInvalidConfiguration, "dataset is empty")
	}
	if dataset.Dtype() != tensor.Float64 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "dataset must have dtype %v, but got %v", tensor.Float64, dataset.Dtype())
	}
	if generator == nil {
		return nil, errors.Wrap(ErrInvalidConfiguration, "generator is nil")
	}
	ba := &BatchAssembler{
		latentLength: latentLength,
		batchSize:    batchSize,
		dataset:      dataset,
		datasetSize:  dataset.Shape()[0],
		generator:    generator,
	}
	for _, opt := range opts {
		opt(ba)
	}
	if ba.rng == nil {
		ba.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return ba, nil
}

// LatentLength Returns dimensionality of latent vectors
func (ba *BatchAssembler) LatentLength() int {
	return ba.latentLength
}

// BatchSize Returns default number of samples
func (ba *BatchAssembler) BatchSize() int {
	return ba.batchSize
}

// DatasetSize Returns number of real samples
func (ba *BatchAssembler) DatasetSize() int {
	return ba.datasetSize
}

// SampleLatentVectors Returns (n, latentLength) tensor of standard normal values
func (ba *BatchAssembler) SampleLatentVectors(n int) (*tensor.Dense, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "number of latent vectors must be positive, but got %d", n)
	}
	return NormRandDense(ba.rng, n, ba.latentLength), nil
}

// LatentBatch Returns n latent vectors labeled as real. Batch size is used when n is not provided.
// This is the input for Generator's training step: Generator is trained to make Discriminator say "real"
func (ba *BatchAssembler) LatentBatch(n ...int) (*Batch, error) {
	if len(n) > 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "expected at most one number of latent vectors, but got %d values", len(n))
	}
	num := ba.batchSize
	if len(n) != 0 {
		num = n[0]
	}
	latent, err := ba.SampleLatentVectors(num)
	if err != nil {
		return nil, err
	}
	return &Batch{
		Data:   latent,
		Labels: RealLabels(num),
		Length: num,
	}, nil
}

// FakeBatch Feeds n latent vectors through Generator and labels its output as fake.
//
// Number of labels is taken from the actual number of generated samples, which equals n only when Generator preserves batch size
//
func (ba *BatchAssembler) FakeBatch(n int) (*Batch, error) {
	latent, err := ba.SampleLatentVectors(n)
	if err != nil {
		return nil, err
	}
	generated, err := ba.generator.Predict(latent)
	if err != nil {
		return nil, errors.Wrapf(ErrGeneration, "Can't generate samples: %v", err)
	}
	if generated == nil || generated.Dims() == 0 {
		return nil, errors.Wrap(ErrGeneration, "Generator returned no samples axis")
	}
	if generated.Dtype() != tensor.Float64 {
		return nil, errors.Wrapf(ErrGeneration, "Generator returned dtype %v, but %v expected", generated.Dtype(), tensor.Float64)
	}
	generatedNum := generated.Shape()[0]
	if generatedNum == 0 {
		return nil, errors.Wrapf(ErrGeneration, "Generator returned no samples for %d latent vectors", n)
	}
	return &Batch{
		Data:   generated,
		Labels: FakeLabels(generatedNum),
		Length: generatedNum,
	}, nil
}

// RealBatch Samples n real examples uniformly with replacement and labels them as real
func (ba *BatchAssembler) RealBatch(n int) (*Batch, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "number of real samples must be positive, but got %d", n)
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = ba.rng.Intn(ba.datasetSize)
	}
	sampled, err := SelectRows(ba.dataset, indices)
	if err != nil {
		return nil, errors.Wrap(err, "Can't sample real data")
	}
	return &Batch{
		Data:   sampled,
		Labels: RealLabels(n),
		Length: n,
	}, nil
}

// CombinedBatch Returns real samples followed by generated ones (labels concatenated in the same order).
// Fake part is generated first, so random source is consumed by latent vectors before real indices
func (ba *BatchAssembler) CombinedBatch(nFake, nReal int) (*Batch, error) {
	fakePart, err := ba.FakeBatch(nFake)
	if err != nil {
		return nil, err
	}
	realPart, err := ba.RealBatch(nReal)
	if err != nil {
		return nil, err
	}
	combined, err := ConcatBatches(realPart, fakePart)
	if err != nil {
		return nil, errors.Wrapf(ErrGeneration, "Generated samples %v don't fit real samples %v: %v", fakePart.Data.Shape(), realPart.Data.Shape(), err)
	}
	return combined, nil
}

// EqualCombinedBatch Calls CombinedBatch with floor(batchSize/2) fake and floor(batchSize/2) real samples.
// For odd batch size resulting batch has batchSize-1 samples
func (ba *BatchAssembler) EqualCombinedBatch() (*Batch, error) {
	half := ba.batchSize / 2
	return ba.CombinedBatch(half, half)
}
