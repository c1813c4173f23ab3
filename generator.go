package gan_utils

import (
	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Generator Model turning batch of latent vectors (n, latentLength) into batch of samples.
// Implementations are expected to preserve leading dimension: n latent vectors give n samples
type Generator interface {
	Predict(latent *tensor.Dense) (*tensor.Dense, error)
}

// GeneratorFunc Allows to use ordinary function as Generator
type GeneratorFunc func(latent *tensor.Dense) (*tensor.Dense, error)

// Predict Calls f(latent)
func (f GeneratorFunc) Predict(latent *tensor.Dense) (*tensor.Dense, error) {
	return f(latent)
}

// GraphGenerator Generator backed by Network on gorgonia's evaluation graph.
//
// Graph must be dedicated to this generator: tape machine runs the whole graph on every chunk
//
type GraphGenerator struct {
	runner       *graphRunner
	latentLength int
}

// NewGraphGenerator Initializes feedforward of provided network for input (batchSize, latentLength) and prepares tape machine
func NewGraphGenerator(g *gorgonia.ExprGraph, net *Network, latentLength, batchSize int) (*GraphGenerator, error) {
	runner, err := newGraphRunner(g, net, "generator", batchSize, latentLength)
	if err != nil {
		return nil, errors.Wrap(err, "Can't prepare Generator")
	}
	return &GraphGenerator{
		runner:       runner,
		latentLength: latentLength,
	}, nil
}

// Predict Feeds latent vectors (n, latentLength) through the network. Any n > 0 is allowed
func (gen *GraphGenerator) Predict(latent *tensor.Dense) (*tensor.Dense, error) {
	out, err := gen.runner.run(latent)
	if err != nil {
		return nil, errors.Wrap(err, "[Generator]")
	}
	return out, nil
}

// Learnables Returns learnables nodes
func (gen *GraphGenerator) Learnables() gorgonia.Nodes {
	return gen.runner.net.Learnables()
}

// Close Releases tape machine
func (gen *GraphGenerator) Close() error {
	return gen.runner.close()
}
