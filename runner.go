package gan_utils

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// graphRunner Evaluates Network compiled on its own evaluation graph for any number of samples.
// Graph has fixed batch size, so samples are fed chunk by chunk: the last chunk is padded by zero rows and padded output is dropped
type graphRunner struct {
	net         *Network
	input       *gorgonia.Node
	out         gorgonia.Value
	vm          gorgonia.VM
	batchSize   int
	sampleShape tensor.Shape
}

func newGraphRunner(g *gorgonia.ExprGraph, net *Network, name string, batchSize int, sampleShape ...int) (*graphRunner, error) {
	if net == nil {
		return nil, fmt.Errorf("Network is nil")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("Batch size must be positive, but got %d", batchSize)
	}
	if len(sampleShape) == 0 {
		return nil, fmt.Errorf("Sample shape must have one dimension atleast")
	}
	shape := append([]int{batchSize}, sampleShape...)
	input := gorgonia.NewTensor(g, gorgonia.Float64, len(shape), gorgonia.WithShape(shape...), gorgonia.WithName(name+"_input"))
	if err := net.Fwd(input, batchSize); err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("[%s]", name))
	}
	runner := &graphRunner{
		net:         net,
		input:       input,
		batchSize:   batchSize,
		sampleShape: tensor.Shape(sampleShape).Clone(),
	}
	gorgonia.Read(net.Out(), &runner.out)
	runner.vm = gorgonia.NewTapeMachine(g)
	return runner, nil
}

func (r *graphRunner) run(samples *tensor.Dense) (*tensor.Dense, error) {
	if samples == nil || samples.Dims() == 0 {
		return nil, fmt.Errorf("Input must have samples axis")
	}
	if !samples.Shape()[1:].Eq(r.sampleShape) {
		return nil, fmt.Errorf("Input samples must have shape %v, but got %v", r.sampleShape, samples.Shape()[1:])
	}
	if samples.Dtype() != tensor.Float64 {
		return nil, fmt.Errorf("Input must have dtype %v, but got %v", tensor.Float64, samples.Dtype())
	}
	materialized, ok := samples.Materialize().(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("Can't materialize input of type %T", samples)
	}
	backing, err := float64Backing(materialized)
	if err != nil {
		return nil, err
	}
	n := materialized.Shape()[0]
	if n == 0 {
		return nil, fmt.Errorf("Input has no samples")
	}
	rowSize := r.sampleShape.TotalSize()
	chunkShape := append([]int{r.batchSize}, r.sampleShape...)

	var outData []float64
	var outSampleShape tensor.Shape
	for start := 0; start < n; start += r.batchSize {
		k := r.batchSize
		if start+k > n {
			k = n - start
		}
		chunk := make([]float64, r.batchSize*rowSize)
		copy(chunk, backing[start*rowSize:(start+k)*rowSize])
		err := gorgonia.Let(r.input, tensor.New(tensor.WithShape(chunkShape...), tensor.WithBacking(chunk)))
		if err != nil {
			return nil, errors.Wrap(err, "Can't init input value")
		}
		if err = r.vm.RunAll(); err != nil {
			r.vm.Reset()
			return nil, errors.Wrap(err, "Can't run VM")
		}
		outDense, ok := r.out.(*tensor.Dense)
		if !ok {
			r.vm.Reset()
			return nil, fmt.Errorf("Network output has unexpected type %T", r.out)
		}
		outShape := outDense.Shape()
		if len(outShape) == 0 || outShape[0] != r.batchSize {
			r.vm.Reset()
			return nil, fmt.Errorf("Network output must have leading dimension %d, but got shape %v", r.batchSize, outShape)
		}
		outBacking, err := float64Backing(outDense)
		if err != nil {
			r.vm.Reset()
			return nil, errors.Wrap(err, "Can't read network output")
		}
		outRowSize := len(outBacking) / r.batchSize
		if outData == nil {
			outSampleShape = outShape[1:].Clone()
			outData = make([]float64, 0, n*outRowSize)
		}
		// Output value is reused by VM, so copy it before next run
		outData = append(outData, outBacking[:k*outRowSize]...)
		r.vm.Reset()
	}
	return tensor.New(tensor.WithShape(append([]int{n}, outSampleShape...)...), tensor.WithBacking(outData)), nil
}

func (r *graphRunner) close() error {
	return r.vm.Close()
}
