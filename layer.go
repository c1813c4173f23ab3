package gan_utils

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Layer Weight+Bias+ActivationFunc combo plus parameters for non-linear layer types
type Layer struct {
	WeightNode *gorgonia.Node
	BiasNode   *gorgonia.Node
	Activation ActivationFunc
	Type       LayerType

	KernelHeight int
	KernelWidth  int
	Padding      []int
	Stride       []int
	Dilation     []int
	ReshapeDims  []int
}

type LayerType uint16

const (
	LayerLinear = LayerType(iota)
	LayerFlatten
	LayerConvolutional
	LayerMaxpool
	LayerReshape
)

func (lt LayerType) String() string {
	switch lt {
	case LayerLinear:
		return "linear"
	case LayerFlatten:
		return "flatten"
	case LayerConvolutional:
		return "convolutional"
	case LayerMaxpool:
		return "maxpool"
	case LayerReshape:
		return "reshape"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(lt))
	}
}

var (
	allowedNoWeights = []LayerType{LayerMaxpool, LayerFlatten, LayerReshape}
)

func noWeightsAllowed(checkType LayerType) bool {
	return checkLayerType(checkType, allowedNoWeights...)
}

func checkLayerType(checkType LayerType, t ...LayerType) bool {
	for _, typeOf := range t {
		if checkType == typeOf {
			return true
		}
	}
	return false
}

// Fwd Initializates feedforward for provided input. Activation is not applied here.
//
// batchSize - batch size. If it's >= 2 then broadcast function will be applied for bias
// input - Input node
//
func (l *Layer) Fwd(batchSize int, input *gorgonia.Node) (*gorgonia.Node, error) {
	if l.WeightNode == nil && !noWeightsAllowed(l.Type) {
		return nil, fmt.Errorf("Layer of type '%s' must have weight node", l.Type)
	}
	var nonActivated *gorgonia.Node
	var err error
	switch l.Type {
	case LayerLinear:
		tOp, err := gorgonia.Transpose(l.WeightNode)
		if err != nil {
			return nil, errors.Wrap(err, "Can't transpose weights")
		}
		if input.Dims() > 2 {
			nonActivated, err = gorgonia.BatchedMatMul(input, tOp)
		} else {
			nonActivated, err = gorgonia.Mul(input, tOp)
		}
		if err != nil {
			return nil, errors.Wrap(err, "Can't multiply input and weights")
		}
	case LayerConvolutional:
		nonActivated, err = gorgonia.Conv2d(input, l.WeightNode, tensor.Shape{l.KernelHeight, l.KernelWidth}, l.Padding, l.Stride, l.Dilation)
		if err != nil {
			return nil, errors.Wrap(err, "Can't convolve[2D] input by kernel")
		}
	case LayerMaxpool:
		nonActivated, err = gorgonia.MaxPool2D(input, tensor.Shape{l.KernelHeight, l.KernelWidth}, l.Padding, l.Stride)
		if err != nil {
			return nil, errors.Wrap(err, "Can't maxpool[2D] input by kernel")
		}
	case LayerFlatten:
		nonActivated, err = gorgonia.Reshape(input, tensor.Shape{batchSize, input.Shape().TotalSize() / batchSize})
		if err != nil {
			return nil, errors.Wrap(err, "Can't flatten input")
		}
	case LayerReshape:
		nonActivated, err = gorgonia.Reshape(input, l.ReshapeDims)
		if err != nil {
			return nil, errors.Wrap(err, "Can't reshape input")
		}
	default:
		return nil, fmt.Errorf("Layer type '%s' is not handled", l.Type)
	}
	if l.BiasNode == nil {
		return nonActivated, nil
	}
	if batchSize < 2 {
		nonActivated, err = gorgonia.Add(nonActivated, l.BiasNode)
		if err != nil {
			return nil, errors.Wrap(err, "Can't add bias to non-activated output")
		}
		return nonActivated, nil
	}
	nonActivated, err = gorgonia.BroadcastAdd(nonActivated, l.BiasNode, nil, []byte{0})
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Can't add [in broadcast term with batch_size = %d] bias to non-activated output", batchSize))
	}
	return nonActivated, nil
}

func (l *Layer) activate(a *gorgonia.Node) (*gorgonia.Node, error) {
	if l.Activation == nil {
		return a, nil
	}
	return l.Activation(a)
}
