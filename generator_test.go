package gan_utils

import (
	"testing"

	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func identityNetwork(g *gorgonia.ExprGraph, name string) *Network {
	w := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, 2), gorgonia.WithName(name+"_w0"),
		gorgonia.WithValue(tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]float64{1, 0, 0, 1}))))
	return &Network{
		Name: name,
		Layers: []*Layer{
			{
				WeightNode: w,
				Type:       LayerLinear,
				Activation: NoActivation,
			},
		},
	}
}

func TestGraphGeneratorChunks(t *testing.T) {
	g := gorgonia.NewGraph()
	gen, err := NewGraphGenerator(g, identityNetwork(g, "generator"), 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer gen.Close()

	// 5 samples with graph batch size 3: one full chunk and one padded
	latent := tensor.New(tensor.WithShape(5, 2), tensor.WithBacking([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
	out, err := gen.Predict(latent)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Shape().Eq(tensor.Shape{5, 2}) {
		t.Fatalf("Expected shape (5, 2), got %v", out.Shape())
	}
	if !out.Eq(latent) {
		t.Errorf("Identity network must return input: %v", out)
	}
	if len(gen.Learnables()) != 1 {
		t.Errorf("Expected 1 learnable node, got %d", len(gen.Learnables()))
	}

	wrong := tensor.New(tensor.WithShape(2, 3), tensor.WithBacking([]float64{1, 2, 3, 4, 5, 6}))
	if _, err := gen.Predict(wrong); err == nil {
		t.Error("Expected error for latent vectors of wrong length")
	}
}

func TestGraphGeneratorWithAssembler(t *testing.T) {
	g := gorgonia.NewGraph()
	gen, err := NewGraphGenerator(g, identityNetwork(g, "generator"), 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer gen.Close()
	dataset, err := DatasetFromRows([][]float64{{100, 100}, {200, 200}})
	if err != nil {
		t.Fatal(err)
	}
	ba := mustAssembler(t, 2, 4, dataset, gen)
	reference := mustAssembler(t, 2, 4, dataset, identityGenerator)

	fake, err := ba.FakeBatch(6)
	if err != nil {
		t.Fatal(err)
	}
	expected, err := reference.FakeBatch(6)
	if err != nil {
		t.Fatal(err)
	}
	if !fake.Data.Eq(expected.Data) {
		t.Errorf("Graph generator output differs from identity: %v vs %v", fake.Data, expected.Data)
	}

	combined, err := ba.EqualCombinedBatch()
	if err != nil {
		t.Fatal(err)
	}
	if combined.Length != 4 {
		t.Errorf("Expected 4 samples, got %d", combined.Length)
	}
}

func TestDiscriminatorNetScore(t *testing.T) {
	g := gorgonia.NewGraph()
	w := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(1, 2), gorgonia.WithName("discriminator_w0"),
		gorgonia.WithValue(tensor.New(tensor.WithShape(1, 2), tensor.WithBacking([]float64{1, 1}))))
	net := &Network{
		Name:   "discriminator",
		Layers: []*Layer{{WeightNode: w, Type: LayerLinear}},
	}
	dis, err := NewDiscriminatorNet(g, net, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer dis.Close()

	batch := &Batch{
		Data:   tensor.New(tensor.WithShape(3, 2), tensor.WithBacking([]float64{1, 2, 3, 4, -1, 0})),
		Labels: tensor.New(tensor.WithShape(3, 1), tensor.WithBacking([]float64{1, 1, 0})),
		Length: 3,
	}
	scores, err := dis.Score(batch)
	if err != nil {
		t.Fatal(err)
	}
	expected := []float64{3, 7, -1}
	for i := range expected {
		if scores[i] != expected[i] {
			t.Errorf("Score #%d: expected %v, got %v", i, expected[i], scores[i])
		}
	}
	classes := Classify(scores, 0.5)
	truth, err := LabelsToClasses(batch.Labels)
	if err != nil {
		t.Fatal(err)
	}
	for i := range truth {
		if classes[i] != truth[i] {
			t.Errorf("Class #%d: expected %d, got %d", i, truth[i], classes[i])
		}
	}
}

func TestNetworkFwdErrors(t *testing.T) {
	g := gorgonia.NewGraph()
	input := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, 2), gorgonia.WithName("input"))
	t.Run("NoLayers", func(t *testing.T) {
		net := &Network{}
		if err := net.Fwd(input, 2); err == nil {
			t.Error("Expected error for network without layers")
		}
	})
	t.Run("NilLayer", func(t *testing.T) {
		net := &Network{Layers: []*Layer{nil}}
		if err := net.Fwd(input, 2); err == nil {
			t.Error("Expected error for nil layer")
		}
	})
	t.Run("LinearWithoutWeights", func(t *testing.T) {
		net := &Network{Layers: []*Layer{{Type: LayerLinear}}}
		if err := net.Fwd(input, 2); err == nil {
			t.Error("Expected error for linear layer without weights")
		}
	})
	t.Run("UnknownLayer", func(t *testing.T) {
		net := &Network{Layers: []*Layer{{Type: LayerType(42)}}}
		if err := net.Fwd(input, 2); err == nil {
			t.Error("Expected error for unknown layer type")
		}
	})
}

func TestNewGraphGeneratorErrors(t *testing.T) {
	g := gorgonia.NewGraph()
	if _, err := NewGraphGenerator(g, nil, 2, 2); err == nil {
		t.Error("Expected error for nil network")
	}
	if _, err := NewGraphGenerator(g, identityNetwork(g, "generator"), 2, 0); err == nil {
		t.Error("Expected error for zero batch size")
	}
}

func TestLayerTypeString(t *testing.T) {
	cases := map[LayerType]string{
		LayerLinear:    "linear",
		LayerReshape:   "reshape",
		LayerType(999): "unknown(999)",
	}
	for lt, expected := range cases {
		if lt.String() != expected {
			t.Errorf("LayerType(%d).String() = %s, expected %s", uint16(lt), lt.String(), expected)
		}
	}
}

func TestGeneratorFuncError(t *testing.T) {
	gen := GeneratorFunc(func(latent *tensor.Dense) (*tensor.Dense, error) {
		return nil, errors.New("boom")
	})
	if _, err := gen.Predict(nil); err == nil {
		t.Error("Expected error from wrapped function")
	}
}

func TestGraphGeneratorBias(t *testing.T) {
	cases := []struct {
		name      string
		batchSize int
	}{
		{"Broadcast", 3},
		{"SingleSample", 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := gorgonia.NewGraph()
			net := identityNetwork(g, "generator")
			net.Layers[0].BiasNode = gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(1, 2), gorgonia.WithName("generator_b0"),
				gorgonia.WithValue(tensor.New(tensor.WithShape(1, 2), tensor.WithBacking([]float64{10, 20}))))
			gen, err := NewGraphGenerator(g, net, 2, c.batchSize)
			if err != nil {
				t.Fatal(err)
			}
			defer gen.Close()

			latent := tensor.New(tensor.WithShape(5, 2), tensor.WithBacking([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
			out, err := gen.Predict(latent)
			if err != nil {
				t.Fatal(err)
			}
			expected := tensor.New(tensor.WithShape(5, 2), tensor.WithBacking([]float64{11, 22, 13, 24, 15, 26, 17, 28, 19, 30}))
			if !out.Eq(expected) {
				t.Errorf("Expected %v, got %v", expected, out)
			}
			if len(gen.Learnables()) != 2 {
				t.Errorf("Expected 2 learnable nodes, got %d", len(gen.Learnables()))
			}
		})
	}
}

func TestGraphGeneratorReshape(t *testing.T) {
	g := gorgonia.NewGraph()
	net := identityNetwork(g, "generator")
	net.Layers = append(net.Layers, &Layer{
		Type:        LayerReshape,
		ReshapeDims: []int{3, 1, 2},
	})
	gen, err := NewGraphGenerator(g, net, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer gen.Close()

	latent := tensor.New(tensor.WithShape(4, 2), tensor.WithBacking([]float64{1, 2, 3, 4, 5, 6, 7, 8}))
	out, err := gen.Predict(latent)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Shape().Eq(tensor.Shape{4, 1, 2}) {
		t.Fatalf("Expected shape (4, 1, 2), got %v", out.Shape())
	}
	expected := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	for i, v := range out.Data().([]float64) {
		if v != expected[i] {
			t.Errorf("Element #%d: expected %v, got %v", i, expected[i], v)
		}
	}
}

// convDiscriminator input(1,4,4) => filters=1,size=2x2,conv(3,3) => size=2x2,maxpool(1,1) => flatten(1) => linear(1,1)
// With all-ones kernel a constant image of value v gets score 4*v
func convDiscriminator(t *testing.T, batchSize int) *DiscriminatorNet {
	g := gorgonia.NewGraph()
	dis_w0 := gorgonia.NewTensor(g, gorgonia.Float64, 4, gorgonia.WithShape(1, 1, 2, 2), gorgonia.WithName("discriminator_w0"),
		gorgonia.WithValue(tensor.New(tensor.WithShape(1, 1, 2, 2), tensor.WithBacking([]float64{1, 1, 1, 1}))))
	dis_w1 := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(1, 1), gorgonia.WithName("discriminator_w1"),
		gorgonia.WithValue(tensor.New(tensor.WithShape(1, 1), tensor.WithBacking([]float64{1}))))
	net := &Network{
		Name: "discriminator",
		Layers: []*Layer{
			{
				WeightNode:   dis_w0,
				Type:         LayerConvolutional,
				Activation:   NoActivation,
				KernelHeight: 2,
				KernelWidth:  2,
				Padding:      []int{0, 0},
				Stride:       []int{1, 1},
				Dilation:     []int{1, 1},
			},
			{
				Type:         LayerMaxpool,
				KernelHeight: 2,
				KernelWidth:  2,
				Padding:      []int{0, 0},
				Stride:       []int{2, 2},
			},
			{
				Type: LayerFlatten,
			},
			{
				WeightNode: dis_w1,
				Type:       LayerLinear,
				Activation: NoActivation,
			},
		},
	}
	dis, err := NewDiscriminatorNet(g, net, batchSize, 1, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	return dis
}

func constantImages(values ...float64) *tensor.Dense {
	data := make([]float64, 0, 16*len(values))
	for _, v := range values {
		for i := 0; i < 16; i++ {
			data = append(data, v)
		}
	}
	return tensor.New(tensor.WithShape(len(values), 1, 4, 4), tensor.WithBacking(data))
}

func TestDiscriminatorNetConvolutional(t *testing.T) {
	dis := convDiscriminator(t, 2)
	defer dis.Close()

	// 3 samples with graph batch size 2: last chunk is padded
	batch := &Batch{
		Data:   constantImages(1, 2, 3),
		Labels: RealLabels(3),
		Length: 3,
	}
	scores, err := dis.Score(batch)
	if err != nil {
		t.Fatal(err)
	}
	expected := []float64{4, 8, 12}
	if len(scores) != len(expected) {
		t.Fatalf("Expected %d scores, got %d", len(expected), len(scores))
	}
	for i := range expected {
		if scores[i] != expected[i] {
			t.Errorf("Score #%d: expected %v, got %v", i, expected[i], scores[i])
		}
	}

	wrongShape := &Batch{
		Data:   tensor.New(tensor.WithShape(2, 16), tensor.WithBacking(make([]float64, 32))),
		Labels: RealLabels(2),
		Length: 2,
	}
	if _, err := dis.Score(wrongShape); err == nil {
		t.Error("Expected error for samples of wrong shape")
	}
}

func TestDiscriminatorNetScoreRepeatable(t *testing.T) {
	dis := convDiscriminator(t, 2)
	defer dis.Close()
	batch := &Batch{
		Data:   constantImages(1, 1, 1, 1),
		Labels: RealLabels(4),
		Length: 4,
	}
	first, err := dis.Score(batch)
	if err != nil {
		t.Fatal(err)
	}
	for attempt := 0; attempt < 3; attempt++ {
		next, err := dis.Score(batch)
		if err != nil {
			t.Fatal(err)
		}
		for i := range first {
			if next[i] != first[i] {
				t.Fatalf("Attempt %d: score #%d changed from %v to %v", attempt, i, first[i], next[i])
			}
		}
	}
}
