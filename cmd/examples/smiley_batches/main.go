package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	gan "github.com/LdDl/gan-utils"
	"github.com/LdDl/gan-utils/nbutils"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

var (
	outputFolder    = "./output"
	batchSize       = 4
	imgHeight       = 10
	imgWidth        = 9
	imgChannels     = 1
	latentSpaceSize = 16
	threshold       = 0.5
	faceData        = []float64{
		0, 1, 1, 0, 0, 0, 1, 1, 0,
		0, 1, 1, 0, 0, 0, 1, 1, 0,
		0, 1, 1, 0, 0, 0, 1, 1, 0,
		0, 1, 1, 0, 0, 0, 1, 1, 0,
		0, 0, 0, 0, 1, 0, 0, 0, 0,
		0, 0, 0, 0, 1, 0, 0, 0, 0,
		0, 0, 0, 1, 1, 1, 0, 0, 0,
		1, 1, 0, 0, 0, 0, 0, 1, 1,
		0, 1, 1, 1, 0, 1, 1, 1, 0,
		0, 0, 0, 1, 1, 1, 0, 0, 0,
	}
)

func printImage(pixels []float64) {
	for x := 0; x < imgHeight; x++ {
		fmt.Printf("\t")
		for y := 0; y < imgWidth; y++ {
			char := "x"
			if math.Round(pixels[x*imgWidth+y]) < 0.5 {
				char = " "
			}
			fmt.Printf("%s ", char)
		}
		fmt.Println()
	}
}

func main() {
	// Initialize seed with constant value to reproduce results
	rand.Seed(1337)
	nbutils.Help(os.Stdout)

	err := os.MkdirAll(outputFolder, 0755)
	if err != nil {
		panic(err)
	}

	fmt.Println("Actual smiley face:")
	printImage(faceData)
	dataset := tensor.New(tensor.WithShape(1, imgChannels, imgHeight, imgWidth), tensor.WithBacking(faceData))

	generatorGraph := gorgonia.NewGraph()
	generator, err := gan.NewGraphGenerator(generatorGraph, defineGenerator(generatorGraph), latentSpaceSize, batchSize)
	if err != nil {
		panic(err)
	}
	defer generator.Close()

	discriminatorGraph := gorgonia.NewGraph()
	discriminator, err := gan.NewDiscriminatorNet(discriminatorGraph, defineDiscriminator(discriminatorGraph), batchSize, imgChannels, imgHeight, imgWidth)
	if err != nil {
		panic(err)
	}
	defer discriminator.Close()

	assembler, err := gan.NewBatchAssembler(latentSpaceSize, batchSize, dataset, generator, gan.WithSeed(1337))
	if err != nil {
		panic(err)
	}

	// Unbalanced on purpose: 2 fakes and 6 reals
	batch, err := assembler.CombinedBatch(2, 6)
	if err != nil {
		panic(err)
	}
	truth, err := gan.LabelsToClasses(batch.Labels)
	if err != nil {
		panic(err)
	}
	fmt.Println("Classes before rebalancing:", nbutils.CountClasses(truth))
	rebalanced, rebalancedTruth, err := nbutils.Rebalance(rand.New(rand.NewSource(1337)), batch.Data, truth)
	if err != nil {
		panic(err)
	}
	fmt.Println("Classes after rebalancing:", nbutils.CountClasses(rebalancedTruth))
	err = nbutils.PlotHistogram(nbutils.IntsToValues(rebalancedTruth), 2, "Rebalanced classes", fmt.Sprintf("%s/classes_histogram.png", outputFolder))
	if err != nil {
		panic(err)
	}

	rebalancedBatch := &gan.Batch{
		Data:   rebalanced,
		Labels: labelsFromClasses(rebalancedTruth),
		Length: len(rebalancedTruth),
	}
	scores, err := discriminator.Score(rebalancedBatch)
	if err != nil {
		panic(err)
	}
	predicted := gan.Classify(scores, threshold)

	// Real samples go first in combined batch, generated ones are at the end
	err = nbutils.PlotSpecificImage(0, batch.Data, truth, nil, fmt.Sprintf("%s/real_sample.png", outputFolder))
	if err != nil {
		panic(err)
	}
	err = nbutils.PlotSpecificImage(batch.Length-1, batch.Data, truth, nil, fmt.Sprintf("%s/generated_sample.png", outputFolder))
	if err != nil {
		panic(err)
	}
	idx, err := nbutils.PlotRandomImage(nil, rebalanced, rebalancedTruth, predicted, fmt.Sprintf("%s/random_sample.png", outputFolder))
	if err != nil {
		panic(err)
	}
	fmt.Printf("Random sample #%d (truth %d, prediction %d):\n", idx, rebalancedTruth[idx], predicted[idx])
	sample, err := gan.SelectRows(rebalanced, []int{idx})
	if err != nil {
		panic(err)
	}
	printImage(sample.Data().([]float64))

	cm, err := nbutils.ConfusionMatrix(rebalancedTruth, predicted, 2)
	if err != nil {
		panic(err)
	}
	err = nbutils.PlotConfusionMatrix(cm, []string{"fake", "real"}, fmt.Sprintf("%s/confusion_matrix.png", outputFolder))
	if err != nil {
		panic(err)
	}
}

func labelsFromClasses(classes []int) *tensor.Dense {
	labels := make([]float64, len(classes))
	for i, c := range classes {
		labels[i] = float64(c)
	}
	return tensor.New(tensor.WithShape(len(classes), 1), tensor.WithBacking(labels))
}

func defineGenerator(g *gorgonia.ExprGraph) *gan.Network {
	/*
		latent(16) => linear(32) => linear(10*9) => reshape(batch,1,10,9)
	*/
	gen_w0 := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(32, latentSpaceSize), gorgonia.WithName("generator_w0"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	gen_w1 := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(imgHeight*imgWidth, 32), gorgonia.WithName("generator_w1"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	return &gan.Network{
		Name: "generator",
		Layers: []*gan.Layer{
			{
				WeightNode: gen_w0,
				Type:       gan.LayerLinear,
				Activation: gan.Rectify,
			},
			{
				WeightNode: gen_w1,
				Type:       gan.LayerLinear,
				Activation: gan.Sigmoid,
			},
			{
				Type:        gan.LayerReshape,
				ReshapeDims: []int{batchSize, imgChannels, imgHeight, imgWidth},
			},
		},
	}
}

func defineDiscriminator(g *gorgonia.ExprGraph) *gan.Network {
	/*
		input(10,9) => filters=12,size=3x3,conv(8,7) => filters=12,size=2x2,maxpool(4,3) => 12*flatten(4*3) => linear(1, 12*4*3)
	*/
	dis_w0 := gorgonia.NewTensor(g, gorgonia.Float64, 4, gorgonia.WithShape(12, imgChannels, 3, 3), gorgonia.WithName("discriminator_w0"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	dis_w1 := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(1, 12*4*3), gorgonia.WithName("discriminator_w1"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	return &gan.Network{
		Name: "discriminator",
		Layers: []*gan.Layer{
			{
				WeightNode:   dis_w0,
				Type:         gan.LayerConvolutional,
				Activation:   gan.Rectify,
				KernelHeight: 3,
				KernelWidth:  3,
				Padding:      []int{0, 0},
				Stride:       []int{1, 1},
				Dilation:     []int{1, 1},
			},
			{
				Type:         gan.LayerMaxpool,
				KernelHeight: 2,
				KernelWidth:  2,
				Padding:      []int{0, 0},
				Stride:       []int{2, 2},
			},
			{
				Type: gan.LayerFlatten,
			},
			{
				WeightNode: dis_w1,
				Type:       gan.LayerLinear,
				Activation: gan.Sigmoid,
			},
		},
	}
}
