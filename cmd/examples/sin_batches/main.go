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

func generateX() float64 {
	return 2 * math.Pi * rand.Float64()
}

func generateY(x float64) float64 {
	return math.Sin(x)
}

var (
	outputFolder    = "./output"
	batchSize       = 16
	latentSpaceSize = 2
	hiddenSize      = 16
	numBatches      = 20
	threshold       = 0.5
)

func main() {
	// Initialize seed with constant value to reproduce results
	rand.Seed(1337)

	// Prepare synthetic data
	trainDataLength := 1024
	dataset, err := gan.GenerateDataset(trainDataLength, generateX, generateY)
	if err != nil {
		panic(err)
	}
	nbutils.Explain(os.Stdout, dataset, "dataset")
	err = os.MkdirAll(outputFolder, 0755)
	if err != nil {
		panic(err)
	}
	err = plotSamples(dataset, fmt.Sprintf("%s/reference_function.png", outputFolder))
	if err != nil {
		panic(err)
	}

	// Generator and Discriminator live on their own evaluation graphs
	generatorGraph := gorgonia.NewGraph()
	generator, err := gan.NewGraphGenerator(generatorGraph, defineGenerator(generatorGraph), latentSpaceSize, batchSize)
	if err != nil {
		panic(err)
	}
	defer generator.Close()

	discriminatorGraph := gorgonia.NewGraph()
	discriminator, err := gan.NewDiscriminatorNet(discriminatorGraph, defineDiscriminator(discriminatorGraph), batchSize, 2)
	if err != nil {
		panic(err)
	}
	defer discriminator.Close()

	assembler, err := gan.NewBatchAssembler(latentSpaceSize, batchSize, dataset, generator, gan.WithSeed(1337))
	if err != nil {
		panic(err)
	}

	latentBatch, err := assembler.LatentBatch()
	if err != nil {
		panic(err)
	}
	nbutils.Explain(os.Stdout, latentBatch.Data, "latent vectors")

	truth := []int{}
	predicted := []int{}
	allScores := []float64{}
	var lastBatch *gan.Batch
	for b := 0; b < numBatches; b++ {
		batch, err := assembler.EqualCombinedBatch()
		if err != nil {
			panic(err)
		}
		scores, err := discriminator.Score(batch)
		if err != nil {
			panic(err)
		}
		batchTruth, err := gan.LabelsToClasses(batch.Labels)
		if err != nil {
			panic(err)
		}
		truth = append(truth, batchTruth...)
		predicted = append(predicted, gan.Classify(scores, threshold)...)
		allScores = append(allScores, scores...)
		lastBatch = batch
	}
	fmt.Printf("Scored %d batches (%d samples)\n", numBatches, len(truth))

	err = plotSamples(lastBatch.Data, fmt.Sprintf("%s/combined_batch.png", outputFolder))
	if err != nil {
		panic(err)
	}
	err = nbutils.PlotHistogram(allScores, 20, "Discriminator scores", fmt.Sprintf("%s/scores_histogram.png", outputFolder))
	if err != nil {
		panic(err)
	}
	cm, err := nbutils.ConfusionMatrix(truth, predicted, 2)
	if err != nil {
		panic(err)
	}
	nbutils.Explain(os.Stdout, cm, "confusion matrix")
	err = nbutils.PlotConfusionMatrix(cm, []string{"fake", "real"}, fmt.Sprintf("%s/confusion_matrix.png", outputFolder))
	if err != nil {
		panic(err)
	}
}

// plotSamples Plots (N, 2) points [x, y]
func plotSamples(samples *tensor.Dense, fname string) error {
	slicedXAxis, err := samples.Slice(nil, gorgonia.S(0))
	if err != nil {
		return err
	}
	slicedYAxis, err := samples.Slice(nil, gorgonia.S(1))
	if err != nil {
		return err
	}
	return gan.PlotXY(slicedXAxis.Materialize(), slicedYAxis.Materialize(), fname)
}

func defineGenerator(g *gorgonia.ExprGraph) *gan.Network {
	gen_w0 := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(hiddenSize, latentSpaceSize), gorgonia.WithName("generator_w0"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	gen_w1 := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(2, hiddenSize), gorgonia.WithName("generator_w1"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
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
				Activation: gan.NoActivation,
			},
		},
	}
}

func defineDiscriminator(g *gorgonia.ExprGraph) *gan.Network {
	dis_w0 := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(hiddenSize, 2), gorgonia.WithName("discriminator_w0"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	dis_w1 := gorgonia.NewMatrix(g, gorgonia.Float64, gorgonia.WithShape(1, hiddenSize), gorgonia.WithName("discriminator_w1"), gorgonia.WithInit(gorgonia.GlorotN(1.0)))
	return &gan.Network{
		Name: "discriminator",
		Layers: []*gan.Layer{
			{
				WeightNode: dis_w0,
				Type:       gan.LayerLinear,
				Activation: gan.Rectify,
			},
			{
				WeightNode: dis_w1,
				Type:       gan.LayerLinear,
				Activation: gan.Sigmoid,
			},
		},
	}
}
