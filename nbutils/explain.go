package nbutils

import (
	"fmt"
	"io"
	"reflect"

	"gorgonia.org/tensor"
)

const sampleLimit = 77

type shaper interface {
	Shape() tensor.Shape
}

type dimser interface {
	Dims() (r, c int)
}

// Explain Prints brief overview of a variable: its type, size and a sample of its contents
//
// name - optional name of the variable used in the title
//
func Explain(w io.Writer, variable interface{}, name string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Explanation of variable %s\n", name)
	fmt.Fprintln(w, "===============================")
	fmt.Fprintf(w, "The type of this variable is %T\n", variable)
	fmt.Fprintln(w, describeSize(variable))

	sample := []rune(fmt.Sprint(variable))
	sampleStr := string(sample)
	if len(sample) > sampleLimit {
		sampleStr = string(sample[:sampleLimit]) + "..."
	}
	fmt.Fprintln(w, "Sample of the data:")
	fmt.Fprintln(w, sampleStr)
	fmt.Fprintln(w)
}

func describeSize(variable interface{}) string {
	switch v := variable.(type) {
	case shaper:
		return fmt.Sprintf("The dimensions of this variable are %v", v.Shape())
	case dimser:
		r, c := v.Dims()
		return fmt.Sprintf("The dimensions of this variable are (%d, %d)", r, c)
	}
	if variable != nil {
		switch reflect.TypeOf(variable).Kind() {
		case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
			return fmt.Sprintf("The length of this variable is '%d'", reflect.ValueOf(variable).Len())
		}
	}
	return "The dimensions of this variable are unknown, meaning it is either 0 dimensional or complex"
}

// helpers Available helpers with short description. Keep in sync with exported functions
var helpers = []struct {
	name        string
	description string
}{
	{"DiscretizePredictions", "argmax of every row of predictions"},
	{"PlotRandomImage", "plot random image with optional truth and prediction in title"},
	{"PlotSpecificImage", "plot n-th image with optional truth and prediction in title"},
	{"Explain", "print type, size and sample of a variable"},
	{"CountClasses", "count occurrences of every class"},
	{"RebalanceIndices", "indices oversampling every class up to the majority class"},
	{"Rebalance", "oversample tensor rows and labels up to the majority class"},
	{"PlotHistogram", "plot histogram of values"},
	{"ConfusionMatrix", "count (truth, prediction) pairs"},
	{"PlotConfusionMatrix", "plot confusion matrix as heat map"},
	{"Help", "print this message"},
}

// Help Prints description of the package and list of available helpers
func Help(w io.Writer) {
	fmt.Fprint(w,
		"\n"+
			"WELCOME!\n"+
			"This package contains various functions to help you keep your training programs straightforward. It has been developed"+
			" for a specific training and functions might not be as generic as you like.\n"+
			"Below is a list of helper-functions available:\n",
	)
	for _, h := range helpers {
		fmt.Fprintf(w, " - %s: %s\n", h.name, h.description)
	}
	fmt.Fprint(w, "\n\nFor more information run `go doc github.com/LdDl/gan-utils/nbutils.<FunctionName>`. For example `go doc github.com/LdDl/gan-utils/nbutils.Help`\n")
}
