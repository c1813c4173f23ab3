package nbutils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPlotHistogram(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "hist.png")
	values := IntsToValues([]int{0, 1, 1, 2, 2, 2})
	if err := PlotHistogram(values, 3, "Labels", fname); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(fname); err != nil {
		t.Errorf("Plot was not saved: %v", err)
	}
	if err := PlotHistogram(nil, 3, "Empty", fname); err == nil {
		t.Error("Expected error for empty values")
	}
	if err := PlotHistogram(values, 0, "No bins", fname); err == nil {
		t.Error("Expected error for zero bins")
	}
}
