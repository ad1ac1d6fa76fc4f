package rbf

import (
	"os"
	"testing"

	plt "github.com/phil-mansfield/pyplot"
)

// TestPyplotKernels draws the falloff curve of every registered kernel at
// unit radius. Needs a local python + matplotlib, so it only runs when
// GORETARGET_PYPLOT is set.
func TestPyplotKernels(t *testing.T) {
	if os.Getenv("GORETARGET_PYPLOT") == "" {
		t.Skip("Set GORETARGET_PYPLOT to draw kernel curves.")
	}

	plt.Reset()

	n := 200
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = 2 * float64(i) / float64(n-1)
	}

	styles := []string{"k", "r", "g", "b", "c", "m"}
	for i, name := range Names() {
		b, err := Lookup(name)
		if err != nil {
			t.Fatal(err.Error())
		}
		ys := make([]float64, n)
		for j, x := range xs {
			ys[j] = b.Fn(x, 1.0)
		}
		plt.Plot(xs, ys, styles[i%len(styles)], plt.LW(2))
	}

	plt.Show()
}
