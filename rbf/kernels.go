/*package rbf fits and applies radial basis function deformation models. A
model is fit from two point sets with matching order, source and destination,
and maps any query point smoothly so that every source point lands exactly on
its destination point. An affine term makes pure translation, rotation and
scaling exactly representable with no RBF contribution.
*/
package rbf

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Kernel is a scalar radial basis function. d is a non-negative Euclidean
// distance and r the effective radius; kernels that use the radius divide
// by it internally.
type Kernel func(d, r float64) float64

// Linear is the identity kernel. It ignores the radius.
func Linear(d, r float64) float64 { return d }

// Gaussian is exp(-(d/r)^2).
func Gaussian(d, r float64) float64 {
	a := d / r
	return math.Exp(-a * a)
}

// ThinPlate is a^2 ln(a) for a = d/r, with the a = 0 singularity mapped
// to 0.
func ThinPlate(d, r float64) float64 {
	a := d / r
	if a == 0 {
		return 0
	}
	return a * a * math.Log(a)
}

// MultiQuadraticBiharmonic is sqrt(1 + (d/r)^2).
func MultiQuadraticBiharmonic(d, r float64) float64 {
	a := d / r
	return math.Sqrt(1 + a*a)
}

// InvMultiQuadraticBiharmonic is 1 / sqrt(1 + (d/r)^2).
func InvMultiQuadraticBiharmonic(d, r float64) float64 {
	a := d / r
	return 1 / math.Sqrt(1+a*a)
}

// BeckertWendlandC2 is the compactly supported Beckert-Wendland C2 basis,
// (1-a)^4 (4a+1) for a = d/r < 1 and exactly zero beyond the support
// radius.
func BeckertWendlandC2(d, r float64) float64 {
	a := d / r
	if a >= 1 {
		return 0
	}
	b := 1 - a
	b2 := b * b
	return b2 * b2 * (4*a + 1)
}

// Basis pairs a kernel with the scale factor applied to the user-facing
// radius before evaluation. The scales were tuned so that equal radii have
// a comparable visual effect across kernels.
type Basis struct {
	Fn    Kernel
	Scale float64
}

// DefaultKernel is the kernel used when the caller expresses no preference.
// The biharmonic basis is the least prone to blowing up without being too
// slidy.
const DefaultKernel = "biharmonic"

var bases = map[string]Basis{
	"linear":         {Linear, 1.0},
	"gaussian":       {Gaussian, 0.01},
	"thin-plate":     {ThinPlate, 0.001},
	"biharmonic":     {MultiQuadraticBiharmonic, 0.01},
	"inv-biharmonic": {InvMultiQuadraticBiharmonic, 0.01},
	"c2":             {BeckertWendlandC2, 1.0},
}

// ErrUnknownKernel is returned by Lookup for names outside the kernel
// registry.
var ErrUnknownKernel = errors.New("unknown RBF kernel")

// Lookup returns the named basis. Names are case-insensitive. An
// unrecognized name is a hard error rather than a fallback to Linear so
// that configuration typos don't silently change results.
func Lookup(name string) (Basis, error) {
	b, ok := bases[strings.ToLower(name)]
	if !ok {
		return Basis{}, fmt.Errorf(
			"%w: %q (expected one of %s)",
			ErrUnknownKernel, name, strings.Join(Names(), ", "),
		)
	}
	return b, nil
}

// Names returns the sorted names of every registered kernel.
func Names() []string {
	names := make([]string, 0, len(bases))
	for name := range bases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
