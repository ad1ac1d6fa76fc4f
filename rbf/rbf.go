package rbf

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/goretarget/geom"
)

// ErrSolveFailed is returned by Solve when the interpolation system is
// singular or too ill-conditioned to solve. This depends on the
// kernel/radius/point combination (the compact-support C2 basis is the
// usual culprit); the remedy is a different kernel or radius, not a retry.
var ErrSolveFailed = errors.New("RBF solve failed")

// DistanceMatrix returns the len(query) x len(ref) matrix with entry [i,j]
// equal to k applied to the Euclidean distance between query[i] and ref[j].
// No regularization is applied: numerical stability is controlled entirely
// through the radius and the point count.
func DistanceMatrix(query, ref []geom.Vec, k Kernel, radius float64) *mat.Dense {
	d := mat.NewDense(len(query), len(ref), nil)
	for i, q := range query {
		for j, p := range ref {
			d.Set(i, j, k(q.Distance(p), radius))
		}
	}
	return d
}

// Solve fits an affine + RBF model mapping src onto dst and returns the
// (N+4)x3 weight matrix: N rows of per-point RBF coefficients followed by 4
// rows of affine coefficients (constant, then linear x/y/z) in homogeneous
// form. The model reproduces dst exactly at each src point.
//
// src and dst must be the same length and non-empty; violating either is a
// caller bug and panics. Returns an error wrapping ErrSolveFailed if the
// system cannot be solved.
func Solve(src, dst []geom.Vec, k Kernel, radius float64) (*mat.Dense, error) {
	if len(src) == 0 {
		panic("Solve requires at least one correspondence point.")
	} else if len(src) != len(dst) {
		panic("len(src) != len(dst).")
	}

	n := len(src)

	// The bordered system
	//     [ K  1  P ] [w]   [dst]
	//     [ 1' 0  0 ] [c] = [ 0 ]
	//     [ P' 0  0 ]
	// where K is the kernel distance matrix of src against itself and
	// P holds the src coordinates.
	a := mat.NewDense(n+4, n+4, nil)
	for i, p := range src {
		for j, q := range src {
			a.Set(i, j, k(p.Distance(q), radius))
		}
		a.Set(i, n, 1)
		a.Set(n, i, 1)
		for c := 0; c < 3; c++ {
			a.Set(i, n+1+c, p[c])
			a.Set(n+1+c, i, p[c])
		}
	}

	b := mat.NewDense(n+4, 3, nil)
	for i, p := range dst {
		b.Set(i, 0, p[0])
		b.Set(i, 1, p[1])
		b.Set(i, 2, p[2])
	}

	var lu mat.LU
	lu.Factorize(a)

	w := mat.NewDense(n+4, 3, nil)
	if err := lu.SolveTo(w, false, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolveFailed, err)
	}
	return w, nil
}

// Deform applies a model fit by Solve to query, returning the deformed
// points. Query points that coincide with a src point reproduce the
// corresponding dst point exactly; everywhere else the model extrapolates
// smoothly per the kernel's falloff.
//
// k and radius must match the values given to Solve. Panics if the weight
// dimensions don't correspond to src.
func Deform(
	query, src []geom.Vec, weights *mat.Dense, k Kernel, radius float64,
) []geom.Vec {
	n := len(src)
	if rows, cols := weights.Dims(); rows != n+4 || cols != 3 {
		panic(fmt.Sprintf(
			"weights are %d x %d, but src needs %d x 3.", rows, cols, n+4,
		))
	}

	// H = [D | 1 | query] in homogeneous form, matching the weight layout.
	h := mat.NewDense(len(query), n+4, nil)
	for i, q := range query {
		for j, p := range src {
			h.Set(i, j, k(q.Distance(p), radius))
		}
		h.Set(i, n, 1)
		for c := 0; c < 3; c++ {
			h.Set(i, n+1+c, q[c])
		}
	}

	var out mat.Dense
	out.Mul(h, weights)

	pts := make([]geom.Vec, len(query))
	for i := range pts {
		pts[i] = geom.Vec{out.At(i, 0), out.At(i, 1), out.At(i, 2)}
	}
	return pts
}
