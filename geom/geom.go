/*package geom contains the vector and affine transform types shared by the
rest of goretarget. Everything here is double precision: retargeting feeds
these values into a dense linear solve, and float32 round-off is visible in
the interpolation residuals.
*/
package geom

import (
	"math"
)

// Vec is a three dimensional vector.
type Vec [3]float64

// Add returns u + v.
func (u Vec) Add(v Vec) Vec {
	return Vec{u[0] + v[0], u[1] + v[1], u[2] + v[2]}
}

// Sub returns u - v.
func (u Vec) Sub(v Vec) Vec {
	return Vec{u[0] - v[0], u[1] - v[1], u[2] - v[2]}
}

// Scale returns u * s.
func (u Vec) Scale(s float64) Vec {
	return Vec{u[0] * s, u[1] * s, u[2] * s}
}

// Norm returns the Euclidean length of u.
func (u Vec) Norm() float64 {
	return math.Sqrt(u[0]*u[0] + u[1]*u[1] + u[2]*u[2])
}

// Distance returns the Euclidean distance between u and v.
func (u Vec) Distance(v Vec) float64 {
	dx := u[0] - v[0]
	dy := u[1] - v[1]
	dz := u[2] - v[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Centroid returns the mean of the given points. It panics if pts is empty.
func Centroid(pts []Vec) Vec {
	if len(pts) == 0 {
		panic("Centroid of empty point set.")
	}

	sum := Vec{}
	for _, pt := range pts {
		sum = sum.Add(pt)
	}
	return sum.Scale(1 / float64(len(pts)))
}
