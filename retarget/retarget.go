/*package retarget implements the retarget operator: given a source mesh, a
deformed version of that mesh with identical topology and vertex order, and
any number of target meshes originally fit to the source, it computes new
vertex positions that make the targets follow the deformation.

The operator samples correspondence points from the source and destination,
fits a single affine + RBF model (see package rbf), and applies it to every
target, converting each target's points into the destination's local space
and back around the deformation. All inputs are read-only; results are
returned as explicit artifacts and written back by the caller.
*/
package retarget

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/goretarget/geom"
	"github.com/phil-mansfield/goretarget/logger"
	"github.com/phil-mansfield/goretarget/mesh"
	"github.com/phil-mansfield/goretarget/rbf"
)

// Correspondence point caps. The weight solve is a dense O(n^3)-ish
// factorization, so sampling is strided to keep n below these. In practice
// sampling more vertices of a dense mesh barely changes the result.
const (
	VertexCap            = 1000
	VertexCapHighQuality = 5000
)

var (
	// ErrEmptyInput means the source mesh has no vertices, or a selection
	// mask selects none.
	ErrEmptyInput = errors.New("empty input")
	// ErrMismatchedTopology means the source and destination vertex counts
	// differ, breaking the index correspondence the model depends on.
	ErrMismatchedTopology = errors.New("mismatched topology")
	// ErrSolveFailed mirrors rbf.ErrSolveFailed for callers that only
	// import this package.
	ErrSolveFailed = rbf.ErrSolveFailed
)

// Options configures a retarget invocation.
type Options struct {
	// Function names the RBF kernel (see rbf.Names).
	Function string
	// Radius is the smoothing parameter, scaled per kernel before use.
	Radius float64
	// OnlySelection samples correspondence points only from the source
	// mesh's selected vertices.
	OnlySelection bool
	// HighQuality raises the correspondence point cap from 1000 to 5000.
	HighQuality bool
	// AsLayer stores each result as a new named coordinate layer instead
	// of replacing base coordinates.
	AsLayer bool
	// DstLayer names a coordinate layer of the source mesh to use as the
	// deformed destination, instead of a separate destination mesh.
	DstLayer string
	// Threads bounds the number of concurrent per-target deforms.
	// Non-positive means the number of logical cores.
	Threads int
}

// DefaultOptions returns the options the operator was tuned for.
func DefaultOptions() Options {
	return Options{Function: rbf.DefaultKernel, Radius: 0.5}
}

// Result holds the retargeted positions for one target mesh. Nothing is
// written to the mesh until Apply is called.
type Result struct {
	Mesh   *mesh.Mesh
	Points []geom.Vec
	// Layer is the coordinate layer the points belong in, or empty if
	// they replace the base coordinates.
	Layer string
}

// Apply writes the result back to its mesh, either replacing the base
// coordinates or attaching the named layer.
func (r *Result) Apply() error {
	if r.Layer != "" {
		return r.Mesh.AddLayer(r.Layer, r.Points)
	}
	if len(r.Points) != r.Mesh.NumVerts() {
		return fmt.Errorf(
			"result has %d points for %d vertices of mesh %q",
			len(r.Points), r.Mesh.NumVerts(), r.Mesh.Name,
		)
	}
	r.Mesh.Verts = r.Points
	return nil
}

// Retarget fits the deformation model from src to dst and applies it to
// every target, returning one Result per processed target in input order.
// Targets that are the source or destination mesh are skipped, matching
// the interactive workflow where the selection usually includes both.
//
// All validation happens before any result is produced, and a solve
// failure aborts the whole batch: every target depends on the shared
// weight matrix.
func Retarget(
	src, dst *mesh.Mesh, targets []*mesh.Mesh, opt Options,
) ([]Result, error) {
	numVerts := src.NumVerts()
	if numVerts == 0 {
		return nil, fmt.Errorf(
			"%w: source mesh %q has no vertices", ErrEmptyInput, src.Name,
		)
	}

	dstMesh := dst
	if opt.DstLayer != "" {
		// The destination is a deformed coordinate layer of the source
		// itself, so topology matches by construction.
		dstMesh = src
		if _, ok := src.Layer(opt.DstLayer); !ok {
			return nil, fmt.Errorf(
				"source mesh %q has no coordinate layer %q",
				src.Name, opt.DstLayer,
			)
		}
	}
	if dstMesh.NumVerts() != numVerts {
		return nil, fmt.Errorf(
			"%w: source mesh %q has %d vertices, destination %q has %d",
			ErrMismatchedTopology, src.Name, numVerts,
			dstMesh.Name, dstMesh.NumVerts(),
		)
	}

	basis, err := rbf.Lookup(opt.Function)
	if err != nil {
		return nil, err
	}
	radius := opt.Radius * basis.Scale

	var mask []bool
	numMasked := numVerts
	if opt.OnlySelection {
		mask = src.Select
		numMasked = src.NumSelected()
	}
	if numMasked == 0 {
		return nil, fmt.Errorf(
			"%w: source mesh %q has no vertices selected",
			ErrEmptyInput, src.Name,
		)
	}

	vertexCap := VertexCap
	if opt.HighQuality {
		vertexCap = VertexCapHighQuality
	}
	stride := mesh.Stride(numMasked, vertexCap)

	sampleOpt := mesh.DefaultSampleOptions()
	sampleOpt.Mask = mask
	sampleOpt.Stride = stride
	srcPts, err := src.Points(sampleOpt)
	if err != nil {
		return nil, err
	}

	dstOpt := sampleOpt
	dstOpt.Layer = opt.DstLayer
	dstPts, err := dstMesh.Points(dstOpt)
	if err != nil {
		return nil, err
	}

	logger.Sugar.Debugf("retarget: verts=%d/%d stride=%d sampled=%d",
		numMasked, numVerts, stride, len(srcPts))

	weights, err := rbf.Solve(srcPts, dstPts, basis.Fn, radius)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to retarget, try a different function or radius: %w", err,
		)
	}

	layerName := ""
	if opt.AsLayer {
		layerName = "Retarget_" + dstMesh.Name
		if opt.DstLayer != "" {
			layerName += "_" + opt.DstLayer
		}
	}

	var work []*mesh.Mesh
	for _, tgt := range targets {
		if tgt == src || tgt == dst {
			continue
		}
		work = append(work, tgt)
	}

	// Each deform only reads srcPts and weights, so targets can run
	// concurrently; results keep input order.
	threads := opt.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	if threads > len(work) {
		threads = len(work)
	}

	out := make([]Result, len(work))
	errs := make([]error, len(work))
	jobs := make(chan int, len(work))
	var wg sync.WaitGroup

	for t := 0; t < threads; t++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i], errs[i] = retargetOne(
					work[i], dstMesh.Matrix, srcPts, weights,
					basis.Fn, radius, layerName,
				)
			}
		}()
	}
	for i := range work {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func retargetOne(
	tgt *mesh.Mesh, dstMatrix geom.Mat4, srcPts []geom.Vec,
	weights *mat.Dense, k rbf.Kernel, radius float64, layerName string,
) (Result, error) {
	if tgt.NumVerts() == 0 {
		return Result{}, fmt.Errorf(
			"%w: target mesh %q has no vertices", ErrEmptyInput, tgt.Name,
		)
	}

	invTgt, ok := tgt.Matrix.Inverted()
	if !ok {
		return Result{}, fmt.Errorf(
			"target mesh %q has a non-invertible transform", tgt.Name,
		)
	}
	// dstToObj carries points from destination local space to target
	// local space; objToDst is its inverse.
	dstToObj := invTgt.Mul(dstMatrix)
	objToDst, ok := dstToObj.Inverted()
	if !ok {
		return Result{}, fmt.Errorf(
			"destination transform for mesh %q is non-invertible", tgt.Name,
		)
	}

	sampleOpt := mesh.DefaultSampleOptions()
	sampleOpt.Matrix = objToDst
	pts, err := tgt.Points(sampleOpt)
	if err != nil {
		return Result{}, err
	}

	newPts := rbf.Deform(pts, srcPts, weights, k, radius)
	return Result{
		Mesh:   tgt,
		Points: dstToObj.TransformAll(newPts),
		Layer:  layerName,
	}, nil
}
