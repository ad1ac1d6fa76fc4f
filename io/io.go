/*package io reads and writes the text files the retarget tool works with.

Meshes are stored as plain whitespace-separated tables with one vertex per
row and the x, y, z coordinates in the first three columns. Selection masks
use one row per vertex with a single column, where any non-zero value marks
the vertex selected. Transforms are 4x4 matrices stored one row per line.
*/
package io

import (
	"fmt"
	"os"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/goretarget/geom"
)

// ReadVecs reads one vector per row from the first three columns of the
// given table file.
func ReadVecs(file string) ([]geom.Vec, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2}, nil)
	if err != nil {
		return nil, err
	}
	xs, ys, zs := cols[0], cols[1], cols[2]

	vecs := make([]geom.Vec, len(xs))
	for i := range vecs {
		vecs[i] = geom.Vec{xs[i], ys[i], zs[i]}
	}
	return vecs, nil
}

// ReadMask reads a selection mask with one row per vertex. A vertex is
// selected if its value is non-zero.
func ReadMask(file string) ([]bool, error) {
	cols, err := table.ReadTable(file, []int{0}, nil)
	if err != nil {
		return nil, err
	}

	mask := make([]bool, len(cols[0]))
	for i, v := range cols[0] {
		mask[i] = v != 0
	}
	return mask, nil
}

// ReadMatrix reads a 4x4 transform stored as four rows of four columns.
// Rows in the file are rows of the matrix.
func ReadMatrix(file string) (geom.Mat4, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2, 3}, nil)
	if err != nil {
		return geom.Mat4{}, err
	}
	if len(cols[0]) != 4 {
		return geom.Mat4{}, fmt.Errorf(
			"matrix file %s has %d rows, not 4", file, len(cols[0]),
		)
	}

	m := geom.Mat4{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			// Column-major storage.
			m[col*4+row] = cols[col][row]
		}
	}
	return m, nil
}

// WriteVecs writes one vector per line in the format ReadVecs reads.
func WriteVecs(file string, vecs []geom.Vec) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, v := range vecs {
		_, err = fmt.Fprintf(f, "%g %g %g\n", v[0], v[1], v[2])
		if err != nil {
			return err
		}
	}
	return nil
}
