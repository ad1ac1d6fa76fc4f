package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/goretarget/geom"
)

func writeFile(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0666))
	return path
}

func TestReadWriteVecs(t *testing.T) {
	vecs := []geom.Vec{{0, 0, 0}, {1.5, -2, 0.25}, {1e-3, 2e3, 3}}
	path := filepath.Join(t.TempDir(), "verts.txt")

	require.NoError(t, WriteVecs(path, vecs))
	got, err := ReadVecs(path)
	require.NoError(t, err)
	assert.Equal(t, vecs, got, "round trip")
}

func TestReadMask(t *testing.T) {
	path := writeFile(t, "mask.txt", "1\n0\n0\n2\n1\n")
	mask, err := ReadMask(path)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false, true, true}, mask)
}

func TestReadMatrix(t *testing.T) {
	path := writeFile(t, "matrix.txt",
		"1 0 0 5\n0 1 0 6\n0 0 1 7\n0 0 0 1\n")
	m, err := ReadMatrix(path)
	require.NoError(t, err)
	assert.Equal(t, geom.Translate(5, 6, 7), m, "rows in the file are rows")

	bad := writeFile(t, "bad.txt", "1 0 0 0\n0 1 0 0\n")
	_, err = ReadMatrix(bad)
	assert.Error(t, err, "wrong row count")
}

func TestExampleRetargetFileParses(t *testing.T) {
	wrap := DefaultRetargetWrapper()
	require.NoError(t, gcfg.ReadStringInto(wrap, ExampleRetargetFile))
	con := &wrap.Retarget

	assert.Equal(t, "path/to/source.txt", con.Source)
	assert.Equal(t, "path/to/destination.txt", con.Destination)
	assert.Equal(t,
		[]string{"path/to/target_a.txt", "path/to/target_b.txt"},
		con.Target,
	)
	assert.Equal(t, "path/to/output/dir", con.Output)
	assert.Equal(t, "biharmonic", con.Function, "default survives parsing")
	assert.Equal(t, 0.5, con.Radius)
	assert.True(t, con.ValidFunction())
	assert.True(t, con.ValidRadius())
	assert.True(t, con.ValidLogLevel())
}

func TestReadRetargetConfig(t *testing.T) {
	good := writeFile(t, "good.cfg", `[Retarget]
Source = src.txt
Destination = dst.txt
Target = tgt.txt
Output = out
Function = c2
Radius = 2
`)
	con, err := ReadRetargetConfig(good)
	require.NoError(t, err)
	assert.Equal(t, "c2", con.Function)
	assert.Equal(t, 2.0, con.Radius)

	noDst := writeFile(t, "nodst.cfg", `[Retarget]
Source = src.txt
Target = tgt.txt
Output = out
`)
	_, err = ReadRetargetConfig(noDst)
	assert.Error(t, err, "missing Destination and DstLayer")

	badFn := writeFile(t, "badfn.cfg", `[Retarget]
Source = src.txt
Destination = dst.txt
Target = tgt.txt
Output = out
Function = cubic
`)
	_, err = ReadRetargetConfig(badFn)
	assert.Error(t, err, "unknown kernel rejected up front")

	badMat := writeFile(t, "badmat.cfg", `[Retarget]
Source = src.txt
Destination = dst.txt
Target = tgt.txt
Target = tgt2.txt
Output = out
TargetMatrix = only_one.txt
`)
	_, err = ReadRetargetConfig(badMat)
	assert.Error(t, err, "matrix count mismatch")
}
