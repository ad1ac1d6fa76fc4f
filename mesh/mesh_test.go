package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/goretarget/geom"
)

func lineMesh(n int) *Mesh {
	verts := make([]geom.Vec, n)
	for i := range verts {
		verts[i] = geom.Vec{float64(i), 0, 0}
	}
	return New("line", verts)
}

func TestPointsAll(t *testing.T) {
	m := lineMesh(5)
	pts, err := m.Points(DefaultSampleOptions())
	require.NoError(t, err)
	assert.Equal(t, m.Verts, pts, "all vertices in order")
}

func TestPointsMaskOrder(t *testing.T) {
	m := lineMesh(6)
	opt := DefaultSampleOptions()
	opt.Mask = []bool{false, true, true, false, true, true}

	pts, err := m.Points(opt)
	require.NoError(t, err)
	want := []geom.Vec{{1, 0, 0}, {2, 0, 0}, {4, 0, 0}, {5, 0, 0}}
	assert.Equal(t, want, pts, "masked vertices in ascending index order")

	// Determinism: the same options give the same output.
	again, err := m.Points(opt)
	require.NoError(t, err)
	assert.Equal(t, pts, again, "repeat sampling")
}

func TestPointsStride(t *testing.T) {
	m := lineMesh(10)
	opt := DefaultSampleOptions()
	opt.Stride = 3

	pts, err := m.Points(opt)
	require.NoError(t, err)
	want := []geom.Vec{{0, 0, 0}, {3, 0, 0}, {6, 0, 0}, {9, 0, 0}}
	assert.Equal(t, want, pts, "every third vertex")
}

func TestPointsMaskAndStride(t *testing.T) {
	m := lineMesh(10)
	opt := DefaultSampleOptions()
	// Vertices 2..8 selected: 7 masked vertices, stride 2 keeps the 1st,
	// 3rd, 5th and 7th of them.
	opt.Mask = []bool{false, false, true, true, true, true, true, true, true, false}
	opt.Stride = 2

	pts, err := m.Points(opt)
	require.NoError(t, err)
	want := []geom.Vec{{2, 0, 0}, {4, 0, 0}, {6, 0, 0}, {8, 0, 0}}
	assert.Equal(t, want, pts, "stride over the masked sequence")

	// ceil(masked/stride) points come out.
	assert.Equal(t, (7+1)/2, len(pts), "sample count")
}

func TestPointsLayer(t *testing.T) {
	m := lineMesh(3)
	layer := []geom.Vec{{0, 1, 0}, {1, 1, 0}, {2, 1, 0}}
	require.NoError(t, m.AddLayer("deformed", layer))

	opt := DefaultSampleOptions()
	opt.Layer = "deformed"
	pts, err := m.Points(opt)
	require.NoError(t, err)
	assert.Equal(t, layer, pts, "alternate coordinates")

	opt.Layer = "missing"
	_, err = m.Points(opt)
	assert.Error(t, err, "unknown layer")
}

func TestPointsTransform(t *testing.T) {
	m := lineMesh(2)
	opt := DefaultSampleOptions()
	opt.Matrix = geom.Translate(0, 0, 5)

	pts, err := m.Points(opt)
	require.NoError(t, err)
	assert.Equal(t, []geom.Vec{{0, 0, 5}, {1, 0, 5}}, pts, "transformed")
	assert.Equal(t, geom.Vec{0, 0, 0}, m.Verts[0], "mesh untouched")
}

func TestPointsPanics(t *testing.T) {
	m := lineMesh(4)

	opt := DefaultSampleOptions()
	opt.Stride = 0
	assert.Panics(t, func() { m.Points(opt) }, "zero stride")

	opt = DefaultSampleOptions()
	opt.Mask = []bool{true}
	assert.Panics(t, func() { m.Points(opt) }, "short mask")
}

func TestAddLayerLengthCheck(t *testing.T) {
	m := lineMesh(4)
	assert.Error(t, m.AddLayer("bad", make([]geom.Vec, 3)), "short layer")
	assert.NoError(t, m.AddLayer("ok", make([]geom.Vec, 4)), "full layer")
}

func TestNumSelected(t *testing.T) {
	m := lineMesh(4)
	assert.Equal(t, 4, m.NumSelected(), "no selection means all")

	m.Select = []bool{true, false, true, false}
	assert.Equal(t, 2, m.NumSelected(), "flag count")
}

func TestStride(t *testing.T) {
	assert.Equal(t, 1, Stride(1000, 1000), "exactly at cap")
	assert.Equal(t, 2, Stride(1001, 1000), "just past cap")
	assert.Equal(t, 1, Stride(999, 1000), "under cap")
	assert.Equal(t, 3, Stride(2500, 1000), "well past cap")
	assert.Equal(t, 1, Stride(4999, 5000), "high quality cap")
	assert.Equal(t, 1, Stride(0, 1000), "degenerate masked count")
	assert.Panics(t, func() { Stride(10, 0) }, "bad cap")
}

func TestStrideSampleCountAgreement(t *testing.T) {
	// The stride derived from a cap, applied through Points, never emits
	// more than the cap.
	cases := []struct{ verts, cap int }{
		{10, 3}, {100, 7}, {1000, 1000}, {1001, 1000}, {5000, 1000},
	}
	for _, c := range cases {
		m := lineMesh(c.verts)
		opt := DefaultSampleOptions()
		opt.Stride = Stride(c.verts, c.cap)

		pts, err := m.Points(opt)
		require.NoError(t, err)

		wantCount := (c.verts + opt.Stride - 1) / opt.Stride
		assert.Equal(t, wantCount, len(pts),
			"ceil(%d/%d) points", c.verts, opt.Stride)
		assert.LessOrEqual(t, len(pts), c.cap,
			"%d verts under cap %d", c.verts, c.cap)
	}
}
