package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestAnchorsOverPlane(t *testing.T) {
	baseAnchor := tensor.New(
		tensor.Of(tensor.Float32),
		tensor.WithShape(1, 4),
		tensor.WithBacking([]float32{-4, -4, 4, 4}),
	)

	anchors, err := AnchorsOverPlane(baseAnchor, 2, 3, 8, nil)
	require.NoError(t, err)
	require.Equal(t, []int{6, 4}, []int(anchors.Shape()))

	data := anchors.Float32s()
	// Cell (0, 0) carries the unshifted base anchor.
	assert.Equal(t, []float32{-4, -4, 4, 4}, data[0:4])
	// Cell (row=1, col=2) sits at flat index 5 and is shifted by
	// (16, 8, 16, 8).
	assert.Equal(t, []float32{12, 4, 20, 12}, data[5*4:5*4+4])
}

func TestAnchorsOverPlane_AnchorIndexFastest(t *testing.T) {
	baseAnchors := tensor.New(
		tensor.Of(tensor.Float32),
		tensor.WithShape(2, 4),
		tensor.WithBacking([]float32{
			-4, -4, 4, 4,
			-8, -8, 8, 8,
		}),
	)

	anchors, err := AnchorsOverPlane(baseAnchors, 1, 2, 16, nil)
	require.NoError(t, err)
	require.Equal(t, []int{4, 4}, []int(anchors.Shape()))

	data := anchors.Float32s()
	// Both anchors of cell (0, 0) precede any anchor of cell (0, 1).
	assert.Equal(t, []float32{-4, -4, 4, 4}, data[0:4])
	assert.Equal(t, []float32{-8, -8, 8, 8}, data[4:8])
	assert.Equal(t, []float32{12, -4, 20, 4}, data[8:12])
	assert.Equal(t, []float32{8, -8, 24, 8}, data[12:16])
}

func TestAnchorsOverPlane_BadBaseShape(t *testing.T) {
	baseAnchor := tensor.New(
		tensor.Of(tensor.Float32),
		tensor.WithShape(4),
		tensor.WithBacking([]float32{-4, -4, 4, 4}),
	)
	_, err := AnchorsOverPlane(baseAnchor, 1, 1, 8, nil)
	assert.Error(t, err)
}

func TestLocationsOverPlane_SingleCellDense5(t *testing.T) {
	locations, err := LocationsOverPlane(1, 1, 8, 5, true, nil)
	require.NoError(t, err)
	require.Equal(t, []int{5, 2}, []int(locations.Shape()))

	data := locations.Float32s()
	assert.Equal(t, []float32{
		2, 2,
		6, 2,
		4, 4,
		2, 6,
		6, 6,
	}, data)
}

func TestLocationsOverPlane_RowMajorOrder(t *testing.T) {
	locations, err := LocationsOverPlane(2, 2, 8, 1, false, nil)
	require.NoError(t, err)
	require.Equal(t, []int{4, 2}, []int(locations.Shape()))

	data := locations.Float32s()
	assert.Equal(t, []float32{
		0, 0,
		8, 0,
		0, 8,
		8, 8,
	}, data)
}

func TestLocationsOverPlane_Dense4(t *testing.T) {
	locations, err := LocationsOverPlane(1, 1, 16, 4, true, nil)
	require.NoError(t, err)
	require.Equal(t, []int{4, 2}, []int(locations.Shape()))

	data := locations.Float32s()
	assert.Equal(t, []float32{
		4, 4,
		12, 4,
		4, 12,
		12, 12,
	}, data)
}

func TestLocationsOverPlane_UnsupportedDensePoints(t *testing.T) {
	_, err := LocationsOverPlane(1, 1, 8, 3, true, nil)
	assert.Error(t, err)
}
