package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWHCtrs(t *testing.T) {
	w, h, centerX, centerY := WHCtrs([]float32{0, 0, 15, 15})
	assert.Equal(t, float32(16), w)
	assert.Equal(t, float32(16), h)
	assert.Equal(t, float32(7.5), centerX)
	assert.Equal(t, float32(7.5), centerY)
}

func TestMkAnchors(t *testing.T) {
	anchors, err := MkAnchors([]float32{16}, []float32{16}, 7.5, 7.5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, []int(anchors.Shape()))
	assert.Equal(t, []float32{0, 0, 15, 15}, anchors.Float32s())
}

func TestMkAnchors_LengthMismatch(t *testing.T) {
	_, err := MkAnchors([]float32{16, 32}, []float32{16}, 0, 0)
	assert.Error(t, err)
}

func TestRatioEnum(t *testing.T) {
	anchors, err := RatioEnum([]float32{0, 0, 15, 15}, []float32{0.5, 1, 2})
	require.NoError(t, err)
	require.Equal(t, []int{3, 4}, []int(anchors.Shape()))

	// Area 256 redistributed per ratio with whole-pixel rounding.
	data := anchors.Float32s()
	assert.Equal(t, float32(23), data[2]-data[0]+1)
	assert.Equal(t, float32(12), data[3]-data[1]+1)
	assert.Equal(t, float32(16), data[6]-data[4]+1)
	assert.Equal(t, float32(16), data[7]-data[5]+1)
	assert.Equal(t, float32(11), data[10]-data[8]+1)
	assert.Equal(t, float32(22), data[11]-data[9]+1)
}

func TestScaleEnum(t *testing.T) {
	anchors, err := ScaleEnum([]float32{0, 0, 15, 15}, []float32{8, 16})
	require.NoError(t, err)
	require.Equal(t, []int{2, 4}, []int(anchors.Shape()))

	data := anchors.Float32s()
	assert.Equal(t, float32(128), data[2]-data[0]+1)
	assert.Equal(t, float32(256), data[6]-data[4]+1)
	// Center is preserved across scales.
	assert.Equal(t, float32(7.5), data[0]+0.5*(data[2]-data[0]))
	assert.Equal(t, float32(7.5), data[4]+0.5*(data[6]-data[4]))
}

func TestAnchorsOverGrid_Legacy(t *testing.T) {
	anchors, err := AnchorsOverGrid([]float32{0.5, 1, 2}, []float32{8, 16}, 16, false)
	require.NoError(t, err)
	require.Equal(t, []int{6, 4}, []int(anchors.Shape()))

	// Rows are ratio-major; rows 2 and 3 hold ratio 1 and stay square.
	rows := anchors.Float32s()
	for _, rowIdx := range []int{2, 3} {
		row := rows[rowIdx*4 : rowIdx*4+4]
		assert.Equal(t, row[2]-row[0], row[3]-row[1], "row %d should be square", rowIdx)
	}
}

func TestAnchorsOverGrid_Aligned(t *testing.T) {
	anchors, err := AnchorsOverGrid([]float32{1}, []float32{8}, 16, true)
	require.NoError(t, err)
	require.Equal(t, []int{1, 4}, []int(anchors.Shape()))
	assert.Equal(t, []float32{-64, -64, 64, 64}, anchors.Float32s())
}

func TestAnchorsOverGrid_AlignedCenteredOnOrigin(t *testing.T) {
	anchors, err := AnchorsOverGrid([]float32{0.5, 1, 2}, []float32{4, 8}, 8, true)
	require.NoError(t, err)
	require.Equal(t, []int{6, 4}, []int(anchors.Shape()))

	data := anchors.Float32s()
	for i := 0; i < 6; i++ {
		row := data[i*4 : i*4+4]
		assert.InDelta(t, 0, row[0]+row[2], 1e-5)
		assert.InDelta(t, 0, row[1]+row[3], 1e-5)
	}
}
