package processing

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// AnchorsOverPlane replicates a level's base anchors over every cell of an
// h x w feature grid with the given stride. The output has shape
// (h*w*A, 4), flattened row-major over (row, col, anchor): downstream
// heads decode predictions positionally, so this order must not change.
//
// eng selects the tensor backend the result is placed on; nil uses the
// default CPU engine.
func AnchorsOverPlane(baseAnchors *tensor.Dense, featmapH, featmapW, featmapStride int, eng tensor.Engine) (*tensor.Dense, error) {
	shape := baseAnchors.Shape()
	if len(shape) != 2 || shape[1] != 4 {
		return nil, errors.Errorf("base anchors must have shape (A, 4), got %v", shape)
	}
	numAnchors := shape[0]
	base := baseAnchors.Float32s()

	backing := make([]float32, featmapH*featmapW*numAnchors*4)
	idx := 0
	for ih := 0; ih < featmapH; ih++ {
		shiftY := float32(ih * featmapStride)
		for iw := 0; iw < featmapW; iw++ {
			shiftX := float32(iw * featmapStride)
			for k := 0; k < numAnchors; k++ {
				backing[idx] = base[k*4] + shiftX
				backing[idx+1] = base[k*4+1] + shiftY
				backing[idx+2] = base[k*4+2] + shiftX
				backing[idx+3] = base[k*4+3] + shiftY
				idx += 4
			}
		}
	}

	opts := []tensor.ConsOpt{
		tensor.Of(tensor.Float32),
		tensor.WithShape(featmapH*featmapW*numAnchors, 4),
		tensor.WithBacking(backing),
	}
	if eng != nil {
		opts = append(opts, tensor.WithEngine(eng))
	}
	return tensor.New(opts...), nil
}

// LocationsOverPlane generates the per-cell point locations used by
// point-based detection heads, shape (h*w*densePoints, 2) in the same
// row-major cell order as AnchorsOverPlane with the constellation index
// varying fastest.
//
// center shifts every location by half a stride (integer division) so it
// sits on the cell center. densePoints of 4 or 5 replaces each location
// with corner points offset by a quarter stride, plus the exact center
// for 5.
func LocationsOverPlane(featmapH, featmapW, featmapStride, densePoints int, center bool, eng tensor.Engine) (*tensor.Dense, error) {
	offsets, err := denseOffsets(densePoints, featmapStride)
	if err != nil {
		return nil, err
	}

	halfStride := 0
	if center {
		halfStride = featmapStride / 2
	}

	backing := make([]float32, 0, featmapH*featmapW*densePoints*2)
	for ih := 0; ih < featmapH; ih++ {
		y := float32(ih*featmapStride + halfStride)
		for iw := 0; iw < featmapW; iw++ {
			x := float32(iw*featmapStride + halfStride)
			for _, off := range offsets {
				backing = append(backing, x+off[0], y+off[1])
			}
		}
	}

	opts := []tensor.ConsOpt{
		tensor.Of(tensor.Float32),
		tensor.WithShape(featmapH*featmapW*densePoints, 2),
		tensor.WithBacking(backing),
	}
	if eng != nil {
		opts = append(opts, tensor.WithEngine(eng))
	}
	return tensor.New(opts...), nil
}

func denseOffsets(densePoints, stride int) ([][2]float32, error) {
	step := float32(stride / 4)
	leftTop := [2]float32{-step, -step}
	rightTop := [2]float32{step, -step}
	leftBottom := [2]float32{-step, step}
	rightBottom := [2]float32{step, step}

	switch densePoints {
	case 1:
		return [][2]float32{{0, 0}}, nil
	case 4:
		return [][2]float32{leftTop, rightTop, leftBottom, rightBottom}, nil
	case 5:
		return [][2]float32{leftTop, rightTop, {0, 0}, leftBottom, rightBottom}, nil
	default:
		return nil, errors.Errorf("dense points only support 1, 4, 5, got %d", densePoints)
	}
}
