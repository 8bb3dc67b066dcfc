package processing

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/okieraised/go-detection-anchors/utils"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Anchor rows are corner-form (x1, y1, x2, y2) float32 boxes using the
// inclusive pixel convention: width = x2 - x1 + 1. All primitives in this
// package share that convention; mixing it with center-aligned boxes
// produces silently wrong geometry.

// WHCtrs returns width, height and center coordinates of an anchor row.
func WHCtrs(anchor []float32) (float32, float32, float32, float32) {
	w := anchor[2] - anchor[0] + 1
	h := anchor[3] - anchor[1] + 1
	centerX := anchor[0] + 0.5*(w-1)
	centerY := anchor[1] + 0.5*(h-1)

	return w, h, centerX, centerY
}

// MkAnchors builds corner boxes around a shared center from element-wise
// paired width and height vectors.
func MkAnchors(ws, hs []float32, centerX, centerY float32) (*tensor.Dense, error) {
	if len(ws) != len(hs) {
		return nil, errors.Errorf("got %d widths but %d heights", len(ws), len(hs))
	}

	backing := make([]float32, 0, len(ws)*4)
	for i := range ws {
		backing = append(backing,
			centerX-0.5*(ws[i]-1),
			centerY-0.5*(hs[i]-1),
			centerX+0.5*(ws[i]-1),
			centerY+0.5*(hs[i]-1),
		)
	}

	anchors := tensor.New(
		tensor.Of(tensor.Float32),
		tensor.WithShape(len(ws), 4),
		tensor.WithBacking(backing),
	)
	return anchors, nil
}

// RatioEnum enumerates one anchor per aspect ratio, holding the anchor
// area constant. Widths and heights are rounded to whole pixels.
func RatioEnum(anchor []float32, ratios []float32) (*tensor.Dense, error) {
	w, h, centerX, centerY := WHCtrs(anchor)
	size := w * h

	ws := make([]float32, len(ratios))
	hs := make([]float32, len(ratios))
	for i, ratio := range ratios {
		ws[i] = RoundHalfEven(math32.Sqrt(size / ratio))
		hs[i] = RoundHalfEven(ws[i] * ratio)
	}

	return MkAnchors(ws, hs, centerX, centerY)
}

// RoundHalfEven rounds to the nearest integer with ties going to the even
// neighbor, matching the numpy/torch rounding the anchor formulas were
// tuned against. Corner coordinates land exactly on .5 whenever a box
// side is even, so the tie-breaking rule is observable.
func RoundHalfEven(v float32) float32 {
	return float32(math.RoundToEven(float64(v)))
}

// ScaleEnum enumerates one anchor per scale, holding the aspect constant.
func ScaleEnum(anchor []float32, scales []float32) (*tensor.Dense, error) {
	w, h, centerX, centerY := WHCtrs(anchor)

	ws := make([]float32, len(scales))
	hs := make([]float32, len(scales))
	for i, scale := range scales {
		ws[i] = w * scale
		hs[i] = h * scale
	}

	return MkAnchors(ws, hs, centerX, centerY)
}

// AnchorsOverGrid generates the len(ratios)*len(scales) reference anchors
// for one stride-sized cell.
//
// Aligned mode computes float anchors centered at (0, 0) so the anchor
// center coincides with the pixel center. Legacy mode enumerates ratios
// then scales from a (0, 0, stride-1, stride-1) reference window, with
// rounding at the ratio step.
func AnchorsOverGrid(ratios, scales []float32, stride int, aligned bool) (*tensor.Dense, error) {
	if aligned {
		return alignedAnchorsOverGrid(ratios, scales, stride)
	}

	refAnchor := []float32{0, 0, float32(stride) - 1, float32(stride) - 1}
	ratioAnchors, err := RatioEnum(refAnchor, ratios)
	if err != nil {
		return nil, err
	}

	ratioRows, err := utils.TensorRows(ratioAnchors)
	if err != nil {
		return nil, err
	}

	scaledAnchors := make([]*tensor.Dense, 0, len(ratioRows))
	for _, row := range ratioRows {
		scaled, err := ScaleEnum(row, scales)
		if err != nil {
			return nil, err
		}
		scaledAnchors = append(scaledAnchors, scaled)
	}

	return utils.VStack(scaledAnchors)
}

func alignedAnchorsOverGrid(ratios, scales []float32, stride int) (*tensor.Dense, error) {
	base := float32(stride)

	backing := make([]float32, 0, len(ratios)*len(scales)*4)
	for _, ratio := range ratios {
		hRatio := math32.Sqrt(ratio)
		wRatio := 1 / hRatio
		for _, scale := range scales {
			w := base * wRatio * scale
			h := base * hRatio * scale
			backing = append(backing, -0.5*w, -0.5*h, 0.5*w, 0.5*h)
		}
	}

	anchors := tensor.New(
		tensor.Of(tensor.Float32),
		tensor.WithShape(len(ratios)*len(scales), 4),
		tensor.WithBacking(backing),
	)
	return anchors, nil
}
