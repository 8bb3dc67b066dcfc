package generators

import (
	"github.com/okieraised/go-detection-anchors/config"
	"github.com/okieraised/go-detection-anchors/processing"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// PointGenerator produces per-cell 2D locations instead of boxes, for
// FCOS-style point-based heads. Locations are derived per call from the
// feature map shapes; there is no cached base anchor state and no
// configured level count.
type PointGenerator struct {
	densePoints int
	center      bool
}

func NewPointGenerator(params *config.PointParams) (*PointGenerator, error) {
	if params == nil {
		return nil, errors.Wrap(ErrConfiguration, "fcos parameters are required")
	}
	switch params.DensePoints {
	case 1, 4, 5:
	default:
		return nil, errors.Wrapf(ErrConfiguration,
			"dense points only support 1, 4, 5, got %d", params.DensePoints)
	}
	return &PointGenerator{
		densePoints: params.DensePoints,
		center:      params.Center,
	}, nil
}

// BuildBaseAnchors is not part of the point generator's lifecycle:
// locations depend on each call's feature map shapes.
func (g *PointGenerator) BuildBaseAnchors(_ []int) ([]*tensor.Dense, error) {
	return nil, errors.Wrap(ErrContract, "point generators derive locations per call and hold no base anchors")
}

// GetAnchors returns one (h*w*dense_points, 2) location tensor per shape.
func (g *PointGenerator) GetAnchors(shapes []FeatureMapShape, eng tensor.Engine) ([]*tensor.Dense, error) {
	locations := make([]*tensor.Dense, 0, len(shapes))
	for idx, shape := range shapes {
		perLevel, err := processing.LocationsOverPlane(shape.H, shape.W, shape.Stride, g.densePoints, g.center, eng)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compute locations for level %d", idx)
		}
		locations = append(locations, perLevel)
	}
	return locations, nil
}

func (g *PointGenerator) Export() (*Export, error) {
	return &Export{
		AnchorType:  config.AnchorTypePoint,
		DensePoints: g.densePoints,
		Center:      g.center,
	}, nil
}

func (g *PointGenerator) NumAnchors() []int { return nil }

func (g *PointGenerator) NumLevel() int { return 0 }

func (g *PointGenerator) IsBuilt() bool { return false }
