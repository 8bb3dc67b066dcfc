package generators

import (
	"github.com/okieraised/go-detection-anchors/processing"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// FeatureMapShape describes one pyramid level's spatial grid at a given
// input resolution. N is H*W times the anchors per cell.
type FeatureMapShape struct {
	H      int `json:"h"`
	W      int `json:"w"`
	N      int `json:"n"`
	Stride int `json:"stride"`
}

// Generator is the uniform contract shared by all anchor generator
// variants. Base anchors are built at most once per instance and frozen;
// a built generator is read-only and safe for concurrent readers.
type Generator interface {
	// BuildBaseAnchors builds (or returns the cached) per-level anchors
	// over a single cell. Once built, later calls return the cached
	// tensors and ignore their stride argument.
	BuildBaseAnchors(strides []int) ([]*tensor.Dense, error)

	// GetAnchors spreads the base anchors over each level's feature map
	// plane. eng selects the tensor backend; nil means the default CPU
	// engine.
	GetAnchors(shapes []FeatureMapShape, eng tensor.Engine) ([]*tensor.Dense, error)

	// Export returns a JSON-serializable record of the generator's
	// configuration and resolved anchors.
	Export() (*Export, error)

	// NumAnchors reports the anchors per cell for each level.
	NumAnchors() []int

	NumLevel() int

	IsBuilt() bool
}

// baseAnchorCache carries the build-once-then-freeze state shared by the
// box generator variants.
type baseAnchorCache struct {
	numAnchors  []int
	numLevel    int
	baseAnchors []*tensor.Dense
}

func (c *baseAnchorCache) NumAnchors() []int { return c.numAnchors }

func (c *baseAnchorCache) NumLevel() int { return c.numLevel }

func (c *baseAnchorCache) IsBuilt() bool { return c.baseAnchors != nil }

// boxAnchors is the GetAnchors flow shared by the box generator variants:
// take per-level strides from the shapes, build or reuse the base
// anchors, then spread each level over its plane.
func boxAnchors(g Generator, shapes []FeatureMapShape, eng tensor.Engine) ([]*tensor.Dense, error) {
	strides := make([]int, 0, len(shapes))
	for _, shape := range shapes {
		strides = append(strides, shape.Stride)
	}

	baseAnchors, err := g.BuildBaseAnchors(strides)
	if err != nil {
		return nil, err
	}
	if len(baseAnchors) != len(shapes) {
		return nil, errors.Wrapf(ErrContract,
			"got %d feature map shapes for %d configured levels", len(shapes), len(baseAnchors))
	}

	mlvlAnchors := make([]*tensor.Dense, 0, len(shapes))
	for idx, shape := range shapes {
		anchors, err := processing.AnchorsOverPlane(baseAnchors[idx], shape.H, shape.W, shape.Stride, eng)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to spread anchors for level %d", idx)
		}
		mlvlAnchors = append(mlvlAnchors, anchors)
	}
	return mlvlAnchors, nil
}
