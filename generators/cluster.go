package generators

import (
	"github.com/okieraised/go-detection-anchors/config"
	"github.com/okieraised/go-detection-anchors/processing"
	"github.com/okieraised/go-detection-anchors/utils"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// ClusteredGenerator builds anchors from precomputed (width, height)
// pairs, typically k-means clustered over a dataset's ground-truth boxes.
// The shapes file is read once at construction; strides arrive at build
// time.
type ClusteredGenerator struct {
	baseAnchorCache
	shapes [][][2]float32
}

func NewClusteredGenerator(params *config.ClusterParams) (*ClusteredGenerator, error) {
	if params == nil {
		return nil, errors.Wrap(ErrConfiguration, "cluster parameters are required")
	}
	if params.NumLevel <= 0 || params.NumAnchorsPerLevel <= 0 {
		return nil, errors.Wrapf(ErrConfiguration,
			"cluster requires positive num_level and num_anchors_per_level, got %d and %d",
			params.NumLevel, params.NumAnchorsPerLevel)
	}

	var flat []float32
	if err := utils.LoadJSON(params.BaseAnchorsFile, &flat); err != nil {
		return nil, errors.Wrapf(ErrConfiguration, "failed to load base anchors file: %v", err)
	}
	want := params.NumLevel * params.NumAnchorsPerLevel * 2
	if len(flat) != want {
		return nil, errors.Wrapf(ErrConfiguration,
			"base anchors file %s holds %d values, expected num_level*num_anchors_per_level*2 = %d",
			params.BaseAnchorsFile, len(flat), want)
	}

	shapes := make([][][2]float32, 0, params.NumLevel)
	for level := 0; level < params.NumLevel; level++ {
		whs := make([][2]float32, 0, params.NumAnchorsPerLevel)
		for a := 0; a < params.NumAnchorsPerLevel; a++ {
			offset := (level*params.NumAnchorsPerLevel + a) * 2
			whs = append(whs, [2]float32{flat[offset], flat[offset+1]})
		}
		shapes = append(shapes, whs)
	}

	g := &ClusteredGenerator{shapes: shapes}
	g.numLevel = params.NumLevel
	g.numAnchors = make([]int, params.NumLevel)
	for i := range g.numAnchors {
		g.numAnchors[i] = params.NumAnchorsPerLevel
	}
	return g, nil
}

// BuildBaseAnchors centers each level's (w, h) pairs at
// ((stride-1)/2, (stride-1)/2). Configure-once: after the first build,
// later calls return the cached anchors regardless of strides.
func (g *ClusteredGenerator) BuildBaseAnchors(strides []int) ([]*tensor.Dense, error) {
	if g.IsBuilt() {
		return g.baseAnchors, nil
	}
	if len(strides) != g.numLevel {
		return nil, errors.Wrapf(ErrContract,
			"got %d strides for %d configured levels", len(strides), g.numLevel)
	}

	baseAnchors := make([]*tensor.Dense, 0, g.numLevel)
	for level, whs := range g.shapes {
		ws := make([]float32, len(whs))
		hs := make([]float32, len(whs))
		for i, wh := range whs {
			ws[i] = wh[0]
			hs[i] = wh[1]
		}
		center := (float32(strides[level]) - 1) / 2
		anchors, err := processing.MkAnchors(ws, hs, center, center)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build anchors for level %d", level)
		}
		baseAnchors = append(baseAnchors, anchors)
	}

	g.baseAnchors = baseAnchors
	return g.baseAnchors, nil
}

func (g *ClusteredGenerator) GetAnchors(shapes []FeatureMapShape, eng tensor.Engine) ([]*tensor.Dense, error) {
	return boxAnchors(g, shapes, eng)
}

func (g *ClusteredGenerator) Export() (*Export, error) {
	if !g.IsBuilt() {
		return nil, errors.Wrap(ErrContract, "cannot export before base anchors are built")
	}
	anchors, err := exportAnchors(g.baseAnchors)
	if err != nil {
		return nil, err
	}
	return &Export{
		AnchorType: config.AnchorTypeCluster,
		NumAnchors: g.numAnchors[0],
		NumLevel:   g.numLevel,
		Anchors:    anchors,
	}, nil
}
