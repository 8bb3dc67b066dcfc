package generators

import (
	"github.com/okieraised/go-detection-anchors/config"
	"github.com/okieraised/go-detection-anchors/processing"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// HandCraftGenerator builds the classic ratio x scale anchor grid, with
// len(ratios)*len(scales) anchors per cell on every level.
type HandCraftGenerator struct {
	baseAnchorCache
	ratios  []float32
	scales  []float32
	strides []int
	aligned bool
}

func NewHandCraftGenerator(params *config.HandCraftParams) (*HandCraftGenerator, error) {
	if params == nil {
		return nil, errors.Wrap(ErrConfiguration, "hand_craft parameters are required")
	}
	if len(params.Ratios) == 0 || len(params.Scales) == 0 {
		return nil, errors.Wrap(ErrConfiguration, "hand_craft requires at least one ratio and one scale")
	}

	g := &HandCraftGenerator{
		ratios:  params.Ratios,
		scales:  params.Scales,
		aligned: params.Aligned,
	}
	if len(params.Strides) > 0 {
		if _, err := g.BuildBaseAnchors(params.Strides); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// BuildBaseAnchors builds one anchor set per stride. This is a
// configure-once operation: after the first successful build, later calls
// return the cached anchors even when handed different strides.
func (g *HandCraftGenerator) BuildBaseAnchors(strides []int) ([]*tensor.Dense, error) {
	if g.IsBuilt() {
		return g.baseAnchors, nil
	}
	if len(strides) == 0 {
		return nil, errors.Wrap(ErrContract, "hand_craft build requires at least one stride")
	}

	g.strides = append([]int(nil), strides...)
	g.numLevel = len(strides)

	baseAnchors := make([]*tensor.Dense, 0, len(strides))
	counts := make([]int, 0, len(strides))
	for _, stride := range strides {
		anchorsOverGrid, err := processing.AnchorsOverGrid(g.ratios, g.scales, stride, g.aligned)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build anchors for stride %d", stride)
		}
		baseAnchors = append(baseAnchors, anchorsOverGrid)
		counts = append(counts, anchorsOverGrid.Shape()[0])
	}

	g.baseAnchors = baseAnchors
	g.numAnchors = counts
	return g.baseAnchors, nil
}

func (g *HandCraftGenerator) GetAnchors(shapes []FeatureMapShape, eng tensor.Engine) ([]*tensor.Dense, error) {
	return boxAnchors(g, shapes, eng)
}

func (g *HandCraftGenerator) Export() (*Export, error) {
	if !g.IsBuilt() {
		return nil, errors.Wrap(ErrContract, "cannot export before base anchors are built")
	}
	anchors, err := exportAnchors(g.baseAnchors)
	if err != nil {
		return nil, err
	}
	return &Export{
		AnchorType:    config.AnchorTypeHandCraft,
		AnchorRatios:  g.ratios,
		AnchorScales:  g.scales,
		AnchorStrides: g.strides,
		Anchors:       anchors,
	}, nil
}
