package generators

import (
	"github.com/chewxy/math32"
	"github.com/okieraised/go-detection-anchors/config"
	"github.com/okieraised/go-detection-anchors/processing"
	"github.com/okieraised/go-detection-anchors/utils"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// SSDGenerator derives per-level anchor sizes from a base-size ratio
// range over the input resolution, SSD style. The anchor count per level
// is 2*len(extra ratios)+2 and may differ across levels.
type SSDGenerator struct {
	baseAnchorCache
	strides            [][2]int
	centers            [][2]float32
	inputSize          int
	basesizeRatioRange [2]float32
	levelRatios        [][]float32
	levelScales        [][]float32
	baseSizes          []int
	scaleMajor         bool
}

func NewSSDGenerator(params *config.SSDParams) (*SSDGenerator, error) {
	if params == nil {
		return nil, errors.Wrap(ErrConfiguration, "ssd_anchor parameters are required")
	}
	if len(params.Strides) != len(params.Ratios) {
		return nil, errors.Wrapf(ErrConfiguration,
			"ssd_anchor got %d strides but %d ratio lists", len(params.Strides), len(params.Ratios))
	}
	if len(params.Strides) < 3 {
		return nil, errors.Wrapf(ErrConfiguration,
			"ssd_anchor size interpolation needs at least 3 levels, got %d", len(params.Strides))
	}

	numLevels := len(params.Strides)
	minRatio := int(math32.Round(params.BasesizeRatioRange[0] * 100))
	maxRatio := int(math32.Round(params.BasesizeRatioRange[1] * 100))
	step := (maxRatio - minRatio) / (numLevels - 2)
	if step <= 0 {
		return nil, errors.Wrapf(ErrConfiguration,
			"basesize_ratio_range %v is too narrow to interpolate %d levels",
			params.BasesizeRatioRange, numLevels)
	}

	minSizes := make([]int, 0, numLevels)
	maxSizes := make([]int, 0, numLevels)
	for ratio := minRatio; ratio <= maxRatio; ratio += step {
		minSizes = append(minSizes, params.InputSize*ratio/100)
		maxSizes = append(maxSizes, params.InputSize*(ratio+step)/100)
	}

	// The first level uses a hardcoded override pair; only four
	// input-size/min-ratio presets exist.
	switch params.InputSize {
	case 300:
		switch params.BasesizeRatioRange[0] {
		case 0.15: // SSD300 COCO
			minSizes = insertFront(minSizes, params.InputSize*7/100)
			maxSizes = insertFront(maxSizes, params.InputSize*15/100)
		case 0.2: // SSD300 VOC
			minSizes = insertFront(minSizes, params.InputSize*10/100)
			maxSizes = insertFront(maxSizes, params.InputSize*20/100)
		default:
			return nil, errors.Wrapf(ErrConfiguration,
				"basesize_ratio_range[0] should be either 0.15 or 0.2 when input_size is 300, got %v",
				params.BasesizeRatioRange[0])
		}
	case 512:
		switch params.BasesizeRatioRange[0] {
		case 0.1: // SSD512 COCO
			minSizes = insertFront(minSizes, params.InputSize*4/100)
			maxSizes = insertFront(maxSizes, params.InputSize*10/100)
		case 0.15: // SSD512 VOC
			minSizes = insertFront(minSizes, params.InputSize*7/100)
			maxSizes = insertFront(maxSizes, params.InputSize*15/100)
		default:
			return nil, errors.Wrapf(ErrConfiguration,
				"basesize_ratio_range[0] should be either 0.1 or 0.15 when input_size is 512, got %v",
				params.BasesizeRatioRange[0])
		}
	default:
		return nil, errors.Wrapf(ErrConfiguration,
			"ssd_anchor only supports input_size 300 or 512, got %d", params.InputSize)
	}

	if len(minSizes) != numLevels || len(maxSizes) != numLevels {
		return nil, errors.Wrapf(ErrConfiguration,
			"derived %d anchor sizes for %d levels, basesize_ratio_range %v does not fit",
			len(minSizes), numLevels, params.BasesizeRatioRange)
	}

	levelRatios := make([][]float32, 0, numLevels)
	levelScales := make([][]float32, 0, numLevels)
	centers := make([][2]float32, 0, numLevels)
	for k := 0; k < numLevels; k++ {
		scales := []float32{1, math32.Sqrt(float32(maxSizes[k]) / float32(minSizes[k]))}
		ratios := []float32{1}
		for _, r := range params.Ratios[k] {
			ratios = append(ratios, 1/r, r)
		}
		levelScales = append(levelScales, scales)
		levelRatios = append(levelRatios, ratios)
		centers = append(centers, [2]float32{
			float32(params.Strides[k][0]) / 2,
			float32(params.Strides[k][1]) / 2,
		})
	}

	g := &SSDGenerator{
		strides:            params.Strides,
		centers:            centers,
		inputSize:          params.InputSize,
		basesizeRatioRange: params.BasesizeRatioRange,
		levelRatios:        levelRatios,
		levelScales:        levelScales,
		baseSizes:          minSizes,
		scaleMajor:         params.ScaleMajor,
	}
	if _, err := g.BuildBaseAnchors(nil); err != nil {
		return nil, err
	}
	return g, nil
}

// BuildBaseAnchors ignores the stride argument: SSD geometry is fully
// determined by the configuration, and the generator is built eagerly at
// construction.
func (g *SSDGenerator) BuildBaseAnchors(_ []int) ([]*tensor.Dense, error) {
	if g.IsBuilt() {
		return g.baseAnchors, nil
	}
	g.numLevel = len(g.baseSizes)

	baseAnchors := make([]*tensor.Dense, 0, g.numLevel)
	counts := make([]int, 0, g.numLevel)
	for level, baseSize := range g.baseSizes {
		anchors, err := g.singleLevelBaseAnchors(level, baseSize)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build ssd anchors for level %d", level)
		}
		baseAnchors = append(baseAnchors, anchors)
		counts = append(counts, anchors.Shape()[0])
	}

	g.baseAnchors = baseAnchors
	g.numAnchors = counts
	return g.baseAnchors, nil
}

func (g *SSDGenerator) singleLevelBaseAnchors(level, baseSize int) (*tensor.Dense, error) {
	w := float32(baseSize)
	h := float32(baseSize)
	centerX, centerY := g.centers[level][0], g.centers[level][1]
	ratios := g.levelRatios[level]
	scales := g.levelScales[level]

	hRatios := make([]float32, len(ratios))
	wRatios := make([]float32, len(ratios))
	for i, ratio := range ratios {
		hRatios[i] = math32.Sqrt(ratio)
		wRatios[i] = 1 / hRatios[i]
	}

	ws := make([]float32, 0, len(ratios)*len(scales))
	hs := make([]float32, 0, len(ratios)*len(scales))
	if g.scaleMajor {
		for i := range ratios {
			for _, scale := range scales {
				ws = append(ws, w*wRatios[i]*scale)
				hs = append(hs, h*hRatios[i]*scale)
			}
		}
	} else {
		for _, scale := range scales {
			for i := range ratios {
				ws = append(ws, w*scale*wRatios[i])
				hs = append(hs, h*scale*hRatios[i])
			}
		}
	}

	candidates := make([][]float32, 0, len(ws))
	for i := range ws {
		candidates = append(candidates, []float32{
			processing.RoundHalfEven(centerX - 0.5*(ws[i]-1)),
			processing.RoundHalfEven(centerY - 0.5*(hs[i]-1)),
			processing.RoundHalfEven(centerX + 0.5*(ws[i]-1)),
			processing.RoundHalfEven(centerY + 0.5*(hs[i]-1)),
		})
	}

	// The extra square anchor (1:1 ratio at the second scale) moves to
	// slot 1; the downstream matching convention depends on this order.
	// All candidates past the first scale's ratio sweep are dropped.
	indices := make([]int, 0, len(ratios)+1)
	indices = append(indices, 0, len(ratios))
	for i := 1; i < len(ratios); i++ {
		indices = append(indices, i)
	}

	selected := make([][]float32, 0, len(indices))
	for _, idx := range indices {
		selected = append(selected, candidates[idx])
	}
	return utils.RowsToTensor(selected)
}

func (g *SSDGenerator) GetAnchors(shapes []FeatureMapShape, eng tensor.Engine) ([]*tensor.Dense, error) {
	return boxAnchors(g, shapes, eng)
}

func (g *SSDGenerator) Export() (*Export, error) {
	anchors, err := exportAnchors(g.baseAnchors)
	if err != nil {
		return nil, err
	}
	return &Export{
		AnchorType:  config.AnchorTypeSSD,
		LevelRatios: g.levelRatios,
		LevelScales: g.levelScales,
		BaseSizes:   g.baseSizes,
		Strides:     g.strides,
		Anchors:     anchors,
	}, nil
}

func insertFront(values []int, v int) []int {
	return append([]int{v}, values...)
}
