package config

// Registered anchor generator type names. The factory in the generators
// package dispatches on these.
const (
	AnchorTypeHandCraft = "hand_craft"
	AnchorTypeSSD       = "ssd_anchor"
	AnchorTypeCluster   = "cluster"
	AnchorTypePoint     = "fcos"
)

// AnchorGeneratorConfig names a registered generator type and carries the
// parameter block for that variant. Exactly one of the variant fields must
// be set, matching Type.
type AnchorGeneratorConfig struct {
	Type      string           `json:"type"`
	HandCraft *HandCraftParams `json:"hand_craft,omitempty"`
	SSD       *SSDParams       `json:"ssd_anchor,omitempty"`
	Cluster   *ClusterParams   `json:"cluster,omitempty"`
	Point     *PointParams     `json:"fcos,omitempty"`
}

// HandCraftParams configures the ratio x scale grid generator.
//
// Aligned selects float anchor math centered on the pixel center; legacy
// mode enumerates rounded anchors from a (0,0,stride-1,stride-1)
// reference window. Strides may be left nil and supplied on the first
// build call instead.
type HandCraftParams struct {
	Ratios  []float32 `json:"anchor_ratios"`
	Scales  []float32 `json:"anchor_scales"`
	Strides []int     `json:"anchor_strides,omitempty"`
	Aligned bool      `json:"aligned"`
}

var DefaultHandCraftParams = &HandCraftParams{
	Ratios:  []float32{0.5, 1, 2},
	Scales:  []float32{8, 16, 32},
	Strides: []int{4, 8, 16, 32, 64},
}

func NewHandCraftParams(ratios, scales []float32, strides []int, aligned bool) *HandCraftParams {
	return &HandCraftParams{
		Ratios:  ratios,
		Scales:  scales,
		Strides: strides,
		Aligned: aligned,
	}
}

// SSDParams configures the SSD multi-scale generator. Ratios holds the
// extra aspect ratios per level beyond 1:1; Strides are (x, y) pairs and
// may be non-square. BasesizeRatioRange is expressed as fractions of
// InputSize, which must be 300 or 512.
type SSDParams struct {
	Ratios             [][]float32 `json:"anchor_ratios"`
	Strides            [][2]int    `json:"anchor_strides"`
	BasesizeRatioRange [2]float32  `json:"basesize_ratio_range"`
	ScaleMajor         bool        `json:"scale_major"`
	InputSize          int         `json:"input_size"`
}

var DefaultSSDParams = &SSDParams{
	Ratios:             [][]float32{{2}, {2, 3}, {2, 3}, {2, 3}, {2}, {2}},
	Strides:            SquareStrides(8, 16, 32, 64, 100, 300),
	BasesizeRatioRange: [2]float32{0.15, 0.9},
	ScaleMajor:         false,
	InputSize:          300,
}

func NewSSDParams(ratios [][]float32, strides [][2]int, basesizeRatioRange [2]float32, scaleMajor bool, inputSize int) *SSDParams {
	return &SSDParams{
		Ratios:             ratios,
		Strides:            strides,
		BasesizeRatioRange: basesizeRatioRange,
		ScaleMajor:         scaleMajor,
		InputSize:          inputSize,
	}
}

// SquareStrides expands scalar strides into the (x, y) pairs SSDParams
// expects.
func SquareStrides(strides ...int) [][2]int {
	pairs := make([][2]int, 0, len(strides))
	for _, s := range strides {
		pairs = append(pairs, [2]int{s, s})
	}
	return pairs
}

// ClusterParams configures the precomputed-shapes generator. The file at
// BaseAnchorsFile must hold a flat JSON array of exactly
// NumLevel*NumAnchorsPerLevel*2 numbers, interpreted as per-level
// (width, height) pairs.
type ClusterParams struct {
	NumAnchorsPerLevel int    `json:"num_anchors_per_level"`
	NumLevel           int    `json:"num_level"`
	BaseAnchorsFile    string `json:"base_anchors_file"`
}

func NewClusterParams(numAnchorsPerLevel, numLevel int, baseAnchorsFile string) *ClusterParams {
	return &ClusterParams{
		NumAnchorsPerLevel: numAnchorsPerLevel,
		NumLevel:           numLevel,
		BaseAnchorsFile:    baseAnchorsFile,
	}
}

// PointParams configures the dense point generator used by FCOS-style
// heads. DensePoints must be 1, 4 or 5.
type PointParams struct {
	DensePoints int  `json:"dense_points"`
	Center      bool `json:"center"`
}

var DefaultPointParams = &PointParams{
	DensePoints: 1,
	Center:      true,
}

func NewPointParams(densePoints int, center bool) *PointParams {
	return &PointParams{
		DensePoints: densePoints,
		Center:      center,
	}
}
