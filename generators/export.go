package generators

import (
	"github.com/okieraised/go-detection-anchors/utils"
	"gorgonia.org/tensor"
)

// Export is the variant-tagged record produced by Generator.Export,
// suitable for direct JSON serialization. AnchorType is always set; the
// remaining fields depend on the variant. Anchors holds the resolved
// per-level base anchor rows.
type Export struct {
	AnchorType    string        `json:"anchor_type"`
	AnchorRatios  []float32     `json:"anchor_ratios,omitempty"`
	AnchorScales  []float32     `json:"anchor_scales,omitempty"`
	AnchorStrides []int         `json:"anchor_strides,omitempty"`
	LevelRatios   [][]float32   `json:"level_ratios,omitempty"`
	LevelScales   [][]float32   `json:"level_scales,omitempty"`
	BaseSizes     []int         `json:"base_sizes,omitempty"`
	Strides       [][2]int      `json:"strides,omitempty"`
	NumAnchors    int           `json:"num_anchors,omitempty"`
	NumLevel      int           `json:"num_level,omitempty"`
	DensePoints   int           `json:"dense_points,omitempty"`
	Center        bool          `json:"center,omitempty"`
	Anchors       [][][]float32 `json:"anchors,omitempty"`
}

func exportAnchors(baseAnchors []*tensor.Dense) ([][][]float32, error) {
	anchors := make([][][]float32, 0, len(baseAnchors))
	for _, level := range baseAnchors {
		rows, err := utils.TensorRows(level)
		if err != nil {
			return nil, err
		}
		anchors = append(anchors, rows)
	}
	return anchors, nil
}
