package go_detection_anchors

import (
	"github.com/okieraised/go-detection-anchors/config"
	"github.com/okieraised/go-detection-anchors/generators"
)

// NewAnchorGenerator builds the anchor generator variant named by
// cfg.Type. See the config package for the per-variant parameter blocks
// and the generators package for the uniform Generator contract.
func NewAnchorGenerator(cfg *config.AnchorGeneratorConfig) (generators.Generator, error) {
	return generators.Build(cfg)
}
