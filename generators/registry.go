package generators

import (
	"github.com/okieraised/go-detection-anchors/config"
	"github.com/pkg/errors"
)

// BuildFunc constructs a generator from its configuration block.
type BuildFunc func(cfg *config.AnchorGeneratorConfig) (Generator, error)

var registry = map[string]BuildFunc{}

// Register makes a generator variant available under the given type name.
// Later registrations under the same name win.
func Register(name string, fn BuildFunc) {
	registry[name] = fn
}

// Build looks up cfg.Type and constructs the matching generator variant.
func Build(cfg *config.AnchorGeneratorConfig) (Generator, error) {
	if cfg == nil {
		return nil, errors.Wrap(ErrConfiguration, "anchor generator configuration is required")
	}
	fn, ok := registry[cfg.Type]
	if !ok {
		return nil, errors.Wrapf(ErrConfiguration, "unknown anchor generator type %q", cfg.Type)
	}
	return fn(cfg)
}

func init() {
	Register(config.AnchorTypeHandCraft, func(cfg *config.AnchorGeneratorConfig) (Generator, error) {
		return NewHandCraftGenerator(cfg.HandCraft)
	})
	Register(config.AnchorTypeSSD, func(cfg *config.AnchorGeneratorConfig) (Generator, error) {
		return NewSSDGenerator(cfg.SSD)
	})
	Register(config.AnchorTypeCluster, func(cfg *config.AnchorGeneratorConfig) (Generator, error) {
		return NewClusteredGenerator(cfg.Cluster)
	})
	Register(config.AnchorTypePoint, func(cfg *config.AnchorGeneratorConfig) (Generator, error) {
		return NewPointGenerator(cfg.Point)
	})
}
