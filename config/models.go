package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ModelConfig is one runway model. In YAML it is either a bare path, in
// which case the key is the file name and the default runway placement
// applies, or a map with any of the fields below.
type ModelConfig struct {
	Key      string  `mapstructure:"key"`
	Path     string  `mapstructure:"path"`
	Position Vec3    `mapstructure:"position"`
	Scale    float32 `mapstructure:"scale"`
	Yaw      float32 `mapstructure:"yaw"` // degrees
}

// DefaultRunwayPosition is where a model without a position enters.
var DefaultRunwayPosition = Vec3{40, 10, -50}

func newModelConfig() ModelConfig {
	return ModelConfig{Position: DefaultRunwayPosition, Scale: 1, Yaw: -90}
}

func (m *ModelConfig) UnmarshalYAML(value *yaml.Node) error {
	*m = newModelConfig()
	switch value.Kind {
	case yaml.ScalarNode:
		m.Path = value.Value
	case yaml.MappingNode:
		var raw map[string]any
		if err := value.Decode(&raw); err != nil {
			return err
		}
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      m,
			ErrorUnused: true,
		})
		if err != nil {
			return err
		}
		if err := dec.Decode(raw); err != nil {
			return fmt.Errorf("line %d: model entry: %w", value.Line, err)
		}
	default:
		return fmt.Errorf("line %d: model entry must be a path or a map", value.Line)
	}
	if m.Path == "" {
		return fmt.Errorf("line %d: model entry missing path", value.Line)
	}
	if m.Key == "" {
		m.Key = keyFromPath(m.Path)
	}
	return nil
}
