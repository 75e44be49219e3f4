// Package config loads erecon's YAML configuration: field definitions
// plus active-learning and blocking-learner tunables, decoded with
// gopkg.in/yaml.v3 behind a thin file-reading loader.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/erecon/pkg/erecon/blocking"
	"github.com/cognicore/erecon/pkg/erecon/erecerr"
	"github.com/cognicore/erecon/pkg/erecon/model"
)

// FieldConfig is one field's YAML definition (Comparator is never
// expressed in YAML — function values aren't serializable; Custom
// fields get their comparator attached programmatically via
// BuildDataModel).
type FieldConfig struct {
	Type    string `yaml:"type"`
	Missing bool   `yaml:"missing"`
}

// ActiveLearningConfig holds the active-learning loop's tunables.
type ActiveLearningConfig struct {
	BatchSize    int     `yaml:"batch_size"`
	RidgePenalty float64 `yaml:"ridge_penalty"`
}

// BlockingConfig holds BlockingLearner's tunables.
type BlockingConfig struct {
	PairYieldCap       float64 `yaml:"pair_yield_cap"`
	UncoveredTolerance int     `yaml:"uncovered_tolerance"`
}

// ModelConfig is the top-level YAML document: field order and defs plus
// tunables for the downstream learners.
type ModelConfig struct {
	// FieldOrder fixes DataModel's positional field order, which is
	// immutable after construction; Fields must contain exactly these
	// keys.
	FieldOrder     []string               `yaml:"field_order"`
	Fields         map[string]FieldConfig `yaml:"fields"`
	ActiveLearning ActiveLearningConfig   `yaml:"active_learning"`
	Blocking       BlockingConfig         `yaml:"blocking"`
}

// Load reads and decodes a ModelConfig from path.
func Load(path string) (*ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w: %v", path, erecerr.ErrIO, err)
	}
	return LoadBytes(data)
}

// LoadBytes decodes a ModelConfig from raw YAML bytes.
func LoadBytes(data []byte) (*ModelConfig, error) {
	var cfg ModelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: decoding yaml: %w: %v", erecerr.ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// BuildDataModel constructs a model.DataModel from the decoded field
// config, in FieldOrder, attaching customComparators by field name to
// any Custom-typed field. A field named in FieldOrder but absent from
// Fields, or defined in Fields but absent from FieldOrder, is an
// erecerr.ErrInvalidConfig error.
func (c *ModelConfig) BuildDataModel(customComparators map[string]model.Comparator) (*model.DataModel, error) {
	inOrder := make(map[string]bool, len(c.FieldOrder))
	for _, name := range c.FieldOrder {
		inOrder[name] = true
	}
	for name := range c.Fields {
		if !inOrder[name] {
			return nil, fmt.Errorf("config: field %q is defined but not listed in field_order: %w", name, erecerr.ErrInvalidConfig)
		}
	}

	defs := make(map[string]model.FieldDef, len(c.Fields))
	for name, fc := range c.Fields {
		def := model.FieldDef{Type: fc.Type, Missing: fc.Missing}
		if fc.Type == "Custom" {
			cmp, ok := customComparators[name]
			if !ok {
				return nil, fmt.Errorf("config: field %q is Custom but no comparator was supplied: %w", name, erecerr.ErrInvalidConfig)
			}
			def.Comparator = cmp
		}
		defs[name] = def
	}
	return model.New(c.FieldOrder, defs)
}

// BlockingDefaultConfig builds a blocking.Config from the decoded
// tunables, falling back to blocking.DefaultConfig for any zero-valued
// field (a YAML document that omits "blocking" entirely yields the
// library defaults).
func (c *ModelConfig) BlockingDefaultConfig() blocking.Config {
	cfg := blocking.DefaultConfig()
	if c.Blocking.PairYieldCap != 0 {
		cfg.PairYieldCap = c.Blocking.PairYieldCap
	}
	if c.Blocking.UncoveredTolerance != 0 {
		cfg.UncoveredTolerance = c.Blocking.UncoveredTolerance
	}
	return cfg
}
