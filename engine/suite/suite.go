package suite

import (
	"context"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/core"
	"github.com/cah-jamey-weyenberg/great-expectations/engine/schema"
)

// ExpectationConfig is one serializable expectation: a type plus its
// keyword arguments.
type ExpectationConfig struct {
	Type   string         `json:"type"             yaml:"type"             mapstructure:"type"`
	Kwargs map[string]any `json:"kwargs,omitempty" yaml:"kwargs,omitempty" mapstructure:"kwargs"`
}

// Suite is a named collection of expectations. Identity fields are
// optional and omitted from serialized forms when absent.
type Suite struct {
	core.Entity  `yaml:",inline" mapstructure:",squash"`
	Expectations []ExpectationConfig `json:"expectations" yaml:"expectations" mapstructure:"expectations"`
}

func New(name string) *Suite {
	return &Suite{
		Entity:       core.Entity{Name: name},
		Expectations: []ExpectationConfig{},
	}
}

// Append adds cfg to the suite, replacing an existing expectation of
// the same type and kwargs.
func (s *Suite) Append(cfg ExpectationConfig) {
	fp := core.Fingerprint(map[string]any{"type": cfg.Type, "kwargs": cfg.Kwargs})
	for i, existing := range s.Expectations {
		if core.Fingerprint(map[string]any{"type": existing.Type, "kwargs": existing.Kwargs}) == fp {
			s.Expectations[i] = cfg
			return
		}
	}
	s.Expectations = append(s.Expectations, cfg)
}

func (s *Suite) AsMap() (map[string]any, error) {
	return core.AsMapDefault(s)
}

// FromMap decodes and validates a raw mapping into a Suite. The raw
// id_ alias is accepted.
func FromMap(ctx context.Context, data map[string]any) (*Suite, error) {
	if _, err := Schema().Validate(ctx, data); err != nil {
		return nil, err
	}
	s, err := core.FromMapDefault[Suite](core.NormalizeAliases(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode suite: %w", err)
	}
	if s.Expectations == nil {
		s.Expectations = []ExpectationConfig{}
	}
	return &s, nil
}

// FromYAML loads a suite from YAML bytes.
func FromYAML(ctx context.Context, data []byte) (*Suite, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse suite YAML: %w", err)
	}
	return FromMap(ctx, raw)
}

func (s *Suite) ToYAML() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal suite: %w", err)
	}
	return out, nil
}

// Schema describes the serialized suite form.
func Schema() *schema.Schema {
	return &schema.Schema{
		"type": "object",
		"properties": map[string]any{
			"id":   map[string]any{"type": "string"},
			"id_":  map[string]any{"type": "string"},
			"name": map[string]any{"type": "string"},
			"expectations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"type"},
					"properties": map[string]any{
						"type":   map[string]any{"type": "string"},
						"kwargs": map[string]any{"type": "object"},
					},
					"additionalProperties": false,
				},
			},
		},
		"additionalProperties": false,
	}
}
