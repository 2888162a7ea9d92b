package core

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/schema"
)

// Entity is the base for configuration objects that carry optional
// identity fields. Absent fields are omitted from every serialized
// form, never emitted as null or empty values.
type Entity struct {
	ID   string `json:"id,omitempty"   yaml:"id,omitempty"   mapstructure:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name,omitempty"`
}

// idAliasKey is the raw-mapping spelling of the id field. Loading
// accepts it; canonical output always uses "id".
const idAliasKey = "id_"

// NormalizeAliases returns a copy of target with raw-form field
// aliases replaced by their canonical names.
func NormalizeAliases(target map[string]any) map[string]any {
	out := make(map[string]any, len(target))
	for k, v := range target {
		if k == idAliasKey {
			k = "id"
		}
		out[k] = v
	}
	return out
}

func AsMapDefault(config any) (map[string]any, error) {
	bytes, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(bytes, &configMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config to map: %w", err)
	}
	return configMap, nil
}

func FromMapDefault[T any](data any) (T, error) {
	var config T

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return config, err
	}

	return config, decoder.Decode(data)
}

// RoundTrip validates a raw mapping against s, decodes it into T and
// re-serializes the canonical form. Field aliases are normalized
// (id_ becomes id) and absent optional fields drop out entirely.
func RoundTrip[T any](ctx context.Context, s *schema.Schema, target map[string]any) (map[string]any, error) {
	if _, err := s.Validate(ctx, target); err != nil {
		return nil, err
	}
	loaded, err := FromMapDefault[T](NormalizeAliases(target))
	if err != nil {
		return nil, fmt.Errorf("failed to decode mapping: %w", err)
	}
	return AsMapDefault(loaded)
}
