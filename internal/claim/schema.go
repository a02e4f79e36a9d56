package claim

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ResultJSONSchema describes the serialized form of a Result. Every field
// key is required; absent values must be null.
func ResultJSONSchema() map[string]any {
	nullableString := map[string]any{"type": []string{"string", "null"}}
	nullableNumber := map[string]any{"type": []string{"number", "null"}, "minimum": 0}
	stringList := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}

	props := map[string]any{}
	required := []string{}
	for _, key := range []string{
		KeyPolicyNumber, KeyPolicyholderName, KeyEffectiveDates, KeyIncidentDate,
		KeyIncidentTime, KeyIncidentLocation, KeyIncidentDescription, KeyClaimant,
		KeyThirdParties, KeyContactDetails, KeyAssetType, KeyAssetID, KeyClaimType,
	} {
		props[key] = nullableString
		required = append(required, key)
	}
	props[KeyEstimatedDamage] = nullableNumber
	props[KeyInitialEstimate] = nullableNumber
	props[KeyAttachments] = map[string]any{
		"type":     []string{"array", "null"},
		"items":    map[string]any{"type": "string", "minLength": 1},
		"minItems": 1,
	}
	props[KeyInconsistencies] = stringList
	required = append(required, KeyEstimatedDamage, KeyInitialEstimate, KeyAttachments, KeyInconsistencies)

	routes := make([]string, 0, len(Routes))
	for _, r := range Routes {
		routes = append(routes, string(r))
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"file", "extractedFields", "missingFields", "recommendedRoute", "reasoning"},
		"properties": map[string]any{
			"file": map[string]any{"type": "string"},
			"extractedFields": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           props,
				"required":             required,
			},
			"missingFields": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "enum": MandatoryFields},
			},
			"recommendedRoute": map[string]any{"type": "string", "enum": routes},
			"reasoning":        map[string]any{"type": "string", "minLength": 1},
		},
	}
}

// ValidateResultJSON checks that data is a single serialized Result or a
// list of them.
func ValidateResultJSON(data []byte) error {
	b, err := json.Marshal(ResultJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("result.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("result.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	items, ok := v.([]any)
	if !ok {
		items = []any{v}
	}
	for i, item := range items {
		if err := schema.Validate(item); err != nil {
			return fmt.Errorf("result %d does not match schema: %w", i, err)
		}
	}
	return nil
}
