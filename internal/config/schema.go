package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	dserrors "github.com/systmms/linepush/internal/errors"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// validateSchema checks a decoded YAML document against the embedded schema
func validateSchema(doc map[string]interface{}) error {
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration for validation: %w", err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(jsonData))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return nil
	}

	first := result.Errors()[0]
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}

	return dserrors.ConfigError{
		Field:      first.Field(),
		Value:      first.Value(),
		Message:    first.Description(),
		Suggestion: "Fix the following schema errors:\n    - " + strings.Join(details, "\n    - "),
	}
}
