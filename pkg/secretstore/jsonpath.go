package secretstore

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ExtractField pulls a single value out of a JSON payload.
//
// path is either a top-level key ("YOUR_CHANNEL_ACCESS_TOKEN") or a dotted
// path starting with '.' (".line.token", ".tokens.0"). Strings are returned
// verbatim, numbers and booleans are formatted, and objects or arrays are
// re-encoded as JSON. A missing key is a ValidationError.
func ExtractField(payload, path string) (string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return "", ValidationError{Message: fmt.Sprintf("secret payload is not valid JSON: %v", err)}
	}

	var parts []string
	if strings.HasPrefix(path, ".") {
		parts = strings.Split(strings.TrimPrefix(path, "."), ".")
	} else {
		parts = []string{path}
	}

	current := data
	for _, part := range parts {
		if part == "" {
			continue
		}

		switch v := current.(type) {
		case map[string]interface{}:
			val, exists := v[part]
			if !exists {
				return "", ValidationError{Message: fmt.Sprintf("field '%s' not found in secret payload", part)}
			}
			current = val
		case []interface{}:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(v) {
				return "", ValidationError{Message: fmt.Sprintf("invalid array index: %s", part)}
			}
			current = v[index]
		default:
			return "", ValidationError{Message: fmt.Sprintf("cannot navigate into non-object at '%s'", part)}
		}
	}

	switch v := current.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal field: %w", err)
		}
		return string(encoded), nil
	}
}
