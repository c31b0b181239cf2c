package params

import (
	"fmt"
	"strings"
)

// ParseKeyValuePairs converts a slice of "key=value" strings into a map.
//
// Example:
//
//	overrides, err := ParseKeyValuePairs([]string{"wavelength=0.649", "transmission=0.1"})
//	// Returns: map[string]string{"wavelength": "0.649", "transmission": "0.1"}
func ParseKeyValuePairs(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q is not in key=value format (example: --set wavelength=0.649)", pair)
		}

		if key == "" {
			return nil, fmt.Errorf("parameter has empty key: %q", pair)
		}

		result[key] = value
	}

	return result, nil
}
