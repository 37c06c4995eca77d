// File: lixenwraith/hiconfig/helper.go
package hiconfig

import "strings"

// FlattenDocument converts a nested document map into a flat map whose keys
// are the dash-joined paths, e.g. {"car": {"tire-radius": 30}} -> "car-tire-radius".
// The joined paths are the flag names of the values they configure.
func FlattenDocument(nested map[string]any) map[string]any {
	return flattenMap(nested, "")
}

func flattenMap(nested map[string]any, prefix string) map[string]any {
	flat := make(map[string]any)

	for key, value := range nested {
		newPath := key
		if prefix != "" {
			newPath = prefix + "-" + key
		}

		if nestedMap, isMap := value.(map[string]any); isMap {
			for subPath, subValue := range flattenMap(nestedMap, newPath) {
				flat[subPath] = subValue
			}
		} else {
			flat[newPath] = value
		}
	}

	return flat
}

// setNestedValue sets a value in a nested map at a list of segments.
// It creates intermediate maps if they don't exist.
// If a segment exists but is not a map, it will be overwritten by a new map.
func setNestedValue(nested map[string]any, segments []string, value any) {
	current := nested

	for _, segment := range segments[:len(segments)-1] {
		if nextMap, isMap := current[segment].(map[string]any); isMap {
			current = nextMap
			continue
		}
		newMap := make(map[string]any)
		current[segment] = newMap
		current = newMap
	}

	current[segments[len(segments)-1]] = value
}

// copyNested returns a copy of a nested map with every inner map copied too.
// Leaf values are shared.
func copyNested(nested map[string]any) map[string]any {
	out := make(map[string]any, len(nested))
	for k, v := range nested {
		if inner, isMap := v.(map[string]any); isMap {
			out[k] = copyNested(inner)
			continue
		}
		out[k] = v
	}
	return out
}

// isBareKey reports whether s can be written as a TOML or YAML key without quoting.
func isBareKey(s string) bool {
	if len(s) == 0 {
		return false
	}
	if strings.ContainsRune(s, '.') {
		return false
	}

	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isUnderscore := r == '_'
		isDash := r == '-'

		if !(isLetter || isDigit || isUnderscore || isDash) {
			return false
		}
	}
	return true
}
