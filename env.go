// FILE: lixenwraith/hiconfig/env.go
package hiconfig

import (
	"os"
	"strings"
)

// EnvTransformFunc maps a flag name to the environment variable supplying it.
// An empty result skips the flag.
type EnvTransformFunc func(flag string) string

// DefaultEnvTransform returns the default mapping: prefix followed by the
// upper-cased flag name with '-' replaced by '_', e.g. "APP_" + "car-radius"
// -> "APP_CAR_RADIUS".
func DefaultEnvTransform(prefix string) EnvTransformFunc {
	return func(flag string) string {
		env := strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}

// EnvOverrides collects environment values for the declared flags, keyed by
// flag name. Repeatable values are split on commas. A nil transform uses
// DefaultEnvTransform(prefix).
func (p *Provider) EnvOverrides(prefix string, transform EnvTransformFunc) (map[string]any, error) {
	values, err := p.Declared()
	if err != nil {
		return nil, err
	}
	if transform == nil {
		transform = DefaultEnvTransform(prefix)
	}

	found := make(map[string]any)
	for _, v := range uniqueFlags(values) {
		envVar := transform(v.Flag)
		if envVar == "" {
			continue
		}
		value, exists := os.LookupEnv(envVar)
		if !exists {
			continue
		}
		if len(value) > MaxValueSize {
			return nil, ErrValueSize
		}

		if v.Multiple {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			found[v.Flag] = parts
			continue
		}
		found[v.Flag] = value
	}
	return found, nil
}

// DiscoverEnv returns flag name -> environment variable for every declared
// flag whose variable is set.
func (p *Provider) DiscoverEnv(prefix string, transform EnvTransformFunc) (map[string]string, error) {
	values, err := p.Declared()
	if err != nil {
		return nil, err
	}
	if transform == nil {
		transform = DefaultEnvTransform(prefix)
	}

	discovered := make(map[string]string)
	for _, v := range uniqueFlags(values) {
		envVar := transform(v.Flag)
		if envVar == "" {
			continue
		}
		if _, exists := os.LookupEnv(envVar); exists {
			discovered[v.Flag] = envVar
		}
	}
	return discovered, nil
}
