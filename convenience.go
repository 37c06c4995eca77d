// File: lixenwraith/hiconfig/convenience.go
package hiconfig

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Quick parses the schema rooted at root with a single call, using the
// standard precedence CLI > Env > File > Default and the process arguments.
// This is the recommended way to initialize configuration for most applications
func Quick(root *Provider, envPrefix, configFile string) (*Namespace, error) {
	return NewBuilder(root).
		WithEnvPrefix(envPrefix).
		WithFile(configFile).
		Build()
}

// MustQuick is like Quick but panics on error. A missing file is not an error.
func MustQuick(root *Provider, envPrefix, configFile string) *Namespace {
	return NewBuilder(root).
		WithEnvPrefix(envPrefix).
		WithFile(configFile).
		MustBuild()
}

// Require checks that every key holds a non-nil value.
func (ns *Namespace) Require(keys ...string) error {
	var missing []string
	for _, key := range keys {
		v, err := ns.Get(key)
		if err != nil {
			missing = append(missing, key+" (not declared)")
			continue
		}
		if v == nil {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Debug returns a formatted string showing every flat key and its value
func (ns *Namespace) Debug() string {
	var b strings.Builder
	b.WriteString("Namespace Debug Info:\n")
	for _, key := range ns.Keys() {
		fmt.Fprintf(&b, "  %s = %v (%T)\n", key, ns.flat[key], ns.flat[key])
	}
	return b.String()
}

// Dump writes the namespace tree in TOML format to w, or stdout when w is nil.
// Nil values are omitted.
func (ns *Namespace) Dump(w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}
	return toml.NewEncoder(w).Encode(ns.ToMap())
}
