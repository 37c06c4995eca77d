// FILE: lixenwraith/hiconfig/declared.go
package hiconfig

import (
	"io"
	"log/slog"
)

// DeclaredValue describes one value the schema registers with an engine.
type DeclaredValue struct {
	// Key is the encoded storage key.
	Key string
	// Flag is the primary flag name; Names holds every flag name.
	Flag  string
	Names []string
	// Prefixes are the flag fragments of the enclosing child links.
	Prefixes []string
	// Name is the unprefixed primary name.
	Name string
	// Group is the title of the declaring node, e.g. "/car/front_tire/".
	Group string

	Default    any
	HasDefault bool
	Help       string
	Metavar    string
	Choices    []string
	Multiple   bool
	Bool       bool
}

// Declared enumerates the values the tree rooted at p would register, in
// registration order. Values receiving propagation are omitted. Unlike
// Register it records no bindings and logs no warnings.
func (p *Provider) Declared() ([]DeclaredValue, error) {
	rec := &recordingEngine{}
	cfg := registerConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	if _, err := p.walk(rec, cfg); err != nil {
		return nil, err
	}
	return rec.values, nil
}

// recordingEngine collects declarations instead of defining flags.
type recordingEngine struct {
	values []DeclaredValue
}

func (r *recordingEngine) AddFlag(spec FlagSpec) error {
	return r.add(spec, "")
}

func (r *recordingEngine) Group(title string) FlagAdder {
	return recordingGroup{engine: r, title: title}
}

func (r *recordingEngine) OnParsed(PostParseFunc) {}

func (r *recordingEngine) add(spec FlagSpec, group string) error {
	r.values = append(r.values, DeclaredValue{
		Key:        spec.Key,
		Flag:       spec.Names[0],
		Names:      spec.Names,
		Prefixes:   spec.Prefixes,
		Name:       spec.Name,
		Group:      group,
		Default:    spec.Default,
		HasDefault: spec.HasDefault,
		Help:       spec.Help,
		Metavar:    spec.Metavar,
		Choices:    spec.Choices,
		Multiple:   spec.Multiple,
		Bool:       spec.Bool,
	})
	return nil
}

type recordingGroup struct {
	engine *recordingEngine
	title  string
}

func (g recordingGroup) AddFlag(spec FlagSpec) error {
	return g.engine.add(spec, g.title)
}

// uniqueFlags returns the declarations with distinct primary flag names,
// keeping the first of each.
func uniqueFlags(values []DeclaredValue) []DeclaredValue {
	seen := make(map[string]bool, len(values))
	out := make([]DeclaredValue, 0, len(values))
	for _, v := range values {
		if seen[v.Flag] {
			continue
		}
		seen[v.Flag] = true
		out = append(out, v)
	}
	return out
}
