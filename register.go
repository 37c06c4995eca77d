// FILE: lixenwraith/hiconfig/register.go
package hiconfig

import (
	"fmt"
	"log/slog"
	"strings"
)

// Binding copies the parsed value at Source into Target after parsing.
type Binding struct {
	Source string
	Target string
}

// Registration is the outcome of one registration walk.
type Registration struct {
	// Bindings are the propagation bindings, in walk order.
	Bindings []Binding
	// Warnings are the name conflicts found, in walk order.
	Warnings []*ConflictWarning
}

// Apply copies every bound source value to its target. Running it twice is a no-op.
func (r *Registration) Apply(ns *Namespace) error {
	return applyBindings(r.Bindings, ns)
}

// ApplyPropagations applies the bindings recorded by the last Register call
// with p as root. Engines created by this package call it automatically.
func (p *Provider) ApplyPropagations(ns *Namespace) error {
	return applyBindings(p.bindings, ns)
}

func applyBindings(bindings []Binding, ns *Namespace) error {
	for _, b := range bindings {
		value, err := ns.Get(b.Source)
		if err != nil {
			return fmt.Errorf("failed to propagate %s to %s: %w", keyToSite(b.Source), keyToSite(b.Target), err)
		}
		if err := ns.Set(b.Target, value); err != nil {
			return fmt.Errorf("failed to propagate %s to %s: %w", keyToSite(b.Source), keyToSite(b.Target), err)
		}
	}
	return nil
}

// RegisterOption customizes a registration walk.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger receiving conflict warnings (default: slog.Default()).
func WithLogger(logger *slog.Logger) RegisterOption {
	return func(c *registerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Register declares every value of the tree rooted at p with the engine.
// Values receiving propagation are not declared; their bindings are recorded
// on p and applied through the engine's post-parse hook. Conflicts that make
// the schema unsafe abort the walk with an error and leave p unchanged.
func (p *Provider) Register(e Engine, opts ...RegisterOption) (*Registration, error) {
	cfg := registerConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	reg, err := p.walk(e, cfg)
	if err != nil {
		return nil, err
	}

	p.bindings = reg.Bindings
	e.OnParsed(reg.Apply)
	return reg, nil
}

func (p *Provider) walk(e Engine, cfg registerConfig) (*Registration, error) {
	st := &walkState{engine: e, logger: cfg.logger, reg: &Registration{}}
	root := walkFrame{
		propagating: map[string]string{},
		prohibited:  map[string]string{},
	}
	if err := p.register(st, root); err != nil {
		return nil, err
	}
	return st.reg, nil
}

type walkState struct {
	engine Engine
	logger *slog.Logger
	reg    *Registration
}

// walkFrame is the path context of one node in the walk. A shared Provider
// reached through different links is registered once per frame.
type walkFrame struct {
	names       []string          // child link names, for messages
	dests       []string          // destination segments
	prefixes    []string          // non-empty flag fragments
	propagating map[string]string // name -> source key
	prohibited  map[string]string // name -> declaration site
	excluded    map[string]struct{}
}

func (p *Provider) register(st *walkState, f walkFrame) error {
	group := st.engine.Group(formatGroup(f.names))
	outPropagating := make(map[string]string)
	outProhibited := make(map[string]string)

	for _, v := range p.values {
		if _, skip := f.excluded[v.PrimaryName()]; skip {
			continue
		}

		dest := EncodeKey(f.dests, v.DestKey())
		site := formatSite(f.names, v.PrimaryName())

		if sources := propagationSources(v.Names, f.propagating); len(sources) > 0 {
			if len(sources) > 1 {
				return &PropagationConflictError{Site: site, Names: v.Names, Sources: sources}
			}
			st.reg.Bindings = append(st.reg.Bindings, Binding{Source: sources[0], Target: dest})
			continue
		}

		for _, name := range v.Names {
			if with, ok := f.prohibited[name]; ok {
				w := &ConflictWarning{Site: formatSite(f.names, name), With: with}
				st.reg.Warnings = append(st.reg.Warnings, w)
				st.logger.Warn("Name conflict in configuration schema", "value", w.Site, "conflicts_with", w.With)
				break
			}
		}

		names := make([]string, 0, len(v.Names))
		for _, name := range v.Names {
			names = append(names, flagName(f.prefixes, name))
		}
		if err := group.AddFlag(newFlagSpec(v, names, f.prefixes, dest, site)); err != nil {
			return fmt.Errorf("failed to register %s: %w", site, err)
		}

		switch v.Propagate {
		case PropagateYes:
			for _, target := range v.targets() {
				outPropagating[target] = dest
			}
		case PropagateUnset:
			for _, target := range v.targets() {
				outProhibited[target] = formatSite(f.names, target)
			}
		}
	}

	// Ancestor entries win over names declared at this node.
	for name, source := range f.propagating {
		outPropagating[name] = source
	}
	for name, site := range f.prohibited {
		outProhibited[name] = site
	}

	for _, link := range p.children {
		prefixes := f.prefixes
		if link.prefix != "" {
			prefixes = appendPath(f.prefixes, link.prefix)
		}
		child := walkFrame{
			names:       appendPath(f.names, link.name),
			dests:       appendPath(f.dests, link.dest),
			prefixes:    prefixes,
			propagating: outPropagating,
			prohibited:  outProhibited,
			excluded:    link.excluded,
		}
		if err := link.provider.register(st, child); err != nil {
			return err
		}
	}
	return nil
}

// propagationSources returns the distinct sources for names, in name order.
func propagationSources(names []string, propagating map[string]string) []string {
	var sources []string
	for _, name := range names {
		source, ok := propagating[name]
		if !ok {
			continue
		}
		duplicate := false
		for _, s := range sources {
			if s == source {
				duplicate = true
				break
			}
		}
		if !duplicate {
			sources = append(sources, source)
		}
	}
	return sources
}

// flagName joins the flag fragments of a value, e.g. "car-ftire-radius".
func flagName(prefixes []string, name string) string {
	if len(prefixes) == 0 {
		return name
	}
	return strings.Join(prefixes, "-") + "-" + name
}

// appendPath copies before appending so sibling frames never share a backing array.
func appendPath(path []string, elem string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}
