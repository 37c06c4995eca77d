// FILE: lixenwraith/hiconfig/provider.go
package hiconfig

import (
	"errors"
	"fmt"
)

// Provider is a schema node: the values one component declares and the
// child providers it composes. A built Provider is immutable apart from the
// propagation bindings recorded when it is registered as a root.
// The same Provider may be linked from many parents.
type Provider struct {
	values   []Value
	children []ChildLink

	// bindings are owned by this provider when it is the root of a registration walk.
	bindings []Binding
}

// ProviderBuilder provides a fluent interface for declaring a Provider.
type ProviderBuilder struct {
	values   []Value
	children []ChildLink
	errs     []error
}

// NewProviderBuilder creates an empty provider builder.
func NewProviderBuilder() *ProviderBuilder {
	return &ProviderBuilder{}
}

// WithValues appends value declarations, in order.
func (b *ProviderBuilder) WithValues(values ...Value) *ProviderBuilder {
	b.values = append(b.values, values...)
	return b
}

// WithPropagated appends values that propagate to descendants.
// An unset Propagate becomes PropagateYes; PropagateNo is an error.
func (b *ProviderBuilder) WithPropagated(values ...Value) *ProviderBuilder {
	for _, v := range values {
		switch v.Propagate {
		case PropagateNo:
			b.errs = append(b.errs, structuralf(formatSite(nil, v.PrimaryName()),
				"a propagated value cannot set PropagateNo"))
			continue
		case PropagateUnset:
			v.Propagate = PropagateYes
		}
		b.values = append(b.values, v)
	}
	return b
}

// WithChild links a child provider under name.
func (b *ProviderBuilder) WithChild(name string, provider *Provider, opts ...ChildOption) *ProviderBuilder {
	b.children = append(b.children, newChildLink(name, provider, opts...))
	return b
}

// Build validates the declarations and creates the Provider.
func (b *ProviderBuilder) Build() (*Provider, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	seen := make(map[string]string, len(b.values)+len(b.children))
	for _, v := range b.values {
		site := formatSite(nil, v.PrimaryName())
		if err := v.validate(site); err != nil {
			return nil, err
		}
		dest := v.DestKey()
		if prev, dup := seen[dest]; dup {
			return nil, structuralf(site, "destination %q already used by %s", dest, prev)
		}
		seen[dest] = "value " + v.PrimaryName()
	}

	for _, link := range b.children {
		if err := link.validate("/"); err != nil {
			return nil, err
		}
		if prev, dup := seen[link.dest]; dup {
			return nil, structuralf(formatSite(nil, link.name), "destination %q already used by %s", link.dest, prev)
		}
		seen[link.dest] = "child " + link.name
	}

	p := &Provider{
		values:   make([]Value, len(b.values)),
		children: make([]ChildLink, len(b.children)),
	}
	copy(p.values, b.values)
	copy(p.children, b.children)
	return p, nil
}

// MustBuild is like Build but panics on error.
func (b *ProviderBuilder) MustBuild() *Provider {
	p, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("provider build failed: %v", err))
	}
	return p
}

// Values returns a copy of the declared values.
func (p *Provider) Values() []Value {
	out := make([]Value, len(p.values))
	copy(out, p.values)
	return out
}

// Children returns a copy of the child links.
func (p *Provider) Children() []ChildLink {
	out := make([]ChildLink, len(p.children))
	copy(out, p.children)
	return out
}

// Bindings returns the propagation bindings recorded by the last successful
// Register call with this provider as root.
func (p *Provider) Bindings() []Binding {
	out := make([]Binding, len(p.bindings))
	copy(out, p.bindings)
	return out
}

func (p *Provider) declares(primary string) bool {
	for _, v := range p.values {
		if v.PrimaryName() == primary {
			return true
		}
	}
	return false
}
