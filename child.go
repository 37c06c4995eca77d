// FILE: lixenwraith/hiconfig/child.go
package hiconfig

import "strings"

// ChildLink binds a child Provider into a parent under a name.
type ChildLink struct {
	name     string
	prefix   string
	dest     string
	excluded map[string]struct{}
	provider *Provider
}

// ChildOption customizes a ChildLink.
type ChildOption func(*ChildLink)

// WithPrefix sets the flag fragment the child contributes (default: its name).
// An empty prefix registers the child's flags without a fragment.
func WithPrefix(prefix string) ChildOption {
	return func(l *ChildLink) {
		l.prefix = prefix
	}
}

// WithDest sets the segment under which the child's values are stored
// (default: its name with '-' replaced by '_').
func WithDest(dest string) ChildOption {
	return func(l *ChildLink) {
		l.dest = dest
	}
}

// WithoutValues excludes child values, by primary name, from registration.
// The owner supplies them at runtime, typically through Namespace.Derive.
func WithoutValues(names ...string) ChildOption {
	return func(l *ChildLink) {
		for _, name := range names {
			l.excluded[name] = struct{}{}
		}
	}
}

func newChildLink(name string, provider *Provider, opts ...ChildOption) ChildLink {
	link := ChildLink{
		name:     name,
		prefix:   name,
		dest:     strings.ReplaceAll(name, "-", "_"),
		excluded: make(map[string]struct{}),
		provider: provider,
	}
	for _, opt := range opts {
		opt(&link)
	}
	return link
}

// Name returns the name the child is addressed by.
func (l ChildLink) Name() string { return l.name }

// Prefix returns the flag fragment of the child.
func (l ChildLink) Prefix() string { return l.prefix }

// Dest returns the destination segment of the child.
func (l ChildLink) Dest() string { return l.dest }

// Provider returns the linked provider.
func (l ChildLink) Provider() *Provider { return l.provider }

// Excluded reports whether the child value with the given primary name is excluded.
func (l ChildLink) Excluded(name string) bool {
	_, ok := l.excluded[name]
	return ok
}

func (l ChildLink) validate(site string) error {
	if l.name == "" {
		return structuralf(site, "child link must have a name with at least one character")
	}
	childSite := site + l.name
	if l.dest == "" || !ValidSegment(l.dest) {
		return structuralf(childSite, "invalid child destination %q", l.dest)
	}
	if l.prefix != "" && !validFlagName(l.prefix) {
		return structuralf(childSite, "invalid child prefix %q", l.prefix)
	}
	if l.provider == nil {
		return structuralf(childSite, "child link has no provider")
	}
	for name := range l.excluded {
		if !l.provider.declares(name) {
			return structuralf(childSite, "excluded value %q is not declared by the child", name)
		}
	}
	return nil
}
