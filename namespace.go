// FILE: lixenwraith/hiconfig/namespace.go
package hiconfig

import (
	"fmt"
	"sort"

	"dario.cat/mergo"
)

// Namespace holds parsed values in two consistent views: a flat map keyed by
// encoded hierarchical keys, and a tree of child namespaces keyed by segment.
// Every write through either view updates both. Namespace is not safe for
// concurrent mutation.
type Namespace struct {
	flat map[string]any // encoded key -> value
	tree map[string]any // segment -> value or *Namespace

	parent *Namespace
	name   string
}

// NewNamespace creates an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		flat: make(map[string]any),
		tree: make(map[string]any),
	}
}

// FromMap builds a namespace from a nested map; nested maps become child namespaces.
func FromMap(m map[string]any) (*Namespace, error) {
	ns := NewNamespace()
	if err := ns.fill(nil, m); err != nil {
		return nil, err
	}
	return ns, nil
}

func (ns *Namespace) fill(parents []string, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !ValidSegment(k) {
			return fmt.Errorf("%w: invalid map key %q", ErrMalformedKey, k)
		}
		switch v := m[k].(type) {
		case map[string]any:
			path := appendPath(parents, k)
			if _, err := ns.ensureChild(path); err != nil {
				return err
			}
			if err := ns.fill(path, v); err != nil {
				return err
			}
		case *Namespace:
			if err := ns.fill(appendPath(parents, k), v.ToMap()); err != nil {
				return err
			}
		default:
			if err := ns.Set(EncodeKey(parents, k), v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Get returns the value at key, which may be a flat encoded key or the key of
// a subtree, in which case the child *Namespace is returned.
func (ns *Namespace) Get(key string) (any, error) {
	if v, ok := ns.flat[key]; ok {
		return v, nil
	}
	segments, leaf, err := DecodeKey(key)
	if err != nil {
		return nil, err
	}
	return ns.Path(append(segments, leaf)...)
}

// Lookup is like Get but reports absence with a bool.
func (ns *Namespace) Lookup(key string) (any, bool) {
	v, err := ns.Get(key)
	return v, err == nil
}

// Path returns the value or child namespace at a list of tree segments.
func (ns *Namespace) Path(segments ...string) (any, error) {
	if len(segments) == 0 {
		return ns, nil
	}
	cur := ns
	for i, seg := range segments {
		v, ok := cur.tree[seg]
		if !ok {
			return nil, &LookupError{Key: EncodeKey(segments[:i], seg)}
		}
		if i == len(segments)-1 {
			return v, nil
		}
		child, isNS := v.(*Namespace)
		if !isNS {
			return nil, &LookupError{Key: EncodeKey(segments[:i+1], segments[len(segments)-1])}
		}
		cur = child
	}
	return nil, &LookupError{Key: EncodeKey(segments[:len(segments)-1], segments[len(segments)-1])}
}

// Child returns the child namespace stored under a segment name.
func (ns *Namespace) Child(name string) (*Namespace, error) {
	v, ok := ns.tree[name]
	if !ok {
		return nil, &LookupError{Key: EncodeKey([]string{name}, "")}
	}
	child, isNS := v.(*Namespace)
	if !isNS {
		return nil, fmt.Errorf("%q holds a value, not a namespace: %w", name, ErrKeyNotFound)
	}
	return child, nil
}

// Has reports whether key holds a value or subtree.
func (ns *Namespace) Has(key string) bool {
	_, err := ns.Get(key)
	return err == nil
}

// Set stores value at an encoded key, creating intermediate namespaces.
// Namespaces and nested maps, the tree form of a namespace, cannot be stored
// as values; use Merge or FromMap instead.
func (ns *Namespace) Set(key string, value any) error {
	switch value.(type) {
	case *Namespace, Namespace, map[string]any, map[any]any:
		return fmt.Errorf("%w: key %s", ErrNamespaceValue, key)
	}

	segments, leaf, err := DecodeKey(key)
	if err != nil {
		return err
	}
	if err := ns.store(segments, leaf, value); err != nil {
		return err
	}

	// Ancestors only need their flat view updated; their tree shares this node.
	path := append([]string{ns.name}, segments...)
	for p := ns.parent; p != nil; p = p.parent {
		p.flat[EncodeKey(path, leaf)] = value
		path = append([]string{p.name}, path...)
	}
	return nil
}

// store writes downwards: this node's flat view and the tree path.
func (ns *Namespace) store(segments []string, leaf string, value any) error {
	if len(segments) == 0 {
		if _, isNS := ns.tree[leaf].(*Namespace); isNS {
			return fmt.Errorf("%w: %q is a subtree and cannot hold a value", ErrNamespaceValue, leaf)
		}
		ns.tree[leaf] = value
	} else {
		child, err := ns.childAt(segments[0])
		if err != nil {
			return err
		}
		if err := child.store(segments[1:], leaf, value); err != nil {
			return err
		}
	}
	ns.flat[EncodeKey(segments, leaf)] = value
	return nil
}

// childAt returns the child namespace for one segment, creating it if missing.
func (ns *Namespace) childAt(segment string) (*Namespace, error) {
	switch v := ns.tree[segment].(type) {
	case *Namespace:
		return v, nil
	case nil:
		if _, exists := ns.tree[segment]; exists {
			return nil, fmt.Errorf("%w: %q holds a value and cannot become a subtree", ErrNamespaceValue, segment)
		}
		child := NewNamespace()
		child.parent = ns
		child.name = segment
		ns.tree[segment] = child
		return child, nil
	default:
		return nil, fmt.Errorf("%w: %q holds a value and cannot become a subtree", ErrNamespaceValue, segment)
	}
}

func (ns *Namespace) ensureChild(path []string) (*Namespace, error) {
	cur := ns
	for _, seg := range path {
		child, err := cur.childAt(seg)
		if err != nil {
			return nil, err
		}
		cur = child
	}
	return cur, nil
}

// Keys returns the flat keys in sorted order.
func (ns *Namespace) Keys() []string {
	keys := make([]string, 0, len(ns.flat))
	for k := range ns.flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of flat entries.
func (ns *Namespace) Len() int {
	return len(ns.flat)
}

// Flat returns a copy of the flat view.
func (ns *Namespace) Flat() map[string]any {
	out := make(map[string]any, len(ns.flat))
	for k, v := range ns.flat {
		out[k] = v
	}
	return out
}

// Merge overlays the flat entries of other onto ns.
func (ns *Namespace) Merge(other *Namespace) error {
	for _, k := range other.Keys() {
		if err := ns.Set(k, other.flat[k]); err != nil {
			return fmt.Errorf("failed to merge key %s: %w", k, err)
		}
	}
	return nil
}

// Clone returns a detached deep copy of the namespace structure.
// Values themselves are shared.
func (ns *Namespace) Clone() *Namespace {
	out, err := FromMap(ns.ToMap())
	if err != nil {
		// ns was built through Set, so its keys are always valid.
		panic(fmt.Sprintf("hiconfig: clone of consistent namespace failed: %v", err))
	}
	return out
}

// ToMap converts the tree view into nested maps.
func (ns *Namespace) ToMap() map[string]any {
	out := make(map[string]any, len(ns.tree))
	for k, v := range ns.tree {
		if child, ok := v.(*Namespace); ok {
			out[k] = child.ToMap()
			continue
		}
		out[k] = v
	}
	return out
}

// Derive returns a modified copy of ns, leaving ns untouched. Overrides may
// use encoded flat keys or nested maps; nested maps are merged deeply.
func (ns *Namespace) Derive(overrides map[string]any) (*Namespace, error) {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	nested := make(map[string]any)
	for _, k := range keys {
		v := overrides[k]
		switch val := v.(type) {
		case *Namespace:
			v = val.ToMap()
		case map[string]any:
			// Merging writes into nested maps; never into the caller's.
			v = copyNested(val)
		}
		segments, leaf, err := DecodeKey(k)
		if err != nil {
			return nil, err
		}
		// Flat and nested forms of the same subtree merge instead of replacing each other.
		single := make(map[string]any)
		setNestedValue(single, append(segments, leaf), v)
		if err := mergo.Merge(&nested, single, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge override %s: %w", k, err)
		}
	}

	base := ns.ToMap()
	if err := mergo.Merge(&base, nested, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge overrides: %w", err)
	}
	return FromMap(base)
}
