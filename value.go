// FILE: lixenwraith/hiconfig/value.go
package hiconfig

import (
	"fmt"
	"reflect"
	"strings"
)

// Propagation is a value's intent towards same-named values in descendants.
type Propagation int

const (
	// PropagateUnset declares no intent: a descendant redeclaring the name
	// triggers a ConflictWarning.
	PropagateUnset Propagation = iota
	// PropagateYes supplies this value to every descendant declaring one of its targets.
	PropagateYes
	// PropagateNo lets descendants redeclare the name freely.
	PropagateNo
)

// String returns the name of the propagation state.
func (p Propagation) String() string {
	switch p {
	case PropagateUnset:
		return "unset"
	case PropagateYes:
		return "yes"
	case PropagateNo:
		return "no"
	default:
		return fmt.Sprintf("Propagation(%d)", int(p))
	}
}

// CoerceFunc converts a raw string from the command line or a document into a typed value.
type CoerceFunc func(string) (any, error)

// Value declares one configurable value of a Provider.
type Value struct {
	// Names are the flag names of the value; the first is the primary name.
	Names []string

	// Default is used when no source supplies the value. Its type drives
	// coercion when Coerce is nil.
	Default any

	// Coerce converts raw strings. Required when Default is nil.
	Coerce CoerceFunc

	// Propagate sets the intent towards descendants declaring the same name.
	Propagate Propagation

	// PropagateTargets are the names matched in descendants. Defaults to Names.
	PropagateTargets []string

	// Dest overrides the destination key. Defaults to the primary name,
	// lowercased with '-' replaced by '_'.
	Dest string

	// Help is the usage text.
	Help string

	// Metavar names the argument in usage. Defaults to the upper-cased primary name.
	Metavar string

	// Choices, if set, restricts the accepted raw strings.
	Choices []string

	// Multiple makes the flag repeatable; the parsed value is a slice.
	// Implied by a slice Default.
	Multiple bool
}

// PrimaryName returns the first name.
func (v Value) PrimaryName() string {
	if len(v.Names) == 0 {
		return ""
	}
	return v.Names[0]
}

// DestKey returns the destination key of the value within its node.
func (v Value) DestKey() string {
	if v.Dest != "" {
		return v.Dest
	}
	return normalizeDest(v.PrimaryName())
}

// targets returns the names matched against descendants.
func (v Value) targets() []string {
	if len(v.PropagateTargets) > 0 {
		return v.PropagateTargets
	}
	return v.Names
}

func (v Value) metavar() string {
	if v.Metavar != "" {
		return v.Metavar
	}
	return strings.ToUpper(normalizeDest(v.PrimaryName()))
}

// isBool reports whether the value is a switch that may be given without an argument.
func (v Value) isBool() bool {
	if v.Default == nil || v.isMultiple() {
		return false
	}
	return reflect.TypeOf(v.Default).Kind() == reflect.Bool
}

func (v Value) isMultiple() bool {
	if v.Multiple {
		return true
	}
	return v.Default != nil && reflect.TypeOf(v.Default).Kind() == reflect.Slice
}

// coercer returns the function converting one raw string of this value.
func (v Value) coercer() (CoerceFunc, error) {
	if v.Coerce != nil {
		return v.Coerce, nil
	}
	if v.Default == nil {
		return nil, fmt.Errorf("value requires a default or a coercion function")
	}
	t := reflect.TypeOf(v.Default)
	if t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return coerceFor(t)
}

// validate checks the declaration in isolation.
func (v Value) validate(site string) error {
	if len(v.Names) == 0 {
		return structuralf(site, "value declares no names")
	}
	seen := make(map[string]bool, len(v.Names))
	for _, name := range v.Names {
		if !validFlagName(name) {
			return structuralf(site, "invalid value name %q", name)
		}
		if seen[name] {
			return structuralf(site, "name %q declared twice", name)
		}
		seen[name] = true
	}
	for _, target := range v.PropagateTargets {
		if !validFlagName(target) {
			return structuralf(site, "invalid propagation target %q", target)
		}
	}
	if !ValidSegment(v.DestKey()) {
		return structuralf(site, "invalid destination %q", v.DestKey())
	}
	if v.Propagate < PropagateUnset || v.Propagate > PropagateNo {
		return structuralf(site, "unknown propagation state %d", int(v.Propagate))
	}
	if _, err := v.coercer(); err != nil {
		return structuralf(site, "%v", err)
	}
	return nil
}

// normalizeDest derives a destination key from a flag name.
func normalizeDest(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "-", "_"))
}

// validFlagName accepts names usable both as a flag fragment and a key.
func validFlagName(name string) bool {
	if !ValidSegment(name) || strings.HasPrefix(name, "-") {
		return false
	}
	return !strings.ContainsAny(name, " =\t\n")
}
