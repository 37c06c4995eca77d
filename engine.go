// FILE: lixenwraith/hiconfig/engine.go
package hiconfig

// FlagSpec is one value declaration handed to an Engine by the registration walk.
type FlagSpec struct {
	// Names are the full flag names without leading dashes; the first is primary.
	Names []string
	// Prefixes are the flag fragments contributed by enclosing child links.
	Prefixes []string
	// Name is the unprefixed primary name.
	Name string
	// Key is the encoded storage key of the parsed value.
	Key string
	// Site is the human-readable declaration site.
	Site string

	Default    any
	HasDefault bool
	Coerce     CoerceFunc
	Help       string
	Metavar    string
	Choices    []string
	Multiple   bool
	Bool       bool

	value Value
}

// FlagAdder accepts flag declarations.
type FlagAdder interface {
	AddFlag(spec FlagSpec) error
}

// PostParseFunc runs on the namespace produced by a parse, before it is handed out.
type PostParseFunc func(ns *Namespace) error

// Engine is the flag-parsing engine a schema registers with.
type Engine interface {
	FlagAdder

	// Group returns a scope whose flags are listed under title in usage output.
	Group(title string) FlagAdder

	// OnParsed schedules fn to run after every parse, in registration order.
	OnParsed(fn PostParseFunc)
}

func newFlagSpec(v Value, names, prefixes []string, key, site string) FlagSpec {
	coerce, _ := v.coercer()
	return FlagSpec{
		Names:      names,
		Prefixes:   prefixes,
		Name:       v.PrimaryName(),
		Key:        key,
		Site:       site,
		Default:    v.Default,
		HasDefault: v.Default != nil,
		Coerce:     coerce,
		Help:       v.Help,
		Metavar:    v.metavar(),
		Choices:    v.Choices,
		Multiple:   v.isMultiple(),
		Bool:       v.isBool(),
		value:      v,
	}
}

// coerce converts the raw strings collected for this flag.
func (s FlagSpec) coerce(raws []string) (any, error) {
	v := s.value
	if v.PrimaryName() == "" {
		// Declared outside the registration walk.
		v = Value{Names: []string{s.Name}, Default: s.Default, Coerce: s.Coerce, Choices: s.Choices, Multiple: s.Multiple}
	}
	return coerceAll(v, raws)
}
