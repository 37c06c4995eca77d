// FILE: lixenwraith/hiconfig/flagset.go
package hiconfig

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/pflag"
)

// groupAnnotation marks flags with the title of the schema node that declared them.
const groupAnnotation = "hiconfig_group"

// FlagEngine implements Engine over a pflag.FlagSet. Raw strings are
// collected during parsing and coerced when the namespace is materialized.
type FlagEngine struct {
	fs     *pflag.FlagSet
	output io.Writer
	logger *slog.Logger

	flags  map[string]*engineFlag // every defined name -> flag
	order  []*engineFlag
	groups []string
	hooks  []PostParseFunc

	layer int
}

type engineFlag struct {
	name    string
	group   string
	usage   string   // usage without the alias list
	aliases []string // hidden long aliases
	specs   []FlagSpec
	value   *rawValue
}

// EngineOption customizes a FlagEngine.
type EngineOption func(*FlagEngine)

// WithEngineLogger sets the logger for engine diagnostics (default: slog.Default()).
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *FlagEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithEngineOutput sets where usage is written (default: os.Stderr).
func WithEngineOutput(w io.Writer) EngineOption {
	return func(e *FlagEngine) {
		e.SetOutput(w)
	}
}

// NewFlagEngine creates an engine over a new flag set named after the program.
func NewFlagEngine(name string, opts ...EngineOption) *FlagEngine {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	e := newFlagEngine(fs)
	fs.Usage = e.Usage
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WrapFlagSet creates an engine defining its flags on an existing flag set,
// such as a cobra command's Flags(). The owner of the flag set parses it;
// call Namespace afterwards.
func WrapFlagSet(fs *pflag.FlagSet, opts ...EngineOption) *FlagEngine {
	e := newFlagEngine(fs)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newFlagEngine(fs *pflag.FlagSet) *FlagEngine {
	fs.SortFlags = false
	return &FlagEngine{
		fs:     fs,
		output: os.Stderr,
		logger: slog.Default(),
		flags:  make(map[string]*engineFlag),
	}
}

// AddFlag declares a flag outside any group.
func (e *FlagEngine) AddFlag(spec FlagSpec) error {
	return e.addFlag(spec, "")
}

// Group returns a scope whose flags are listed under title in usage output.
func (e *FlagEngine) Group(title string) FlagAdder {
	return groupAdder{engine: e, title: title}
}

// OnParsed schedules fn to run on every materialized namespace.
func (e *FlagEngine) OnParsed(fn PostParseFunc) {
	e.hooks = append(e.hooks, fn)
}

type groupAdder struct {
	engine *FlagEngine
	title  string
}

func (g groupAdder) AddFlag(spec FlagSpec) error {
	return g.engine.addFlag(spec, g.title)
}

func (e *FlagEngine) addFlag(spec FlagSpec, group string) error {
	if len(spec.Names) == 0 {
		return fmt.Errorf("flag for %s has no names", spec.Key)
	}
	primary := spec.Names[0]

	// A name already defined by this engine is shared: one flag feeds every key.
	if f, ok := e.flags[primary]; ok {
		if f.value.multiple != spec.Multiple || f.value.isBool != spec.Bool {
			return fmt.Errorf("flag --%s is shared by %s and %s with different kinds", primary, f.specs[0].Site, spec.Site)
		}
		f.specs = append(f.specs, spec)
		e.logger.Debug("Sharing flag between values", "flag", primary, "key", spec.Key, "shared_with", f.specs[0].Key)
		return e.addAliases(f, spec.Names[1:])
	}
	if e.fs.Lookup(primary) != nil {
		return fmt.Errorf("flag --%s is already defined by the host program", primary)
	}

	aliases := spec.Names[1:]
	shorthand := ""
	for i, alias := range aliases {
		// -h stays the implicit help shorthand.
		if len(alias) == 1 && alias != "h" && e.fs.ShorthandLookup(alias) == nil {
			shorthand = alias
			aliases = append(append([]string{}, aliases[:i]...), aliases[i+1:]...)
			break
		}
	}

	value := &rawValue{
		engine:   e,
		isBool:   spec.Bool,
		multiple: spec.Multiple,
		metavar:  spec.Metavar,
	}
	usage := flagUsage(spec)
	flag := e.fs.VarPF(value, primary, shorthand, usage)
	flag.DefValue = formatDefault(spec.Default)
	if spec.Bool {
		flag.NoOptDefVal = "true"
	}
	if group != "" {
		if err := e.fs.SetAnnotation(primary, groupAnnotation, []string{group}); err != nil {
			return err
		}
	}

	f := &engineFlag{name: primary, group: group, usage: usage, specs: []FlagSpec{spec}, value: value}
	e.flags[primary] = f
	e.order = append(e.order, f)
	e.addGroup(group)
	return e.addAliases(f, aliases)
}

// addAliases defines alternate names as hidden flags sharing the primary's value.
func (e *FlagEngine) addAliases(f *engineFlag, aliases []string) error {
	primary := e.fs.Lookup(f.name)
	for _, alias := range aliases {
		if alias == primary.Shorthand {
			continue
		}
		if owner, ok := e.flags[alias]; ok {
			if owner == f {
				continue
			}
			return fmt.Errorf("alias --%s of --%s is already the flag of %s", alias, f.name, owner.specs[0].Site)
		}
		if e.fs.Lookup(alias) != nil {
			return fmt.Errorf("alias --%s is already defined by the host program", alias)
		}
		flag := e.fs.VarPF(f.value, alias, "", "alias of --"+f.name)
		flag.DefValue = primary.DefValue
		flag.NoOptDefVal = primary.NoOptDefVal
		flag.Hidden = true
		e.flags[alias] = f
		f.aliases = append(f.aliases, alias)
	}

	if len(f.aliases) > 0 {
		names := make([]string, len(f.aliases))
		for i, alias := range f.aliases {
			names[i] = "--" + alias
		}
		primary.Usage = strings.TrimSpace(fmt.Sprintf("%s (a.k.a. %s)", f.usage, strings.Join(names, ", ")))
	}
	return nil
}

func (e *FlagEngine) addGroup(title string) {
	for _, g := range e.groups {
		if g == title {
			return
		}
	}
	e.groups = append(e.groups, title)
}

// Parse parses args as one layer and materializes the namespace.
func (e *FlagEngine) Parse(args []string) (*Namespace, error) {
	return e.ParseLayers(args)
}

// ParseLayers parses each layer in turn; a later layer overrides values set
// by earlier ones. Repeatable values are replaced, not extended, when a later
// layer sets them. Positional arguments come from the last layer.
func (e *FlagEngine) ParseLayers(layers ...[]string) (*Namespace, error) {
	for _, layer := range layers {
		e.layer++
		if err := e.fs.Parse(layer); err != nil {
			return nil, err
		}
	}
	return e.Namespace()
}

// Namespace builds the result namespace from the parsed flags and runs the
// post-parse hooks. Unset values take their default, or nil without one.
func (e *FlagEngine) Namespace() (*Namespace, error) {
	ns := NewNamespace()
	for _, f := range e.order {
		for _, spec := range f.specs {
			var value any
			switch {
			case f.value.set:
				v, err := spec.coerce(f.value.raws)
				if err != nil {
					return nil, fmt.Errorf("invalid argument for --%s: %w", f.name, err)
				}
				value = v
			case spec.HasDefault:
				value = spec.Default
			}
			if err := ns.Set(spec.Key, value); err != nil {
				return nil, fmt.Errorf("failed to store --%s: %w", f.name, err)
			}
		}
	}

	for _, hook := range e.hooks {
		if err := hook(ns); err != nil {
			return nil, err
		}
	}
	return ns, nil
}

// Args returns the positional arguments left after parsing.
func (e *FlagEngine) Args() []string {
	return e.fs.Args()
}

// FlagSet returns the underlying flag set.
func (e *FlagEngine) FlagSet() *pflag.FlagSet {
	return e.fs
}

// SetOutput sets where usage is written.
func (e *FlagEngine) SetOutput(w io.Writer) {
	e.output = w
	e.fs.SetOutput(w)
}

// Names returns the primary flag names in declaration order.
func (e *FlagEngine) Names() []string {
	names := make([]string, 0, len(e.order))
	for _, f := range e.order {
		names = append(names, f.name)
	}
	return names
}

// Specs returns the declarations feeding the flag with the given name.
func (e *FlagEngine) Specs(name string) []FlagSpec {
	f, ok := e.flags[name]
	if !ok {
		return nil
	}
	out := make([]FlagSpec, len(f.specs))
	copy(out, f.specs)
	return out
}

// Usage writes the flags grouped by the schema node that declared them.
func (e *FlagEngine) Usage() {
	fmt.Fprintf(e.output, "Usage of %s:\n", e.fs.Name())

	grouped := make(map[string]*pflag.FlagSet, len(e.groups))
	other := pflag.NewFlagSet("", pflag.ContinueOnError)
	other.SortFlags = false
	e.fs.VisitAll(func(flag *pflag.Flag) {
		titles := flag.Annotations[groupAnnotation]
		if len(titles) == 0 {
			other.AddFlag(flag)
			return
		}
		set, ok := grouped[titles[0]]
		if !ok {
			set = pflag.NewFlagSet("", pflag.ContinueOnError)
			set.SortFlags = false
			grouped[titles[0]] = set
		}
		set.AddFlag(flag)
	})

	if other.HasAvailableFlags() {
		fmt.Fprint(e.output, other.FlagUsages())
	}
	for _, title := range e.groups {
		set, ok := grouped[title]
		if !ok || !set.HasAvailableFlags() {
			continue
		}
		fmt.Fprintf(e.output, "\n%s:\n%s", title, set.FlagUsages())
	}
}

// rawValue collects the raw strings given for one flag.
type rawValue struct {
	engine   *FlagEngine
	isBool   bool
	multiple bool
	metavar  string

	raws  []string
	set   bool
	layer int
}

func (v *rawValue) String() string {
	if len(v.raws) == 0 {
		return ""
	}
	if v.multiple {
		return strings.Join(v.raws, ",")
	}
	return v.raws[len(v.raws)-1]
}

func (v *rawValue) Set(s string) error {
	if v.multiple && v.layer == v.engine.layer {
		v.raws = append(v.raws, s)
	} else {
		v.raws = []string{s}
	}
	v.layer = v.engine.layer
	v.set = true
	return nil
}

// Type names the argument in usage output; pflag hides it for "bool".
func (v *rawValue) Type() string {
	if v.isBool {
		return "bool"
	}
	return v.metavar
}

func flagUsage(spec FlagSpec) string {
	usage := spec.Help
	if len(spec.Choices) > 0 {
		usage = strings.TrimSpace(fmt.Sprintf("%s (one of: %s)", usage, strings.Join(spec.Choices, ", ")))
	}
	if spec.Multiple {
		usage = strings.TrimSpace(usage + " (repeatable)")
	}
	return usage
}

// formatDefault renders a default for usage output.
func formatDefault(def any) string {
	if def == nil {
		return ""
	}
	rv := reflect.ValueOf(def)
	if rv.Kind() == reflect.Slice {
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, fmt.Sprint(rv.Index(i).Interface()))
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	return fmt.Sprint(def)
}
