// File: lixenwraith/hiconfig/builder.go
package hiconfig

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Source names where a value can come from.
type Source string

// Configuration sources.
const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceCLI     Source = "cli"
)

// DefaultSources returns the default precedence, highest first.
func DefaultSources() []Source {
	return []Source{SourceCLI, SourceEnv, SourceFile, SourceDefault}
}

// Builder provides a fluent interface for parsing a schema from several sources.
// Each source becomes one layer of a single FlagEngine, lowest precedence
// first, so a later layer overrides an earlier one flag by flag.
type Builder struct {
	root         *Provider
	name         string
	args         []string
	file         string
	format       Format
	envPrefix    string
	envTransform EnvTransformFunc
	sources      []Source
	logger       *slog.Logger
	output       io.Writer

	engine *FlagEngine
	reg    *Registration
}

// NewBuilder creates a builder for the schema rooted at root, reading the
// process arguments by default.
func NewBuilder(root *Provider) *Builder {
	args := []string{}
	if len(os.Args) > 1 {
		args = os.Args[1:]
	}
	return &Builder{
		root:    root,
		name:    filepath.Base(os.Args[0]),
		args:    args,
		format:  FormatAuto,
		sources: DefaultSources(),
		logger:  slog.Default(),
		output:  os.Stderr,
	}
}

// WithName sets the program name shown in usage.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithArgs sets the command-line arguments
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithFile sets the configuration file path
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithFormat forces the configuration file format instead of detecting it.
func (b *Builder) WithFormat(format Format) *Builder {
	b.format = format
	return b
}

// WithEnvPrefix sets the environment variable prefix
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.envPrefix = prefix
	return b
}

// WithEnvTransform sets a custom environment variable transformer
func (b *Builder) WithEnvTransform(fn EnvTransformFunc) *Builder {
	b.envTransform = fn
	return b
}

// WithSources sets the precedence order for configuration sources, highest
// first. A source left out is not read. Defaults always apply last.
func (b *Builder) WithSources(sources ...Source) *Builder {
	b.sources = sources
	return b
}

// WithLogger sets the logger for conflict warnings and ignored keys.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithOutput sets where usage is written on --help.
func (b *Builder) WithOutput(w io.Writer) *Builder {
	b.output = w
	return b
}

// Build registers the schema, reads every source and returns the namespace.
// A missing configuration file is not fatal: the namespace is returned
// together with ErrConfigNotFound. --help prints usage and returns pflag.ErrHelp.
func (b *Builder) Build() (*Namespace, error) {
	if b.root == nil {
		return nil, fmt.Errorf("builder has no root provider")
	}

	e := NewFlagEngine(b.name, WithEngineLogger(b.logger), WithEngineOutput(b.output))
	reg, err := b.root.Register(e, WithLogger(b.logger))
	if err != nil {
		return nil, err
	}
	b.engine, b.reg = e, reg

	var layers [][]string
	var fileErr error
	for i := len(b.sources) - 1; i >= 0; i-- {
		switch src := b.sources[i]; src {
		case SourceDefault:
			// Defaults are the engine's fallback for flags no layer sets.
		case SourceFile:
			args, err := b.fileLayer(e)
			if errors.Is(err, ErrConfigNotFound) {
				b.logger.Debug("Configuration file not found", "path", b.file)
				fileErr = err
				continue
			}
			if err != nil {
				return nil, err
			}
			layers = append(layers, args)
		case SourceEnv:
			overrides, err := b.root.EnvOverrides(b.envPrefix, b.envTransform)
			if err != nil {
				return nil, fmt.Errorf("failed to load environment: %w", err)
			}
			args, err := OverrideArgs(overrides)
			if err != nil {
				return nil, fmt.Errorf("failed to load environment: %w", err)
			}
			layers = append(layers, args)
		case SourceCLI:
			layers = append(layers, b.args)
		default:
			return nil, fmt.Errorf("unknown configuration source %q", src)
		}
	}

	ns, err := e.ParseLayers(layers...)
	if err != nil {
		return nil, err
	}

	// ErrConfigNotFound or nil
	return ns, fileErr
}

func (b *Builder) fileLayer(e *FlagEngine) ([]string, error) {
	if b.file == "" {
		return nil, nil
	}
	data, err := readDocumentFile(b.file)
	if err != nil {
		return nil, err
	}

	format := b.format
	if format == FormatAuto || format == "" {
		if detected := DetectFormat(b.file); detected != "" {
			format = detected
		}
	}
	doc, err := DecodeDocument(data, format)
	if err != nil {
		return nil, fmt.Errorf("config file '%s': %w", b.file, err)
	}
	return documentArgs(e, doc, b.logger)
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Namespace {
	ns, err := b.Build()
	if err != nil {
		// Ignore ErrConfigNotFound as it is not a fatal error for MustBuild.
		if !errors.Is(err, ErrConfigNotFound) {
			panic(fmt.Sprintf("config build failed: %v", err))
		}
	}
	return ns
}

// BuildAndScan builds and decodes the namespace into the provided target struct pointer
func (b *Builder) BuildAndScan(target any) error {
	ns, err := b.Build()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return err
	}

	if err := ns.Scan(target); err != nil {
		return fmt.Errorf("failed to scan final config into target: %w", err)
	}

	// ErrConfigNotFound or nil
	return err
}

// Args returns the positional arguments of the last Build.
func (b *Builder) Args() []string {
	if b.engine == nil {
		return nil
	}
	return b.engine.Args()
}

// Warnings returns the name conflicts found by the last Build.
func (b *Builder) Warnings() []*ConflictWarning {
	if b.reg == nil {
		return nil
	}
	return b.reg.Warnings
}

// Usage writes the grouped flag usage of the schema.
func (b *Builder) Usage() error {
	e := NewFlagEngine(b.name, WithEngineLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), WithEngineOutput(b.output))
	if _, err := b.root.walk(e, registerConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}); err != nil {
		return err
	}
	e.Usage()
	return nil
}
