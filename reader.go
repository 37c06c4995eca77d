// FILE: lixenwraith/hiconfig/reader.go
package hiconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names a document format.
type Format string

// Supported document formats.
const (
	FormatAuto Format = "auto"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// MaxDocumentSize limits configuration files read from disk.
const MaxDocumentSize = 10 * 1024 * 1024

// ParseFormat converts a format name, case-insensitively. "" means FormatAuto.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return FormatAuto, nil
	case "toml", "tml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// DetectFormat determines the format from a file extension.
// It returns "" when the extension is not recognized.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".hcl":
		return FormatHCL
	}
	return ""
}

// DetectFormatFromContent attempts to detect the format by parsing.
// YAML accepts almost any text, so it is tried last and must yield a mapping.
func DetectFormatFromContent(data []byte) Format {
	var jsonTest map[string]any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return FormatJSON
	}

	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML
	}

	if _, err := decodeHCL(data, "detect.hcl"); err == nil {
		return FormatHCL
	}

	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return FormatYAML
	}

	return ""
}

// DecodeDocument parses a document into a nested map.
func DecodeDocument(data []byte, format Format) (map[string]any, error) {
	if format == FormatAuto || format == "" {
		format = DetectFormatFromContent(data)
		if format == "" {
			return nil, fmt.Errorf("%w: unable to determine document format", ErrUnsupportedFormat)
		}
	}

	doc := make(map[string]any)
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML document: %w", err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON document: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML document: %w", err)
		}
	case FormatHCL:
		parsed, err := decodeHCL(data, "document.hcl")
		if err != nil {
			return nil, err
		}
		doc = parsed
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return normalizeDocument(doc), nil
}

// normalizeDocument converts YAML's map[any]any into map[string]any throughout.
func normalizeDocument(doc map[string]any) map[string]any {
	for k, v := range doc {
		doc[k] = normalizeNode(v)
	}
	return doc
}

func normalizeNode(v any) any {
	switch node := v.(type) {
	case map[string]any:
		return normalizeDocument(node)
	case map[any]any:
		m := make(map[string]any, len(node))
		for k, val := range node {
			m[fmt.Sprint(k)] = normalizeNode(val)
		}
		return m
	case []any:
		for i, elem := range node {
			node[i] = normalizeNode(elem)
		}
		return node
	}
	return v
}

// OverrideArgs renders flat flag-name/value pairs as "--name=value" tokens,
// in sorted key order. Lists become one token per element.
func OverrideArgs(flat map[string]any) ([]string, error) {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(keys))
	for _, k := range keys {
		v := flat[k]
		if v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				s, err := formatScalar(rv.Index(i).Interface())
				if err != nil {
					return nil, fmt.Errorf("key %q element %d: %w", k, i, err)
				}
				args = append(args, "--"+k+"="+s)
			}
			continue
		}
		s, err := formatScalar(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		args = append(args, "--"+k+"="+s)
	}
	return args, nil
}

// formatScalar renders a document value as the raw string a flag would receive.
func formatScalar(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	case json.Number:
		return val.String(), nil
	case time.Time:
		return val.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return val.String(), nil
	case map[string]any:
		return "", fmt.Errorf("%w: nested table cannot be a value", ErrInvalidValue)
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(v), nil
	}
	return "", fmt.Errorf("%w: unsupported value type %T", ErrInvalidValue, v)
}

// documentArgs converts a decoded document into flag tokens for e, skipping
// keys that match no flag.
func documentArgs(e *FlagEngine, doc map[string]any, logger *slog.Logger) ([]string, error) {
	flat := FlattenDocument(doc)
	for k, v := range flat {
		if v == nil {
			// Empty tables, e.g. a YAML section whose values are all commented out.
			delete(flat, k)
			continue
		}
		if e.fs.Lookup(k) == nil {
			logger.Warn("Ignoring unknown configuration key", "key", k)
			delete(flat, k)
		}
	}
	return OverrideArgs(flat)
}

// ReadDocument parses a document against the schema rooted at p. Values are
// fed through a fresh FlagEngine, so coercion, defaults and propagation apply
// exactly as for command-line arguments.
func (p *Provider) ReadDocument(data []byte, format Format, opts ...RegisterOption) (*Namespace, error) {
	cfg := registerConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc, err := DecodeDocument(data, format)
	if err != nil {
		return nil, err
	}

	e := NewFlagEngine("document", WithEngineLogger(cfg.logger))
	if _, err := p.Register(e, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))); err != nil {
		return nil, err
	}
	args, err := documentArgs(e, doc, cfg.logger)
	if err != nil {
		return nil, err
	}
	return e.Parse(args)
}

// ReadFile reads and parses a configuration file against the schema rooted
// at p. The format follows the extension, or the content when unrecognized.
func (p *Provider) ReadFile(path string, opts ...RegisterOption) (*Namespace, error) {
	data, err := readDocumentFile(path)
	if err != nil {
		return nil, err
	}
	format := DetectFormat(path)
	if format == "" {
		format = FormatAuto
	}
	ns, err := p.ReadDocument(data, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("config file '%s': %w", path, err)
	}
	return ns, nil
}

func readDocumentFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to stat config file '%s': %w", path, err)
	}
	if info.Size() > MaxDocumentSize {
		return nil, fmt.Errorf("config file '%s' exceeds maximum size %d bytes", path, MaxDocumentSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return data, nil
}
