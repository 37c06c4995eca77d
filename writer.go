// FILE: lixenwraith/hiconfig/writer.go
package hiconfig

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// templateSection is one table of a template: the values whose flag
// fragments equal its path, then its sub-sections.
type templateSection struct {
	name     string
	values   []DeclaredValue
	children []*templateSection
}

func (s *templateSection) child(name string) *templateSection {
	for _, c := range s.children {
		if c.name == name {
			return c
		}
	}
	c := &templateSection{name: name}
	s.children = append(s.children, c)
	return c
}

// buildSections arranges declarations by their flag fragments, so that
// dash-joining a template path reproduces the flag name.
func buildSections(values []DeclaredValue) *templateSection {
	root := &templateSection{}
	for _, v := range uniqueFlags(values) {
		s := root
		for _, prefix := range v.Prefixes {
			s = s.child(prefix)
		}
		s.values = append(s.values, v)
	}
	return root
}

// WriteTemplate renders a commented-out configuration template listing every
// declared value with its help text and default. Uncommenting a line and
// reading the file back sets that value.
func (p *Provider) WriteTemplate(format Format) ([]byte, error) {
	values, err := p.Declared()
	if err != nil {
		return nil, err
	}
	root := buildSections(values)

	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		buf.WriteString("## Configuration template. Uncomment a value to override its default.\n\n")
		if err := writeTOMLSection(&buf, root, nil); err != nil {
			return nil, err
		}
	case FormatYAML:
		buf.WriteString("---\n## Configuration template. Uncomment a value to override its default.\n\n")
		if err := writeYAMLSection(&buf, root, 0); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: cannot write %q templates", ErrUnsupportedFormat, format)
	}
	return buf.Bytes(), nil
}

// WriteTemplateFile writes a template atomically. FormatAuto picks the
// format from the file extension.
func (p *Provider) WriteTemplateFile(path string, format Format) error {
	if format == FormatAuto || format == "" {
		format = DetectFormat(path)
	}
	data, err := p.WriteTemplate(format)
	if err != nil {
		return err
	}
	if err := atomicWriteFile(path, data); err != nil {
		return fmt.Errorf("failed to write template '%s': %w", path, err)
	}
	return nil
}

func writeTOMLSection(buf *bytes.Buffer, s *templateSection, path []string) error {
	if len(s.values) > 0 && len(path) > 0 {
		keys := make([]string, len(path))
		for i, p := range path {
			keys[i] = quoteKey(p)
		}
		fmt.Fprintf(buf, "[%s]\n", strings.Join(keys, "."))
	}

	for _, v := range s.values {
		writeHelp(buf, "", v)
		value := v.Metavar
		if v.HasDefault {
			formatted, err := tomlValue(v.Default)
			if err != nil {
				return fmt.Errorf("value %s: %w", v.Flag, err)
			}
			value = formatted
		}
		fmt.Fprintf(buf, "# %s = %s\n\n", quoteKey(v.Name), value)
	}

	for _, c := range s.children {
		if err := writeTOMLSection(buf, c, appendPath(path, c.name)); err != nil {
			return err
		}
	}
	return nil
}

func writeYAMLSection(buf *bytes.Buffer, s *templateSection, depth int) error {
	indent := strings.Repeat("  ", depth)

	for _, v := range s.values {
		writeHelp(buf, indent, v)
		if !v.HasDefault {
			fmt.Fprintf(buf, "%s# %s: %s\n\n", indent, quoteKey(v.Name), v.Metavar)
			continue
		}

		rv := reflect.ValueOf(v.Default)
		if rv.Kind() == reflect.Slice {
			fmt.Fprintf(buf, "%s# %s:\n", indent, quoteKey(v.Name))
			for i := 0; i < rv.Len(); i++ {
				elem, err := yamlValue(rv.Index(i).Interface())
				if err != nil {
					return fmt.Errorf("value %s: %w", v.Flag, err)
				}
				fmt.Fprintf(buf, "%s#   - %s\n", indent, elem)
			}
			buf.WriteString("\n")
			continue
		}

		value, err := yamlValue(v.Default)
		if err != nil {
			return fmt.Errorf("value %s: %w", v.Flag, err)
		}
		fmt.Fprintf(buf, "%s# %s: %s\n\n", indent, quoteKey(v.Name), value)
	}

	for _, c := range s.children {
		fmt.Fprintf(buf, "%s%s:\n", indent, quoteKey(c.name))
		if err := writeYAMLSection(buf, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func writeHelp(buf *bytes.Buffer, indent string, v DeclaredValue) {
	help := v.Help
	if len(v.Choices) > 0 {
		help = strings.TrimSpace(fmt.Sprintf("%s (one of: %s)", help, strings.Join(v.Choices, ", ")))
	}
	if help == "" {
		help = "--" + v.Flag
	}
	for _, line := range strings.Split(help, "\n") {
		fmt.Fprintf(buf, "%s## %s\n", indent, line)
	}
}

// tomlValue renders a default as a TOML value using the encoder.
func tomlValue(v any) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string]any{"v": templateScalar(v)}); err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.TrimPrefix(buf.String(), "v = ")), nil
}

// yamlValue renders a scalar default as a YAML value.
func yamlValue(v any) (string, error) {
	out, err := yaml.Marshal(templateScalar(v))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// templateScalar converts durations to the strings their coercion parses.
func templateScalar(v any) any {
	switch val := v.(type) {
	case time.Duration:
		return val.String()
	case []time.Duration:
		out := make([]string, len(val))
		for i, d := range val {
			out[i] = d.String()
		}
		return out
	}
	return v
}

func quoteKey(s string) string {
	if isBareKey(s) {
		return s
	}
	return strconv.Quote(s)
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
