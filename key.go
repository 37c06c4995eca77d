// FILE: lixenwraith/hiconfig/key.go
package hiconfig

import (
	"fmt"
	"strings"
)

// Delimiters enclosing each hierarchy segment of an encoded key.
// Neither may appear in a segment or a leaf name.
const (
	KeyOpen  = "["
	KeyClose = "]"
)

// EncodeKey joins hierarchy segments and a leaf name into one flat key,
// e.g. ["car", "front_tire"] + "radius" -> "[car][front_tire]radius".
// Segments must satisfy ValidSegment.
func EncodeKey(segments []string, leaf string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(KeyOpen)
		b.WriteString(s)
		b.WriteString(KeyClose)
	}
	b.WriteString(leaf)
	return b.String()
}

// DecodeKey splits an encoded key into its segments and leaf name.
// A key without segments decodes to an empty list and itself as the leaf.
func DecodeKey(key string) ([]string, string, error) {
	var segments []string
	rest := key
	for {
		head, remainder, nested, err := SplitKey(rest)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %q", err, key)
		}
		if !nested {
			return segments, rest, nil
		}
		segments = append(segments, head)
		rest = remainder
	}
}

// SplitKey extracts the topmost segment of an encoded key.
// nested is false when the key has no segment, in which case head is empty
// and rest is the key itself.
func SplitKey(key string) (head, rest string, nested bool, err error) {
	if !strings.HasPrefix(key, KeyOpen) {
		if err := checkLeaf(key); err != nil {
			return "", "", false, err
		}
		return "", key, false, nil
	}

	end := strings.Index(key, KeyClose)
	if end < 0 {
		return "", "", false, fmt.Errorf("%w: unclosed segment", ErrMalformedKey)
	}
	head = key[len(KeyOpen):end]
	if !ValidSegment(head) {
		return "", "", false, fmt.Errorf("%w: invalid segment %q", ErrMalformedKey, head)
	}
	rest = key[end+len(KeyClose):]
	if !strings.HasPrefix(rest, KeyOpen) {
		if err := checkLeaf(rest); err != nil {
			return "", "", false, err
		}
	}
	return head, rest, true, nil
}

// IsNestedKey reports whether key carries at least one hierarchy segment.
func IsNestedKey(key string) bool {
	return strings.HasPrefix(key, KeyOpen)
}

// ValidSegment reports whether s can be used as a hierarchy segment or leaf name.
func ValidSegment(s string) bool {
	return s != "" && !strings.Contains(s, KeyOpen) && !strings.Contains(s, KeyClose)
}

func checkLeaf(leaf string) error {
	if leaf == "" {
		return fmt.Errorf("%w: empty leaf name", ErrMalformedKey)
	}
	if !ValidSegment(leaf) {
		return fmt.Errorf("%w: delimiter in leaf %q", ErrMalformedKey, leaf)
	}
	return nil
}

// keyToSite renders an encoded key as a slash path for messages.
func keyToSite(key string) string {
	segments, leaf, err := DecodeKey(key)
	if err != nil {
		return key
	}
	return formatSite(segments, leaf)
}

// formatSite renders a declaration site, e.g. "/car/front_tire/radius".
func formatSite(path []string, name string) string {
	return "/" + strings.Join(append(append([]string{}, path...), name), "/")
}

// formatGroup renders the group title for a node, e.g. "/car/".
func formatGroup(path []string) string {
	if len(path) == 0 {
		return "/"
	}
	return "/" + strings.Join(path, "/") + "/"
}
