// FILE: lixenwraith/hiconfig/errors.go
package hiconfig

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by schema construction, registration and namespace access.
var (
	// ErrStructural indicates an authoring bug in a schema tree.
	ErrStructural = errors.New("structural schema error")

	// ErrPropagationConflict indicates a value that would receive propagation from more than one source.
	ErrPropagationConflict = errors.New("propagation conflict")

	// ErrKeyNotFound indicates a key absent from a Namespace.
	ErrKeyNotFound = errors.New("key not found")

	// ErrMalformedKey indicates a hierarchical key not produced by EncodeKey.
	ErrMalformedKey = errors.New("malformed hierarchical key")

	// ErrNamespaceValue indicates an attempt to store a namespace as a plain value.
	ErrNamespaceValue = errors.New("namespace cannot be assigned as a value")

	// ErrInvalidValue indicates a raw string that failed coercion or choice checks.
	ErrInvalidValue = errors.New("invalid value")

	// ErrConfigNotFound indicates the configuration file does not exist. Not fatal for the Builder.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrValueSize indicates an override value larger than MaxValueSize.
	ErrValueSize = errors.New("value exceeds maximum size")

	// ErrUnsupportedFormat indicates a document format with no adapter.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// MaxValueSize limits a single value read from the environment.
const MaxValueSize = 1024 * 1024

// StructuralError reports a schema that can never be registered safely:
// duplicate destinations, empty child names, invalid keys.
type StructuralError struct {
	// Site is the human-readable declaration site, when known.
	Site string
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	if e.Site == "" {
		return fmt.Sprintf("%s: %s", ErrStructural, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", ErrStructural, e.Site, e.Message)
}

// Unwrap returns ErrStructural.
func (e *StructuralError) Unwrap() error {
	return ErrStructural
}

// PropagationConflictError reports a value that more than one ancestor propagates to.
type PropagationConflictError struct {
	// Site is the declaration site of the receiving value.
	Site string
	// Names are the receiving value's names.
	Names []string
	// Sources are the distinct source keys, in the order they were found.
	Sources []string
}

// Error implements the error interface.
func (e *PropagationConflictError) Error() string {
	sources := make([]string, 0, len(e.Sources))
	for _, s := range e.Sources {
		sources = append(sources, keyToSite(s))
	}
	return fmt.Sprintf("%s: value %s ([%s]) receives propagation from %s; disable propagation or exclude the value",
		ErrPropagationConflict, e.Site, strings.Join(e.Names, ", "), strings.Join(sources, " and "))
}

// Unwrap returns ErrPropagationConflict.
func (e *PropagationConflictError) Unwrap() error {
	return ErrPropagationConflict
}

// ConflictWarning reports a descendant declaring a name an ancestor already
// declared without propagation intent. It is never returned as a failure;
// registration continues and the warning is logged and collected.
type ConflictWarning struct {
	// Site is the later (conflicting) declaration.
	Site string
	// With is the earlier declaration that owns the name.
	With string
}

// Error implements the error interface so warnings can be logged like errors.
func (w *ConflictWarning) Error() string {
	return fmt.Sprintf("value %s conflicts with value %s; set Propagate to PropagateNo or exclude it in the child link if this is intended",
		w.Site, w.With)
}

// LookupError reports a key absent from a Namespace.
type LookupError struct {
	Key string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %s", ErrKeyNotFound, e.Key)
}

// Unwrap returns ErrKeyNotFound.
func (e *LookupError) Unwrap() error {
	return ErrKeyNotFound
}

func structuralf(site, format string, args ...any) error {
	return &StructuralError{Site: site, Message: fmt.Sprintf(format, args...)}
}
