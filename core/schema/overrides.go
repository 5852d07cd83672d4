package schema

import (
	"fmt"
	"strings"
)

// Overrides pins logical field names to fixed field identifiers for specific
// lists, keyed by list kind and then by normalized logical name.
type Overrides map[string]map[string]string

// ParseOverrides reads "kind.logical=Field;kind.logical=Field".
// Blank entries are ignored.
func ParseOverrides(s string) (Overrides, error) {
	out := Overrides{}
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, field, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("override %q: missing '='", entry)
		}
		kind, logical, ok := strings.Cut(strings.TrimSpace(key), ".")
		field = strings.TrimSpace(field)
		if !ok || kind == "" || logical == "" || field == "" {
			return nil, fmt.Errorf("override %q: expected kind.logical=Field", entry)
		}
		if out[kind] == nil {
			out[kind] = map[string]string{}
		}
		out[kind][Normalize(logical)] = field
	}
	return out, nil
}

// Lookup returns the pinned field for logical in the given list kind.
func (o Overrides) Lookup(kind, logical string) (string, bool) {
	field, ok := o[kind][Normalize(logical)]
	return field, ok
}
