package schema

import (
	"strings"

	"opsboard/core/liststore"
)

// reservedPrefix marks implementation fields of the list platform.
const reservedPrefix = "_"

// systemFields are managed by the list platform and never written.
var systemFields = map[string]struct{}{
	"id":               {},
	"author":           {},
	"authorlookupid":   {},
	"editor":           {},
	"editorlookupid":   {},
	"created":          {},
	"modified":         {},
	"contenttype":      {},
	"attachments":      {},
	"edit":             {},
	"linktitle":        {},
	"linktitlenomenu":  {},
	"docicon":          {},
	"itemchildcount":   {},
	"folderchildcount": {},
	"appauthor":        {},
	"appeditor":        {},
}

// ColumnMapping is the resolved schema of one list.
type ColumnMapping struct {
	// ContainerID and ListID identify the list this mapping describes.
	ContainerID string
	ListID      string
	// TitleField is the field that holds the item title. It is always writable.
	TitleField string
	// ByNormalized maps normalized internal and display names to field identifiers.
	ByNormalized map[string]string
	// ReadOnly holds fields that must never appear in a write payload.
	ReadOnly map[string]struct{}
	// Known holds every field identifier of the list.
	Known map[string]struct{}
}

// NewColumnMapping builds the mapping for a list from its column metadata.
//
// Internal names are registered before display names, so when a display name
// normalizes to the same key as another column's internal name, the internal
// name wins.
func NewColumnMapping(containerID, listID, titleField string, cols []liststore.Column) *ColumnMapping {
	m := &ColumnMapping{
		ContainerID:  containerID,
		ListID:       listID,
		TitleField:   titleField,
		ByNormalized: make(map[string]string, len(cols)*2),
		ReadOnly:     make(map[string]struct{}),
		Known:        make(map[string]struct{}, len(cols)),
	}

	for _, c := range cols {
		if c.Name == "" {
			continue
		}
		m.Known[c.Name] = struct{}{}
		if key := Normalize(c.Name); key != "" {
			if _, taken := m.ByNormalized[key]; !taken {
				m.ByNormalized[key] = c.Name
			}
		}
		if isReadOnly(c, titleField) {
			m.ReadOnly[c.Name] = struct{}{}
		}
	}
	for _, c := range cols {
		if c.Name == "" {
			continue
		}
		if key := Normalize(c.DisplayName); key != "" {
			if _, taken := m.ByNormalized[key]; !taken {
				m.ByNormalized[key] = c.Name
			}
		}
	}
	return m
}

func isReadOnly(c liststore.Column, titleField string) bool {
	if c.Name == titleField {
		return false
	}
	if c.ReadOnly || strings.HasPrefix(c.Name, reservedPrefix) {
		return true
	}
	_, system := systemFields[strings.ToLower(c.Name)]
	return system
}

// IsKnown reports whether field exists on the list.
func (m *ColumnMapping) IsKnown(field string) bool {
	_, ok := m.Known[field]
	return ok
}

// IsReadOnly reports whether field is read-only on the list.
func (m *ColumnMapping) IsReadOnly(field string) bool {
	_, ok := m.ReadOnly[field]
	return ok
}

// Writable reports whether field may be sent in a write payload.
func (m *ColumnMapping) Writable(field string) bool {
	if !m.IsKnown(field) {
		return false
	}
	return field == m.TitleField || !m.IsReadOnly(field)
}
