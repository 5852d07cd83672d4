package liststore

import (
	"context"
	"strings"
)

// Store is the contract every list-store backend implements.
type Store interface {
	// ResolveContainer returns the identifier of the configured container (site).
	ResolveContainer(ctx context.Context) (string, error)
	// FetchColumns returns the column metadata of a list.
	FetchColumns(ctx context.Context, containerID, listID string) ([]Column, error)
	// QueryItems returns the items of a list matching filter. A nil filter matches everything.
	QueryItems(ctx context.Context, containerID, listID string, filter Filter) ([]Item, error)
	// GetItem returns one item by identifier.
	GetItem(ctx context.Context, containerID, listID, itemID string) (Item, error)
	// CreateItem creates an item and returns its identifier.
	CreateItem(ctx context.Context, containerID, listID string, fields map[string]any) (string, error)
	// PatchItem updates the given fields of an existing item.
	PatchItem(ctx context.Context, containerID, listID, itemID string, fields map[string]any) error
	// DeleteItem removes an item.
	DeleteItem(ctx context.Context, containerID, listID, itemID string) error
}

// Column describes one field of a list.
type Column struct {
	// Name is the internal field identifier used in item payloads.
	Name string `json:"name"`
	// DisplayName is the label shown to users. It can be renamed at any time.
	DisplayName string `json:"displayName"`
	// ReadOnly is set by the store for computed and system columns.
	ReadOnly bool `json:"readOnly"`
}

// Item is one list row.
type Item struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Op is a comparison operator usable in a Filter.
type Op string

const (
	OpEQ Op = "eq"
	OpGE Op = "ge"
	OpLE Op = "le"
)

// Condition compares one field against a literal.
type Condition struct {
	// Field is the actual field identifier, not a logical name.
	Field string
	Op    Op
	Value string
}

// Filter is a conjunction of conditions.
type Filter []Condition

// OData renders the filter as an OData $filter expression over item fields.
func (f Filter) OData() string {
	parts := make([]string, 0, len(f))
	for _, c := range f {
		value := strings.ReplaceAll(c.Value, "'", "''")
		parts = append(parts, "fields/"+c.Field+" "+string(c.Op)+" '"+value+"'")
	}
	return strings.Join(parts, " and ")
}

// Match evaluates the filter against item fields. Values compare as strings,
// which orders ISO-8601 timestamps correctly.
func (f Filter) Match(fields map[string]any) bool {
	for _, c := range f {
		got := stringValue(fields[c.Field])
		switch c.Op {
		case OpEQ:
			if got != c.Value {
				return false
			}
		case OpGE:
			if got == "" || got < c.Value {
				return false
			}
		case OpLE:
			if got == "" || got > c.Value {
				return false
			}
		default:
			return false
		}
	}
	return true
}
