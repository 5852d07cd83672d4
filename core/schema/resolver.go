package schema

import (
	"context"
	"fmt"
	"sync"

	"opsboard/core/lists"
	"opsboard/core/liststore"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// titleAliases always resolve to the title field, whatever the list.
var titleAliases = map[string]struct{}{
	"titulo": {},
	"rota":   {},
}

// Options configures a Resolver.
type Options struct {
	// Lists maps list kinds to remote list identifiers.
	Lists lists.Config
	// Overrides pins legacy field identifiers per list kind.
	Overrides Overrides
	// Logger receives debug output about resolved schemas. Nil disables logging.
	Logger *zap.Logger
}

// Resolver owns the per-session schema state: the resolved container id and
// the column mappings of every list touched so far. Build one per process and
// share it; mappings are never invalidated, so a remote schema change needs a restart.
type Resolver struct {
	store     liststore.Store
	lists     lists.Config
	overrides Overrides
	log       *zap.Logger

	mu        sync.RWMutex
	mappings  map[string]*ColumnMapping
	container string
	sf        singleflight.Group
}

// NewResolver creates a Resolver over store.
func NewResolver(store liststore.Store, opts Options) *Resolver {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Lists.TitleField == "" {
		opts.Lists.TitleField = "Title"
	}
	overrides := opts.Overrides
	if overrides == nil {
		overrides = Overrides{}
	}
	return &Resolver{
		store:     store,
		lists:     opts.Lists,
		overrides: overrides,
		log:       log,
		mappings:  make(map[string]*ColumnMapping),
	}
}

// TitleField returns the field identifier used for item titles.
func (r *Resolver) TitleField() string {
	return r.lists.TitleField
}

// Container returns the container id, resolving it on first use.
func (r *Resolver) Container(ctx context.Context) (string, error) {
	r.mu.RLock()
	id := r.container
	r.mu.RUnlock()
	if id != "" {
		return id, nil
	}

	result, err, _ := r.sf.Do("\x00container", func() (interface{}, error) {
		r.mu.RLock()
		id := r.container
		r.mu.RUnlock()
		if id != "" {
			return id, nil
		}

		id, err := r.store.ResolveContainer(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve container: %w", err)
		}

		r.mu.Lock()
		r.container = id
		r.mu.Unlock()
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Schema returns the column mapping of a list, fetching column metadata only
// the first time a (container, list) pair is seen.
func (r *Resolver) Schema(ctx context.Context, containerID, listID string) (*ColumnMapping, error) {
	key := containerID + "_" + listID

	r.mu.RLock()
	m, ok := r.mappings[key]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		r.mu.RLock()
		m, ok := r.mappings[key]
		r.mu.RUnlock()
		if ok {
			return m, nil
		}

		cols, err := r.store.FetchColumns(ctx, containerID, listID)
		if err != nil {
			return nil, fmt.Errorf("resolve schema of %s: %w", listID, err)
		}
		m = NewColumnMapping(containerID, listID, r.lists.TitleField, cols)

		r.mu.Lock()
		r.mappings[key] = m
		r.mu.Unlock()

		r.log.Debug("Schema resolved",
			zap.String("list", listID),
			zap.Int("columns", len(m.Known)),
			zap.Int("read_only", len(m.ReadOnly)))
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*ColumnMapping), nil
}

// FieldName resolves a logical field name to the actual field identifier of
// the list described by m. Title aliases win, then overrides for kind, then
// the mapping; unknown names come back unchanged.
func (r *Resolver) FieldName(m *ColumnMapping, logical string, kind lists.Kind) string {
	key := Normalize(logical)
	if _, ok := titleAliases[key]; ok {
		return r.lists.TitleField
	}
	if field, ok := r.overrides.Lookup(string(kind), key); ok {
		return field
	}
	if m != nil {
		if field, ok := m.ByNormalized[key]; ok {
			return field
		}
	}
	return logical
}

// Bind resolves the container and schema for a list kind.
func (r *Resolver) Bind(ctx context.Context, kind lists.Kind) (*Binding, error) {
	listID, err := r.lists.ListID(kind)
	if err != nil {
		return nil, err
	}
	container, err := r.Container(ctx)
	if err != nil {
		return nil, err
	}
	m, err := r.Schema(ctx, container, listID)
	if err != nil {
		return nil, err
	}
	return &Binding{Kind: kind, Mapping: m, resolver: r}, nil
}

// Warm resolves the schemas of kinds concurrently.
func (r *Resolver) Warm(ctx context.Context, kinds ...lists.Kind) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, kind := range kinds {
		g.Go(func() error {
			_, err := r.Bind(ctx, kind)
			return err
		})
	}
	return g.Wait()
}

// Binding is a list kind bound to its resolved schema.
type Binding struct {
	Kind    lists.Kind
	Mapping *ColumnMapping

	resolver *Resolver
}

// ContainerID returns the container of the bound list.
func (b *Binding) ContainerID() string { return b.Mapping.ContainerID }

// ListID returns the remote identifier of the bound list.
func (b *Binding) ListID() string { return b.Mapping.ListID }

// Field resolves a logical field name for the bound list.
func (b *Binding) Field(logical string) string {
	return b.resolver.FieldName(b.Mapping, logical, b.Kind)
}

// Writable reports whether an actual field may be written to the bound list.
func (b *Binding) Writable(field string) bool {
	return b.Mapping.Writable(field)
}
