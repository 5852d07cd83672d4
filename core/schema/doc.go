// Package schema maps the application's fixed logical field vocabulary onto
// the volatile schema of remote lists.
//
// Remote lists are edited by users: columns get renamed, re-cased, accented or
// created with encoded internal names. The package normalizes every internal
// and display name into a lookup key (Normalize), caches one ColumnMapping per
// (container, list) for the life of the process, and resolves logical names
// through three layers:
//
//  1. "titulo" and "rota" always mean the title field.
//  2. Per-list overrides pin legacy fields (configured, see ParseOverrides).
//  3. The normalized mapping built from column metadata.
//
// Names that resolve to nothing are returned unchanged; write paths then drop
// them because they are not Known to the list.
//
// # Usage
//
//	r := schema.NewResolver(store, schema.Options{Lists: cfg.Lists, Overrides: ov})
//	b, err := r.Bind(ctx, lists.Departures)
//	field := b.Field("motorista") // e.g. "Motorista0"
package schema
