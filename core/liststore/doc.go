// Package liststore is the client side of the remote list store that holds
// the dashboard's tasks, operations, status cells, departures and history.
//
// A list store is a set of containers (sites), each holding lists (tables)
// whose items are a flat map of field identifier to value. Lists carry their
// own column metadata, which is user editable and therefore drifts.
//
// # Backends
//
//   - Graph: the REST list API (site/list/item endpoints with a `fields` JSON map).
//     Auth uses OAuth2 client credentials; calls are paced with a rate limiter.
//   - SQLStore: a gorm backed implementation of the same contract for local
//     development, provisioning and tests. It rejects unknown and read-only
//     fields on write like the remote API does.
//
// # Errors
//
// Every non-2xx answer is returned as *Error carrying the status code and the
// remote detail message. IsForbidden and IsNotFound classify them; a 403 renders
// a permission-specific message so operators know to fix list access rather
// than the request.
//
// # Usage
//
//	store, err := liststore.NewGraph(cfg.ListStore)
//	site, err := store.ResolveContainer(ctx)
//	items, err := store.QueryItems(ctx, site, "Departures", liststore.Filter{
//	    {Field: "Data", Op: liststore.OpGE, Value: "2024-03-15T00:00:00Z"},
//	})
package liststore
