// Package loader provides the feature registry.
//
// Each feature implements Feature and registers its routes in Load. The
// Manager loads the enabled ones in registration order:
//
//	mgr := loader.NewManager(log)
//	mgr.Register(checklist.NewFeature(...))
//	err := mgr.LoadAll(app)
package loader
