// Package database handles database connections for the SQL list-store backend.
//
// It wraps GORM to configure either MySQL (shared deployments) or SQLite
// (single-node deployments and tests) from the application's configuration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//	store, err := liststore.NewSQLStore(db, cfg.ListStore.Container)
package database
