// Package config loads the dashboard configuration.
//
// Values come from environment variables, optionally seeded from a .env file.
// Every key is registered from the `mapstructure` and `default` struct tags, so
// nested keys map to upper-case variables joined by underscores
// (checklist.timezone is CHECKLIST_TIMEZONE).
//
// # Configuration Structure
//
//   - Server: port, API key and list-store backend (graph or sql)
//   - Log: level and format
//   - ListStore: remote list API endpoint, credentials, site and pacing
//   - Database: SQL backend connection
//   - Storage: MinIO archive exports
//   - Lists: list identifiers and legacy field overrides
//   - Checklist: timezone, reconciliation and scheduled jobs
//   - Departures: gap tolerance
//   - Assist: language model parsing
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
