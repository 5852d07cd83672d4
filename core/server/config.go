package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Backend selects the list store (graph, sql).
	Backend string `mapstructure:"backend" default:"sql"`
}

const (
	BackendGraph = "graph"
	BackendSQL   = "sql"
)

// IsValidBackend checks if the configured backend is valid.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendGraph, BackendSQL:
		return true
	default:
		return false
	}
}
