package liststore

// Config holds configuration for the list store.
type Config struct {
	// BaseURL is the REST API root.
	BaseURL string `mapstructure:"base_url" default:"https://graph.microsoft.com/v1.0"`
	// TenantID is the directory used to issue tokens.
	TenantID string `mapstructure:"tenant_id" default:""`
	// ClientID is the application id for client-credentials auth. Empty disables auth.
	ClientID string `mapstructure:"client_id" default:""`
	// ClientSecret is the application secret.
	ClientSecret string `mapstructure:"client_secret" default:""`
	// TokenURL overrides the token endpoint derived from TenantID.
	TokenURL string `mapstructure:"token_url" default:""`
	// SiteID skips site resolution when set.
	SiteID string `mapstructure:"site_id" default:""`
	// SiteHost is the host name of the site, e.g. contoso.sharepoint.com.
	SiteHost string `mapstructure:"site_host" default:""`
	// SitePath is the server-relative path of the site, e.g. /sites/operacoes.
	SitePath string `mapstructure:"site_path" default:""`
	// RequestsPerSecond paces calls to the remote API.
	RequestsPerSecond int `mapstructure:"requests_per_second" default:"10"`
	// TimeoutSeconds bounds each HTTP call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// Container is the container name used by the SQL backend.
	Container string `mapstructure:"container" default:"local"`
}
