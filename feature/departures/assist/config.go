package assist

// Config holds the model settings.
type Config struct {
	Enabled        bool   `mapstructure:"enabled" default:"false"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model" default:"gemini-2.5-flash"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" default:"30"`
}
