package departures

// Config holds the departure settings.
type Config struct {
	// Tolerance is the gap (HH:MM:SS) still classified as on time.
	Tolerance string `mapstructure:"tolerance" default:"00:05:00"`
}
