package config

import (
	"fmt"
	"reflect"
	"strings"

	"opsboard/core/database"
	"opsboard/core/lists"
	"opsboard/core/liststore"
	"opsboard/core/logger"
	"opsboard/core/server"
	"opsboard/core/storage"
	"opsboard/feature/checklist"
	"opsboard/feature/departures"
	"opsboard/feature/departures/assist"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// ListStore holds configuration for the remote list API.
	ListStore liststore.Config `mapstructure:"liststore"`
	// Database holds configuration for the SQL list-store backend.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the archive object store.
	Storage storage.Config `mapstructure:"storage"`
	// Lists maps logical lists to remote list identifiers.
	Lists lists.Config `mapstructure:"lists"`
	// Checklist holds the status matrix settings.
	Checklist checklist.Config `mapstructure:"checklist"`
	// Departures holds the route departure settings.
	Departures departures.Config `mapstructure:"departures"`
	// Assist holds the language model settings.
	Assist assist.Config `mapstructure:"assist"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// Local overrides come from a .env next to the binary or in path
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Register every tagged key with its default so AutomaticEnv can see it
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if !c.Server.IsValidBackend() {
		return fmt.Errorf("invalid server backend %q (want %q or %q)", c.Server.Backend, server.BackendGraph, server.BackendSQL)
	}
	if _, err := c.Checklist.Location(); err != nil {
		return err
	}
	if c.Assist.Enabled && c.Assist.APIKey == "" {
		return fmt.Errorf("assist is enabled but ASSIST_API_KEY is empty")
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		// Untagged fields are not configuration
		if tag == "" {
			continue
		}

		// Nested sections become dotted keys (server.port)
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// Sections recurse with their own prefix
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
