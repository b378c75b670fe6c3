package config

import (
	"reflect"
	"strings"

	"storage-init/core/bootstrap"
	"storage-init/core/logger"
	"storage-init/core/server"
	"storage-init/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// App holds the settings of the consuming application. They are opaque to
// the bootstrap core and exist so one env file can configure the whole
// deployment; only APIKey is consumed here, to protect the status endpoint.
type App struct {
	// Name identifies the deployment in logs and the status endpoint.
	Name string `mapstructure:"name" default:"storage-init"`
	// Debug switches on verbose application behavior.
	Debug bool `mapstructure:"debug" default:"false"`
	// Domain is the public domain of the application.
	Domain string `mapstructure:"domain" default:""`
	// URL is the externally reachable application URL.
	URL string `mapstructure:"url" default:""`
	// TLSEmail is the contact address used for certificate issuance.
	TLSEmail string `mapstructure:"tls_email" default:""`
	// APIKey authenticates requests against the application and the
	// status endpoint. Treated as an opaque secret, never logged.
	APIKey string `mapstructure:"api_key" default:""`
}

// Config holds all configuration for the initializer.
// It is divided into partial configurations for better modularity.
type Config struct {
	// App holds the pass-through settings of the consuming application.
	App App `mapstructure:"app"`
	// Server holds configuration for the status HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (S3 or GCS).
	Storage storage.Config `mapstructure:"storage"`
	// Bootstrap holds the retry budget and completion-signal settings.
	Bootstrap bootstrap.Config `mapstructure:"bootstrap"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. STORAGE_BUCKET -> storage.bucket)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
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

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
