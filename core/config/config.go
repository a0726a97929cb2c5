package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"image-labeler/core/logger"
	"image-labeler/core/server"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"host":       "server.host",
	"port":       "server.port",
	"dir":        "server.root",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// LoadConfig loads configuration from the .env file in path, environment
// variables and flags, in increasing order of precedence. flags may be nil.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	envPath := ".env"
	if path != "." && path != "" {
		envPath = filepath.Join(path, ".env")
	}

	// Ignore error if file doesn't exist
	_ = godotenv.Load(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
		// --no-browser inverts server.open_browser, so it cannot be bound directly
		if f := flags.Lookup("no-browser"); f != nil && f.Changed && f.Value.String() == "true" {
			v.Set("server.open_browser", false)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	root, err := resolveRoot(config.Server.Root)
	if err != nil {
		return nil, err
	}
	config.Server.Root = root

	return &config, nil
}

// resolveRoot makes the document root absolute and checks that it is a directory.
func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: resolve root directory %q: %w", server.ErrStartup, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: root directory: %w", server.ErrStartup, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: root %s is not a directory", server.ErrStartup, abs)
	}
	return abs, nil
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
