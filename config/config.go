// Package config loads application configuration with viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. JOBBOARD_DATA_MONGODB_URI.
const EnvPrefix = "JOBBOARD"

var (
	mu      sync.Mutex
	current *Config
	path    string
)

// Config represents the configuration implementation.
type Config struct {
	AppName      string
	Environment  string
	Server       *Server
	Logger       *Logger
	Data         *Data
	Auth         *Auth
	Storage      *Storage
	Upload       *Upload
	Email        *Email
	Notification *Notification
	Observes     *Observes
	Viper        *viper.Viper
}

// LoadConfig loads the configuration from the file.
// An empty path searches the default locations.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/jobboard")
		v.AddConfigPath("$HOME/.jobboard")
		v.AddConfigPath(".")
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mu.Lock()
	current = cfg
	path = configPath
	mu.Unlock()
	return cfg, nil
}

// fromViper builds a Config from every section of v.
func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppName:      getStringOrDefault(v, "app_name", "jobboard"),
		Environment:  getStringOrDefault(v, "environment", "development"),
		Server:       getServerConfig(v),
		Logger:       getLoggerConfig(v),
		Data:         getDataConfig(v),
		Auth:         getAuthConfig(v),
		Storage:      getStorageConfig(v),
		Upload:       getUploadConfig(v),
		Email:        getEmailConfig(v),
		Notification: getNotificationConfig(v),
		Observes:     getObservesConfig(v),
		Viper:        v,
	}
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	if c.Auth.JWT.Secret == "" {
		return fmt.Errorf("auth.jwt.secret is required")
	}
	switch c.Data.Driver {
	case DriverMemory:
	case DriverMongo:
		if c.Data.MongoDB.URI == "" {
			return fmt.Errorf("data.mongodb.uri is required")
		}
	default:
		return fmt.Errorf("unsupported data.driver %q", c.Data.Driver)
	}
	switch c.Storage.Provider {
	case "filesystem", "s3":
	default:
		return fmt.Errorf("unsupported storage.provider %q", c.Storage.Provider)
	}
	return nil
}

// GetConfig returns the last loaded configuration.
func GetConfig() *Config {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Reload reloads the configuration from the file.
func Reload() error {
	mu.Lock()
	p := path
	mu.Unlock()
	if _, err := LoadConfig(p); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	return nil
}

// Watch watches the configuration file and reloads it when it changes.
func Watch(cfg *Config, callback func(*Config), onError func(error)) {
	cfg.Viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		if err := Reload(); err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		callback(GetConfig())
	})
	cfg.Viper.WatchConfig()
}
