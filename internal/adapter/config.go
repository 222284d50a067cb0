package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// StorageBackend selects where favorites and theme are persisted
type StorageBackend string

const (
	StorageFile   StorageBackend = "file"   // JSON file, shared live between running instances
	StorageBolt   StorageBackend = "bolt"   // BoltDB, one instance at a time
	StorageMemory StorageBackend = "memory" // Nothing persisted
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig holds remote catalog configuration
type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"` // 0 = unlimited
	UserAgent         string        `mapstructure:"user_agent"`
}

// StorageConfig holds durable storage configuration
type StorageConfig struct {
	Backend StorageBackend `mapstructure:"backend"`
	Path    string         `mapstructure:"path"` // File or database path; ~ is expanded
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme      string   `mapstructure:"theme"`       // Default theme when none is stored: "light" or "dark"
	Locale     string   `mapstructure:"locale"`      // BCP 47 tag used for sorting, e.g. "en" or "de"
	Viewer     string   `mapstructure:"viewer"`      // Image viewer command, empty for auto-detect
	ViewerArgs []string `mapstructure:"viewer_args"` // Additional viewer arguments
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:           "https://rickandmortyapi.com/api",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 5,
			UserAgent:         "Citadel/1.0",
		},
		Storage: StorageConfig{
			Backend: StorageFile,
			Path:    filepath.Join(defaultDataPath(), "state.json"),
		},
		UI: UIConfig{
			Theme:  "dark",
			Locale: "en",
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "citadel.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "citadel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "citadel")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "citadel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "citadel")
	}
}

// setDefaults registers every key so environment overrides reach Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("catalog.base_url", cfg.Catalog.BaseURL)
	v.SetDefault("catalog.timeout", cfg.Catalog.Timeout)
	v.SetDefault("catalog.requests_per_second", cfg.Catalog.RequestsPerSecond)
	v.SetDefault("catalog.user_agent", cfg.Catalog.UserAgent)

	v.SetDefault("storage.backend", string(cfg.Storage.Backend))
	v.SetDefault("storage.path", cfg.Storage.Path)

	v.SetDefault("ui.theme", cfg.UI.Theme)
	v.SetDefault("ui.locale", cfg.UI.Locale)
	v.SetDefault("ui.viewer", cfg.UI.Viewer)
	v.SetDefault("ui.viewer_args", cfg.UI.ViewerArgs)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// LoadConfig loads configuration from file and environment. An empty
// configFile searches the default locations; a missing file is not an error.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	setDefaults(v, cfg)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. CITADEL_CATALOG_BASE_URL
	v.SetEnvPrefix("CITADEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(configFile != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	return cfg, nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageFile, StorageBolt, StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend != StorageMemory && c.Storage.Path == "" {
		return errors.New("storage.path is required")
	}
	if c.Catalog.RequestsPerSecond < 0 {
		return errors.New("catalog.requests_per_second must not be negative")
	}
	return nil
}

// SaveConfig writes cfg to file, or to the default config file when file is
// empty. It returns the path written.
func SaveConfig(cfg *Config, file string) (string, error) {
	if file == "" {
		file = filepath.Join(defaultConfigPath(), "config.yaml")
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := writeConfig(cfg, file); err != nil {
		return "", err
	}
	return file, nil
}

func writeConfig(cfg *Config, file string) error {
	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("catalog.base_url", cfg.Catalog.BaseURL)
	v.Set("catalog.timeout", cfg.Catalog.Timeout.String())
	v.Set("catalog.requests_per_second", cfg.Catalog.RequestsPerSecond)
	v.Set("catalog.user_agent", cfg.Catalog.UserAgent)

	v.Set("storage.backend", string(cfg.Storage.Backend))
	v.Set("storage.path", cfg.Storage.Path)

	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.locale", cfg.UI.Locale)
	v.Set("ui.viewer", cfg.UI.Viewer)
	v.Set("ui.viewer_args", cfg.UI.ViewerArgs)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(file); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
