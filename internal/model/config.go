package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// SourceConfig locates one of the input workbooks.
type SourceConfig struct {
	// Location is a local file path or an http(s) URL.
	Location string `mapstructure:"location" yaml:"location"`

	// Sheet optionally names the worksheet to read. When empty the loader
	// falls back to its own sheet discovery.
	Sheet string `mapstructure:"sheet" yaml:"sheet"`

	// CredentialKey names a keyring entry holding a bearer token for URL
	// locations. Empty means no authentication.
	CredentialKey string `mapstructure:"credential_key" yaml:"credential_key"`
}

// IsRemote reports whether the source is fetched over HTTP.
func (s SourceConfig) IsRemote() bool {
	l := strings.ToLower(s.Location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// SourcesConfig groups the two workbook sources.
type SourcesConfig struct {
	Material   SourceConfig `mapstructure:"material" yaml:"material"`
	ERM        SourceConfig `mapstructure:"erm" yaml:"erm"`
	Watch      bool         `mapstructure:"watch" yaml:"watch"`
	TimeoutSec int          `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// StoreConfig selects where overrides are persisted.
type StoreConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls the structured log file.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Sources SourcesConfig `mapstructure:"sources" yaml:"sources"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// configDir returns ~/.config/obratrack, or "." if the home directory is
// unknown.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "obratrack")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/obratrack/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	dir := configDir()
	return &AppConfig{
		Sources: SourcesConfig{
			Material:   SourceConfig{Location: "Material Ivestimentos GIRON.xlsx"},
			ERM:        SourceConfig{Location: "ERM - ENTREGÁVEIS GEN.xlsx", Sheet: "CERTIFICAÇÃO PROJETO"},
			TimeoutSec: 30,
		},
		Store: StoreConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join(dir, "overrides.db"),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "obratrack.log"),
		},
		Display: DisplayConfig{Theme: "default"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration. Values
// may be overridden by OBRATRACK_* environment variables.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("obratrack")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("sources.material.location", def.Sources.Material.Location)
	v.SetDefault("sources.erm.location", def.Sources.ERM.Location)
	v.SetDefault("sources.erm.sheet", def.Sources.ERM.Sheet)
	v.SetDefault("sources.watch", false)
	v.SetDefault("sources.timeout_sec", def.Sources.TimeoutSec)
	v.SetDefault("store.backend", def.Store.Backend)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("display.theme", def.Display.Theme)

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		_, pathErr := err.(*os.PathError)
		if !notFound && !pathErr {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Log.File = expandHome(cfg.Log.File)
	return cfg, nil
}

// Validate rejects configurations the application cannot run with.
func (c *AppConfig) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendJSON:
	default:
		return fmt.Errorf("unknown store backend %q (want %q or %q)",
			c.Store.Backend, BackendSQLite, BackendJSON)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if c.Sources.TimeoutSec <= 0 {
		c.Sources.TimeoutSec = 30
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("sources", cfg.Sources)
	v.Set("store", cfg.Store)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
