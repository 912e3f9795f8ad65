package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"

	"ghsearch/internal/eventbus"
)

const (
	// CurrentVersion is the config schema version written by Save
	CurrentVersion = 1

	DefaultAPIBaseURL = "https://api.github.com/"
	DefaultTimeout    = "30s"
	DefaultDebounce   = "250ms"
	DefaultLogFile    = "ghsearch.log"
	DefaultLogLevel   = "info"

	// ThemeSystem follows the terminal background
	ThemeSystem = ""
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// systemIsDark asks the terminal once, on first use
var systemIsDark = sync.OnceValue(lipgloss.HasDarkBackground)

// Config represents the application configuration
type Config struct {
	Version    int         `toml:"version"`
	Token      string      `toml:"token,omitempty"` // keep this file out of version control
	APIBaseURL string      `toml:"api_base_url"`
	Timeout    string      `toml:"timeout"`
	UISettings UISettings  `toml:"ui"`
	Log        LogSettings `toml:"log"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Theme    string `toml:"theme,omitempty"` // unset follows the terminal
	Debounce string `toml:"debounce"` // "0s" searches on every keystroke
}

// LogSettings controls where and how much ghsearch logs
type LogSettings struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// IsDark reports whether the dark theme is in effect
func (c *Config) IsDark() bool {
	if c.UISettings.Theme == ThemeSystem {
		return systemIsDark()
	}
	return c.UISettings.Theme == ThemeDark
}

// ToggleTheme switches to the opposite of the theme in effect and returns the
// new, now explicit, value
func (c *Config) ToggleTheme() string {
	if c.IsDark() {
		c.UISettings.Theme = ThemeLight
	} else {
		c.UISettings.Theme = ThemeDark
	}
	return c.UISettings.Theme
}

// DebounceDuration parses the debounce delay
func (c *Config) DebounceDuration() (time.Duration, error) {
	return parseDuration("ui.debounce", c.UISettings.Debounce)
}

// TimeoutDuration parses the HTTP client timeout
func (c *Config) TimeoutDuration() (time.Duration, error) {
	return parseDuration("timeout", c.Timeout)
}

// Host returns the GitHub host the API URL belongs to, used for token lookup
func (c *Config) Host() string {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Host == "" {
		return "github.com"
	}
	host := u.Hostname()
	if host == "api.github.com" {
		return "github.com"
	}
	return strings.TrimPrefix(host, "api.")
}

// Validate checks values that would otherwise fail later at startup
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api_base_url %q: %w", c.APIBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api_base_url %q: scheme must be http or https", c.APIBaseURL)
	}
	switch c.UISettings.Theme {
	case ThemeSystem, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid ui.theme %q: must be %q or %q", c.UISettings.Theme, ThemeLight, ThemeDark)
	}
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", field, value)
	}
	return d, nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns $XDG_CONFIG_HOME/ghsearch/config.toml or its platform equivalent
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "ghsearch", "config.toml")
}

// NewConfigServiceAt creates a config service for an explicit path.
// A nil bus disables ConfigLoaded/ConfigSaved events.
func NewConfigServiceAt(path string, bus eventbus.EventBus) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path, bus: bus}
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, returning defaults if it does not exist
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cs.publish(eventbus.ConfigLoadedEvent{Path: ""})
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}

	cs.publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	cs.publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	config.Version = CurrentVersion
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600 because the file may hold a token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (cs *configService) publish(event eventbus.DomainEvent) {
	if cs.bus != nil {
		cs.bus.Publish(event)
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:    CurrentVersion,
		APIBaseURL: DefaultAPIBaseURL,
		Timeout:    DefaultTimeout,
		UISettings: UISettings{
			Theme:    ThemeSystem,
			Debounce: DefaultDebounce,
		},
		Log: LogSettings{
			File:  DefaultLogFile,
			Level: DefaultLogLevel,
		},
	}
}

// applyDefaults fills fields a hand-written file may have set to ""
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Version == 0 {
		cfg.Version = def.Version
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = def.APIBaseURL
	}
	if !strings.HasSuffix(cfg.APIBaseURL, "/") {
		cfg.APIBaseURL += "/"
	}
	if cfg.Timeout == "" {
		cfg.Timeout = def.Timeout
	}
	if cfg.UISettings.Debounce == "" {
		cfg.UISettings.Debounce = def.UISettings.Debounce
	}
	if cfg.Log.File == "" {
		cfg.Log.File = def.Log.File
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}
