package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"hostgrip/internal/domain"
)

// DefaultFieldID is the identifier of the quick search field on the page
const DefaultFieldID = "mk_side_search_field"

// Config represents the application configuration
type Config struct {
	Version     int        `toml:"version"`
	BaseURL     string     `toml:"base_url"`
	TargetFrame string     `toml:"target_frame"`
	FieldID     string     `toml:"field_id"`
	Hosts       string     `toml:"hosts"` // file path or sqlite:// DSN
	OpenCommand string     `toml:"open_command"`
	LogFile     string     `toml:"log_file"`
	LogLevel    string     `toml:"log_level"`
	UISettings  UISettings `toml:"ui"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	MaxResults int  `toml:"max_results"`
	ShowSites  bool `toml:"show_sites"`
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
	filePath string
}

// NewConfigService creates a config service rooted in the user config directory
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceAt creates a config service bound to a specific file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// DefaultPath returns ~/.config/hostgrip/config.toml, or a relative fallback
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "hostgrip", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration, returning defaults when no file exists yet
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "write config file")
	}

	return nil
}

// applyDefaults fills keys an older or hand-written file left empty
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.TargetFrame == "" {
		c.TargetFrame = def.TargetFrame
	}
	if c.FieldID == "" {
		c.FieldID = def.FieldID
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.UISettings.MaxResults <= 0 {
		c.UISettings.MaxResults = def.UISettings.MaxResults
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	hosts := ""
	if dir := filepath.Dir(DefaultPath()); dir != "" {
		hosts = filepath.Join(dir, "hosts.json")
	}

	return &Config{
		Version:     1,
		TargetFrame: domain.DefaultTargetFrame,
		FieldID:     DefaultFieldID,
		Hosts:       hosts,
		LogFile:     "hostgrip.log",
		LogLevel:    "info",
		UISettings: UISettings{
			MaxResults: 20,
			ShowSites:  true,
		},
	}
}
