package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"openingfinder/internal/domain"
	"openingfinder/internal/eventbus"
)

// EnvPrefix prefixes environment overrides, e.g. OPENINGFINDER_SEARCH_BASE_URL
const EnvPrefix = "OPENINGFINDER"

// Config represents the application configuration
type Config struct {
	Version    int              `mapstructure:"version" toml:"version"`
	Search     SearchConfig     `mapstructure:"search" toml:"search"`
	Allocation AllocationConfig `mapstructure:"allocation" toml:"allocation"`
	Auth       AuthConfig       `mapstructure:"auth" toml:"auth"`
	UISettings UISettings       `mapstructure:"ui" toml:"ui"`
	Log        LogConfig        `mapstructure:"log" toml:"log"`
}

// SearchConfig locates the opening search service
type SearchConfig struct {
	BaseURL string  `mapstructure:"base_url" toml:"base_url"`
	MaxRPS  float64 `mapstructure:"max_rps" toml:"max_rps"` // 0 = unlimited
}

// AllocationConfig locates the project allocation service
type AllocationConfig struct {
	BaseURL string `mapstructure:"base_url" toml:"base_url"`
}

// AuthConfig holds where the bearer token comes from
type AuthConfig struct {
	Token     string `mapstructure:"token" toml:"token,omitempty"`
	TokenFile string `mapstructure:"token_file" toml:"token_file,omitempty"`
	UserID    int64  `mapstructure:"user_id" toml:"user_id,omitempty"` // used when the token carries no id claim
}

// UISettings represents UI-related configuration
type UISettings struct {
	PageSize            int    `mapstructure:"page_size" toml:"page_size"`
	NotificationTimeout string `mapstructure:"notification_timeout" toml:"notification_timeout"`
	AutosaveOnExit      bool   `mapstructure:"autosave_on_exit" toml:"autosave_on_exit"`
}

// Timeout returns the parsed notification auto-hide duration
func (u UISettings) Timeout() time.Duration {
	d, err := time.ParseDuration(u.NotificationTimeout)
	if err != nil || d <= 0 {
		return DefaultNotificationTimeout
	}
	return d
}

// LogConfig controls the log file
type LogConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	File   string `mapstructure:"file" toml:"file"`
	Format string `mapstructure:"format" toml:"format"` // json or console
}

// Log formats
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// DefaultNotificationTimeout is how long a toast stays visible
const DefaultNotificationTimeout = 5 * time.Second

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if err := validateBaseURL("search.base_url", c.Search.BaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("allocation.base_url", c.Allocation.BaseURL); err != nil {
		return err
	}
	if c.Search.MaxRPS < 0 {
		return fmt.Errorf("search.max_rps must not be negative")
	}
	if err := (domain.Query{PageSize: c.UISettings.PageSize}).Validate(); err != nil {
		return fmt.Errorf("ui.page_size: %w", err)
	}
	switch c.Log.Format {
	case "", LogFormatJSON, LogFormatConsole:
	default:
		return fmt.Errorf("log.format must be %q or %q, got %q", LogFormatJSON, LogFormatConsole, c.Log.Format)
	}
	if c.UISettings.NotificationTimeout != "" {
		d, err := time.ParseDuration(c.UISettings.NotificationTimeout)
		if err != nil {
			return fmt.Errorf("ui.notification_timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("ui.notification_timeout must be positive")
		}
	}
	return nil
}

func validateBaseURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: scheme must be http or https, got %q", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: missing host in %q", key, raw)
	}
	return nil
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
	flags    *pflag.FlagSet
	filePath string
}

// Option customises a config service
type Option func(*configService)

// WithBus publishes ConfigLoaded/ConfigSaved events
func WithBus(bus eventbus.EventBus) Option {
	return func(cs *configService) { cs.bus = bus }
}

// WithFlags lets changed command-line flags override file and env values
func WithFlags(fs *pflag.FlagSet) Option {
	return func(cs *configService) { cs.flags = fs }
}

// WithPath overrides the default config file location
func WithPath(path string) Option {
	return func(cs *configService) {
		if path != "" {
			cs.filePath = path
		}
	}
}

// NewConfigService creates a new config service
func NewConfigService(opts ...Option) ConfigService {
	cs := &configService{filePath: DefaultPath()}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// DefaultPath returns <user config dir>/openingfinder/config.toml
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "openingfinder", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the service's file; a missing file yields defaults
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.read(cs.filePath, false)
	if err != nil {
		return nil, err
	}
	cs.publish(domain.ConfigLoadedEvent{Path: cs.filePath, PageSize: cfg.UISettings.PageSize})
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path, which must exist
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	return cs.read(path, true)
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	cs.publish(domain.ConfigSavedEvent{Path: cs.filePath})
	return nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// the file may hold a bearer token
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (cs *configService) read(path string, mustExist bool) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := cs.bindFlags(v); err != nil {
		return nil, err
	}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(statErr, os.ErrNotExist):
		if mustExist {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	default:
		return nil, fmt.Errorf("failed to read config file: %w", statErr)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Search.BaseURL = strings.TrimRight(cfg.Search.BaseURL, "/")
	cfg.Allocation.BaseURL = strings.TrimRight(cfg.Allocation.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func (cs *configService) publish(e domain.DomainEvent) {
	if cs.bus != nil {
		cs.bus.Publish(e)
	}
}

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"search-url":     "search.base_url",
	"allocation-url": "allocation.base_url",
	"token":          "auth.token",
	"token-file":     "auth.token_file",
	"user-id":        "auth.user_id",
	"page-size":      "ui.page_size",
	"log-level":      "log.level",
	"log-file":       "log.file",
	"log-format":     "log.format",
}

// RegisterFlags defines the flags understood by WithFlags
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("search-url", "", "Base URL of the opening search service")
	fs.String("allocation-url", "", "Base URL of the project allocation service")
	fs.String("token", "", "Bearer token used for both services")
	fs.String("token-file", "", "File containing the bearer token")
	fs.Int64("user-id", 0, "Applicant user id when the token has no id claim")
	fs.Int("page-size", 0, "Openings per page")
	fs.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	fs.String("log-file", "", "Log file path")
	fs.String("log-format", "", "Log format (json, console)")
}

func (cs *configService) bindFlags(v *viper.Viper) error {
	if cs.flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := cs.flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("search.base_url", d.Search.BaseURL)
	v.SetDefault("search.max_rps", d.Search.MaxRPS)
	v.SetDefault("allocation.base_url", d.Allocation.BaseURL)
	v.SetDefault("auth.token", d.Auth.Token)
	v.SetDefault("auth.token_file", d.Auth.TokenFile)
	v.SetDefault("auth.user_id", d.Auth.UserID)
	v.SetDefault("ui.page_size", d.UISettings.PageSize)
	v.SetDefault("ui.notification_timeout", d.UISettings.NotificationTimeout)
	v.SetDefault("ui.autosave_on_exit", d.UISettings.AutosaveOnExit)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.format", d.Log.Format)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Search: SearchConfig{
			BaseURL: "http://localhost:9093",
		},
		Allocation: AllocationConfig{
			BaseURL: "http://localhost:9091",
		},
		UISettings: UISettings{
			PageSize:            4,
			NotificationTimeout: DefaultNotificationTimeout.String(),
			AutosaveOnExit:      true,
		},
		Log: LogConfig{
			Level:  "info",
			File:   "openingfinder.log",
			Format: LogFormatJSON,
		},
	}
}
