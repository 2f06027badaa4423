// Package models defines the price data model and runtime configuration.
package models

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL     = "https://www.futbin.com"
	DefaultCheapestURL = "https://www.futbin.com/squad-building-challenges/cheapest"
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds everything the pipeline and its collaborators need. It is built
// once by LoadConfig and passed down explicitly.
type Config struct {
	Fetch   FetchConfig   `yaml:"fetch"`
	Storage StorageConfig `yaml:"storage"`
	Notify  NotifyConfig  `yaml:"notify"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// FetchConfig controls how the cheapest page is loaded.
type FetchConfig struct {
	Mode            string        `yaml:"mode"` // http | browser
	BaseURL         string        `yaml:"base_url"`
	CheapestURL     string        `yaml:"cheapest_url"`
	UserAgent       string        `yaml:"user_agent"`
	Timeout         time.Duration `yaml:"timeout"`
	FallbackTimeout time.Duration `yaml:"fallback_timeout"`
	SettleDelay     time.Duration `yaml:"settle_delay"`
	CacheDir        string        `yaml:"cache_dir"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	BrowserBin      string        `yaml:"browser_bin"`
}

// StorageConfig selects the price history backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite | mysql
	Path   string `yaml:"path"`   // sqlite file
	DSN    string `yaml:"dsn"`    // mysql DSN
}

type NotifyConfig struct {
	Ntfy  NtfyConfig  `yaml:"ntfy"`
	Email EmailConfig `yaml:"email"`
}

type NtfyConfig struct {
	Server   string `yaml:"server"`
	Topic    string `yaml:"topic"`
	Priority string `yaml:"priority"`
	Tags     string `yaml:"tags"`
}

// Enabled reports whether a topic is configured.
func (c NtfyConfig) Enabled() bool {
	return c.Topic != ""
}

type EmailConfig struct {
	SMTPServer string   `yaml:"smtp_server"`
	SMTPPort   int      `yaml:"smtp_port"`
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	From       string   `yaml:"from"`
	To         []string `yaml:"to"`
}

// Enabled reports whether enough is configured to send mail.
func (c EmailConfig) Enabled() bool {
	return c.SMTPServer != "" && c.From != "" && len(c.To) > 0
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Fetch: FetchConfig{
			Mode:            "http",
			BaseURL:         DefaultBaseURL,
			CheapestURL:     DefaultCheapestURL,
			UserAgent:       DefaultUserAgent,
			Timeout:         60 * time.Second,
			FallbackTimeout: 30 * time.Second,
			SettleDelay:     3 * time.Second,
			CacheDir:        ".sbc-cache",
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "sbc-prices.db",
		},
		Notify: NotifyConfig{
			Ntfy: NtfyConfig{
				Server:   "https://ntfy.sh",
				Priority: "default",
				Tags:     "soccer,soccer_ball",
			},
			Email: EmailConfig{SMTPPort: 587},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig reads path (a missing file means defaults), loads .env if
// present, applies environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	applyEnv(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

func applyEnv(cfg *Config) {
	if v := getEnv("NTFY_TOPIC"); v != "" {
		cfg.Notify.Ntfy.Topic = v
	}
	if v := getEnv("NTFY_SERVER"); v != "" {
		cfg.Notify.Ntfy.Server = v
	}
	if v := getEnv("SMTP_SERVER"); v != "" {
		cfg.Notify.Email.SMTPServer = v
	}
	if v := getEnv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Notify.Email.SMTPPort = port
		}
	}
	if v := getEnv("SMTP_USERNAME"); v != "" {
		cfg.Notify.Email.Username = v
	}
	if v := getEnv("SMTP_PASSWORD"); v != "" {
		cfg.Notify.Email.Password = v
	}
	if v := getEnv("EMAIL_FROM"); v != "" {
		cfg.Notify.Email.From = v
	}
	if v := getEnv("EMAIL_TO"); v != "" {
		cfg.Notify.Email.To = splitList(v)
	}
	if v := getEnv("DATABASE_URL"); v != "" {
		cfg.Storage.Driver = "mysql"
		cfg.Storage.DSN = v
	}
	if v := getEnv("SBC_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := getEnv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validateConfig(cfg *Config) error {
	switch cfg.Fetch.Mode {
	case "http", "browser":
	default:
		return fmt.Errorf("fetch.mode must be http or browser, got %q", cfg.Fetch.Mode)
	}
	if cfg.Fetch.CheapestURL == "" {
		return fmt.Errorf("fetch.cheapest_url is required")
	}
	if cfg.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be greater than 0")
	}
	if cfg.Fetch.FallbackTimeout <= 0 {
		return fmt.Errorf("fetch.fallback_timeout must be greater than 0")
	}
	if cfg.Fetch.CacheTTL < 0 {
		return fmt.Errorf("fetch.cache_ttl must not be negative")
	}

	switch cfg.Storage.Driver {
	case "sqlite":
		if cfg.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for sqlite")
		}
	case "mysql":
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for mysql")
		}
	default:
		return fmt.Errorf("storage.driver must be sqlite or mysql, got %q", cfg.Storage.Driver)
	}

	if cfg.Notify.Ntfy.Enabled() && cfg.Notify.Ntfy.Server == "" {
		return fmt.Errorf("notify.ntfy.server is required when a topic is set")
	}
	if cfg.Notify.Email.SMTPServer != "" && cfg.Notify.Email.SMTPPort <= 0 {
		return fmt.Errorf("notify.email.smtp_port must be greater than 0")
	}
	return nil
}
