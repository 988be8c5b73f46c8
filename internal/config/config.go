// Package config handles configuration loading for cryptodash.
// It supports YAML config files, a .env file and environment variable
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// CRYPTODASH_COINGECKO_VS_CURRENCY.
const EnvPrefix = "CRYPTODASH"

// Config represents the complete application configuration.
type Config struct {
	CoinGecko CoinGeckoConfig `mapstructure:"coingecko" yaml:"coingecko" json:"coingecko"`
	News      NewsConfig      `mapstructure:"news"      yaml:"news"      json:"news"`
	Cache     CacheConfig     `mapstructure:"cache"     yaml:"cache"     json:"cache"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"       json:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"   json:"logging"`
}

// CoinGeckoConfig holds the market data source settings.
type CoinGeckoConfig struct {
	BaseURL         string  `mapstructure:"base_url"           yaml:"base_url"           json:"base_url"           validate:"required,url"`
	APIKey          string  `mapstructure:"api_key"            yaml:"api_key"            json:"api_key"`
	VsCurrency      string  `mapstructure:"vs_currency"        yaml:"vs_currency"        json:"vs_currency"        validate:"required"`
	PerPage         int     `mapstructure:"per_page"           yaml:"per_page"           json:"per_page"           validate:"min=1,max=250"`
	MaxRetries      int     `mapstructure:"max_retries"        yaml:"max_retries"        json:"max_retries"        validate:"min=1"`
	RetryDelayMs    int     `mapstructure:"retry_delay_ms"     yaml:"retry_delay_ms"     json:"retry_delay_ms"     validate:"min=0"`
	TimeoutSec      int     `mapstructure:"timeout_sec"        yaml:"timeout_sec"        json:"timeout_sec"        validate:"min=1"`
	CacheTTL        int     `mapstructure:"cache_ttl"          yaml:"cache_ttl"          json:"cache_ttl"          validate:"min=0"` // seconds
	RateLimitPerSec float64 `mapstructure:"rate_limit_per_sec" yaml:"rate_limit_per_sec" json:"rate_limit_per_sec" validate:"min=0"`
}

// RetryDelay returns the base delay between attempts.
func (c CoinGeckoConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// Timeout returns the per-request HTTP timeout.
func (c CoinGeckoConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// CacheDuration returns the response cache TTL.
func (c CoinGeckoConfig) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// FeedConfig is one RSS feed.
type FeedConfig struct {
	Name string `mapstructure:"name" yaml:"name" json:"name" validate:"required"`
	URL  string `mapstructure:"url"  yaml:"url"  json:"url"  validate:"required,url"`
}

// NewsConfig holds crypto news settings.
type NewsConfig struct {
	Feeds    []FeedConfig `mapstructure:"feeds"     yaml:"feeds"     json:"feeds"     validate:"dive"`
	CacheTTL int          `mapstructure:"cache_ttl" yaml:"cache_ttl" json:"cache_ttl" validate:"min=0"` // seconds
	Limit    int          `mapstructure:"limit"     yaml:"limit"     json:"limit"     validate:"min=0"`
}

// CacheDuration returns the news cache TTL.
func (c NewsConfig) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// CacheConfig selects where the latest snapshot is kept.
type CacheConfig struct {
	Backend  string `mapstructure:"backend"   yaml:"backend"   json:"backend"   validate:"oneof=memory redis"`
	RedisURL string `mapstructure:"redis_url" yaml:"redis_url" json:"redis_url" validate:"required_if=Backend redis"`
	TTL      int    `mapstructure:"ttl"       yaml:"ttl"       json:"ttl"       validate:"min=0"` // seconds
}

// TTLDuration returns the snapshot TTL.
func (c CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"         json:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"         json:"port"         validate:"min=1,max=65535"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins" json:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  json:"level"  validate:"oneof=trace debug info warn warning error"`
	Format string `mapstructure:"format" yaml:"format" json:"format" validate:"oneof=text json"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.cryptodash/config.yaml (home directory)
//  3. /etc/cryptodash/config.yaml (system)
//
// A .env file in the working directory is loaded first; variables already
// set in the environment win. Environment variables override config file
// values. Format: CRYPTODASH_<SECTION>_<KEY>, e.g. CRYPTODASH_API_PORT.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".cryptodash"))
	v.AddConfigPath("/etc/cryptodash")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// CoinGecko defaults (public API, one page of 50)
	v.SetDefault("coingecko.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("coingecko.api_key", "")
	v.SetDefault("coingecko.vs_currency", "usd")
	v.SetDefault("coingecko.per_page", 50)
	v.SetDefault("coingecko.max_retries", 3)
	v.SetDefault("coingecko.retry_delay_ms", 1000)
	v.SetDefault("coingecko.timeout_sec", 30)
	v.SetDefault("coingecko.cache_ttl", 60)
	v.SetDefault("coingecko.rate_limit_per_sec", 0.5) // ~30 req/min public tier

	// News defaults
	v.SetDefault("news.feeds", []map[string]string{
		{"name": "CoinDesk", "url": "https://www.coindesk.com/arc/outboundfeeds/rss/"},
		{"name": "Cointelegraph", "url": "https://cointelegraph.com/rss"},
		{"name": "Decrypt", "url": "https://decrypt.co/feed"},
	})
	v.SetDefault("news.cache_ttl", 600)
	v.SetDefault("news.limit", 20)

	// Snapshot cache defaults
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", 0)

	// API defaults
	v.SetDefault("api.host", "127.0.0.1")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv(EnvPrefix + "_COINGECKO_API_KEY"); key != "" {
		cfg.CoinGecko.APIKey = key
	}
	if url := os.Getenv(EnvPrefix + "_CACHE_REDIS_URL"); url != "" {
		cfg.Cache.RedisURL = url
	}
}

var validate = validator.New()

// Validate checks value ranges and enums.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// loadDotEnv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
