package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, e := range []string{
		"CRYPTODASH_COINGECKO_API_KEY", "CRYPTODASH_CACHE_REDIS_URL",
		"CRYPTODASH_API_PORT", "CRYPTODASH_COINGECKO_VS_CURRENCY",
	} {
		t.Setenv(e, "")
		os.Unsetenv(e)
	}
}

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// CoinGecko defaults
	if cfg.CoinGecko.BaseURL != "https://api.coingecko.com/api/v3" {
		t.Errorf("CoinGecko.BaseURL: got %q", cfg.CoinGecko.BaseURL)
	}
	if cfg.CoinGecko.VsCurrency != "usd" {
		t.Errorf("CoinGecko.VsCurrency: got %q, want %q", cfg.CoinGecko.VsCurrency, "usd")
	}
	if cfg.CoinGecko.PerPage != 50 {
		t.Errorf("CoinGecko.PerPage: got %d, want 50", cfg.CoinGecko.PerPage)
	}
	if cfg.CoinGecko.MaxRetries != 3 {
		t.Errorf("CoinGecko.MaxRetries: got %d, want 3", cfg.CoinGecko.MaxRetries)
	}
	if cfg.CoinGecko.RetryDelay() != time.Second {
		t.Errorf("CoinGecko.RetryDelay(): got %s, want 1s", cfg.CoinGecko.RetryDelay())
	}
	if cfg.CoinGecko.Timeout() != 30*time.Second {
		t.Errorf("CoinGecko.Timeout(): got %s", cfg.CoinGecko.Timeout())
	}
	if cfg.CoinGecko.CacheDuration() != time.Minute {
		t.Errorf("CoinGecko.CacheDuration(): got %s", cfg.CoinGecko.CacheDuration())
	}

	// News defaults
	if len(cfg.News.Feeds) != 3 || cfg.News.Feeds[0].Name != "CoinDesk" {
		t.Errorf("News.Feeds: got %+v", cfg.News.Feeds)
	}
	if cfg.News.CacheDuration() != 10*time.Minute || cfg.News.Limit != 20 {
		t.Errorf("News: got %+v", cfg.News)
	}

	// Cache defaults
	if cfg.Cache.Backend != "memory" || cfg.Cache.TTLDuration() != 0 {
		t.Errorf("Cache: got %+v", cfg.Cache)
	}

	// API defaults
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host: got %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("CRYPTODASH_API_PORT", "9191")
	t.Setenv("CRYPTODASH_COINGECKO_VS_CURRENCY", "eur")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Port != 9191 {
		t.Errorf("API.Port: got %d, want 9191", cfg.API.Port)
	}
	if cfg.CoinGecko.VsCurrency != "eur" {
		t.Errorf("CoinGecko.VsCurrency: got %q, want eur", cfg.CoinGecko.VsCurrency)
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
coingecko:
  vs_currency: "eur"
  per_page: 100
  retry_delay_ms: 250
  api_key: "CG-test-key-123456"
news:
  feeds:
    - name: "The Block"
      url: "https://www.theblock.co/rss.xml"
  limit: 5
cache:
  backend: "redis"
  redis_url: "redis://:hunter2@localhost:6379/0"
api:
  port: 9090
logging:
  level: "debug"
  format: "json"
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.CoinGecko.VsCurrency != "eur" || cfg.CoinGecko.PerPage != 100 {
		t.Errorf("CoinGecko: got %+v", cfg.CoinGecko)
	}
	if cfg.CoinGecko.RetryDelay() != 250*time.Millisecond {
		t.Errorf("RetryDelay(): got %s", cfg.CoinGecko.RetryDelay())
	}
	if cfg.CoinGecko.MaxRetries != 3 {
		t.Errorf("unset keys should keep defaults, MaxRetries = %d", cfg.CoinGecko.MaxRetries)
	}
	if len(cfg.News.Feeds) != 1 || cfg.News.Feeds[0].Name != "The Block" || cfg.News.Limit != 5 {
		t.Errorf("News: got %+v", cfg.News)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisURL == "" {
		t.Errorf("Cache: got %+v", cfg.Cache)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging: got %+v", cfg.Logging)
	}
}

func TestLoadFromFileDotEnv(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	os.WriteFile(cfgPath, []byte("api:\n  port: 8081\n"), 0644)
	os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("CRYPTODASH_COINGECKO_API_KEY=CG-from-dotenv-123\n"), 0644)
	t.Cleanup(func() { os.Unsetenv("CRYPTODASH_COINGECKO_API_KEY") })

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.CoinGecko.APIKey != "CG-from-dotenv-123" {
		t.Errorf("APIKey from .env: got %q", cfg.CoinGecko.APIKey)
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"bad backend", "cache:\n  backend: memcached\n", "Backend"},
		{"redis without url", "cache:\n  backend: redis\n", "RedisURL"},
		{"bad log level", "logging:\n  level: loud\n", "Level"},
		{"bad port", "api:\n  port: 70000\n", "Port"},
		{"zero retries", "coingecko:\n  max_retries: 0\n", "MaxRetries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			os.WriteFile(path, []byte(tt.content), 0644)
			_, err := LoadFromFile(path)
			if err == nil {
				t.Fatalf("LoadFromFile() should fail")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

// ── overrideFromEnv ──

func TestOverrideFromEnv(t *testing.T) {
	cfg := &Config{}
	t.Setenv("CRYPTODASH_COINGECKO_API_KEY", "CG-env-key-123456")
	t.Setenv("CRYPTODASH_CACHE_REDIS_URL", "redis://localhost:6379/1")

	overrideFromEnv(cfg)

	if cfg.CoinGecko.APIKey != "CG-env-key-123456" {
		t.Errorf("APIKey: got %q", cfg.CoinGecko.APIKey)
	}
	if cfg.Cache.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("RedisURL: got %q", cfg.Cache.RedisURL)
	}
}

func TestOverrideFromEnvNoEnvSet(t *testing.T) {
	clearEnv(t)

	cfg := &Config{CoinGecko: CoinGeckoConfig{APIKey: "from-config"}}
	overrideFromEnv(cfg)

	// Should retain the original value when env is not set
	if cfg.CoinGecko.APIKey != "from-config" {
		t.Errorf("APIKey should stay as 'from-config' when env is unset, got %q", cfg.CoinGecko.APIKey)
	}
}
