package config

import (
	"net/url"
	"os"
)

// APIKeySource represents where an API key comes from.
type APIKeySource string

const (
	KeySourceEnv    APIKeySource = "env"
	KeySourceConfig APIKeySource = "config"
	KeySourceNone   APIKeySource = "none"
)

// KeyStatus represents the status of an API key.
type KeyStatus struct {
	Name     string       `json:"name"`
	Source   APIKeySource `json:"source"`
	IsSet    bool         `json:"is_set"`
	Optional bool         `json:"optional"`
	Masked   string       `json:"masked,omitempty"` // e.g., "CG-...abc"
}

// CheckAPIKeys returns the status of every secret the app can use. The
// CoinGecko key is optional: the public tier works without it.
func CheckAPIKeys(cfg *Config) []KeyStatus {
	keys := []KeyStatus{
		checkKey("CoinGecko API Key", cfg.CoinGecko.APIKey, EnvPrefix+"_COINGECKO_API_KEY", true),
	}
	if cfg.Cache.Backend == "redis" {
		st := checkKey("Redis URL", cfg.Cache.RedisURL, EnvPrefix+"_CACHE_REDIS_URL", false)
		if st.IsSet {
			st.Masked = maskURL(cfg.Cache.RedisURL)
		}
		keys = append(keys, st)
	}
	return keys
}

// checkKey checks if a key is set and where it came from.
func checkKey(name, value, envVar string, optional bool) KeyStatus {
	status := KeyStatus{
		Name:     name,
		IsSet:    value != "",
		Optional: optional,
	}

	if value != "" {
		if os.Getenv(envVar) != "" {
			status.Source = KeySourceEnv
		} else {
			status.Source = KeySourceConfig
		}
		status.Masked = maskKey(value)
	} else {
		status.Source = KeySourceNone
	}

	return status
}

// maskKey masks an API key for display, showing only first 3 and last 3 chars.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}

// maskURL hides the password of a connection URL.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return maskKey(raw)
	}
	return u.Redacted()
}

// Redacted returns a copy of cfg with secrets masked, safe to serve or log.
func (c Config) Redacted() Config {
	if c.CoinGecko.APIKey != "" {
		c.CoinGecko.APIKey = maskKey(c.CoinGecko.APIKey)
	}
	if c.Cache.RedisURL != "" {
		c.Cache.RedisURL = maskURL(c.Cache.RedisURL)
	}
	c.API.CORSOrigins = append([]string(nil), c.API.CORSOrigins...)
	c.News.Feeds = append([]FeedConfig(nil), c.News.Feeds...)
	return c
}
