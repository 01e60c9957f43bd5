package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Market  MarketConfig  `toml:"market"`
	Clients ClientsConfig `toml:"clients"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
}

// MarketConfig contains market data presentation settings.
type MarketConfig struct {
	TopCoinsLimit int    `toml:"top_coins_limit"`
	StaleTime     string `toml:"stale_time"`
}

// GetStaleTime parses and returns the freshness window for fetched data.
func (c *MarketConfig) GetStaleTime() time.Duration {
	d, err := time.ParseDuration(c.StaleTime)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// ClientsConfig holds API client configurations.
type ClientsConfig struct {
	CoinGecko     UpstreamConfig `toml:"coingecko"`
	CryptoPanic   UpstreamConfig `toml:"cryptopanic"`
	CryptoCompare UpstreamConfig `toml:"cryptocompare"`
}

// UpstreamConfig holds the settings for one upstream REST provider.
type UpstreamConfig struct {
	BaseURL   string  `toml:"base_url"`
	APIKey    string  `toml:"api_key"`
	RateLimit float64 `toml:"rate_limit"`
	Timeout   string  `toml:"timeout"`
}

// GetTimeout parses and returns the request timeout duration.
func (c *UpstreamConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies CRYPTOMATE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if limit := os.Getenv("CRYPTOMATE_TOP_COINS_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			config.Market.TopCoinsLimit = n
		}
	}
	if badgerPath := os.Getenv("CRYPTOMATE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if key := os.Getenv("CRYPTOMATE_COINGECKO_API_KEY"); key != "" {
		config.Clients.CoinGecko.APIKey = key
	}
	if key := os.Getenv("CRYPTOMATE_CRYPTOPANIC_API_KEY"); key != "" {
		config.Clients.CryptoPanic.APIKey = key
	}
	if level := os.Getenv("CRYPTOMATE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("CRYPTOMATE_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// Validate reports missing or invalid mandatory fields. An empty slice means
// the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string
	if c.Market.TopCoinsLimit <= 0 {
		issues = append(issues, "market.top_coins_limit must be greater than zero")
	}
	if c.Storage.Badger.Path == "" {
		issues = append(issues, "storage.badger.path is required")
	}
	if c.Clients.CoinGecko.BaseURL == "" {
		issues = append(issues, "clients.coingecko.base_url is required")
	}
	return issues
}
