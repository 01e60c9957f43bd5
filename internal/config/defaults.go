package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Market: MarketConfig{
			TopCoinsLimit: 50,
			StaleTime:     "1m",
		},
		Clients: ClientsConfig{
			CoinGecko: UpstreamConfig{
				BaseURL:   "https://api.coingecko.com/api/v3",
				RateLimit: 0.5,
				Timeout:   "30s",
			},
			CryptoPanic: UpstreamConfig{
				BaseURL:   "https://cryptopanic.com/api/v1",
				RateLimit: 0.5,
				Timeout:   "15s",
			},
			CryptoCompare: UpstreamConfig{
				BaseURL:   "https://min-api.cryptocompare.com/data/v2",
				RateLimit: 0.5,
				Timeout:   "15s",
			},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/cryptomate",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
