package config

import (
	"golang-stock-watchlist/pkg/config"
)

// Watchlist holds watchlist-specific configuration.
type Watchlist struct {
	PriceRefreshCron   string `mapstructure:"price_refresh_cron"`
	PollingInterval    string `mapstructure:"polling_interval"`
	SearchCacheTTL     string `mapstructure:"search_cache_ttl"`
	SearchMaxPerSecond int    `mapstructure:"search_max_per_second"`
	SeedSampleData     bool   `mapstructure:"seed_sample_data"`
}

// Config holds the full configuration for the watchlist service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Watchlist Watchlist       `mapstructure:"watchlist"`
}

// Load loads the watchlist configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
