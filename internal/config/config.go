// Package config handles configuration loading for TrinoPricer.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/seenimoa/trinopricer/internal/calendar"
)

// Config represents the complete application configuration.
type Config struct {
	Market   MarketConfig   `mapstructure:"market"   yaml:"market"`
	Calendar CalendarConfig `mapstructure:"calendar" yaml:"calendar"`
	NSE      NSEConfig      `mapstructure:"nse"      yaml:"nse"`
	Engine   EngineConfig   `mapstructure:"engine"   yaml:"engine"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// MarketConfig holds the manually supplied market constants.
type MarketConfig struct {
	RiskFreeRate  float64 `mapstructure:"risk_free_rate" yaml:"risk_free_rate"` // annual, decimal
	DividendYield float64 `mapstructure:"dividend_yield" yaml:"dividend_yield"`
}

// CalendarConfig holds the per-year trading calendars. Keys are year
// strings ("2025") so the YAML round-trips cleanly through viper.
type CalendarConfig struct {
	Years map[string]YearConfig `mapstructure:"years" yaml:"years"`
}

// YearConfig is one year's holiday set and trading-day total.
type YearConfig struct {
	Holidays    []string `mapstructure:"holidays"     yaml:"holidays"` // DD-Mon-YYYY
	TradingDays int      `mapstructure:"trading_days" yaml:"trading_days"`
}

// NSEConfig tunes the NSE option-chain client.
type NSEConfig struct {
	TimeoutSec     int `mapstructure:"timeout_sec"      yaml:"timeout_sec"`
	CacheTTLSec    int `mapstructure:"cache_ttl_sec"    yaml:"cache_ttl_sec"`
	RatePerSec     int `mapstructure:"rate_per_sec"     yaml:"rate_per_sec"`
	Retries        int `mapstructure:"retries"          yaml:"retries"`
	RetryWaitSec   int `mapstructure:"retry_wait_sec"   yaml:"retry_wait_sec"`
	CookieTTLSec   int `mapstructure:"cookie_ttl_sec"   yaml:"cookie_ttl_sec"`
}

// EngineConfig holds pricing-engine settings.
type EngineConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.trinopricer/config.yaml (home directory)
//  3. /etc/trinopricer/config.yaml (system)
//
// Environment variables override config file values.
// Format: TRINOPRICER_<SECTION>_<KEY>, e.g. TRINOPRICER_MARKET_RISK_FREE_RATE
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".trinopricer"))
	v.AddConfigPath("/etc/trinopricer")

	v.SetEnvPrefix("TRINOPRICER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("TRINOPRICER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// BuildCalendar converts the configured year calendars into a
// calendar.Calendar. Year keys that fail to parse are skipped.
func (c *Config) BuildCalendar() *calendar.Calendar {
	years := make(map[int]calendar.Year, len(c.Calendar.Years))
	for key, yc := range c.Calendar.Years {
		year, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		years[year] = calendar.Year{
			Holidays:         yc.Holidays,
			TotalTradingDays: yc.TradingDays,
		}
	}
	return calendar.New(years)
}

// setDefaults sets sensible defaults for all config values. The calendar
// default carries the NSE 2025 holiday list and its 247-day total.
func setDefaults(v *viper.Viper) {
	// Market constants
	v.SetDefault("market.risk_free_rate", 0.06509)
	v.SetDefault("market.dividend_yield", 0.0)

	// Trading calendar: NSE 2025
	v.SetDefault("calendar.years", map[string]any{
		"2025": map[string]any{
			"trading_days": 247,
			"holidays": []string{
				"26-Feb-2025", // Mahashivratri
				"14-Mar-2025", // Holi
				"31-Mar-2025", // Id-Ul-Fitr
				"10-Apr-2025", // Mahavir Jayanti
				"14-Apr-2025", // Ambedkar Jayanti
				"18-Apr-2025", // Good Friday
				"01-May-2025", // Maharashtra Day
				"15-Aug-2025", // Independence Day
				"27-Aug-2025", // Ganesh Chaturthi
				"02-Oct-2025", // Gandhi Jayanti / Dussehra
				"21-Oct-2025", // Diwali Laxmi Pujan
				"22-Oct-2025", // Balipratipada
				"05-Nov-2025", // Prakash Gurpurb
				"25-Dec-2025", // Christmas
			},
		},
	})

	// NSE client
	v.SetDefault("nse.timeout_sec", 10)
	v.SetDefault("nse.cache_ttl_sec", 120)
	v.SetDefault("nse.rate_per_sec", 3)
	v.SetDefault("nse.retries", 3)
	v.SetDefault("nse.retry_wait_sec", 3)
	v.SetDefault("nse.cookie_ttl_sec", 300)

	// Engine
	v.SetDefault("engine.concurrency", 8)

	// API
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
