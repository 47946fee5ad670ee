package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the scanner.
// Every environment variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External data sources
	Yahoo YahooConfig
	SEC   SECConfig
	FX    FXConfig

	// Screening knobs (caller-supplied thresholds)
	Screening ScreeningConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// YahooConfig holds Yahoo Finance quote/fundamentals configuration
type YahooConfig struct {
	BaseURL string
	// Requests per second against Yahoo endpoints. Yahoo throttles hard.
	RequestsPerSecond float64
	FetchTimeout      time.Duration
}

// SECConfig holds SEC EDGAR companyfacts configuration
type SECConfig struct {
	BaseURL   string
	UserAgent string // SEC requires an identifying User-Agent
}

// FXConfig holds FX rate provider configuration
type FXConfig struct {
	BaseURL  string
	CacheTTL time.Duration
}

// ScreeningConfig collects every valuation/trend threshold so nothing is
// hard-coded inside the computation core.
type ScreeningConfig struct {
	// Statement recency
	ViabilityMaxAgeDays int // newest usable snapshot must be younger than this
	StaleAfterDays      int // valuation-phase staleness threshold

	// Dilution extrema windows
	DilutionWindow1YDays int
	DilutionWindow3YDays int

	// Approximate-gap pairing (nominal gap / tolerance, in days)
	QoQGapDays       int
	QoQToleranceDays int
	HoHGapDays       int
	HoHToleranceDays int
	YoYGapDays       int
	YoYToleranceDays int

	// Flag thresholds
	MaxPriceToNCAV    float64 // green when price/NCAVps at or below this
	MinCurrentRatio   float64 // green when current ratio at or above this
	MaxDebtToEquity   float64 // red when D/E above this
	MaxPeriodDilution float64 // red when per-period dilution above this
	MaxDilution1Y     float64 // red when worst 12m issuance above this
	MaxIssuance3Y     float64 // red when worst 3y issuance above this
	MinBuyback3Y      float64 // green when best 3y buyback below this (negative)

	// Batch execution
	Workers int
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "netnet"),
			User:            getEnv("DB_USER", "netnet"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// External data sources
		Yahoo: YahooConfig{
			BaseURL:           getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			RequestsPerSecond: getEnvAsFloat("YAHOO_RPS", 2.0),
			FetchTimeout:      getEnvAsDuration("YAHOO_FETCH_TIMEOUT", "15s"),
		},

		SEC: SECConfig{
			BaseURL:   getEnv("SEC_BASE_URL", "https://data.sec.gov"),
			UserAgent: getEnv("SEC_USER_AGENT", "netnet-scanner research@localhost"),
		},

		FX: FXConfig{
			BaseURL:  getEnv("FX_BASE_URL", "https://api.exchangerate.host"),
			CacheTTL: getEnvAsDuration("FX_CACHE_TTL", "24h"),
		},

		Screening: ScreeningConfig{
			ViabilityMaxAgeDays: getEnvAsInt("VIABILITY_MAX_AGE_DAYS", 730),
			StaleAfterDays:      getEnvAsInt("STALE_AFTER_DAYS", 540),

			DilutionWindow1YDays: getEnvAsInt("DILUTION_WINDOW_1Y_DAYS", 365),
			DilutionWindow3YDays: getEnvAsInt("DILUTION_WINDOW_3Y_DAYS", 1095),

			QoQGapDays:       getEnvAsInt("QOQ_GAP_DAYS", 90),
			QoQToleranceDays: getEnvAsInt("QOQ_TOLERANCE_DAYS", 45),
			HoHGapDays:       getEnvAsInt("HOH_GAP_DAYS", 180),
			HoHToleranceDays: getEnvAsInt("HOH_TOLERANCE_DAYS", 60),
			YoYGapDays:       getEnvAsInt("YOY_GAP_DAYS", 365),
			YoYToleranceDays: getEnvAsInt("YOY_TOLERANCE_DAYS", 90),

			MaxPriceToNCAV:    getEnvAsFloat("MAX_PRICE_TO_NCAV", 2.0/3.0),
			MinCurrentRatio:   getEnvAsFloat("MIN_CURRENT_RATIO", 2.0),
			MaxDebtToEquity:   getEnvAsFloat("MAX_DEBT_TO_EQUITY", 1.5),
			MaxPeriodDilution: getEnvAsFloat("MAX_PERIOD_DILUTION", 0.05),
			MaxDilution1Y:     getEnvAsFloat("MAX_DILUTION_1Y", 0.08),
			MaxIssuance3Y:     getEnvAsFloat("MAX_ISSUANCE_3Y", 0.20),
			MinBuyback3Y:      getEnvAsFloat("MIN_BUYBACK_3Y", -0.05),

			Workers: getEnvAsInt("SCREENING_WORKERS", 5),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Screening.ViabilityMaxAgeDays <= 0 {
		return fmt.Errorf("VIABILITY_MAX_AGE_DAYS must be positive")
	}
	if c.Screening.StaleAfterDays <= 0 {
		return fmt.Errorf("STALE_AFTER_DAYS must be positive")
	}
	if c.Screening.Workers <= 0 {
		return fmt.Errorf("SCREENING_WORKERS must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
