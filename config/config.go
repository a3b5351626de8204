package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	GeneralVersion        string `mapstructure:"GENERAL_VERSION"`
	Environment           string `mapstructure:"ENVIRONMENT"`
	LogLevel              string `mapstructure:"LOG_LEVEL"`
	ServerPort            int    `mapstructure:"SERVER_PORT"`
	CorsAllowOrigins      string `mapstructure:"CORS_ALLOW_ORIGINS"`
	RequestTimeoutSeconds int    `mapstructure:"REQUEST_TIMEOUT_SECONDS"`

	DatabaseDriver       string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDbPath       string `mapstructure:"DATABASE_DB_PATH"`
	DatabaseURL          string `mapstructure:"DATABASE_URL"`
	DatabaseCacheAddress string `mapstructure:"DATABASE_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DATABASE_CACHE_PORT"`

	SessionTTLMinutes  int    `mapstructure:"SESSION_TTL_MINUTES"`
	TesterEmailDomain  string `mapstructure:"TESTER_EMAIL_DOMAIN"`
	TesterPassword     string `mapstructure:"TESTER_PASSWORD"`
	TesterPasswordHash string `mapstructure:"TESTER_PASSWORD_HASH"`

	// RMAIDOffset and RMAIDWidth drive synthesized case ids: RMA/<rowIndex+offset>
	// zero-padded to width digits.
	RMAIDOffset int `mapstructure:"RMA_ID_OFFSET"`
	RMAIDWidth  int `mapstructure:"RMA_ID_WIDTH"`
}

var keys = []string{
	"GENERAL_VERSION",
	"ENVIRONMENT",
	"LOG_LEVEL",
	"SERVER_PORT",
	"CORS_ALLOW_ORIGINS",
	"REQUEST_TIMEOUT_SECONDS",
	"DATABASE_DRIVER",
	"DATABASE_DB_PATH",
	"DATABASE_URL",
	"DATABASE_CACHE_ADDRESS",
	"DATABASE_CACHE_PORT",
	"SESSION_TTL_MINUTES",
	"TESTER_EMAIL_DOMAIN",
	"TESTER_PASSWORD",
	"TESTER_PASSWORD_HASH",
	"RMA_ID_OFFSET",
	"RMA_ID_WIDTH",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GENERAL_VERSION", "dev")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", 3001)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DB_PATH", "data/rma_system.db")
	v.SetDefault("DATABASE_CACHE_ADDRESS", "localhost")
	v.SetDefault("DATABASE_CACHE_PORT", 6379)
	v.SetDefault("SESSION_TTL_MINUTES", 480)
	v.SetDefault("TESTER_EMAIL_DOMAIN", "@kreo-tech.com")
	v.SetDefault("RMA_ID_OFFSET", 32)
	v.SetDefault("RMA_ID_WIDTH", 4)
}

// InitConfig loads .env (if present) and the process environment into a
// Config.
func InitConfig() (Config, error) {
	_ = godotenv.Load()
	return Load(viper.New())
}

func Load(v *viper.Viper) (Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.DatabaseDbPath) == "" {
			errs = append(errs, errors.New("DATABASE_DB_PATH is required for sqlite"))
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	if c.RMAIDWidth <= 0 {
		errs = append(errs, errors.New("RMA_ID_WIDTH must be positive"))
	}

	if c.RMAIDOffset < 0 {
		errs = append(errs, errors.New("RMA_ID_OFFSET must not be negative"))
	}

	return errors.Join(errs...)
}

func (c Config) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
