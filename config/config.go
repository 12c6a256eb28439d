package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Environment   string        `mapstructure:"environment"`
	ServerAddress string        `mapstructure:"server.address"`
	ServerTimeout time.Duration `mapstructure:"server.timeout"`
	LogLevel      string        `mapstructure:"logging.level"`
	LogFormat     string        `mapstructure:"logging.format"`
	DB            DatabaseConfig
	Redis         RedisConfig
	Worker        WorkerConfig
}

// DatabaseConfig holds database configuration. Driver selects the
// backend: "sqlite" for the single-file store, "postgres" for a
// shared one.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"database.driver"`
	DSN             string        `mapstructure:"database.dsn"`
	MaxOpenConns    int           `mapstructure:"database.max_open_conns"`
	MaxIdleConns    int           `mapstructure:"database.max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"database.conn_max_lifetime"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host       string `mapstructure:"redis.host"`
	Port       int    `mapstructure:"redis.port"`
	Password   string `mapstructure:"redis.password"`
	DB         int    `mapstructure:"redis.db"`
	Enabled    bool   `mapstructure:"redis.enabled"`
	TTLSeconds int    `mapstructure:"redis.ttl_seconds"`
}

// WorkerConfig holds reminder worker configuration
type WorkerConfig struct {
	SweepInterval time.Duration `mapstructure:"worker.sweep_interval"`
	HorizonDays   int           `mapstructure:"worker.horizon_days"`
}

// LoadConfig reads configuration from file or environment variables
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AddConfigPath(path)
	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file is fine, ENV vars and defaults apply
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Enable environment variables to override config
	v.SetEnvPrefix("BOOKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Core settings
	v.SetDefault("environment", "development")
	v.SetDefault("server.address", "0.0.0.0:8080")
	v.SetDefault("server.timeout", "30s")

	// Database settings
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "booking.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")

	// Redis settings
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.ttl_seconds", 300)

	// Worker settings
	v.SetDefault("worker.sweep_interval", "1h")
	v.SetDefault("worker.horizon_days", 7)

	// Logging settings
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
