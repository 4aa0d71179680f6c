package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host        string `mapstructure:"SERVER_HOST"`
	Port        int    `mapstructure:"SERVER_PORT"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     int    `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	DBName   string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"REDIS_ADDR"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type JWTConfig struct {
	Secret string `mapstructure:"JWT_SECRET"`
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
}

var (
	instance *Config
	once     sync.Once
)

// Load reads .env (when present) and environment variables into the config
// singleton.
func Load() (*Config, error) {
	var err error
	once.Do(func() {
		_ = godotenv.Load()

		v := viper.New()
		v.AutomaticEnv()

		v.SetDefault("SERVER_HOST", "0.0.0.0")
		v.SetDefault("SERVER_PORT", 7070)
		v.SetDefault("FRONTEND_URL", "http://localhost:3000")
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("DB_HOST", "localhost")
		v.SetDefault("DB_PORT", 5432)
		v.SetDefault("DB_USER", "postgres")
		v.SetDefault("DB_PASSWORD", "postgres")
		v.SetDefault("DB_NAME", "modutime")
		v.SetDefault("DB_SSLMODE", "disable")
		v.SetDefault("REDIS_ADDR", "localhost:6379")
		v.SetDefault("REDIS_PASSWORD", "")
		v.SetDefault("REDIS_DB", 0)
		v.SetDefault("JWT_SECRET", "")

		cfg := &Config{}
		if e := v.Unmarshal(&cfg.Server); e != nil {
			err = fmt.Errorf("unmarshal server config: %w", e)
			return
		}
		if e := v.Unmarshal(&cfg.Database); e != nil {
			err = fmt.Errorf("unmarshal database config: %w", e)
			return
		}
		if e := v.Unmarshal(&cfg.Redis); e != nil {
			err = fmt.Errorf("unmarshal redis config: %w", e)
			return
		}
		if e := v.Unmarshal(&cfg.JWT); e != nil {
			err = fmt.Errorf("unmarshal jwt config: %w", e)
			return
		}
		instance = cfg
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

// Get returns the loaded config. Panics when Load has not run.
func Get() *Config {
	if instance == nil {
		panic("config not initialized")
	}
	return instance
}

// GetSafe returns the config and whether it has been initialized.
func GetSafe() (*Config, bool) {
	return instance, instance != nil
}
