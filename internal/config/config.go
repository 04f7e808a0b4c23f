package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL string `mapstructure:"database_url"`
	JWTSecret   string `mapstructure:"jwt_secret"`
	Port        string `mapstructure:"port"`
	Env         string `mapstructure:"env"`
	AdminKey    string `mapstructure:"admin_key"`
	CORSOrigin  string `mapstructure:"cors_origin"`

	// Timezone is the single zone used for every day/week boundary in the
	// engine: pet decay, streaks, missions and report bucketing.
	Timezone string `mapstructure:"timezone"`

	RateLimitAuthMax  int `mapstructure:"rate_limit_auth_max"`
	RateLimitWriteMax int `mapstructure:"rate_limit_write_max"`
}

// Load reads configuration from ./configs/config.yaml when present and
// from environment variables (which take precedence).
func Load() (Config, error) {
	v := viper.New()
	v.AddConfigPath("./configs")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("port", "8080")
	v.SetDefault("env", "production")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("cors_origin", "*")
	v.SetDefault("rate_limit_auth_max", 10)
	v.SetDefault("rate_limit_write_max", 60)

	v.AutomaticEnv()
	for _, key := range []string{
		"database_url", "jwt_secret", "port", "env", "admin_key",
		"cors_origin", "timezone", "rate_limit_auth_max", "rate_limit_write_max",
	} {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is not set")
	}
	return cfg, nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, "dev")
}
