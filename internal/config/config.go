package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"port"`
	DatabaseURL     string        `mapstructure:"database_url"`
	LogLevel        string        `mapstructure:"log_level"`
	QuoteProvider   string        `mapstructure:"quote_provider"`
	SchemaBootstrap bool          `mapstructure:"schema_bootstrap"`
	MaxConcurrency  int           `mapstructure:"max_concurrency"`
	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout"`
	QuoteTimeout    time.Duration `mapstructure:"quote_timeout"`

	ViaCEPBaseURL      string `mapstructure:"viacep_base_url"`
	GoogleMapsBaseURL  string `mapstructure:"google_maps_base_url"`
	GoogleMapsAPIKey   string `mapstructure:"google_maps_api_key"`
	MelhorEnvioBaseURL string `mapstructure:"melhor_envio_base_url"`
	MelhorEnvioToken   string `mapstructure:"melhor_envio_token"`
}

var defaults = map[string]any{
	"port":                  "8080",
	"database_url":          "",
	"log_level":             "info",
	"quote_provider":        "melhorenvio",
	"schema_bootstrap":      true,
	"max_concurrency":       8,
	"upstream_timeout":      5 * time.Second,
	"quote_timeout":         5 * time.Second,
	"viacep_base_url":       "https://viacep.com.br/ws",
	"google_maps_base_url":  "https://maps.googleapis.com/maps/api/distancematrix/json",
	"google_maps_api_key":   "",
	"melhor_envio_base_url": "https://www.melhorenvio.com.br/api/v2/me",
	"melhor_envio_token":    "",
}

// Load reads configuration from the environment (PORT, DATABASE_URL, ...) and,
// when CONFIG_FILE is set, from that YAML file. Environment wins over the file.
func Load() (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
		// AutomaticEnv only sees keys viper already knows about.
		_ = v.BindEnv(k, strings.ToUpper(k))
	}
	_ = v.BindEnv("config_file", "CONFIG_FILE")
	v.AutomaticEnv()

	if path := strings.TrimSpace(v.GetString("config_file")); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DATABASE_URL not set")
	}
	if c.UpstreamTimeout <= 0 || c.QuoteTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	if c.MaxConcurrency <= 0 {
		return errors.New("max_concurrency must be positive")
	}
	return nil
}
