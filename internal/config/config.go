package config

import (
	"errors"
	"fmt"
	"os"

	"safarinova/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Auth       AuthConfig       `yaml:"auth"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	API        APIConfig        `yaml:"api"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type AuthConfig struct {
	// JWKSURL points at the credential provider's key set. Empty means no
	// verifier can be built and every request resolves to anonymous.
	JWKSURL string `yaml:"jwks_url"`
	// OwnerOpenID seeds the initial admin: an upsert for this external
	// identity is always forced to the admin role.
	OwnerOpenID string `yaml:"owner_open_id"`
	CookieName  string `yaml:"cookie_name"`
	// ClaimsTTLSeconds caps the verified-claims cache lifetime.
	ClaimsTTLSeconds int `yaml:"claims_ttl_seconds"`
}

type DatabaseConfig struct {
	// Path is the sqlite connection string. Empty means the store runs
	// in the unavailable mode: reads return empty, writes return nil.
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type APIConfig struct {
	Port           int                `yaml:"port"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	RateLimit      APIRateLimitConfig `yaml:"rate_limit"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; environment variables referenced from the YAML
	// are expanded before parsing.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return errors.New("app name is required")
	}

	if c.Auth.JWKSURL == "" {
		return errors.New("auth jwks_url is required")
	}

	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api port %d out of range", c.API.Port)
	}

	// database.path deliberately not required: an absent connection
	// string means the store degrades instead of the process failing.
	return nil
}

func (c *Config) applyDefaults() {
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.API.RateLimit.RPS == 0 {
		c.API.RateLimit.RPS = models.RateLimitRPS
	}
	if c.API.RateLimit.Burst == 0 {
		c.API.RateLimit.Burst = models.RateLimitBurst
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "sn_session"
	}
	if c.Auth.ClaimsTTLSeconds == 0 {
		c.Auth.ClaimsTTLSeconds = models.DefaultClaimsTTL
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
}
