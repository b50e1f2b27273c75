package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret               string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer               string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Storage struct {
		// DocumentRoot is where sealed diploma files are written.
		DocumentRoot string `yaml:"document_root" env:"STORAGE_DOCUMENT_ROOT"`
		// FontsDir holds the Amiri TTF files used by the renderer.
		FontsDir string `yaml:"fonts_dir" env:"STORAGE_FONTS_DIR"`
		// AssetsDir holds border and logo images referenced by the structure.
		AssetsDir string `yaml:"assets_dir" env:"STORAGE_ASSETS_DIR"`
	} `yaml:"storage"`

	Signing struct {
		// KeyPath and CertPath are operator-provisioned PEM files, never user input.
		KeyPath  string `yaml:"key_path" env:"SIGNING_KEY_PATH"`
		CertPath string `yaml:"cert_path" env:"SIGNING_CERT_PATH"`
		Reason   string `yaml:"reason" env:"SIGNING_REASON"`
		Location string `yaml:"location" env:"SIGNING_LOCATION"`
		// Required controls the failure policy: when true (the default) a
		// signing failure aborts the issuance; when false the document is
		// stored unsigned and the fallback is logged at error level.
		Required bool `yaml:"required" env:"SIGNING_REQUIRED"`
	} `yaml:"signing"`

	Verification struct {
		// FrontendBaseURL is the public base used to build QR verification links.
		FrontendBaseURL string `yaml:"frontend_base_url" env:"VERIFY_FRONTEND_BASE_URL"`
		RateLimit       int    `yaml:"rate_limit" env:"VERIFY_RATE_LIMIT"`
		RateWindow      string `yaml:"rate_window" env:"VERIFY_RATE_WINDOW"`
		// RedisAddr enables the redis-backed rate-limit store when set.
		RedisAddr     string `yaml:"redis_addr" env:"VERIFY_REDIS_ADDR"`
		RedisPassword string `yaml:"redis_password" env:"VERIFY_REDIS_PASSWORD"`
		RedisDB       int    `yaml:"redis_db" env:"VERIFY_REDIS_DB"`
	} `yaml:"verification"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Config file is optional; env vars can carry everything
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "diploma_registry"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.Issuer = "diploma-registry"

	config.Storage.DocumentRoot = "diploma_storage"
	config.Storage.FontsDir = "assets/fonts"
	config.Storage.AssetsDir = "assets/images"

	config.Signing.KeyPath = "config/keys/diploma_private.key"
	config.Signing.CertPath = "config/keys/diploma_cert.pem"
	config.Signing.Reason = "Diplôme officiel signé numériquement"
	config.Signing.Location = "Mauritanie"
	config.Signing.Required = true

	config.Verification.FrontendBaseURL = "http://localhost:3000"
	config.Verification.RateLimit = 5
	config.Verification.RateWindow = "1m"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if config.Verification.RateLimit <= 0 {
		return fmt.Errorf("verification rate limit must be positive")
	}

	if _, err := time.ParseDuration(config.Verification.RateWindow); err != nil {
		return fmt.Errorf("invalid verification rate window format: %w", err)
	}

	if config.Signing.KeyPath == "" || config.Signing.CertPath == "" {
		return fmt.Errorf("signing key and certificate paths are required")
	}

	return nil
}

// RateWindowDuration returns the parsed rate-limit window.
func (c *Config) RateWindowDuration() time.Duration {
	d, err := time.ParseDuration(c.Verification.RateWindow)
	if err != nil {
		return time.Minute
	}
	return d
}

// AccessTokenDuration returns the parsed JWT access token lifetime.
func (c *Config) AccessTokenDuration() time.Duration {
	d, err := time.ParseDuration(c.JWT.AccessTokenExpiration)
	if err != nil {
		return time.Hour
	}
	return d
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
