package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string        `yaml:"port" env:"PORT"`
		Mode           string        `yaml:"mode" env:"SERVER_MODE"`
		FrontendURL    string        `yaml:"frontend_url" env:"FRONTEND_URL"`
		AllowedOrigins []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
		MaxUploadBytes int64         `yaml:"max_upload_bytes" env:"MAX_UPLOAD_BYTES"`
		ReadTimeout    time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout   time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		URL             string        `yaml:"url" env:"DATABASE_URL"`
		Host            string        `yaml:"host" env:"DB_HOST"`
		Port            string        `yaml:"port" env:"DB_PORT"`
		User            string        `yaml:"user" env:"DB_USER"`
		Password        string        `yaml:"password" env:"DB_PASSWORD"`
		DBName          string        `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string        `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		ConnectRetries  int           `yaml:"connect_retries" env:"DB_CONNECT_RETRIES"`
	} `yaml:"database"`

	Upload struct {
		Provider      string        `yaml:"provider" env:"UPLOAD_PROVIDER"`
		Timeout       time.Duration `yaml:"timeout" env:"UPLOAD_TIMEOUT"`
		ImgBBAPIKey   string        `yaml:"imgbb_api_key" env:"IMGBB_API_KEY"`
		ImgBBEndpoint string        `yaml:"imgbb_endpoint" env:"IMGBB_ENDPOINT"`
		S3Bucket      string        `yaml:"s3_bucket" env:"S3_BUCKET"`
		S3Region      string        `yaml:"s3_region" env:"S3_REGION"`
		S3Endpoint    string        `yaml:"s3_endpoint" env:"S3_ENDPOINT"`
		S3AccessKey   string        `yaml:"s3_access_key" env:"S3_ACCESS_KEY_ID"`
		S3SecretKey   string        `yaml:"s3_secret_key" env:"S3_SECRET_ACCESS_KEY"`
		PublicBaseURL string        `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
		LocalDir      string        `yaml:"local_dir" env:"UPLOAD_LOCAL_DIR"`
	} `yaml:"upload"`

	RateLimit struct {
		Window        time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW"`
		Max           int           `yaml:"max" env:"RATE_LIMIT_MAX"`
		RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR"`
		RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
		RedisDB       int           `yaml:"redis_db" env:"REDIS_DB"`
	} `yaml:"rate_limit"`

	Kafka struct {
		Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`
		Topic   string   `yaml:"topic" env:"KAFKA_TOPIC"`
	} `yaml:"kafka"`

	Jobs struct {
		DriftCheckInterval time.Duration `yaml:"drift_check_interval" env:"DRIFT_CHECK_INTERVAL"`
	} `yaml:"jobs"`

	Seed struct {
		EventsPath string `yaml:"events_path" env:"SEED_EVENTS_PATH"`
	} `yaml:"seed"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path    string `yaml:"path" env:"METRICS_PATH"`
	} `yaml:"metrics"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// Upload providers
const (
	ProviderImgBB = "imgbb"
	ProviderS3    = "s3"
	ProviderLocal = "local"
)

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

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
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.FrontendURL = "http://localhost:5173"
	config.Server.MaxUploadBytes = 5 << 20
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "techfest"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 1
	config.Database.MaxOpenConns = 50
	config.Database.ConnMaxLifetime = time.Hour
	config.Database.ConnectRetries = 5

	config.Upload.Provider = ProviderImgBB
	config.Upload.Timeout = 15 * time.Second
	config.Upload.ImgBBEndpoint = "https://api.imgbb.com/1/upload"
	config.Upload.LocalDir = "uploads"

	config.RateLimit.Window = 30 * time.Minute
	config.RateLimit.Max = 30

	config.Kafka.Topic = "registrations"

	config.Jobs.DriftCheckInterval = 5 * time.Minute

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.URL == "" && config.Database.Host == "" {
		return fmt.Errorf("database url or host is required")
	}

	durations := map[string]time.Duration{
		"server.read_timeout":        config.Server.ReadTimeout,
		"server.write_timeout":       config.Server.WriteTimeout,
		"database.conn_max_lifetime": config.Database.ConnMaxLifetime,
		"upload.timeout":             config.Upload.Timeout,
		"rate_limit.window":          config.RateLimit.Window,
		"jobs.drift_check_interval":  config.Jobs.DriftCheckInterval,
	}
	for name, value := range durations {
		if value <= 0 {
			return fmt.Errorf("%s must be a positive duration, got %s", name, value)
		}
	}

	if config.RateLimit.Max <= 0 {
		return fmt.Errorf("rate_limit.max must be positive")
	}

	if config.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}

	config.Upload.Provider = strings.ToLower(strings.TrimSpace(config.Upload.Provider))
	switch config.Upload.Provider {
	case ProviderImgBB:
	case ProviderS3:
		if config.Upload.S3Bucket == "" {
			return fmt.Errorf("upload.s3_bucket is required for the s3 provider")
		}
	case ProviderLocal:
		if config.Upload.LocalDir == "" {
			return fmt.Errorf("upload.local_dir is required for the local provider")
		}
	default:
		return fmt.Errorf("unknown upload provider %q", config.Upload.Provider)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

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

// UploadConfigured reports whether the proof upload collaborator has credentials
func (c *Config) UploadConfigured() bool {
	switch c.Upload.Provider {
	case ProviderS3:
		return c.Upload.S3Bucket != ""
	case ProviderLocal:
		return c.Upload.LocalDir != ""
	default:
		return c.Upload.ImgBBAPIKey != ""
	}
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}
