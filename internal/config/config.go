package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultRecordsURL = "https://dadesobertes.fgc.cat/api/explore/v2.1/catalog/datasets/viajes-de-hoy/records"
	DefaultCameraURL  = "https://geotren.fgc.cat/isic"
)

type Config struct {
	Environment    string
	LogLevel       zerolog.Level
	HTTPTimeout    time.Duration
	MaxRetries     int
	RecordsURL     string
	CameraURL      string
	CameraInterval time.Duration
	StationsFile   string

	// Board defaults, usually set from a config file
	DefaultStation string
	DefaultCount   int
	DefaultLine    string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithRecordsURL(url string) Option {
	return func(c *Config) {
		c.RecordsURL = url
	}
}

func WithCameraURL(url string) Option {
	return func(c *Config) {
		c.CameraURL = url
	}
}

func WithCameraInterval(interval time.Duration) Option {
	return func(c *Config) {
		if interval > 0 {
			c.CameraInterval = interval
		}
	}
}

func WithStationsFile(path string) Option {
	return func(c *Config) {
		c.StationsFile = path
	}
}

// WithBoardDefaults sets what the CLI falls back to when flags are omitted
func WithBoardDefaults(station string, count int, line string) Option {
	return func(c *Config) {
		if station != "" {
			c.DefaultStation = station
		}
		if count > 0 {
			c.DefaultCount = count
		}
		if line != "" {
			c.DefaultLine = line
		}
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:    "production",
		LogLevel:       zerolog.InfoLevel,
		HTTPTimeout:    10 * time.Second,
		MaxRetries:     3,
		RecordsURL:     DefaultRecordsURL,
		CameraURL:      DefaultCameraURL,
		CameraInterval: 10 * time.Second,
		DefaultCount:   8,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.IsLocal() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return
	}

	log.Logger = zerolog.New(os.Stderr).
		With().
		Timestamp().
		Logger()
}

func (c *Config) IsLocal() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// LoadFromEnv loads configuration from environment variables. A .env file in
// the working directory is read first if present; real environment
// variables win.
func LoadFromEnv(extra ...Option) *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Could not read .env file")
	}

	opts := []Option{
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithRecordsURL(getEnvOrDefault("FGC_RECORDS_URL", DefaultRecordsURL)),
		WithCameraURL(getEnvOrDefault("FGC_CAMERA_URL", DefaultCameraURL)),
		WithCameraInterval(getDurationEnvOrDefault("CAMERA_INTERVAL", 10*time.Second)),
		WithStationsFile(os.Getenv("CAMERA_STATIONS_FILE")),
	}

	return New(append(opts, extra...)...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
