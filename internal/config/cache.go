package config

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
	BackendS3       = "s3"
)

// CacheConfig holds the settings of the key-value store behind the
// station cache
type CacheConfig struct {
	Backend   string
	KeyPrefix string

	// LRU front layer
	EnableLRU bool
	LRUSize   int

	// Memory backend quota in bytes, 0 for unlimited
	MemoryQuotaBytes int

	SQLitePath  string
	PostgresURL string

	DynamoTable   string
	DynamoTTLDays int
	S3Bucket      string
	// AWSEndpoint points DynamoDB or S3 at a local emulator
	AWSEndpoint string
}

const (
	defaultKeyPrefix        = "fgc_station_"
	defaultLRUSize          = 256
	defaultMemoryQuotaBytes = 5 * 1024 * 1024
	defaultSQLitePath       = "board.db"
	defaultDynamoTable      = "fgc-board-cache"
	defaultDynamoTTLDays    = 2
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		Backend:          getEnvString("STORE_BACKEND", BackendSQLite),
		KeyPrefix:        getEnvString("CACHE_KEY_PREFIX", defaultKeyPrefix),
		EnableLRU:        getEnvBool("CACHE_ENABLE_LRU", false),
		LRUSize:          getEnvInt("CACHE_LRU_SIZE", defaultLRUSize),
		MemoryQuotaBytes: getEnvInt("CACHE_MEMORY_QUOTA_BYTES", defaultMemoryQuotaBytes),
		SQLitePath:       getEnvString("STORE_SQLITE_PATH", defaultSQLitePath),
		PostgresURL:      os.Getenv("STORE_POSTGRES_URL"),
		DynamoTable:      getEnvString("STORE_TABLE", defaultDynamoTable),
		DynamoTTLDays:    getEnvInt("CACHE_DYNAMO_TTL_DAYS", defaultDynamoTTLDays),
		S3Bucket:         os.Getenv("STORE_BUCKET"),
		AWSEndpoint:      os.Getenv("AWS_ENDPOINT_URL"),
	}

	log.Debug().
		Str("Backend", config.Backend).
		Str("KeyPrefix", config.KeyPrefix).
		Bool("EnableLRU", config.EnableLRU).
		Int("LRUSize", config.LRUSize).
		Int("MemoryQuotaBytes", config.MemoryQuotaBytes).
		Str("SQLitePath", config.SQLitePath).
		Str("DynamoTable", config.DynamoTable).
		Str("S3Bucket", config.S3Bucket).
		Msg("Cache configuration loaded")

	return config
}

// Helper functions to get environment variables with defaults
func getEnvString(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
