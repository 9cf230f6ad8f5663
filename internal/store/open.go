package store

import (
	"context"
	"fmt"
	"time"

	"github.com/bbernstein/fgcboard/internal/config"
	"github.com/rs/zerolog/log"
)

// Open builds the store named by the cache configuration, wrapped in an LRU
// layer when enabled.
func Open(ctx context.Context, cfg *config.CacheConfig) (Store, error) {
	var (
		backend Store
		err     error
	)

	switch cfg.Backend {
	case config.BackendMemory:
		backend = NewMemory(cfg.MemoryQuotaBytes)
	case config.BackendSQLite, "":
		backend, err = NewSQLite(cfg.SQLitePath)
	case config.BackendPostgres:
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("postgres backend needs STORE_POSTGRES_URL")
		}
		backend, err = NewPostgres(cfg.PostgresURL)
	case config.BackendDynamoDB:
		client, clientErr := NewDynamoClient(ctx, cfg.AWSEndpoint)
		if clientErr != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", clientErr)
		}
		backend = NewDynamo(client, cfg.DynamoTable, time.Duration(cfg.DynamoTTLDays)*24*time.Hour)
	case config.BackendS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 backend needs STORE_BUCKET")
		}
		client, clientErr := NewS3Client(ctx, cfg.AWSEndpoint)
		if clientErr != nil {
			return nil, fmt.Errorf("creating S3 client: %w", clientErr)
		}
		backend = NewS3(client, cfg.S3Bucket, "cache/")
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Backend, err)
	}

	log.Debug().Str("backend", cfg.Backend).Bool("lru", cfg.EnableLRU).Msg("Store opened")

	if !cfg.EnableLRU {
		return backend, nil
	}

	layered, err := NewLRU(backend, cfg.LRUSize)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return layered, nil
}
