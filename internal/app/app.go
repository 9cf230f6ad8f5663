package app

import (
	"context"
	"fmt"

	"github.com/bbernstein/fgcboard/internal/board"
	"github.com/bbernstein/fgcboard/internal/cache"
	"github.com/bbernstein/fgcboard/internal/camera"
	"github.com/bbernstein/fgcboard/internal/config"
	"github.com/bbernstein/fgcboard/internal/departure"
	"github.com/bbernstein/fgcboard/internal/store"
	"github.com/bbernstein/fgcboard/internal/timeutil"
	"github.com/bbernstein/fgcboard/pkg/http/client"
	"github.com/rs/zerolog/log"
)

// App holds the wired services shared by the CLI and the Lambda functions
type App struct {
	Config  *config.Config
	Store   store.Store
	HTTP    *client.Client
	Cache   *cache.StationCache
	Boards  *board.Service
	Catalog *camera.Catalog
	Clock   timeutil.Clock
}

// New opens the store and wires the board and camera services
func New(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig) (*App, error) {
	s, err := store.Open(ctx, cacheCfg)
	if err != nil {
		return nil, err
	}

	a, err := NewWithStore(cfg, cacheCfg, s)
	if err != nil {
		s.Close()
		return nil, err
	}
	return a, nil
}

// NewWithStore wires everything around an already opened store
func NewWithStore(cfg *config.Config, cacheCfg *config.CacheConfig, s store.Store) (*App, error) {
	catalog, err := camera.LoadCatalogFile(cfg.StationsFile, cfg.CameraURL)
	if err != nil {
		return nil, fmt.Errorf("loading camera stations: %w", err)
	}

	clock := timeutil.SystemClock{}
	httpClient := client.New(client.Options{
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})

	fetcher := departure.NewFetcher(httpClient, cfg.RecordsURL)
	stationCache := cache.NewStationCache(s, fetcher,
		cache.WithClock(clock),
		cache.WithKeyPrefix(cacheCfg.KeyPrefix),
	)

	return &App{
		Config:  cfg,
		Store:   s,
		HTTP:    httpClient,
		Cache:   stationCache,
		Boards:  board.NewService(stationCache, clock),
		Catalog: catalog,
		Clock:   clock,
	}, nil
}

// CleanOldCache runs the start-up sweep. Failures are logged only.
func (a *App) CleanOldCache(ctx context.Context) {
	evicted, err := a.Cache.CleanOldCache(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Cache sweep incomplete")
		return
	}
	log.Debug().Int("evicted", evicted).Msg("Cache sweep finished")
}

func (a *App) Close() error {
	return a.Store.Close()
}
