package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bbernstein/fgcboard/internal/models"
	"github.com/bbernstein/fgcboard/internal/store"
	"github.com/bbernstein/fgcboard/internal/timeutil"
	"github.com/rs/zerolog/log"
)

const (
	DefaultKeyPrefix = "fgc_station_"
	dateSuffix       = "_date"
)

// Fetcher retrieves every departure for a station. It never fails; a failed
// fetch yields whatever was collected.
type Fetcher interface {
	FetchAll(ctx context.Context, stationCode string) []models.Departure
}

// StationCache keeps one day's departures per station in a key-value store.
// An entry is two keys: the JSON records and the local date they were
// fetched on. Only entries dated today are served.
type StationCache struct {
	store   store.Store
	fetcher Fetcher
	clock   timeutil.Clock
	prefix  string
}

type Option func(*StationCache)

func WithClock(clock timeutil.Clock) Option {
	return func(c *StationCache) {
		c.clock = clock
	}
}

func WithKeyPrefix(prefix string) Option {
	return func(c *StationCache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

func NewStationCache(s store.Store, fetcher Fetcher, opts ...Option) *StationCache {
	c := &StationCache{
		store:   s,
		fetcher: fetcher,
		clock:   timeutil.SystemClock{},
		prefix:  DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *StationCache) recordsKey(code string) string {
	return c.prefix + code
}

func (c *StationCache) dateKey(code string) string {
	return c.prefix + code + dateSuffix
}

// GetStationData returns today's departures for the station and whether they
// came from the store. On a miss the records are fetched and written back;
// a failed write is logged and the fetched records are still returned.
func (c *StationCache) GetStationData(ctx context.Context, stationCode string) ([]models.Departure, bool) {
	if records, ok := c.cached(ctx, stationCode); ok {
		log.Debug().Str("station", stationCode).Int("records", len(records)).Msg("Cache hit")
		return records, true
	}

	log.Debug().Str("station", stationCode).Msg("Cache miss, fetching departures")
	records := c.fetcher.FetchAll(ctx, stationCode)
	if records == nil {
		records = []models.Departure{}
	}

	if err := c.save(ctx, stationCode, records); err != nil {
		log.Warn().Err(err).Str("station", stationCode).Msg("Could not cache departures")
	}

	return records, false
}

// IsFresh reports whether a valid entry for today exists
func (c *StationCache) IsFresh(ctx context.Context, stationCode string) bool {
	_, ok := c.cached(ctx, stationCode)
	return ok
}

func (c *StationCache) cached(ctx context.Context, stationCode string) ([]models.Departure, bool) {
	date, ok, err := c.store.Get(ctx, c.dateKey(stationCode))
	if err != nil {
		log.Warn().Err(err).Str("station", stationCode).Msg("Error reading cache date")
		return nil, false
	}
	if !ok || date != timeutil.CurrentCalendarDate(c.clock) {
		return nil, false
	}

	raw, ok, err := c.store.Get(ctx, c.recordsKey(stationCode))
	if err != nil {
		log.Warn().Err(err).Str("station", stationCode).Msg("Error reading cached departures")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var records []models.Departure
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Warn().Err(err).Str("station", stationCode).Msg("Discarding corrupt cache entry")
		return nil, false
	}
	if records == nil {
		records = []models.Departure{}
	}
	return records, true
}

// save writes the records before the date so a half-written entry never
// validates.
func (c *StationCache) save(ctx context.Context, stationCode string, records []models.Departure) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling departures: %w", err)
	}

	if err := c.store.Set(ctx, c.recordsKey(stationCode), string(data)); err != nil {
		return fmt.Errorf("writing departures: %w", err)
	}
	if err := c.store.Set(ctx, c.dateKey(stationCode), timeutil.CurrentCalendarDate(c.clock)); err != nil {
		return fmt.Errorf("writing cache date: %w", err)
	}
	return nil
}

// ForceRefresh drops the station's entry so the next lookup fetches
func (c *StationCache) ForceRefresh(ctx context.Context, stationCode string) error {
	log.Info().Str("station", stationCode).Msg("Forcing refresh")
	return errors.Join(
		c.store.Remove(ctx, c.recordsKey(stationCode)),
		c.store.Remove(ctx, c.dateKey(stationCode)),
	)
}

// CleanOldCache removes every entry whose date is not today and returns the
// number of stations evicted. Candidates are collected before anything is
// deleted.
func (c *StationCache) CleanOldCache(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing cache keys: %w", err)
	}

	today := timeutil.CurrentCalendarDate(c.clock)
	var stale []string
	for _, key := range keys {
		if !strings.HasPrefix(key, c.prefix) || !strings.HasSuffix(key, dateSuffix) {
			continue
		}
		code := strings.TrimSuffix(strings.TrimPrefix(key, c.prefix), dateSuffix)
		if code == "" {
			continue
		}

		date, ok, err := c.store.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Error reading cache date during sweep")
			continue
		}
		if ok && date != today {
			stale = append(stale, code)
		}
	}

	var errs []error
	evicted := 0
	for _, code := range stale {
		if err := c.ForceRefresh(ctx, code); err != nil {
			errs = append(errs, err)
			continue
		}
		evicted++
	}

	if evicted > 0 {
		log.Info().Int("evicted", evicted).Str("today", today).Msg("Cleaned old cache entries")
	}
	return evicted, errors.Join(errs...)
}

// Evict removes a single station's entry. It is ForceRefresh without the
// implication that a fetch follows.
func (c *StationCache) Evict(ctx context.Context, stationCode string) error {
	return c.ForceRefresh(ctx, strings.ToUpper(strings.TrimSpace(stationCode)))
}
