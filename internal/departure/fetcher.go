package departure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bbernstein/fgcboard/internal/models"
	"github.com/bbernstein/fgcboard/pkg/http/client"
	"github.com/rs/zerolog/log"
)

const (
	PageSize = 100
	// MaxOffset caps pagination at ten pages
	MaxOffset = 1000
)

// DefaultFallbacks maps station codes the dataset does not index by
// parent_station to the stop names it uses instead.
var DefaultFallbacks = map[string][]string{
	"NA": {"Abrera", "NACIONS UNIDES", "Nacions Unides"},
}

type recordsResponse struct {
	TotalCount int               `json:"total_count"`
	Results    []json.RawMessage `json:"results"`
}

// Fetcher pages through the "viajes-de-hoy" dataset for one station
type Fetcher struct {
	httpClient client.Interface
	recordsURL string
	fallbacks  map[string][]string
}

type FetcherOption func(*Fetcher)

// WithFallbacks replaces the stop-name fallback table
func WithFallbacks(fallbacks map[string][]string) FetcherOption {
	return func(f *Fetcher) {
		f.fallbacks = fallbacks
	}
}

func NewFetcher(httpClient client.Interface, recordsURL string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		httpClient: httpClient,
		recordsURL: recordsURL,
		fallbacks:  DefaultFallbacks,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAll returns every record for the station in API order. Paging stops
// at a short or empty page, at MaxOffset, or at the first error; records
// collected before an error are kept. Errors are logged, never returned.
func (f *Fetcher) FetchAll(ctx context.Context, stationCode string) []models.Departure {
	var all []models.Departure
	pages := 0

	for offset := 0; offset < MaxOffset; offset += PageSize {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(PageSize))
		query.Set("offset", strconv.Itoa(offset))
		query.Set("where", fmt.Sprintf("parent_station=%q", stationCode))

		records, size, err := f.fetchPage(ctx, query)
		if err != nil {
			log.Error().Err(err).Str("station", stationCode).Int("offset", offset).Msg("Error fetching departures page")
			break
		}
		pages++

		all = append(all, records...)
		if size < PageSize {
			break
		}
	}

	if len(all) == 0 {
		if names, ok := f.fallbacks[stationCode]; ok {
			all = f.fetchByStopName(ctx, stationCode, names)
		}
	}

	log.Info().
		Str("station", stationCode).
		Int("pages", pages).
		Int("records", len(all)).
		Msg("Fetched departures")

	return all
}

// fetchByStopName is a single unpaginated query by display name
func (f *Fetcher) fetchByStopName(ctx context.Context, stationCode string, names []string) []models.Departure {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = strconv.Quote(name)
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(PageSize))
	query.Set("where", fmt.Sprintf("stop_name in (%s)", strings.Join(quoted, ",")))

	records, _, err := f.fetchPage(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("station", stationCode).Msg("Error fetching fallback departures")
		return nil
	}

	log.Debug().Str("station", stationCode).Int("records", len(records)).Msg("Used stop-name fallback")
	return records
}

// fetchPage returns the decodable records of one page and the raw size of
// the page's results array. Records that do not decode are skipped.
func (f *Fetcher) fetchPage(ctx context.Context, query url.Values) ([]models.Departure, int, error) {
	resp, err := f.httpClient.Get(ctx, f.recordsURL+"?"+query.Encode())
	if err != nil {
		return nil, 0, NewAPIError("request failed", err)
	}
	if resp == nil {
		return nil, 0, NewAPIError("no response", nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, 0, &APIError{StatusCode: resp.StatusCode, Message: "unexpected status"}
	}

	var page recordsResponse
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, 0, NewAPIError("decoding response", err)
	}

	records := make([]models.Departure, 0, len(page.Results))
	for i, raw := range page.Results {
		var d models.Departure
		if err := json.Unmarshal(raw, &d); err != nil {
			log.Debug().Err(err).Int("index", i).Msg("Skipping malformed record")
			continue
		}
		records = append(records, d)
	}

	return records, len(page.Results), nil
}
