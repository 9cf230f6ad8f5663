package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bbernstein/fgcboard/internal/departure"
	"github.com/bbernstein/fgcboard/internal/models"
	"github.com/bbernstein/fgcboard/internal/timeutil"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const DefaultCount = departure.DefaultCount

var ErrMissingStation = errors.New("station code is required")

// StationData is the station cache as seen by the board
type StationData interface {
	GetStationData(ctx context.Context, stationCode string) ([]models.Departure, bool)
	IsFresh(ctx context.Context, stationCode string) bool
	ForceRefresh(ctx context.Context, stationCode string) error
}

// Renderer draws boards. Clear resets whatever the previous Render drew.
type Renderer interface {
	Render(board *models.Board) error
	Clear() error
}

type Query struct {
	StationCode string
	Count       int
	// Time is the HH:MM reference time; empty means now
	Time    string
	Line    string
	Refresh bool
}

// Service builds boards. Overlapping requests are allowed; each gets a
// token and a board whose request was overtaken by a newer one for the
// same station comes back marked Superseded.
type Service struct {
	data  StationData
	clock timeutil.Clock

	mu     sync.Mutex
	latest map[string]string
}

func NewService(data StationData, clock timeutil.Clock) *Service {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &Service{
		data:   data,
		clock:  clock,
		latest: make(map[string]string),
	}
}

func NormalizeStationCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *Service) begin(code string) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.latest[code] = token
	s.mu.Unlock()
	return token
}

func (s *Service) isLatest(code, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[code] == token
}

// IsCached reports whether the station can be served without a fetch
func (s *Service) IsCached(ctx context.Context, stationCode string) bool {
	code := NormalizeStationCode(stationCode)
	if code == "" {
		return false
	}
	return s.data.IsFresh(ctx, code)
}

// Show returns the next departures for the query's station
func (s *Service) Show(ctx context.Context, q Query) (*models.Board, error) {
	code := NormalizeStationCode(q.StationCode)
	if code == "" {
		return nil, ErrMissingStation
	}

	count := q.Count
	if count <= 0 {
		count = DefaultCount
	}

	reference := strings.TrimSpace(q.Time)
	if reference == "" {
		reference = timeutil.CurrentClockTime(s.clock)
	}
	if _, err := timeutil.ToServiceMinutes(reference); err != nil {
		return nil, fmt.Errorf("reference time: %w", err)
	}

	token := s.begin(code)
	logger := log.With().Str("station", code).Str("token", token).Logger()

	if q.Refresh {
		if err := s.data.ForceRefresh(ctx, code); err != nil {
			logger.Warn().Err(err).Msg("Could not evict cache entry")
		}
	}

	records, fromCache := s.data.GetStationData(ctx, code)

	upcoming, err := departure.SelectUpcoming(records, reference, q.Line, s.clock)
	if err != nil {
		return nil, err
	}

	board := &models.Board{
		StationCode:   code,
		ReferenceTime: reference,
		Line:          strings.TrimSpace(q.Line),
		Count:         count,
		FromCache:     fromCache,
		Entries:       departure.Entries(departure.Truncate(upcoming, count)),
		TotalRecords:  len(records),
		Token:         token,
		Superseded:    !s.isLatest(code, token),
	}

	switch {
	case len(records) == 0:
		board.Status = models.BoardStatusNoData
	case len(upcoming) == 0:
		board.Status = models.BoardStatusNoUpcoming
	default:
		board.Status = models.BoardStatusOK
	}

	logger.Debug().
		Bool("fromCache", fromCache).
		Int("records", len(records)).
		Int("entries", len(board.Entries)).
		Bool("superseded", board.Superseded).
		Msg("Board built")

	return board, nil
}

// Display clears the renderer, builds the board and renders it unless a
// newer request for the station has started in the meantime.
func Display(ctx context.Context, s *Service, r Renderer, q Query) (*models.Board, error) {
	if err := r.Clear(); err != nil {
		return nil, fmt.Errorf("clearing display: %w", err)
	}

	board, err := s.Show(ctx, q)
	if err != nil {
		return nil, err
	}

	if board.Superseded {
		log.Debug().Str("station", board.StationCode).Msg("Dropping superseded board")
		return board, nil
	}

	if err := r.Render(board); err != nil {
		return board, fmt.Errorf("rendering board: %w", err)
	}
	return board, nil
}
