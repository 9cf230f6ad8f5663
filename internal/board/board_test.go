package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bbernstein/fgcboard/internal/models"
	"github.com/bbernstein/fgcboard/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStationData struct {
	mock.Mock
}

func (m *MockStationData) GetStationData(ctx context.Context, stationCode string) ([]models.Departure, bool) {
	args := m.Called(ctx, stationCode)
	records, _ := args.Get(0).([]models.Departure)
	return records, args.Bool(1)
}

func (m *MockStationData) IsFresh(ctx context.Context, stationCode string) bool {
	return m.Called(ctx, stationCode).Bool(0)
}

func (m *MockStationData) ForceRefresh(ctx context.Context, stationCode string) error {
	return m.Called(ctx, stationCode).Error(0)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(board *models.Board) error {
	return m.Called(board).Error(0)
}

func (m *MockRenderer) Clear() error {
	return m.Called().Error(0)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var morning = fixedClock{now: time.Date(2024, 3, 9, 7, 45, 0, 0, time.Local)}

var grDepartures = []models.Departure{
	{DepartureTime: "07:30:00", RouteShortName: "S1", TripHeadsign: "Terrassa Rambla"},
	{DepartureTime: "08:15:00", RouteShortName: "S2", TripHeadsign: "Sabadell Parc del Nord"},
	{DepartureTime: "07:50:00", RouteShortName: "L7", TripHeadsign: "Av. Tibidabo"},
	{DepartureTime: "24:40:00", RouteShortName: "S1", TripHeadsign: "Terrassa Rambla"},
}

func TestShow(t *testing.T) {
	tests := []struct {
		name       string
		query      Query
		records    []models.Departure
		fromCache  bool
		wantTimes  []string
		wantStatus models.BoardStatus
		wantCount  int
	}{
		{
			name:       "defaults",
			query:      Query{StationCode: " gr "},
			records:    grDepartures,
			fromCache:  true,
			wantTimes:  []string{"07:50:00", "08:15:00", "00:40"},
			wantStatus: models.BoardStatusOK,
			wantCount:  DefaultCount,
		},
		{
			name:       "count and line",
			query:      Query{StationCode: "GR", Count: 1, Line: "s1", Time: "07:00"},
			records:    grDepartures,
			wantTimes:  []string{"07:30:00"},
			wantStatus: models.BoardStatusOK,
			wantCount:  1,
		},
		{
			name:       "nothing later",
			query:      Query{StationCode: "GR", Time: "03:00"},
			records:    grDepartures,
			wantTimes:  []string{},
			wantStatus: models.BoardStatusNoUpcoming,
			wantCount:  DefaultCount,
		},
		{
			name:       "unknown station",
			query:      Query{StationCode: "ZZ"},
			records:    []models.Departure{},
			wantTimes:  []string{},
			wantStatus: models.BoardStatusNoData,
			wantCount:  DefaultCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := new(MockStationData)
			code := NormalizeStationCode(tt.query.StationCode)
			data.On("GetStationData", mock.Anything, code).Return(tt.records, tt.fromCache)

			board, err := NewService(data, morning).Show(context.Background(), tt.query)
			require.NoError(t, err)

			times := make([]string, len(board.Entries))
			for i, e := range board.Entries {
				times[i] = e.Time
			}
			assert.Equal(t, tt.wantTimes, times)
			assert.Equal(t, tt.wantStatus, board.Status)
			assert.Equal(t, tt.wantCount, board.Count)
			assert.Equal(t, code, board.StationCode)
			assert.Equal(t, tt.fromCache, board.FromCache)
			assert.Equal(t, len(tt.records), board.TotalRecords)
			assert.NotEmpty(t, board.Token)
			assert.False(t, board.Superseded)
			data.AssertExpectations(t)
		})
	}
}

func TestShowDefaultsReferenceTimeToNow(t *testing.T) {
	data := new(MockStationData)
	data.On("GetStationData", mock.Anything, "GR").Return(grDepartures, false)

	board, err := NewService(data, morning).Show(context.Background(), Query{StationCode: "GR"})
	require.NoError(t, err)
	assert.Equal(t, "07:45", board.ReferenceTime)
}

func TestShowRejectsBadInput(t *testing.T) {
	data := new(MockStationData)
	svc := NewService(data, morning)

	_, err := svc.Show(context.Background(), Query{StationCode: "  "})
	assert.ErrorIs(t, err, ErrMissingStation)

	_, err = svc.Show(context.Background(), Query{StationCode: "GR", Time: "7.45"})
	assert.ErrorIs(t, err, timeutil.ErrInvalidTime)

	data.AssertNotCalled(t, "GetStationData", mock.Anything, mock.Anything)
}

func TestShowRefresh(t *testing.T) {
	data := new(MockStationData)
	data.On("ForceRefresh", mock.Anything, "GR").Return(errors.New("store offline"))
	data.On("GetStationData", mock.Anything, "GR").Return(grDepartures, false)

	board, err := NewService(data, morning).Show(context.Background(), Query{StationCode: "gr", Refresh: true})
	require.NoError(t, err)
	assert.False(t, board.FromCache)
	data.AssertExpectations(t)
}

func TestIsCached(t *testing.T) {
	data := new(MockStationData)
	data.On("IsFresh", mock.Anything, "PR").Return(true)
	svc := NewService(data, morning)

	assert.True(t, svc.IsCached(context.Background(), "pr"))
	assert.False(t, svc.IsCached(context.Background(), ""))
}

// reentrantData starts a second request for the same station while the
// first one is still fetching.
type reentrantData struct {
	svc   *Service
	inner *models.Board
}

func (r *reentrantData) GetStationData(ctx context.Context, code string) ([]models.Departure, bool) {
	if r.inner == nil {
		r.inner = &models.Board{}
		board, err := r.svc.Show(ctx, Query{StationCode: code})
		if err == nil {
			r.inner = board
		}
	}
	return grDepartures, false
}

func (r *reentrantData) IsFresh(context.Context, string) bool        { return false }
func (r *reentrantData) ForceRefresh(context.Context, string) error { return nil }

func TestShowSuperseded(t *testing.T) {
	data := &reentrantData{}
	svc := NewService(data, morning)
	data.svc = svc

	outer, err := svc.Show(context.Background(), Query{StationCode: "GR"})
	require.NoError(t, err)

	assert.True(t, outer.Superseded)
	assert.False(t, data.inner.Superseded)
	assert.NotEqual(t, outer.Token, data.inner.Token)

	renderer := new(MockRenderer)
	renderer.On("Clear").Return(nil)
	data.inner = nil

	board, err := Display(context.Background(), svc, renderer, Query{StationCode: "GR"})
	require.NoError(t, err)
	assert.True(t, board.Superseded)
	renderer.AssertNotCalled(t, "Render", mock.Anything)
}

func TestDisplay(t *testing.T) {
	data := new(MockStationData)
	data.On("GetStationData", mock.Anything, "GR").Return(grDepartures, true)

	renderer := new(MockRenderer)
	renderer.On("Clear").Return(nil)
	renderer.On("Render", mock.MatchedBy(func(b *models.Board) bool {
		return b.StationCode == "GR" && b.FromCache
	})).Return(nil)

	board, err := Display(context.Background(), NewService(data, morning), renderer, Query{StationCode: "GR"})
	require.NoError(t, err)
	assert.Len(t, board.Entries, 3)
	renderer.AssertExpectations(t)
}

func TestDisplayErrors(t *testing.T) {
	data := new(MockStationData)
	data.On("GetStationData", mock.Anything, "GR").Return(grDepartures, true)
	svc := NewService(data, morning)

	clearFails := new(MockRenderer)
	clearFails.On("Clear").Return(errors.New("tty gone"))
	_, err := Display(context.Background(), svc, clearFails, Query{StationCode: "GR"})
	assert.ErrorContains(t, err, "clearing display")

	renderFails := new(MockRenderer)
	renderFails.On("Clear").Return(nil)
	renderFails.On("Render", mock.Anything).Return(errors.New("broken pipe"))
	board, err := Display(context.Background(), svc, renderFails, Query{StationCode: "GR"})
	assert.ErrorContains(t, err, "rendering board")
	assert.NotNil(t, board)
}
