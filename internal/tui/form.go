package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bbernstein/fgcboard/internal/board"
	"github.com/bbernstein/fgcboard/internal/timeutil"
)

// FormValues is the raw text typed into the departures form
type FormValues struct {
	Station string
	Count   string
	Time    string
	Line    string
	Refresh bool
}

func validateStation(s string) error {
	if board.NormalizeStationCode(s) == "" {
		return errors.New("enter a station code, e.g. PR")
	}
	return nil
}

func validateCount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 100 {
		return errors.New("enter a number between 1 and 100")
	}
	return nil
}

func validateTime(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := timeutil.ToServiceMinutes(s); err != nil {
		return errors.New("use HH:MM, or leave empty for now")
	}
	return nil
}

// Query converts validated form input into a board query
func (v FormValues) Query() (board.Query, error) {
	for _, check := range []struct {
		validate func(string) error
		value    string
	}{
		{validateStation, v.Station},
		{validateCount, v.Count},
		{validateTime, v.Time},
	} {
		if err := check.validate(check.value); err != nil {
			return board.Query{}, err
		}
	}

	q := board.Query{
		StationCode: board.NormalizeStationCode(v.Station),
		Time:        strings.TrimSpace(v.Time),
		Line:        strings.TrimSpace(v.Line),
		Refresh:     v.Refresh,
	}
	if c := strings.TrimSpace(v.Count); c != "" {
		n, _ := strconv.Atoi(c)
		q.Count = n
	}
	return q, nil
}

// loadingTitle mirrors whether the board will come from the cache
func loadingTitle(cached bool, code string) string {
	if cached {
		return fmt.Sprintf("⚡ Loading %s from cache...", code)
	}
	return fmt.Sprintf("⟳ Fetching %s departures...", code)
}
