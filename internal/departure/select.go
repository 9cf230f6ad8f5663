package departure

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bbernstein/fgcboard/internal/models"
	"github.com/bbernstein/fgcboard/internal/timeutil"
)

const DefaultCount = 8

// Upcoming is a departure together with its service-day minutes
type Upcoming struct {
	models.Departure
	ServiceMinutes int
}

// SelectUpcoming keeps the departures at or after referenceTime, optionally
// restricted to one line, ordered by service minutes. Ties keep their input
// order. An empty referenceTime means now. Records without a parseable time
// or without a line are dropped.
func SelectUpcoming(records []models.Departure, referenceTime, lineFilter string, clock timeutil.Clock) ([]Upcoming, error) {
	if strings.TrimSpace(referenceTime) == "" {
		referenceTime = timeutil.CurrentClockTime(clock)
	}

	reference, err := timeutil.ToServiceMinutes(referenceTime)
	if err != nil {
		return nil, fmt.Errorf("reference time: %w", err)
	}

	lineFilter = strings.TrimSpace(lineFilter)
	upcoming := make([]Upcoming, 0, len(records))
	for _, record := range records {
		if record.RouteShortName == "" || !record.HasLine(lineFilter) {
			continue
		}
		minutes, err := timeutil.ToServiceMinutes(record.DepartureTime)
		if err != nil || minutes < reference {
			continue
		}
		upcoming = append(upcoming, Upcoming{Departure: record, ServiceMinutes: minutes})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].ServiceMinutes < upcoming[j].ServiceMinutes
	})

	return upcoming, nil
}

// Truncate keeps the first n departures. n <= 0 means DefaultCount.
func Truncate(upcoming []Upcoming, n int) []Upcoming {
	if n <= 0 {
		n = DefaultCount
	}
	if len(upcoming) > n {
		return upcoming[:n]
	}
	return upcoming
}

// Entries converts departures to display rows with post-midnight hours
// folded back to wall-clock time.
func Entries(upcoming []Upcoming) []models.BoardEntry {
	entries := make([]models.BoardEntry, len(upcoming))
	for i, u := range upcoming {
		entries[i] = models.BoardEntry{
			Line:           u.RouteShortName,
			Destination:    u.TripHeadsign,
			Time:           timeutil.NormalizeHour(u.DepartureTime),
			ServiceMinutes: u.ServiceMinutes,
		}
	}
	return entries
}
