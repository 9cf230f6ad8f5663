package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MinutesPerDay is added to times before ServiceDayStart.
	MinutesPerDay = 24 * 60

	// ServiceDayStart is 04:00. Anything earlier belongs to the previous
	// service day.
	ServiceDayStart = 4 * 60

	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

var ErrInvalidTime = errors.New("invalid time of day")

// Clock lets callers pin "now" in tests
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// CurrentClockTime returns the local time as HH:MM
func CurrentClockTime(clock Clock) string {
	return clock.Now().Local().Format(clockLayout)
}

// CurrentCalendarDate returns the local date as YYYY-MM-DD. It is the
// validity key of the station cache.
func CurrentCalendarDate(clock Clock) string {
	return clock.Now().Local().Format(dateLayout)
}

func CurrentYear(clock Clock) int {
	return clock.Now().Local().Year()
}

// NormalizeHour turns schedule hours past midnight (24:25, 25:15) into wall
// clock hours (00:25, 01:15). Other input, including malformed input, is
// returned unchanged. Display only.
func NormalizeHour(timeStr string) string {
	hours, minutes, err := parseClock(timeStr)
	if err != nil || hours < 24 {
		return timeStr
	}
	return fmt.Sprintf("%02d:%02d", hours-24, minutes)
}

// ToServiceMinutes converts HH:MM[:SS] into minutes since midnight, shifting
// anything before 04:00 by a full day so that late-night departures sort
// after the evening ones.
func ToServiceMinutes(timeStr string) (int, error) {
	hours, minutes, err := parseClock(timeStr)
	if err != nil {
		return 0, err
	}
	total := hours*60 + minutes
	if total < ServiceDayStart {
		total += MinutesPerDay
	}
	return total, nil
}

func parseClock(timeStr string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, timeStr)
	}

	values := make([]int, len(parts))
	for i, part := range parts {
		if part == "" || len(part) > 2 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, timeStr)
		}
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, timeStr)
		}
		values[i] = v
	}

	// GTFS allows hours beyond 24 for trips that run past midnight
	if values[1] > 59 || (len(values) == 3 && values[2] > 59) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, timeStr)
	}

	return values[0], values[1], nil
}
