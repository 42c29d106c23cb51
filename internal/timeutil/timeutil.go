// Package timeutil provides the team time zone, ISO-week arithmetic, and
// Ukrainian date formatting shared across components.
package timeutil

import (
	"log/slog"
	"strconv"
	"time"
)

// ISODateLayout is the wire format for day-off dates.
const ISODateLayout = "2006-01-02"

// Kyiv is the configured team zone. Week boundaries and weekday indices are
// computed in it.
var Kyiv *time.Location

func init() {
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		slog.Warn("timeutil: Europe/Kyiv not available, falling back to fixed EET", "error", err)
		loc = time.FixedZone("EET", 2*60*60)
	}
	Kyiv = loc
}

// WeekStart returns local Monday 00:00:00 of t's week in t's location.
func WeekStart(t time.Time) time.Time {
	days := WeekdayIndex(t)
	y, m, d := t.AddDate(0, 0, -days).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekdayIndex returns 0 for Monday through 6 for Sunday.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

var dayShort = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayShort returns the three-letter day name used in workload column names,
// indexed Monday=0.
func DayShort(idx int) string {
	return dayShort[idx]
}

// ValidISODate reports whether s is a well-formed YYYY-MM-DD calendar date.
func ValidISODate(s string) bool {
	_, err := time.Parse(ISODateLayout, s)
	return err == nil
}

// ParseDateTime accepts the datetime formats interactive controls submit:
// RFC 3339, a zoneless datetime, or a bare date (midnight Kyiv).
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, Kyiv); err == nil {
		return t, nil
	}
	return time.ParseInLocation(ISODateLayout, s, Kyiv)
}

var ukrWeekdays = [7]string{
	"понеділок", "вівторок", "середа", "четвер", "пʼятниця", "субота", "неділя",
}

var ukrMonthsGenitive = [12]string{
	"січня", "лютого", "березня", "квітня", "травня", "червня",
	"липня", "серпня", "вересня", "жовтня", "листопада", "грудня",
}

// FormatUkr renders t as "<weekday>, <day> <month>" with Ukrainian names,
// e.g. "понеділок, 10 лютого".
func FormatUkr(t time.Time) string {
	local := t.In(Kyiv)
	return ukrWeekdays[WeekdayIndex(local)] + ", " +
		strconv.Itoa(local.Day()) + " " + ukrMonthsGenitive[int(local.Month())-1]
}

// SystemClock implements the Clock port with the real wall clock.
type SystemClock struct{}

// Now returns the current instant.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// NowIn returns the current wall time in the given zone.
func (SystemClock) NowIn(loc *time.Location) time.Time {
	return time.Now().In(loc)
}
