package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates throughout the service.
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for clock times (24h, zero-padded).
const TimeLayout = "15:04"

// ParseDate parses a YYYY-MM-DD date string in the given location.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// TimeToMinutes converts an HH:MM clock string to minutes since midnight.
func TimeToMinutes(clock string) (int, error) {
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %q out of range", clock)
	}
	return hour*60 + minute, nil
}

// MinutesToTime converts minutes since midnight to a zero-padded HH:MM string.
func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeClock truncates an HH:MM:SS time to HH:MM. Inputs already in
// HH:MM form pass through unchanged.
func NormalizeClock(clock string) string {
	if len(clock) > 5 {
		return clock[:5]
	}
	return clock
}

// GenerateTimeSlots tiles the half-open window [open, close] with slots of
// durationMinutes, returning every start time t with open <= t and
// t+duration <= close. Returns nil if no slot fits.
func GenerateTimeSlots(open, close string, durationMinutes int) ([]string, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", durationMinutes)
	}
	start, err := TimeToMinutes(open)
	if err != nil {
		return nil, err
	}
	end, err := TimeToMinutes(close)
	if err != nil {
		return nil, err
	}

	var slots []string
	for t := start; t+durationMinutes <= end; t += durationMinutes {
		slots = append(slots, MinutesToTime(t))
	}
	return slots, nil
}

// DayOfWeek returns the weekday index of a date with Monday=0 .. Sunday=6.
// This deliberately reverses Go's native Sunday=0 convention: the weekly
// template is keyed Monday-first.
func DayOfWeek(date string) (int, error) {
	t, err := ParseDate(date, time.UTC)
	if err != nil {
		return 0, err
	}
	wd := t.Weekday()
	if wd == time.Sunday {
		return 6, nil
	}
	return int(wd) - 1, nil
}

// DateRange returns days consecutive date strings starting at start inclusive.
func DateRange(start string, days int) ([]string, error) {
	t, err := ParseDate(start, time.UTC)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, t.AddDate(0, 0, i).Format(DateLayout))
	}
	return out, nil
}

// DaysBetween returns the number of calendar days in [start, end] inclusive,
// or 0 when end precedes start.
func DaysBetween(start, end string) (int, error) {
	s, err := ParseDate(start, time.UTC)
	if err != nil {
		return 0, err
	}
	e, err := ParseDate(end, time.UTC)
	if err != nil {
		return 0, err
	}
	if e.Before(s) {
		return 0, nil
	}
	return int(e.Sub(s)/(24*time.Hour)) + 1, nil
}

// IsDateInPast reports whether date falls strictly before the calendar day
// of now. A date equal to today is not in the past.
func IsDateInPast(date string, now time.Time) bool {
	t, err := ParseDate(date, now.Location())
	if err != nil {
		return false
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return t.Before(midnight)
}

// IsToday reports whether date is the calendar day of now.
func IsToday(date string, now time.Time) bool {
	return date == now.Format(DateLayout)
}

// IsTimeInPast reports whether an HH:MM time has already passed within the
// day of now. The boundary is inclusive: the slot at exactly the current
// minute counts as past and cannot be booked.
func IsTimeInPast(clock string, now time.Time) bool {
	m, err := TimeToMinutes(clock)
	if err != nil {
		return false
	}
	return m <= now.Hour()*60+now.Minute()
}

var dutchWeekdays = [...]string{"maandag", "dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag", "zondag"}

var dutchMonths = [...]string{
	"januari", "februari", "maart", "april", "mei", "juni",
	"juli", "augustus", "september", "oktober", "november", "december",
}

// FormatDisplayDate renders a date for customer-facing text, e.g.
// "maandag 5 januari 2026". Falls back to the raw input when unparseable.
func FormatDisplayDate(date string) string {
	t, err := ParseDate(date, time.UTC)
	if err != nil {
		return date
	}
	dow := int(t.Weekday())
	if dow == 0 {
		dow = 7
	}
	return fmt.Sprintf("%s %d %s %d", dutchWeekdays[dow-1], t.Day(), dutchMonths[t.Month()-1], t.Year())
}
