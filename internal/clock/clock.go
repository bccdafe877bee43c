package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock supplies the current instant. Handlers take it injected so "today"
// is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// System is the wall clock pinned to a location.
type System struct {
	Loc *time.Location
}

func (s System) Now() time.Time {
	loc := s.Loc
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}

// Fixed always returns the same instant; test helper.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// Weekdays lists the accepted day names, Monday first to match how
// timetables are written.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// IsWeekday reports whether s is one of the seven English day names.
func IsWeekday(s string) bool {
	for _, d := range Weekdays {
		if s == d {
			return true
		}
	}
	return false
}

// WeekdayName returns the English day name for t.
func WeekdayName(t time.Time) string {
	return t.Weekday().String()
}

// DayOf truncates t to midnight of its calendar day in loc. All "same day"
// comparisons and streak arithmetic operate on these midnight values.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay compares calendar dates, ignoring time-of-day and zone offsets.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween returns the calendar-day distance from a to b. Both are
// truncated to midnight UTC-naively first, so a 23:59 → 00:01 pair one
// second apart still counts as one day.
func DaysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(bu.Sub(au) / (24 * time.Hour))
	if days < 0 {
		return -days
	}
	return days
}

// ParseHHMM parses a 24-hour "HH:MM" string into minutes since midnight.
func ParseHHMM(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// ValidHHMM reports whether s is a well-formed 24-hour HH:MM time.
func ValidHHMM(s string) bool {
	_, err := ParseHHMM(s)
	return err == nil
}

// MinutesOfDay returns minutes since midnight for t.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
