package gamify

import (
	"time"

	"classtrack/internal/clock"
)

// Point values for a counted attendance event.
const (
	BasePoints  = 10
	StreakBonus = 5
)

// UserStats is the per-student engagement aggregate. LastAttendance holds
// the midnight-truncated date of the most recent counted event; the zero
// value means no event has ever been counted.
type UserStats struct {
	UserID         string    `json:"userId"`
	Points         int       `json:"points"`
	CurrentStreak  int       `json:"currentStreak"`
	LongestStreak  int       `json:"longestStreak"`
	LastAttendance time.Time `json:"lastAttendance"`
}

// Apply computes the stats transition for an attendance event on day.
// day must already be truncated to midnight (clock.DayOf); the function is
// pure and leaves persistence to the caller.
//
// Gap rules, by calendar-day distance from the previous event:
//   - first event ever: 10 points, streak 1
//   - 1 day: streak continues, 10 base + 5 bonus
//   - >1 day: streak resets to 1, base points only
//   - 0 days: should not happen (the recorder blocks same-day marks);
//     if it does, the streak holds and only base points accrue
func Apply(prev *UserStats, userID string, day time.Time) UserStats {
	if prev == nil {
		return UserStats{
			UserID:         userID,
			Points:         BasePoints,
			CurrentStreak:  1,
			LongestStreak:  1,
			LastAttendance: day,
		}
	}

	next := *prev
	if next.UserID == "" {
		next.UserID = userID
	}
	earned := BasePoints

	if prev.LastAttendance.IsZero() {
		next.CurrentStreak = 1
	} else {
		switch gap := clock.DaysBetween(prev.LastAttendance, day); {
		case gap == 1:
			next.CurrentStreak++
			earned += StreakBonus
		case gap > 1:
			next.CurrentStreak = 1
		}
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.Points += earned
	next.LastAttendance = day
	return next
}
