package clock

import (
	"testing"
	"time"
)

func TestDayOf(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// 23:30 UTC is already the next day in Paris.
	instant := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	got := DayOf(instant, loc)
	want := time.Date(2024, 3, 2, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("DayOf = %v, want %v", got, want)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 3, 1, 0, 1, 0, 0, time.UTC)
	b := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	c := time.Date(2024, 3, 2, 0, 0, 1, 0, time.UTC)
	if !SameDay(a, b) {
		t.Errorf("expected %v and %v to be the same day", a, b)
	}
	if SameDay(b, c) {
		t.Errorf("expected %v and %v to be different days", b, c)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same instant", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), 0},
		{"same day different hours", time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC), 0},
		{"one second over midnight is one day", time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC), time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), 1},
		{"reverse order is absolute", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 4},
		{"month boundary", time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseHHMM(t *testing.T) {
	valid := map[string]int{
		"00:00": 0,
		"09:00": 540,
		"23:59": 1439,
	}
	for in, want := range valid {
		got, err := ParseHHMM(in)
		if err != nil {
			t.Errorf("ParseHHMM(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseHHMM(%q) = %d, want %d", in, got, want)
		}
	}

	invalid := []string{"", "9:00", "24:00", "12:60", "12-30", "ab:cd", "12:3", "012:30"}
	for _, in := range invalid {
		if _, err := ParseHHMM(in); err == nil {
			t.Errorf("ParseHHMM(%q) should fail", in)
		}
	}
}

func TestIsWeekday(t *testing.T) {
	for _, d := range Weekdays {
		if !IsWeekday(d) {
			t.Errorf("expected %q to be a weekday", d)
		}
	}
	for _, d := range []string{"monday", "Mon", "", "Funday"} {
		if IsWeekday(d) {
			t.Errorf("expected %q to be rejected", d)
		}
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	clk := Fixed{T: at}
	if !clk.Now().Equal(at) {
		t.Fatalf("Fixed.Now() = %v, want %v", clk.Now(), at)
	}
	if WeekdayName(at) != "Friday" {
		t.Fatalf("WeekdayName = %q, want Friday", WeekdayName(at))
	}
}
