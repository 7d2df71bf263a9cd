package timeutil

import (
	"testing"
	"time"
)

func TestTimeToMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "1230", wantErr: true},
		{in: "ab:cd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := TimeToMinutes(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("TimeToMinutes(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("TimeToMinutes(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMinutesToTime_RoundTrip(t *testing.T) {
	for m := 0; m < 24*60; m++ {
		clock := MinutesToTime(m)
		got, err := TimeToMinutes(clock)
		if err != nil {
			t.Fatalf("TimeToMinutes(%q) error: %v", clock, err)
		}
		if got != m {
			t.Fatalf("round trip of %d via %q = %d", m, clock, got)
		}
	}
}

func TestMinutesToTime_ZeroPads(t *testing.T) {
	if got := MinutesToTime(5); got != "00:05" {
		t.Fatalf("MinutesToTime(5) = %q, want %q", got, "00:05")
	}
	if got := MinutesToTime(540); got != "09:00" {
		t.Fatalf("MinutesToTime(540) = %q, want %q", got, "09:00")
	}
}

func TestNormalizeClock(t *testing.T) {
	if got := NormalizeClock("10:00:00"); got != "10:00" {
		t.Fatalf("NormalizeClock = %q, want %q", got, "10:00")
	}
	if got := NormalizeClock("10:00"); got != "10:00" {
		t.Fatalf("NormalizeClock = %q, want %q", got, "10:00")
	}
}

func TestGenerateTimeSlots(t *testing.T) {
	tests := []struct {
		name     string
		open     string
		close    string
		duration int
		want     []string
	}{
		{
			name: "half hour slots", open: "09:00", close: "12:00", duration: 30,
			want: []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
		},
		{
			name: "last slot must fully fit", open: "09:00", close: "10:45", duration: 30,
			want: []string{"09:00", "09:30", "10:00"},
		},
		{
			name: "duration longer than window", open: "09:00", close: "09:30", duration: 45,
			want: nil,
		},
		{
			name: "window of exactly one slot", open: "09:00", close: "10:00", duration: 60,
			want: []string{"09:00"},
		},
		{
			name: "zero width window", open: "09:00", close: "09:00", duration: 15,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateTimeSlots(tt.open, tt.close, tt.duration)
			if err != nil {
				t.Fatalf("GenerateTimeSlots error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d (%v)", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("slot[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateTimeSlots_Properties(t *testing.T) {
	open, close, duration := "08:15", "17:45", 25

	slots, err := GenerateTimeSlots(open, close, duration)
	if err != nil {
		t.Fatalf("GenerateTimeSlots error: %v", err)
	}
	if len(slots) == 0 {
		t.Fatalf("expected slots")
	}

	openM, _ := TimeToMinutes(open)
	closeM, _ := TimeToMinutes(close)

	prev := -1
	for _, s := range slots {
		m, err := TimeToMinutes(s)
		if err != nil {
			t.Fatalf("TimeToMinutes(%q) error: %v", s, err)
		}
		if m < openM || m+duration > closeM {
			t.Fatalf("slot %q falls outside [%s, %s]", s, open, close)
		}
		if m <= prev {
			t.Fatalf("slots not strictly increasing at %q", s)
		}
		prev = m
	}
}

func TestGenerateTimeSlots_RejectsInvalidDuration(t *testing.T) {
	if _, err := GenerateTimeSlots("09:00", "17:00", 0); err == nil {
		t.Fatalf("expected error for zero duration")
	}
	if _, err := GenerateTimeSlots("09:00", "17:00", -30); err == nil {
		t.Fatalf("expected error for negative duration")
	}
}

func TestDayOfWeek_MondayFirst(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{date: "2026-01-05", want: 0}, // Monday
		{date: "2026-01-07", want: 2}, // Wednesday
		{date: "2026-01-10", want: 5}, // Saturday
		{date: "2026-01-11", want: 6}, // Sunday
	}

	for _, tt := range tests {
		got, err := DayOfWeek(tt.date)
		if err != nil {
			t.Fatalf("DayOfWeek(%q) error: %v", tt.date, err)
		}
		if got != tt.want {
			t.Fatalf("DayOfWeek(%q) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestDateRange(t *testing.T) {
	got, err := DateRange("2025-01-01", 3)
	if err != nil {
		t.Fatalf("DateRange error: %v", err)
	}
	want := []string{"2025-01-01", "2025-01-02", "2025-01-03"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	empty, err := DateRange("2025-01-01", 0)
	if err != nil {
		t.Fatalf("DateRange error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("DateRange with 0 days = %v, want empty", empty)
	}
}

func TestDateRange_CrossesMonthBoundary(t *testing.T) {
	got, err := DateRange("2026-02-27", 3)
	if err != nil {
		t.Fatalf("DateRange error: %v", err)
	}
	if got[2] != "2026-03-01" {
		t.Fatalf("got[2] = %q, want %q", got[2], "2026-03-01")
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{start: "2026-01-01", end: "2026-01-01", want: 1},
		{start: "2026-01-01", end: "2026-01-07", want: 7},
		{start: "2026-01-07", end: "2026-01-01", want: 0},
	}
	for _, tt := range tests {
		got, err := DaysBetween(tt.start, tt.end)
		if err != nil {
			t.Fatalf("DaysBetween error: %v", err)
		}
		if got != tt.want {
			t.Fatalf("DaysBetween(%q, %q) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestPastAndTodayClassification(t *testing.T) {
	now := time.Date(2026, 1, 7, 10, 30, 0, 0, time.UTC)

	if !IsDateInPast("2026-01-06", now) {
		t.Fatalf("yesterday should be in the past")
	}
	if IsDateInPast("2026-01-07", now) {
		t.Fatalf("today is not in the past")
	}
	if IsDateInPast("2026-01-08", now) {
		t.Fatalf("tomorrow is not in the past")
	}

	if !IsToday("2026-01-07", now) {
		t.Fatalf("expected IsToday true for today")
	}
	if IsToday("2026-01-08", now) {
		t.Fatalf("expected IsToday false for tomorrow")
	}
}

func TestIsTimeInPast_InclusiveBoundary(t *testing.T) {
	now := time.Date(2026, 1, 7, 10, 30, 0, 0, time.UTC)

	if !IsTimeInPast("10:00", now) {
		t.Fatalf("10:00 should be past at 10:30")
	}
	// The slot at exactly the current minute is already gone.
	if !IsTimeInPast("10:30", now) {
		t.Fatalf("10:30 should be past at 10:30")
	}
	if IsTimeInPast("10:31", now) {
		t.Fatalf("10:31 should not be past at 10:30")
	}
}

func TestFormatDisplayDate(t *testing.T) {
	if got := FormatDisplayDate("2026-01-05"); got != "maandag 5 januari 2026" {
		t.Fatalf("FormatDisplayDate = %q", got)
	}
	if got := FormatDisplayDate("not-a-date"); got != "not-a-date" {
		t.Fatalf("FormatDisplayDate fallback = %q", got)
	}
}

func TestClocks(t *testing.T) {
	fixed := FixedClock{Instant: time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)}
	if !fixed.Now().Equal(fixed.Instant) {
		t.Fatalf("FixedClock should return its instant")
	}

	sys := NewSystemClock(time.UTC)
	if sys.Now().Location() != time.UTC {
		t.Fatalf("system clock should report configured location")
	}
}
