package hours

import (
	"testing"
	"time"
)

// at builds a time on a known Monday (2024-01-08) at the given clock.
func at(t *testing.T, hhmm string) time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		t.Fatalf("bad test time %q: %v", hhmm, err)
	}
	return time.Date(2024, 1, 8, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}

func TestIsOpen_SingleDayPeriod(t *testing.T) {
	ws := WeekSchedule{
		"monday": {Periods: []Period{{Open: "11:00", Close: "15:00"}}},
	}

	tests := []struct {
		clock string
		want  bool
	}{
		{"10:59", false},
		{"11:00", true}, // inclusive open boundary
		{"13:30", true},
		{"15:00", true}, // inclusive close boundary
		{"15:01", false},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			if got := ws.IsOpen(at(t, tt.clock)); got != tt.want {
				t.Errorf("IsOpen(%s) = %v, want %v", tt.clock, got, tt.want)
			}
		})
	}
}

func TestIsOpen_OvernightPeriod(t *testing.T) {
	ws := WeekSchedule{
		"monday": {Periods: []Period{{Open: "22:00", Close: "02:00"}}},
	}

	tests := []struct {
		clock string
		want  bool
	}{
		{"23:30", true},
		{"01:00", true},
		{"02:00", true},
		{"10:00", false},
		{"21:59", false},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			if got := ws.IsOpen(at(t, tt.clock)); got != tt.want {
				t.Errorf("IsOpen(%s) = %v, want %v", tt.clock, got, tt.want)
			}
		})
	}
}

func TestIsOpen_MultiplePeriods(t *testing.T) {
	ws := WeekSchedule{
		"monday": {Periods: []Period{
			{Open: "11:00", Close: "15:00"},
			{Open: "17:00", Close: "22:00"},
		}},
	}

	tests := []struct {
		clock string
		want  bool
	}{
		{"12:00", true},
		{"16:00", false}, // between lunch and dinner
		{"19:00", true},
		{"22:30", false},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			if got := ws.IsOpen(at(t, tt.clock)); got != tt.want {
				t.Errorf("IsOpen(%s) = %v, want %v", tt.clock, got, tt.want)
			}
		})
	}
}

func TestIsOpen_ClosedDay(t *testing.T) {
	ws := WeekSchedule{
		"monday": {Closed: true, Periods: []Period{{Open: "11:00", Close: "15:00"}}},
	}
	if ws.IsOpen(at(t, "12:00")) {
		t.Error("expected closed day to report not open")
	}
}

func TestIsOpen_UnconfiguredDay(t *testing.T) {
	ws := WeekSchedule{"sunday": {Periods: []Period{{Open: "12:00", Close: "21:00"}}}}
	if ws.IsOpen(at(t, "13:00")) { // a Monday
		t.Error("expected day without schedule to report not open")
	}
}

func TestIsOpen_MalformedPeriod(t *testing.T) {
	ws := WeekSchedule{"monday": {Periods: []Period{{Open: "eleven", Close: "15:00"}}}}
	if ws.IsOpen(at(t, "12:00")) {
		t.Error("expected malformed period to never match")
	}
}

func TestDefaultPickupTime(t *testing.T) {
	now := at(t, "13:00")

	tests := []struct {
		name      string
		preferred string
		want      string
	}{
		{"preferred kept verbatim", "6:30 PM", "6:30 PM"},
		{"empty defaults", "", "1:22 PM"},
		{"asap defaults", "ASAP", "1:22 PM"},
		{"asap lowercase defaults", "asap", "1:22 PM"},
		{"whitespace defaults", "   ", "1:22 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultPickupTime(now, tt.preferred); got != tt.want {
				t.Errorf("DefaultPickupTime(%q) = %q, want %q", tt.preferred, got, tt.want)
			}
		})
	}
}

func TestFormatPeriods(t *testing.T) {
	tests := []struct {
		name    string
		periods []Period
		want    string
	}{
		{"none", nil, "closed"},
		{"single", []Period{{Open: "11:00", Close: "15:00"}}, "11:00 AM to 3:00 PM"},
		{
			"lunch and dinner",
			[]Period{{Open: "11:00", Close: "15:00"}, {Open: "17:00", Close: "22:00"}},
			"11:00 AM to 3:00 PM and 5:00 PM to 10:00 PM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPeriods(tt.periods); got != tt.want {
				t.Errorf("FormatPeriods = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatVoiceTime(t *testing.T) {
	ts := time.Date(2024, 1, 8, 15, 4, 0, 0, time.UTC)
	want := "Monday, January 8 at 3:04 PM"
	if got := FormatVoiceTime(ts); got != want {
		t.Errorf("FormatVoiceTime = %q, want %q", got, want)
	}
}
