// Package hours evaluates restaurant schedules against a point in time
// and derives the default pickup estimate. All functions are pure; the
// caller converts the instant to the restaurant's timezone first.
package hours

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PickupOffset is added to the current time when the customer has no
// preferred pickup time.
const PickupOffset = 22 * time.Minute

// Period is one open/close window within a day, in "HH:MM" 24-hour
// format. A period with close before open spans midnight.
type Period struct {
	Open  string `json:"open_time"`
	Close string `json:"close_time"`
}

// DaySchedule is the set of service periods for one day.
type DaySchedule struct {
	Periods []Period `json:"periods"`
	Closed  bool     `json:"is_closed"`
}

// WeekSchedule maps lowercase day names ("monday".."sunday") to their
// schedules.
type WeekSchedule map[string]DaySchedule

// DayName returns the lowercase weekday name for t.
func DayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// IsOpen reports whether now falls inside any configured period of the
// schedule for now's weekday. Period boundaries are inclusive on both
// ends; a day marked closed is never open.
func (ws WeekSchedule) IsOpen(now time.Time) bool {
	day, ok := ws[DayName(now)]
	if !ok || day.Closed {
		return false
	}

	minute := now.Hour()*60 + now.Minute()
	for _, p := range day.Periods {
		if periodContains(p, minute) {
			return true
		}
	}
	return false
}

// Today returns the schedule for now's weekday and whether one exists.
func (ws WeekSchedule) Today(now time.Time) (DaySchedule, bool) {
	day, ok := ws[DayName(now)]
	return day, ok
}

func periodContains(p Period, minute int) bool {
	open, err := parseMinutes(p.Open)
	if err != nil {
		return false
	}
	close, err := parseMinutes(p.Close)
	if err != nil {
		return false
	}

	if open <= close {
		return open <= minute && minute <= close
	}
	// overnight window, e.g. 22:00-02:00
	return minute >= open || minute <= close
}

func parseMinutes(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return h*60 + m, nil
}

// ExplicitPickup reports whether preferred names an actual time rather
// than being empty or "ASAP" (any case).
func ExplicitPickup(preferred string) bool {
	trimmed := strings.TrimSpace(preferred)
	return trimmed != "" && !strings.EqualFold(trimmed, "ASAP")
}

// DefaultPickupTime returns the customer's preferred pickup time verbatim
// when it is explicit, otherwise now+PickupOffset formatted for voice
// ("3:04 PM").
func DefaultPickupTime(now time.Time, preferred string) string {
	if ExplicitPickup(preferred) {
		return preferred
	}
	return FormatClock(now.Add(PickupOffset))
}

// FormatClock formats a time as a 12-hour clock without a leading zero.
func FormatClock(t time.Time) string {
	return t.Format("3:04 PM")
}

// FormatVoiceTime formats a full timestamp the way it is spoken to a
// caller, e.g. "Monday, January 2 at 3:04 PM".
func FormatVoiceTime(t time.Time) string {
	return t.Format("Monday, January 2 at 3:04 PM")
}

// FormatPeriods renders periods for a voice response, e.g.
// "11:00 AM to 3:00 PM and 5:00 PM to 10:00 PM". Returns "closed" when
// there are none.
func FormatPeriods(periods []Period) string {
	if len(periods) == 0 {
		return "closed"
	}

	parts := make([]string, 0, len(periods))
	for _, p := range periods {
		open, errO := parseMinutes(p.Open)
		close, errC := parseMinutes(p.Close)
		if errO != nil || errC != nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s to %s", clockString(open), clockString(close)))
	}
	if len(parts) == 0 {
		return "closed"
	}
	return strings.Join(parts, " and ")
}

func clockString(minutes int) string {
	t := time.Date(2000, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}
