package card

import "time"

// Breakdown is the live day/hour/minute/second view of a lock countdown.
type Breakdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Zero reports whether the countdown has fully elapsed.
func (b Breakdown) Zero() bool {
	return b.Days == 0 && b.Hours == 0 && b.Minutes == 0 && b.Seconds == 0
}

// Countdown returns the remaining time until target, decomposed by unit.
// Each unit is floored, and a past target yields all zeros, never negatives.
func Countdown(target, now time.Time) Breakdown {
	left := int(target.Sub(now) / time.Second)
	if left < 0 {
		left = 0
	}
	return Breakdown{
		Days:    left / 86400,
		Hours:   left % 86400 / 3600,
		Minutes: left % 3600 / 60,
		Seconds: left % 60,
	}
}

// UnlockTime interprets a birthday date as local midnight in loc. The second
// return is false when no date is set or it does not parse, which means the
// event is always unlocked.
func UnlockTime(date string, loc *time.Location) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
