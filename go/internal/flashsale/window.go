package flashsale

import (
	"fmt"
	"time"
)

// Window identifies one of the three fixed 8-hour flash sale periods of a day
type Window int

const (
	WindowNight   Window = 0 // [00:00, 08:00)
	WindowDay     Window = 1 // [08:00, 16:00)
	WindowEvening Window = 2 // [16:00, 24:00)
)

const windowLengthHrs = 8

// String returns the window's time range, e.g. "08:00-16:00"
func (w Window) String() string {
	start := int(w) * windowLengthHrs
	return fmt.Sprintf("%02d:00-%02d:00", start, start+windowLengthHrs)
}

// WindowFor maps a wall-clock hour to its window. Only the hour is used for
// bucketing; hours outside [0,23] are not validated.
func WindowFor(hour int) Window {
	switch {
	case hour < 8:
		return WindowNight
	case hour < 16:
		return WindowDay
	default:
		return WindowEvening
	}
}

// NextBoundary returns the start of the window following the one containing
// now. Minutes, seconds and nanoseconds are zeroed in the result and the
// location of now is preserved. Hour 24 normalizes to the next midnight.
// Boundaries are wall-clock hours, so in a zone with DST the window spanning
// a changeover lasts 7 or 9 elapsed hours instead of 8.
func NextBoundary(now time.Time) time.Time {
	hour := (int(WindowFor(now.Hour())) + 1) * windowLengthHrs
	y, m, d := now.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, now.Location())
}

// FormatCountdown renders d floored to whole seconds as zero-padded HH:MM:SS.
// Negative durations render as 00:00:00.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// TickResult is the outcome of a single scheduler tick
type TickResult struct {
	Countdown     string
	WindowChanged bool
	NewWindow     Window
}

// Tick evaluates the clock reading now against the last recorded window.
// It is a pure function of its inputs; callers reselect when WindowChanged
// is set and record NewWindow as their new lastWindow.
func Tick(now time.Time, lastWindow Window) TickResult {
	current := WindowFor(now.Hour())
	return TickResult{
		Countdown:     FormatCountdown(NextBoundary(now).Sub(now)),
		WindowChanged: current != lastWindow,
		NewWindow:     current,
	}
}
