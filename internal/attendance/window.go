package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ClockTime is a wall-clock time of day, in seconds since midnight.
type ClockTime int

func Clock(h, m, s int) ClockTime {
	return ClockTime(h*3600 + m*60 + s)
}

// ParseClock accepts "HH:MM" or "HH:MM:SS".
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, errors.Errorf("bad clock time %q", s)
	}
	limits := []int{23, 59, 59}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, errors.Errorf("bad clock time %q", s)
		}
		v[i] = n
	}
	return Clock(v[0], v[1], v[2]), nil
}

func ClockOf(t time.Time) ClockTime {
	return Clock(t.Hour(), t.Minute(), t.Second())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)%3600/60, int(c)%60)
}

// Window is the local time-of-day range in which check-in is accepted.
type Window struct {
	Open     ClockTime
	Close    ClockTime
	Location *time.Location
}

func NewWindow(openAt, closeAt, timezone string) (Window, error) {
	o, err := ParseClock(openAt)
	if err != nil {
		return Window{}, err
	}
	c, err := ParseClock(closeAt)
	if err != nil {
		return Window{}, err
	}
	if c < o {
		return Window{}, errors.Errorf("window closes (%s) before it opens (%s)", c, o)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Window{}, errors.Wrapf(err, "timezone %q", timezone)
	}
	return Window{Open: o, Close: c, Location: loc}, nil
}

// Local converts t to the window's time zone.
func (w Window) Local(t time.Time) time.Time {
	if w.Location == nil {
		return t.UTC()
	}
	return t.In(w.Location)
}

// Contains reports whether t falls in [Open, Close] local time.
func (w Window) Contains(t time.Time) bool {
	c := ClockOf(w.Local(t))
	return c >= w.Open && c <= w.Close
}
