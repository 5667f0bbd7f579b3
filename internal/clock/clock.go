// Package clock provides a half-hour granular time-of-day value.
package clock

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidTimeValue is returned for out-of-range or off-granularity times.
var ErrInvalidTimeValue = errors.New("time must be between 00:00 and 24:00 in 30 minute steps")

const (
	// TicksPerHour is the number of ticks in one hour.
	TicksPerHour = 2
	// MinutesPerTick is the length of one tick.
	MinutesPerTick = 60 / TicksPerHour
	// MaxTicks is the tick count of 24:00.
	MaxTicks = 24 * TicksPerHour
)

// Clock is a time of day in [00:00, 24:00] at 30 minute granularity.
// The zero value is midnight.
type Clock struct {
	ticks int
}

var (
	// Midnight is 00:00.
	Midnight = Clock{}
	// EndOfDay is 24:00.
	EndOfDay = Clock{ticks: MaxTicks}
)

// FromNumber builds a Clock from an hour value such as 9 or 13.5.
func FromNumber(hours float64) (Clock, error) {
	ticks, err := hoursToTicks(hours)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: got %v", err, hours)
	}
	return fromTicks(ticks)
}

// FromClockPair builds a Clock from an hour and a minute (0 or 30).
func FromClockPair(hour, minute int) (Clock, error) {
	if hour < 0 || hour > MaxTicks/TicksPerHour || (minute != 0 && minute != MinutesPerTick) {
		return Clock{}, fmt.Errorf("%w: got %02d:%02d", ErrInvalidTimeValue, hour, minute)
	}
	c, err := fromTicks(hour*TicksPerHour + minute/MinutesPerTick)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: got %02d:%02d", ErrInvalidTimeValue, hour, minute)
	}
	return c, nil
}

// FromTimestamp extracts the hour and minute of t.
// Seconds are ignored; the minute must still land on a tick.
func FromTimestamp(t time.Time) (Clock, error) {
	return FromClockPair(t.Hour(), t.Minute())
}

// Parse parses "HH:MM". "24:00" is accepted as the end of the day.
func Parse(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[0:2]) || !isDigits(s[3:5]) {
		return Clock{}, fmt.Errorf("%w: got %q", ErrInvalidTimeValue, s)
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	return FromClockPair(hour, minute)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Clock {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ValidateSize checks that hours is a positive multiple of one tick.
func ValidateSize(hours float64) error {
	ticks, err := hoursToTicks(hours)
	if err != nil || ticks <= 0 {
		return fmt.Errorf("%w: interval size %v", ErrInvalidTimeValue, hours)
	}
	return nil
}

// SizeTicks converts a validated interval size to ticks.
func SizeTicks(hours float64) (int, error) {
	if err := ValidateSize(hours); err != nil {
		return 0, err
	}
	ticks, _ := hoursToTicks(hours)
	return ticks, nil
}

// FromTicks builds a Clock from a tick count.
func FromTicks(ticks int) (Clock, error) {
	return fromTicks(ticks)
}

func fromTicks(ticks int) (Clock, error) {
	if ticks < 0 || ticks > MaxTicks {
		return Clock{}, ErrInvalidTimeValue
	}
	return Clock{ticks: ticks}, nil
}

func hoursToTicks(hours float64) (int, error) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, ErrInvalidTimeValue
	}
	scaled := hours * TicksPerHour
	if scaled != math.Trunc(scaled) {
		return 0, ErrInvalidTimeValue
	}
	return int(scaled), nil
}

// Ticks returns the number of half hours since midnight.
func (c Clock) Ticks() int {
	return c.ticks
}

// Hours returns the numeric hour value, e.g. 9.5 for 09:30.
func (c Clock) Hours() float64 {
	return float64(c.ticks) / TicksPerHour
}

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int {
	return c.ticks * MinutesPerTick
}

// Add returns c shifted by hours. The result must still be a valid Clock.
func (c Clock) Add(hours float64) (Clock, error) {
	ticks, err := hoursToTicks(hours)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: offset %v", err, hours)
	}
	next, err := fromTicks(c.ticks + ticks)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %s%+v hours", err, c, hours)
	}
	return next, nil
}

// Compare returns -1, 0 or +1.
func (c Clock) Compare(other Clock) int {
	switch {
	case c.ticks < other.ticks:
		return -1
	case c.ticks > other.ticks:
		return 1
	default:
		return 0
	}
}

// Before reports whether c < other.
func (c Clock) Before(other Clock) bool { return c.ticks < other.ticks }

// After reports whether c > other.
func (c Clock) After(other Clock) bool { return c.ticks > other.ticks }

// Equal reports whether c == other.
func (c Clock) Equal(other Clock) bool { return c.ticks == other.ticks }

// Min returns the earlier of c and other.
func (c Clock) Min(other Clock) Clock {
	if other.ticks < c.ticks {
		return other
	}
	return c
}

// Max returns the later of c and other.
func (c Clock) Max(other Clock) Clock {
	if other.ticks > c.ticks {
		return other
	}
	return c
}

// String formats c as 24-hour "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.ticks/TicksPerHour, (c.ticks%TicksPerHour)*MinutesPerTick)
}

// Format12 formats c on a 12-hour dial without an AM/PM suffix.
// Midnight and noon render as 12.
func (c Clock) Format12() string {
	hour := (c.ticks / TicksPerHour) % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d", hour, (c.ticks%TicksPerHour)*MinutesPerTick)
}

// IsPM reports whether c falls in the afternoon half of the dial.
// 24:00 counts as midnight.
func (c Clock) IsPM() bool {
	return c.ticks >= 12*TicksPerHour && c.ticks < MaxTicks
}

// MarshalText implements encoding.TextMarshaler.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
