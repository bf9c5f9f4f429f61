package timeslot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	clockLayout = "15:04"
	separator   = " - "
)

var ErrFormat = errors.New("invalid time slot format")

// TimeSlot is a half-open clock-time interval [Start, End) within one day.
// Start and End carry only the hour and minute components.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// Parse splits "HH:MM - HH:MM" into a TimeSlot. Only the shape is checked
// here; Start >= End is the caller's problem.
func Parse(s string) (TimeSlot, error) {
	const op = "timeslot.Parse"

	parts := strings.Split(s, separator)
	if len(parts) != 2 {
		return TimeSlot{}, fmt.Errorf("%s: %q: %w", op, s, ErrFormat)
	}

	start, err := time.Parse(clockLayout, parts[0])
	if err != nil {
		return TimeSlot{}, fmt.Errorf("%s: %q: %w", op, s, ErrFormat)
	}

	end, err := time.Parse(clockLayout, parts[1])
	if err != nil {
		return TimeSlot{}, fmt.Errorf("%s: %q: %w", op, s, ErrFormat)
	}

	return TimeSlot{Start: start, End: end}, nil
}

// ParseAll parses a list of slot strings, failing on the first bad one.
func ParseAll(ss []string) ([]TimeSlot, error) {
	slots := make([]TimeSlot, 0, len(ss))
	for _, s := range ss {
		slot, err := Parse(s)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

func (t TimeSlot) String() string {
	return t.Start.Format(clockLayout) + separator + t.End.Format(clockLayout)
}

func (t TimeSlot) Valid() bool {
	return t.Start.Before(t.End)
}

// Overlaps reports whether the two half-open intervals intersect.
func (t TimeSlot) Overlaps(o TimeSlot) bool {
	return t.Start.Before(o.End) && o.Start.Before(t.End)
}

// Config holds the canonical day-name and slot-generation tables. The
// defaults match the academic timetable: nine one-hour slots from 07:00
// to 16:00 and Indonesian day names in Monday-first order.
type Config struct {
	Days        []string
	DayStart    string
	DayEnd      string
	StepMinutes int
}

func DefaultConfig() Config {
	return Config{
		Days:        []string{"Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"},
		DayStart:    "07:00",
		DayEnd:      "16:00",
		StepMinutes: 60,
	}
}

// Generate materializes the canonical slot strings between DayStart and
// DayEnd in StepMinutes increments.
func (c Config) Generate() []string {
	start, err := time.Parse(clockLayout, c.DayStart)
	if err != nil {
		return nil
	}
	end, err := time.Parse(clockLayout, c.DayEnd)
	if err != nil {
		return nil
	}

	step := time.Duration(c.StepMinutes) * time.Minute
	if step <= 0 {
		return nil
	}

	var slots []string
	for cur := start; !cur.Add(step).After(end); cur = cur.Add(step) {
		slots = append(slots, TimeSlot{Start: cur, End: cur.Add(step)}.String())
	}

	return slots
}

// ValidDay reports whether day is one of the configured day names.
func (c Config) ValidDay(day string) bool {
	for _, d := range c.Days {
		if d == day {
			return true
		}
	}

	return false
}
