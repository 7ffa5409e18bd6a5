package engine

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-date key used across quests and daily logs.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("engine: invalid date")

// Clock supplies the current date and time. Engine logic is pure given a
// date, so tests substitute a fixed clock.
type Clock interface {
	Today() string
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Today() string { return time.Now().Format(DateLayout) }

// FixedClock pins both date and time; used by tests and date navigation.
type FixedClock struct {
	Date string
	Time time.Time
}

func (c FixedClock) Today() string { return c.Date }

func (c FixedClock) Now() time.Time {
	if !c.Time.IsZero() {
		return c.Time
	}
	day, err := time.Parse(DateLayout, c.Date)
	if err != nil {
		return time.Time{}
	}
	return day
}

func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// AddDays shifts a date key by n calendar days. The date must already be
// validated; a malformed input returns the empty string, which never matches
// a real date key.
func AddDays(date string, n int) string {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return day.AddDate(0, 0, n).Format(DateLayout)
}

// Window returns the n dates ending at endDate, oldest first.
func Window(endDate string, n int) ([]string, error) {
	if err := ValidateDate(endDate); err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, AddDays(endDate, -i))
	}
	return out, nil
}
