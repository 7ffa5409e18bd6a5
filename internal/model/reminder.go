package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidTimeOfDay = errors.New("model: invalid reminder time of day")
	ErrInvalidWeekday   = errors.New("model: invalid reminder weekday")
)

// Reminder fires at a fixed time of day, on the configured weekdays.
// An empty Weekdays list means every day. QuestID is optional; a reminder may
// just carry a label ("evening check-in").
type Reminder struct {
	ID            string         `json:"id"`
	QuestID       string         `json:"quest_id,omitempty"`
	Label         string         `json:"label"`
	TimeOfDay     string         `json:"time_of_day"`
	Weekdays      []time.Weekday `json:"weekdays,omitempty"`
	Enabled       bool           `json:"enabled"`
	LastFiredDate string         `json:"last_fired_date,omitempty"`
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: reminder id is required")
	}
	if strings.TrimSpace(r.Label) == "" {
		return errors.New("model: reminder label is required")
	}
	if _, _, err := r.clock(); err != nil {
		return err
	}
	for _, d := range r.Weekdays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, d)
		}
	}
	return nil
}

// NextTrigger returns the first instant strictly after the given time at which
// the reminder should fire.
func (r Reminder) NextTrigger(after time.Time) (time.Time, error) {
	hour, minute, err := r.clock()
	if err != nil {
		return time.Time{}, err
	}
	probe := time.Date(after.Year(), after.Month(), after.Day(), hour, minute, 0, 0, after.Location())
	if !probe.After(after) {
		probe = probe.AddDate(0, 0, 1)
	}
	for i := 0; i < 7; i++ {
		if r.firesOn(probe.Weekday()) {
			return probe, nil
		}
		probe = probe.AddDate(0, 0, 1)
	}
	return time.Time{}, fmt.Errorf("%w: no matching weekday", ErrInvalidWeekday)
}

func (r Reminder) firesOn(day time.Weekday) bool {
	if len(r.Weekdays) == 0 {
		return true
	}
	for _, d := range r.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

func (r Reminder) clock() (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(r.TimeOfDay), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, r.TimeOfDay)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, r.TimeOfDay)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, r.TimeOfDay)
	}
	return hour, minute, nil
}
