package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCadence = errors.New("model: invalid quest cadence")
	ErrInvalidTarget  = errors.New("model: invalid progress target")
)

// EnergyAny marks a quest that is visible regardless of the user's energy level.
const EnergyAny = "Any"

type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

func (c Cadence) IsValid() bool {
	switch c {
	case CadenceDaily, CadenceWeekly, CadenceMonthly:
		return true
	default:
		return false
	}
}

func ParseCadence(input string) (Cadence, error) {
	c := Cadence(strings.TrimSpace(strings.ToLower(input)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCadence, input)
	}
	return c, nil
}

// Quest is a tracked habit. Cadence is immutable after creation; moving a quest
// between cadences is modeled as delete + recreate.
type Quest struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Cadence          Cadence `json:"cadence"`
	EnergyRequired   string  `json:"energy_required,omitempty"`
	TimeSlot         string  `json:"time_slot,omitempty"`
	Category         string  `json:"category,omitempty"`
	IsProgressive    bool    `json:"is_progressive,omitempty"`
	ProgressCurrent  int     `json:"progress_current,omitempty"`
	ProgressTarget   int     `json:"progress_target,omitempty"`
	ProgressUnit     string  `json:"progress_unit,omitempty"`
	ProgressLastDate string  `json:"progress_last_date,omitempty"`
	// Completed/CompletedDate are a cached projection of the most recent
	// completion, kept for display and streak bootstrap. CompletionHistory is
	// the authoritative record.
	Completed         bool            `json:"completed,omitempty"`
	CompletedDate     string          `json:"completed_date,omitempty"`
	CompletionHistory map[string]bool `json:"completion_history,omitempty"`
	Streak            int             `json:"streak,omitempty"`
	SkippedDate       string          `json:"skipped_date,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (q Quest) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return errors.New("model: quest id is required")
	}
	if strings.TrimSpace(q.Title) == "" {
		return errors.New("model: quest title is required")
	}
	if !q.Cadence.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCadence, q.Cadence)
	}
	if q.IsProgressive && q.ProgressTarget <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTarget, q.ProgressTarget)
	}
	if q.CreatedAt.IsZero() {
		return errors.New("model: quest created_at is required")
	}
	return nil
}

// CompletedOn reports whether the quest was completed on the given date.
// Records created before completion history existed carry only the legacy
// single-flag fields, so those are consulted as a fallback.
func (q Quest) CompletedOn(date string) bool {
	if q.CompletionHistory[date] {
		return true
	}
	return q.Completed && q.CompletedDate == date
}

// SkippedOn reports whether the quest was skipped for the given date. A skip
// only ever covers a single day.
func (q Quest) SkippedOn(date string) bool {
	return q.SkippedDate != "" && q.SkippedDate == date
}
