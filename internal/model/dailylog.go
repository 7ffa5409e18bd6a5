package model

import "time"

// EnergyEntry is a single mood check-in within a day.
type EnergyEntry struct {
	Hour     int    `json:"hour"`
	Energy   string `json:"energy"`
	TimeSlot string `json:"time_slot,omitempty"`
}

// ReadingStats is supplied by the reading collaborator for a single day.
// A nil ReadingStats means "no reading data", which is distinct from zero pages.
type ReadingStats struct {
	PagesRead        int    `json:"pages_read"`
	TimeSpentMinutes int    `json:"time_spent_minutes"`
	BookTitle        string `json:"book_title,omitempty"`
}

// DailyLog accumulates everything recorded for one calendar date.
// QuestsTotal/QuestsCompleted are a snapshot recomputed from the full quest
// collection on every completion event, never maintained incrementally.
type DailyLog struct {
	Date            string        `json:"date"`
	QuestsTotal     int           `json:"quests_total"`
	QuestsCompleted int           `json:"quests_completed"`
	EnergyLevel     string        `json:"energy_level,omitempty"`
	EnergyEntries   []EnergyEntry `json:"energy_entries,omitempty"`
	Reflection      string        `json:"reflection,omitempty"`
	ReflectionTime  time.Time     `json:"reflection_time,omitempty"`
	Reading         *ReadingStats `json:"reading,omitempty"`
}

// CompletionRate returns the day's completion rate in [0, 1].
func (d DailyLog) CompletionRate() float64 {
	if d.QuestsTotal == 0 {
		return 0
	}
	return float64(d.QuestsCompleted) / float64(d.QuestsTotal)
}
