package model

// StreakData is the global cross-quest streak, distinct from per-quest streaks.
type StreakData struct {
	Current           int    `json:"current"`
	Longest           int    `json:"longest"`
	LastCompletedDate string `json:"last_completed_date,omitempty"`
}

// UserSettings holds user-configured categories and cached today state.
// EnergyCategories is ordered: index 0 is the highest-energy category, and the
// energy filter depends on that ordering.
type UserSettings struct {
	EnergyCategories []string   `json:"energy_categories"`
	TimeSlots        []string   `json:"time_slots"`
	TodayEnergy      string     `json:"today_energy,omitempty"`
	TodayDate        string     `json:"today_date,omitempty"`
	StreakData       StreakData `json:"streak_data"`
}

func DefaultSettings() UserSettings {
	return UserSettings{
		EnergyCategories: []string{"Energetic", "Average", "Down"},
		TimeSlots:        []string{"Morning", "Afternoon", "Evening", "Night"},
	}
}

// EnergyRank returns the rank of a category (0 = highest energy) and whether
// the category is configured.
func (s UserSettings) EnergyRank(category string) (int, bool) {
	for i, name := range s.EnergyCategories {
		if name == category {
			return i, true
		}
	}
	return 0, false
}

// CurrentEnergy resolves the user's declared energy for a date. The cached
// TodayEnergy only applies while TodayDate matches; a stale cache means the
// user has not checked in yet today.
func (s UserSettings) CurrentEnergy(date string) string {
	if s.TodayDate == date {
		return s.TodayEnergy
	}
	return ""
}
