package engine

import "inkquest/internal/model"

// FilterByEnergy selects the quests visible for the user's declared energy
// level on a date. The rule is monotonic: raising the declared energy never
// hides a quest that was visible at a lower level. The skip exclusion is
// date-scoped and independent of energy.
//
// Rank 0 is the highest-energy category. A quest's EnergyRequired expresses
// the effort it needs: a quest ranked at or below the current level (same or
// lower effort) is showable, and the top energy level shows everything.
func FilterByEnergy(quests []model.Quest, settings model.UserSettings, currentEnergy, today string) []model.Quest {
	currentRank, known := settings.EnergyRank(currentEnergy)
	if currentEnergy == "" || !known {
		// No check-in yet: assume the middle category.
		currentRank = len(settings.EnergyCategories) / 2
	}
	isHighEnergy := currentRank == 0

	out := make([]model.Quest, 0, len(quests))
	for _, quest := range quests {
		if quest.SkippedOn(today) {
			continue
		}
		if quest.EnergyRequired == "" || quest.EnergyRequired == model.EnergyAny {
			out = append(out, quest)
			continue
		}
		if isHighEnergy {
			out = append(out, quest)
			continue
		}
		requiredRank, known := settings.EnergyRank(quest.EnergyRequired)
		if !known {
			// Category renamed or removed from settings: treat as Any
			// rather than hiding the quest forever.
			out = append(out, quest)
			continue
		}
		if requiredRank >= currentRank {
			out = append(out, quest)
		}
	}
	return out
}
