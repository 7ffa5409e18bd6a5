package engine

import (
	"fmt"
	"math"

	"inkquest/internal/model"
	"inkquest/internal/storage"
)

type HeatLevel string

const (
	HeatNone HeatLevel = "none"
	HeatLow  HeatLevel = "low"
	HeatMid  HeatLevel = "mid"
	HeatHigh HeatLevel = "high"
)

// HeatmapThresholds are the bucket boundaries derived from the window
// maximum. High marks the top quarter and is exposed for legend rendering;
// classification itself only needs Low and Mid.
type HeatmapThresholds struct {
	Low  int
	Mid  int
	High int
}

type HeatmapDay struct {
	Date  string
	Count int
	Level HeatLevel
}

type WeeklyStats struct {
	Completed      int
	Total          int
	CompletionRate int
	BestDay        string
	BestDayRate    int
}

type InsightKind string

const (
	InsightEnergy    InsightKind = "energy"
	InsightGreatWeek InsightKind = "great_week"
	InsightOverload  InsightKind = "overload"
	InsightReading   InsightKind = "reading"
)

type Insight struct {
	Kind    InsightKind
	Message string
}

// MoodDay is one row of the mood series: the resolved energy per configured
// time slot, empty where nothing was recorded.
type MoodDay struct {
	Date  string
	Slots []string
}

const (
	energyInsightGap   = 0.3
	readingInsightGap  = 0.2
	readingMinSamples  = 3
	greatWeekThreshold = 80
	overloadThreshold  = 5
)

// Heatmap buckets daily completion counts over a trailing window of whole
// weeks ending at endDate, oldest day first.
func Heatmap(logs storage.DailyLogBook, endDate string, weeks int) ([]HeatmapDay, HeatmapThresholds, error) {
	dates, err := Window(endDate, weeks*7)
	if err != nil {
		return nil, HeatmapThresholds{}, err
	}
	max := 0
	counts := make([]int, len(dates))
	for i, date := range dates {
		counts[i] = logs.Log(date).QuestsCompleted
		if counts[i] > max {
			max = counts[i]
		}
	}
	thresholds := heatmapThresholds(max)
	out := make([]HeatmapDay, len(dates))
	for i, date := range dates {
		out[i] = HeatmapDay{Date: date, Count: counts[i], Level: heatLevel(counts[i], thresholds)}
	}
	return out, thresholds, nil
}

func heatmapThresholds(max int) HeatmapThresholds {
	switch {
	case max == 0:
		// Everything classifies as none; collapsed thresholds avoid a
		// zero divisor without inventing a "high" bucket.
		return HeatmapThresholds{Low: 1, Mid: 1, High: 1}
	case max <= 4:
		// Relative quarters degenerate for tiny maxima (1/1/1 for max=1),
		// which would paint every active day as top intensity.
		return HeatmapThresholds{Low: 1, Mid: 2, High: 3}
	default:
		return HeatmapThresholds{
			Low:  ceilDiv(max, 4),
			Mid:  ceilDiv(max, 2),
			High: ceilDiv(3*max, 4),
		}
	}
}

func heatLevel(count int, t HeatmapThresholds) HeatLevel {
	switch {
	case count == 0:
		return HeatNone
	case count <= t.Low:
		return HeatLow
	case count <= t.Mid:
		return HeatMid
	default:
		return HeatHigh
	}
}

// Week summarizes the trailing 7 days ending at endDate. The best day is the
// highest completion rate, ties broken by the higher absolute count. Days with
// no quests at all are not best-day candidates, so an empty window reports no
// best day.
func Week(logs storage.DailyLogBook, endDate string) (WeeklyStats, error) {
	dates, err := Window(endDate, 7)
	if err != nil {
		return WeeklyStats{}, err
	}
	stats := WeeklyStats{}
	bestRate := -1.0
	bestCompleted := -1
	for _, date := range dates {
		entry := logs.Log(date)
		stats.Completed += entry.QuestsCompleted
		stats.Total += entry.QuestsTotal
		if entry.QuestsTotal == 0 {
			continue
		}
		rate := entry.CompletionRate()
		if rate > bestRate || (rate == bestRate && entry.QuestsCompleted > bestCompleted) {
			bestRate = rate
			bestCompleted = entry.QuestsCompleted
			stats.BestDay = date
			stats.BestDayRate = int(rate * 100)
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = 100 * stats.Completed / stats.Total
	}
	return stats, nil
}

// EnergyInsight compares mean completion rates between the highest and lowest
// configured energy categories over the trailing week, falling through a
// fixed priority order: energy gap, great week, overload, nothing. Insights
// are mutually exclusive; first match wins.
func EnergyInsight(logs storage.DailyLogBook, settings model.UserSettings, endDate string) (Insight, bool) {
	if len(settings.EnergyCategories) == 0 {
		return Insight{}, false
	}
	dates, err := Window(endDate, 7)
	if err != nil {
		return Insight{}, false
	}
	highCategory := settings.EnergyCategories[0]
	lowCategory := settings.EnergyCategories[len(settings.EnergyCategories)-1]
	highMean, highOK := meanRateForEnergy(logs, dates, highCategory)
	lowMean, lowOK := meanRateForEnergy(logs, dates, lowCategory)

	if highOK && lowOK && highMean > lowMean+energyInsightGap {
		gap := int(math.Round((highMean - lowMean) * 100))
		return Insight{
			Kind:    InsightEnergy,
			Message: fmt.Sprintf("You complete %d%% more quests on %s days than on %s days.", gap, highCategory, lowCategory),
		}, true
	}

	week, err := Week(logs, endDate)
	if err != nil {
		return Insight{}, false
	}
	if week.CompletionRate >= greatWeekThreshold {
		return Insight{
			Kind:    InsightGreatWeek,
			Message: fmt.Sprintf("Great week: %d%% of your quests completed.", week.CompletionRate),
		}, true
	}
	if missed := week.Total - week.Completed; missed > overloadThreshold {
		return Insight{
			Kind:    InsightOverload,
			Message: fmt.Sprintf("You missed %d quests this week. Consider trimming your quest list.", missed),
		}, true
	}
	return Insight{}, false
}

// ReadingInsight correlates reading activity with completion rate over a
// trailing 14-day window. Fewer than 3 days on either side of the partition
// suppresses the insight rather than reporting noise.
func ReadingInsight(logs storage.DailyLogBook, endDate string) (Insight, bool) {
	dates, err := Window(endDate, 14)
	if err != nil {
		return Insight{}, false
	}
	var readingRates, otherRates []float64
	for _, date := range dates {
		entry := logs.Log(date)
		if entry.Reading != nil && entry.Reading.PagesRead > 0 {
			readingRates = append(readingRates, entry.CompletionRate())
		} else {
			otherRates = append(otherRates, entry.CompletionRate())
		}
	}
	if len(readingRates) < readingMinSamples || len(otherRates) < readingMinSamples {
		return Insight{}, false
	}
	readingMean := mean(readingRates)
	otherMean := mean(otherRates)
	if readingMean > otherMean+readingInsightGap {
		gap := int(math.Round((readingMean - otherMean) * 100))
		return Insight{
			Kind:    InsightReading,
			Message: fmt.Sprintf("On days you read, you complete %d%% more quests.", gap),
		}, true
	}
	return Insight{}, false
}

// MoodSeries resolves the trailing week's energy check-ins onto the
// configured time slots, oldest day first. The last entry per slot per day is
// authoritative. A day with no entries at all falls back to its single
// EnergyLevel; otherwise unset slots stay empty and renderers interpolate.
func MoodSeries(logs storage.DailyLogBook, settings model.UserSettings, endDate string) ([]MoodDay, error) {
	dates, err := Window(endDate, 7)
	if err != nil {
		return nil, err
	}
	slotIndex := make(map[string]int, len(settings.TimeSlots))
	for i, name := range settings.TimeSlots {
		slotIndex[name] = i
	}

	out := make([]MoodDay, 0, len(dates))
	for _, date := range dates {
		entry := logs.Log(date)
		day := MoodDay{Date: date, Slots: make([]string, len(settings.TimeSlots))}
		if len(entry.EnergyEntries) == 0 {
			for i := range day.Slots {
				day.Slots[i] = entry.EnergyLevel
			}
			out = append(out, day)
			continue
		}
		for _, check := range entry.EnergyEntries {
			idx, ok := slotIndex[check.TimeSlot]
			if !ok {
				idx = slotForHour(check.Hour, len(settings.TimeSlots))
			}
			if idx >= 0 && idx < len(day.Slots) {
				day.Slots[idx] = check.Energy
			}
		}
		out = append(out, day)
	}
	return out, nil
}

// slotForHour buckets an hour into one of n equal spans of the day, for
// check-ins recorded before time slots carried names.
func slotForHour(hour, n int) int {
	if n <= 0 {
		return -1
	}
	if hour < 0 || hour > 23 {
		return -1
	}
	return hour * n / 24
}

func meanRateForEnergy(logs storage.DailyLogBook, dates []string, category string) (float64, bool) {
	var rates []float64
	for _, date := range dates {
		entry := logs.Log(date)
		if entry.EnergyLevel == category {
			rates = append(rates, entry.CompletionRate())
		}
	}
	if len(rates) == 0 {
		return 0, false
	}
	return mean(rates), true
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
