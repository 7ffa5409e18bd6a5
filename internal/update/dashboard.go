package update

import (
	"context"

	"inkquest/internal/engine"
	"inkquest/internal/storage"
	"inkquest/internal/views"
)

func (m *Model) refreshDashboard() {
	ctx := context.Background()
	today := m.clock.Today()

	logs, err := storage.LoadDailyLogs(ctx, m.store)
	if err != nil {
		m.fail(err)
		return
	}

	heatmap, thresholds, err := engine.Heatmap(logs, today, m.heatmapWeeks)
	if err != nil {
		m.fail(err)
		return
	}
	week, err := engine.Week(logs, today)
	if err != nil {
		m.fail(err)
		return
	}

	insights := make([]engine.Insight, 0, 2)
	if insight, ok := engine.EnergyInsight(logs, m.Settings, today); ok {
		insights = append(insights, insight)
	}
	if insight, ok := engine.ReadingInsight(logs, today); ok {
		insights = append(insights, insight)
	}

	m.Dashboard = DashboardState{
		Today:       today,
		TodayEnergy: m.Settings.CurrentEnergy(today),
		Streak:      m.Settings.StreakData,
		Heatmap:     heatmap,
		Thresholds:  thresholds,
		Week:        week,
		Insights:    insights,
	}
}

func (m Model) renderDashboardView() string {
	days := make([]views.HeatmapDayData, 0, len(m.Dashboard.Heatmap))
	for _, day := range m.Dashboard.Heatmap {
		days = append(days, views.HeatmapDayData{
			Date:  day.Date,
			Count: day.Count,
			Level: string(day.Level),
		})
	}
	return views.RenderDashboardPanel(views.DashboardPanelData{
		Today:          m.Dashboard.Today,
		Energy:         m.Dashboard.TodayEnergy,
		StreakCurrent:  m.Dashboard.Streak.Current,
		StreakLongest:  m.Dashboard.Streak.Longest,
		Heatmap:        days,
		ThresholdLow:   m.Dashboard.Thresholds.Low,
		ThresholdMid:   m.Dashboard.Thresholds.Mid,
		ThresholdHigh:  m.Dashboard.Thresholds.High,
		WeekCompleted:  m.Dashboard.Week.Completed,
		WeekTotal:      m.Dashboard.Week.Total,
		WeekRate:       m.Dashboard.Week.CompletionRate,
		BestDay:        m.Dashboard.Week.BestDay,
		BestDayRate:    m.Dashboard.Week.BestDayRate,
	})
}

func (m Model) renderInsightsView() string {
	insights := make([]views.InsightData, 0, len(m.Dashboard.Insights))
	for _, insight := range m.Dashboard.Insights {
		insights = append(insights, views.InsightData{
			Kind:    string(insight.Kind),
			Message: insight.Message,
		})
	}
	return views.RenderInsightsPanel(insights)
}
