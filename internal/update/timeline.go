package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"inkquest/internal/engine"
	"inkquest/internal/storage"
	"inkquest/internal/views"
)

func (m *Model) refreshTimeline() {
	if m.Timeline.EndDate == "" {
		m.Timeline.EndDate = m.clock.Today()
	}
	logs, err := storage.LoadDailyLogs(context.Background(), m.store)
	if err != nil {
		m.fail(err)
		return
	}
	days, err := engine.MoodSeries(logs, m.Settings, m.Timeline.EndDate)
	if err != nil {
		m.fail(err)
		return
	}
	m.Timeline.Days = days
}

func (m Model) handleTimelineKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h", "left":
		m.Timeline.EndDate = engine.AddDays(m.Timeline.EndDate, -7)
		m.refreshTimeline()
		m.Status = StatusBar{Text: fmt.Sprintf("week ending %s", m.Timeline.EndDate), IsError: false}
	case "l", "right":
		today := m.clock.Today()
		next := engine.AddDays(m.Timeline.EndDate, 7)
		// Never navigate past today; the series would just be empty rows.
		if next > today {
			next = today
		}
		m.Timeline.EndDate = next
		m.refreshTimeline()
		m.Status = StatusBar{Text: fmt.Sprintf("week ending %s", m.Timeline.EndDate), IsError: false}
	case "t":
		m.Timeline.EndDate = m.clock.Today()
		m.refreshTimeline()
		m.Status = StatusBar{Text: "timeline back to today", IsError: false}
	}
	return m
}

func (m Model) renderTimelineView() string {
	days := make([]views.MoodDayData, 0, len(m.Timeline.Days))
	for _, day := range m.Timeline.Days {
		days = append(days, views.MoodDayData{Date: day.Date, Slots: day.Slots})
	}
	return views.RenderTimelinePanel(views.TimelinePanelData{
		TableView: m.timelineTable.View(),
		EndDate:   m.Timeline.EndDate,
		SlotNames: m.Settings.TimeSlots,
		Days:      days,
	})
}
