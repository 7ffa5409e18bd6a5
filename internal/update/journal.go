package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"inkquest/internal/model"
	"inkquest/internal/storage"
	"inkquest/internal/views"
)

func (m *Model) refreshJournal() {
	today := m.clock.Today()
	logs, err := storage.LoadDailyLogs(context.Background(), m.store)
	if err != nil {
		m.fail(err)
		return
	}
	m.Journal.Date = today
	m.Journal.Entry = logs.Log(today)
}

func (m Model) handleJournalKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "i", "e":
		m.Journal.Editing = true
		m.reflectionArea.SetValue(m.Journal.Entry.Reflection)
		m.reflectionArea.Focus()
		m.Status = StatusBar{Text: "editing reflection (esc saves)", IsError: false}
	}
	return m
}

// handleJournalEditKey owns the keyboard while the reflection editor is
// focused. Esc saves; everything else feeds the textarea.
func (m Model) handleJournalEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Journal.Editing = false
		m.reflectionArea.Blur()
		m.saveReflection(m.reflectionArea.Value())
		return m, nil
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.reflectionArea, cmd = m.reflectionArea.Update(msg)
	return m, cmd
}

func (m *Model) saveReflection(text string) {
	ctx := context.Background()
	logs, err := storage.LoadDailyLogs(ctx, m.store)
	if err != nil {
		m.fail(err)
		return
	}
	entry := logs.Log(m.Journal.Date)
	entry.Reflection = text
	entry.ReflectionTime = m.clock.Now()
	logs[m.Journal.Date] = entry
	if err := m.store.Save(ctx, storage.CollectionDailyLogs, logs); err != nil {
		m.fail(err)
		return
	}
	m.Journal.Entry = entry
	m.Status = StatusBar{Text: "reflection saved", IsError: false}
}

// recordEnergyCheckIn writes the declared level to both the settings cache
// (which drives the quest filter) and the day's check-in series.
func (m *Model) recordEnergyCheckIn(level string) error {
	canonical, ok := m.canonicalEnergy(level)
	if !ok {
		return fmt.Errorf("update: unknown energy level %q (configured: %s)",
			level, strings.Join(m.Settings.EnergyCategories, ", "))
	}
	ctx := context.Background()
	today := m.clock.Today()

	settings, err := storage.LoadSettings(ctx, m.store)
	if err != nil {
		return err
	}
	settings.TodayEnergy = canonical
	settings.TodayDate = today
	if err := m.store.Save(ctx, storage.CollectionUserSettings, settings); err != nil {
		return err
	}
	m.Settings = settings

	logs, err := storage.LoadDailyLogs(ctx, m.store)
	if err != nil {
		return err
	}
	entry := logs.Log(today)
	hour := m.clock.Now().Hour()
	entry.EnergyLevel = canonical
	entry.EnergyEntries = append(entry.EnergyEntries, model.EnergyEntry{
		Hour:     hour,
		Energy:   canonical,
		TimeSlot: m.slotNameForHour(hour),
	})
	logs[today] = entry
	if err := m.store.Save(ctx, storage.CollectionDailyLogs, logs); err != nil {
		return err
	}

	m.refreshQuests()
	m.refreshDashboard()
	m.refreshTimeline()
	m.refreshJournal()
	return nil
}

// recordReading stores the reading collaborator's numbers for today. Repeat
// calls overwrite; the host syncs cumulative daily totals.
func (m *Model) recordReading(pages, minutes int, book string) error {
	ctx := context.Background()
	today := m.clock.Today()
	logs, err := storage.LoadDailyLogs(ctx, m.store)
	if err != nil {
		return err
	}
	entry := logs.Log(today)
	entry.Reading = &model.ReadingStats{
		PagesRead:        pages,
		TimeSpentMinutes: minutes,
		BookTitle:        book,
	}
	logs[today] = entry
	if err := m.store.Save(ctx, storage.CollectionDailyLogs, logs); err != nil {
		return err
	}
	m.refreshJournal()
	m.refreshDashboard()
	return nil
}

func (m Model) canonicalEnergy(level string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(level))
	for _, name := range m.Settings.EnergyCategories {
		if strings.ToLower(name) == needle {
			return name, true
		}
	}
	return "", false
}

func (m Model) slotNameForHour(hour int) string {
	n := len(m.Settings.TimeSlots)
	if n == 0 || hour < 0 || hour > 23 {
		return ""
	}
	return m.Settings.TimeSlots[hour*n/24]
}

func (m Model) renderJournalView() string {
	var reading *views.ReadingData
	if m.Journal.Entry.Reading != nil {
		reading = &views.ReadingData{
			PagesRead:        m.Journal.Entry.Reading.PagesRead,
			TimeSpentMinutes: m.Journal.Entry.Reading.TimeSpentMinutes,
			BookTitle:        m.Journal.Entry.Reading.BookTitle,
		}
	}
	checkIns := make([]views.CheckInData, 0, len(m.Journal.Entry.EnergyEntries))
	for _, check := range m.Journal.Entry.EnergyEntries {
		checkIns = append(checkIns, views.CheckInData{
			Hour:     check.Hour,
			Energy:   check.Energy,
			TimeSlot: check.TimeSlot,
		})
	}
	return views.RenderJournalPanel(views.JournalPanelData{
		Date:       m.Journal.Date,
		EditorView: m.reflectionArea.View(),
		Editing:    m.Journal.Editing,
		Reading:    reading,
		CheckIns:   checkIns,
	})
}

func (m Model) renderJournalPreviewPane() string {
	return "markdown-preview:\n" + m.previewViewport.View()
}
