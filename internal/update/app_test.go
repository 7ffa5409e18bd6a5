package update

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"inkquest/internal/engine"
	"inkquest/internal/model"
	"inkquest/internal/storage"
)

type memStore struct {
	docs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string][]byte)}
}

func (s *memStore) Load(_ context.Context, collection string, out any) error {
	raw, ok := s.docs[collection]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (s *memStore) Save(_ context.Context, collection string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.docs[collection] = raw
	return nil
}

func testModel(t *testing.T, date string) (Model, *memStore) {
	t.Helper()
	store := newMemStore()
	clock := engine.FixedClock{Date: date, Time: mustParseDay(t, date).Add(9 * time.Hour)}
	deps := Deps{
		Store:      store,
		Repository: storage.NewQuestRepository(store),
		Completion: engine.NewCompletion(store, clock, nil),
		Clock:      clock,
	}
	return NewModel(deps), store
}

func mustParseDay(t *testing.T, date string) time.Time {
	t.Helper()
	day, err := time.Parse(engine.DateLayout, date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return day
}

func seedQuest(t *testing.T, m *Model, title, energy string) model.Quest {
	t.Helper()
	quest, err := m.repo.Add(context.Background(), model.Quest{
		Title:          title,
		Cadence:        model.CadenceDaily,
		EnergyRequired: energy,
		CreatedAt:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed quest: %v", err)
	}
	m.refreshQuests()
	return quest
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCompleteKeyUpdatesStreakAndStatus(t *testing.T) {
	m, _ := testModel(t, "2026-08-03")
	seedQuest(t, &m, "Morning stretch", "")
	m.CurrentView = ViewQuests
	m.ensureState()

	next, _ := m.Update(keyRunes("c"))
	m = next.(Model)

	if m.Status.IsError {
		t.Fatalf("unexpected error status: %q", m.Status.Text)
	}
	if !strings.Contains(m.Status.Text, "completed: Morning stretch") {
		t.Fatalf("unexpected status: %q", m.Status.Text)
	}
	if m.Dashboard.Streak.Current != 1 {
		t.Fatalf("expected global streak 1, got %d", m.Dashboard.Streak.Current)
	}
	quest, ok := m.currentQuest()
	if !ok || !quest.CompletedOn("2026-08-03") {
		t.Fatalf("quest not completed: %#v", quest)
	}
}

func TestQuestListComponentTracksItems(t *testing.T) {
	m, _ := testModel(t, "2026-08-03")
	seedQuest(t, &m, "Morning stretch", "")

	next, _ := m.Update(keyRunes("2"))
	m = next.(Model)

	if len(m.Quests.Items) != 1 {
		t.Fatalf("expected 1 quest in state, got %d", len(m.Quests.Items))
	}
	if got := len(m.questList.Items()); got != len(m.Quests.Items) {
		t.Fatalf("quest list widget has %d items, state has %d", got, len(m.Quests.Items))
	}
	item, ok := m.questList.Items()[0].(listItem)
	if !ok || item.title != "Morning stretch" {
		t.Fatalf("unexpected list item: %#v", m.questList.Items()[0])
	}
}

func TestTimelineTableComponentTracksDays(t *testing.T) {
	m, _ := testModel(t, "2026-08-03")
	if err := m.recordEnergyCheckIn("Average"); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	next, _ := m.Update(keyRunes("3"))
	m = next.(Model)

	if len(m.Timeline.Days) != 7 {
		t.Fatalf("expected 7 timeline days, got %d", len(m.Timeline.Days))
	}
	rows := m.timelineTable.Rows()
	if len(rows) != len(m.Timeline.Days) {
		t.Fatalf("timeline table has %d rows, state has %d days", len(rows), len(m.Timeline.Days))
	}
	if rows[6][0] != "2026-08-03" {
		t.Fatalf("unexpected last table row: %#v", rows[6])
	}
}

func TestEnergyCheckInFiltersQuests(t *testing.T) {
	m, _ := testModel(t, "2026-08-03")
	seedQuest(t, &m, "Deep work", "Energetic")
	seedQuest(t, &m, "Light reading", "Down")

	if err := m.recordEnergyCheckIn("down"); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if m.Settings.TodayEnergy != "Down" {
		t.Fatalf("expected canonical level Down, got %q", m.Settings.TodayEnergy)
	}
	if len(m.Quests.Items) != 1 || m.Quests.Items[0].Title != "Light reading" {
		t.Fatalf("unexpected visible quests: %#v", m.Quests.Items)
	}
	if m.Quests.HiddenCount != 1 {
		t.Fatalf("expected 1 hidden quest, got %d", m.Quests.HiddenCount)
	}

	if err := m.recordEnergyCheckIn("sleepy"); err == nil {
		t.Fatal("expected error for unknown energy level")
	}
}

func TestShowAllToggleRevealsHiddenQuests(t *testing.T) {
	m, _ := testModel(t, "2026-08-03")
	seedQuest(t, &m, "Deep work", "Energetic")
	seedQuest(t, &m, "Light reading", "Down")
	if err := m.recordEnergyCheckIn("Down"); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	m.CurrentView = ViewQuests

	next, _ := m.Update(keyRunes("a"))
	m = next.(Model)

	if len(m.Quests.Items) != 2 {
		t.Fatalf("expected all quests visible, got %d", len(m.Quests.Items))
	}
}

func TestPaletteAddCreatesProgressiveQuest(t *testing.T) {
	m, _ := testModel(t, "2026-08-03")
	m.Palette.Active = true
	m.Palette.Input = "add Read daily cadence:daily target:20 unit:pages"
	m.commandInput.SetValue(m.Palette.Input)

	m = m.executePaletteCommand()

	if m.Status.IsError {
		t.Fatalf("unexpected error status: %q", m.Status.Text)
	}
	if m.CurrentView != ViewQuests {
		t.Fatalf("expected switch to quests view, got %s", m.CurrentView)
	}
	if len(m.Quests.Items) != 1 {
		t.Fatalf("expected 1 quest, got %d", len(m.Quests.Items))
	}
	quest := m.Quests.Items[0]
	if !quest.IsProgressive || quest.ProgressTarget != 20 || quest.ProgressUnit != "pages" {
		t.Fatalf("unexpected quest: %#v", quest)
	}
}

func TestPaletteDoneMatchesByTitlePrefix(t *testing.T) {
	m, _ := testModel(t, "2026-08-03")
	seedQuest(t, &m, "Morning stretch", "")
	m.Palette.Active = true
	m.Palette.Input = "done morning"
	m.commandInput.SetValue(m.Palette.Input)

	m = m.executePaletteCommand()

	if m.Status.IsError {
		t.Fatalf("unexpected error status: %q", m.Status.Text)
	}
	quest := m.Quests.Items[0]
	if !quest.CompletedOn("2026-08-03") {
		t.Fatalf("quest not completed: %#v", quest)
	}
}

func TestPaletteReadRecordsReadingStats(t *testing.T) {
	m, _ := testModel(t, "2026-08-03")
	m.Palette.Active = true
	m.Palette.Input = "read 24 minutes:30 The Hobbit"
	m.commandInput.SetValue(m.Palette.Input)

	m = m.executePaletteCommand()

	if m.Status.IsError {
		t.Fatalf("unexpected error status: %q", m.Status.Text)
	}
	reading := m.Journal.Entry.Reading
	if reading == nil || reading.PagesRead != 24 || reading.TimeSpentMinutes != 30 || reading.BookTitle != "The Hobbit" {
		t.Fatalf("unexpected reading stats: %#v", reading)
	}
}

func TestReflectionSaveRoundTrips(t *testing.T) {
	m, store := testModel(t, "2026-08-03")
	m.saveReflection("Solid day. **Finished** the chapter.")

	logs, err := storage.LoadDailyLogs(context.Background(), store)
	if err != nil {
		t.Fatalf("load logs: %v", err)
	}
	entry := logs.Log("2026-08-03")
	if entry.Reflection != "Solid day. **Finished** the chapter." {
		t.Fatalf("unexpected reflection: %q", entry.Reflection)
	}
	if entry.ReflectionTime.IsZero() {
		t.Fatal("expected reflection time to be set")
	}
}

func TestReminderToggleAndDeletePersist(t *testing.T) {
	m, store := testModel(t, "2026-08-03")
	if err := m.addReminder(model.Reminder{ID: "r1", Label: "Evening check-in", TimeOfDay: "21:00", Enabled: true}); err != nil {
		t.Fatalf("add reminder: %v", err)
	}
	m.refreshReminders()
	m.CurrentView = ViewReminders

	next, _ := m.Update(keyRunes(" "))
	m = next.(Model)
	reminders, err := storage.LoadReminders(context.Background(), store)
	if err != nil {
		t.Fatalf("load reminders: %v", err)
	}
	if len(reminders) != 1 || reminders[0].Enabled {
		t.Fatalf("expected reminder disabled, got %#v", reminders)
	}

	next, _ = m.Update(keyRunes("D"))
	m = next.(Model)
	reminders, err = storage.LoadReminders(context.Background(), store)
	if err != nil {
		t.Fatalf("load reminders: %v", err)
	}
	if len(reminders) != 0 {
		t.Fatalf("expected reminder deleted, got %#v", reminders)
	}
}

func TestTimelineNavigationClampsAtToday(t *testing.T) {
	m, _ := testModel(t, "2026-08-03")
	m.CurrentView = ViewTimeline

	next, _ := m.Update(keyRunes("h"))
	m = next.(Model)
	if m.Timeline.EndDate != "2026-07-27" {
		t.Fatalf("unexpected end date after back: %s", m.Timeline.EndDate)
	}

	next, _ = m.Update(keyRunes("l"))
	m = next.(Model)
	next, _ = m.Update(keyRunes("l"))
	m = next.(Model)
	if m.Timeline.EndDate != "2026-08-03" {
		t.Fatalf("expected clamp at today, got %s", m.Timeline.EndDate)
	}
}

func TestViewSwitchKeys(t *testing.T) {
	m, _ := testModel(t, "2026-08-03")
	for keyStr, want := range map[string]View{
		"1": ViewDashboard,
		"2": ViewQuests,
		"3": ViewTimeline,
		"4": ViewJournal,
		"5": ViewReminders,
	} {
		next, _ := m.Update(keyRunes(keyStr))
		m = next.(Model)
		if m.CurrentView != want {
			t.Fatalf("key %q: expected view %s, got %s", keyStr, want, m.CurrentView)
		}
	}
}
