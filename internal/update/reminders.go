package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"inkquest/internal/model"
	"inkquest/internal/scheduler"
	"inkquest/internal/storage"
	"inkquest/internal/views"
)

func (m *Model) refreshReminders() {
	reminders, err := storage.LoadReminders(context.Background(), m.store)
	if err != nil {
		m.fail(err)
		return
	}
	m.Reminders.Items = reminders
	if m.Reminders.Cursor >= len(reminders) {
		m.Reminders.Cursor = 0
	}
}

func (m Model) handleRemindersKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.Reminders.Cursor > 0 {
			m.Reminders.Cursor--
		}
	case "down", "j":
		if m.Reminders.Cursor < len(m.Reminders.Items)-1 {
			m.Reminders.Cursor++
		}
	case " ":
		m.toggleSelectedReminder()
	case "a":
		if rem, ok := m.currentReminder(); ok {
			m.Reminders.Ack[rem.ID] = true
			m.Status = StatusBar{Text: fmt.Sprintf("reminder acknowledged: %s", rem.Label), IsError: false}
		}
	case "D":
		m.deleteSelectedReminder()
	}
	return m
}

func (m Model) currentReminder() (model.Reminder, bool) {
	if len(m.Reminders.Items) == 0 {
		return model.Reminder{}, false
	}
	if m.Reminders.Cursor < 0 || m.Reminders.Cursor >= len(m.Reminders.Items) {
		return model.Reminder{}, false
	}
	return m.Reminders.Items[m.Reminders.Cursor], true
}

func (m *Model) toggleSelectedReminder() {
	rem, ok := m.currentReminder()
	if !ok {
		return
	}
	rem.Enabled = !rem.Enabled
	m.Reminders.Items[m.Reminders.Cursor] = rem
	if err := m.saveAndSyncReminders(); err != nil {
		m.fail(err)
		return
	}
	state := "disabled"
	if rem.Enabled {
		state = "enabled"
	}
	m.Status = StatusBar{Text: fmt.Sprintf("reminder %s: %s", state, rem.Label), IsError: false}
}

func (m *Model) deleteSelectedReminder() {
	rem, ok := m.currentReminder()
	if !ok {
		return
	}
	kept := make([]model.Reminder, 0, len(m.Reminders.Items)-1)
	for _, item := range m.Reminders.Items {
		if item.ID != rem.ID {
			kept = append(kept, item)
		}
	}
	m.Reminders.Items = kept
	if err := m.saveAndSyncReminders(); err != nil {
		m.fail(err)
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("reminder deleted: %s", rem.Label), IsError: false}
}

func (m *Model) addReminder(rem model.Reminder) error {
	if err := rem.Validate(); err != nil {
		return err
	}
	m.refreshReminders()
	m.Reminders.Items = append(m.Reminders.Items, rem)
	return m.saveAndSyncReminders()
}

// saveAndSyncReminders persists the collection and rebuilds the scheduler
// queue so edits take effect without a restart.
func (m *Model) saveAndSyncReminders() error {
	if err := m.store.Save(context.Background(), storage.CollectionReminders, m.Reminders.Items); err != nil {
		return err
	}
	if m.Scheduler != nil {
		return m.Scheduler.Sync(m.Reminders.Items)
	}
	return nil
}

// onReminderDue records the fired event and stamps LastFiredDate on the
// stored reminder. The scheduler already requeued the next occurrence.
func (m *Model) onReminderDue(ev scheduler.Event) {
	m.Reminders.Log = append(m.Reminders.Log, ev)
	if len(m.Reminders.Log) > 20 {
		m.Reminders.Log = m.Reminders.Log[len(m.Reminders.Log)-20:]
	}

	today := m.clock.Today()
	m.refreshReminders()
	for i := range m.Reminders.Items {
		if m.Reminders.Items[i].ID == ev.ReminderID {
			m.Reminders.Items[i].LastFiredDate = today
		}
	}
	if err := m.store.Save(context.Background(), storage.CollectionReminders, m.Reminders.Items); err != nil {
		m.fail(err)
		return
	}

	m.Status = StatusBar{Text: fmt.Sprintf("reminder: %s", ev.Label), IsError: false}
	m.notify("Reminder", ev.Label, "info")
}

func (m Model) renderRemindersView() string {
	selectedID := ""
	if rem, ok := m.currentReminder(); ok {
		selectedID = rem.ID
	}
	rows := make([]views.ReminderRowData, 0, len(m.Reminders.Items))
	for _, rem := range m.Reminders.Items {
		rows = append(rows, views.ReminderRowData{
			ID:            rem.ID,
			Label:         rem.Label,
			TimeOfDay:     rem.TimeOfDay,
			Weekdays:      weekdayNames(rem.Weekdays),
			Enabled:       rem.Enabled,
			LastFiredDate: rem.LastFiredDate,
			Acked:         m.Reminders.Ack[rem.ID],
		})
	}
	log := make([]views.ReminderLogData, 0, len(m.Reminders.Log))
	for _, ev := range m.Reminders.Log {
		log = append(log, views.ReminderLogData{
			Label: ev.Label,
			At:    ev.TriggerAt.Format("15:04"),
		})
	}
	return views.RenderRemindersPanel(views.RemindersPanelData{
		Rows:       rows,
		SelectedID: selectedID,
		Log:        log,
	})
}

func weekdayNames(days []time.Weekday) []string {
	if len(days) == 0 {
		return nil
	}
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.String()[:3])
	}
	return out
}
