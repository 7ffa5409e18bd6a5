package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"inkquest/internal/scheduler"
	"inkquest/internal/views"
)

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.Scheduler != nil {
		cmds = append(cmds, waitForReminderCmd(m.Scheduler.C()))
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForReloadCmd(m.watcher.C()))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update delegates to update and then syncs the bubble components on the
// model that is actually returned. Deferring the sync inside a value-receiver
// method would mutate a copy the caller never sees.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		m.ensureState()

		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			next := m.handlePaletteKey(typed)
			return next, nil
		}

		if m.Journal.Editing {
			return m.handleJournalEditKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Dashboard:
			m.CurrentView = ViewDashboard
			m.refreshDashboard()
			return m, nil
		case m.Keys.Quests:
			m.CurrentView = ViewQuests
			m.refreshQuests()
			return m, nil
		case m.Keys.Timeline:
			m.CurrentView = ViewTimeline
			m.refreshTimeline()
			return m, nil
		case m.Keys.Journal:
			m.CurrentView = ViewJournal
			m.refreshJournal()
			return m, nil
		case m.Keys.Reminders:
			m.CurrentView = ViewReminders
			m.refreshReminders()
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewQuests:
			return m.handleQuestsKey(typed), nil
		case ViewTimeline:
			return m.handleTimelineKey(typed), nil
		case ViewJournal:
			return m.handleJournalKey(typed), nil
		case ViewReminders:
			return m.handleRemindersKey(typed), nil
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			m.refreshAll()
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case ReloadMsg:
		m.refreshAll()
		m.Status = StatusBar{Text: "data reloaded", IsError: false}
		if m.watcher != nil {
			return m, waitForReloadCmd(m.watcher.C())
		}
		return m, nil
	case ReminderDueMsg:
		m.onReminderDue(typed.Event)
		if m.Scheduler != nil {
			return m, waitForReminderCmd(m.Scheduler.C())
		}
		return m, nil
	case AcknowledgeReminderMsg:
		if typed.ID != "" {
			m.Reminders.Ack[typed.ID] = true
			m.Status = StatusBar{Text: fmt.Sprintf("reminder acknowledged: %s", typed.ID), IsError: false}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		status = fmt.Sprintf("status: %s", m.Status.Text)
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewDashboard:
		leftPane = m.renderDashboardView()
		rightPane = m.renderInsightsView() + m.renderHelpIfVisible()
	case ViewQuests:
		leftPane = m.renderQuestsView()
		rightPane = m.renderQuestMetadataPane() + m.renderCommandPalette() + m.renderHelpIfVisible()
	case ViewTimeline:
		leftPane = m.renderTimelineView()
		rightPane = m.renderHelpIfVisible()
	case ViewJournal:
		leftPane = m.renderJournalView()
		rightPane = m.renderJournalPreviewPane() + m.renderHelpIfVisible()
	case ViewReminders:
		leftPane = m.renderRemindersView()
		rightPane = m.renderCommandPalette() + m.renderHelpIfVisible()
	}

	notificationView := ""
	if len(m.Reminders.Log) > 0 {
		last := m.Reminders.Log[len(m.Reminders.Log)-1]
		notificationView = fmt.Sprintf("last-reminder: %s @ %s", last.Label, last.TriggerAt.Format("15:04:05"))
	}
	notificationView = strings.TrimSpace(strings.Join([]string{
		notificationView,
		strings.TrimSpace(m.renderNotificationsView()),
	}, "\n"))

	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("inkquest | view: %s | streak: %d", m.CurrentView, m.Dashboard.Streak.Current),
		LeftPane:      leftPane,
		RightPane:     rightPane,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Notification:  notificationView,
		Footer: fmt.Sprintf(
			"keys: %s dash | %s quests | %s timeline | %s journal | %s remind | / cmd | %s help | %s quit",
			m.Keys.Dashboard, m.Keys.Quests, m.Keys.Timeline, m.Keys.Journal, m.Keys.Reminders, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewDashboard, ViewQuests, ViewTimeline, ViewJournal, ViewReminders:
		return true
	default:
		return false
	}
}

func (m *Model) ensureState() {
	if m.Reminders.Ack == nil {
		m.Reminders.Ack = make(map[string]bool)
	}
	if m.Quests.Cursor < 0 {
		m.Quests.Cursor = 0
	}
	if m.Quests.Cursor >= len(m.Quests.Items) && len(m.Quests.Items) > 0 {
		m.Quests.Cursor = len(m.Quests.Items) - 1
	}
	if len(m.Quests.Items) > 0 && m.SelectedQuestID == "" {
		m.syncSelectedQuestToCursor()
	}
}

func (m *Model) refreshAll() {
	m.refreshSettings()
	m.refreshQuests()
	m.refreshDashboard()
	m.refreshTimeline()
	m.refreshJournal()
	m.refreshReminders()
}

func waitForReminderCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

func waitForReloadCmd(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		_, ok := <-ch
		if !ok {
			return nil
		}
		return ReloadMsg{}
	}
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}
