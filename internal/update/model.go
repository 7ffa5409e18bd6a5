package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"go.uber.org/zap"

	"inkquest/internal/engine"
	"inkquest/internal/model"
	"inkquest/internal/scheduler"
	"inkquest/internal/storage"
)

type View string

const (
	ViewDashboard View = "Dashboard"
	ViewQuests    View = "Quests"
	ViewTimeline  View = "Timeline"
	ViewJournal   View = "Journal"
	ViewReminders View = "Reminders"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Dashboard string
	Quests    string
	Timeline  string
	Journal   string
	Reminders string
	Help      string
	Quit      string
}

type QuestsState struct {
	Items       []model.Quest
	Cursor      int
	ShowAll     bool
	HiddenCount int
}

type DashboardState struct {
	Today       string
	TodayEnergy string
	Streak      model.StreakData
	Heatmap     []engine.HeatmapDay
	Thresholds  engine.HeatmapThresholds
	Week        engine.WeeklyStats
	Insights    []engine.Insight
}

type TimelineState struct {
	EndDate string
	Days    []engine.MoodDay
}

type JournalState struct {
	Date    string
	Editing bool
	Entry   model.DailyLog
}

type RemindersState struct {
	Items  []model.Reminder
	Cursor int
	Log    []scheduler.Event
	Ack    map[string]bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// ReloadMsg is emitted when the watcher sees the data file change under us,
// typically the e-reader host syncing reading stats.
type ReloadMsg struct{}

type ReminderDueMsg struct {
	Event scheduler.Event
}

type AcknowledgeReminderMsg struct {
	ID string
}

// Deps are the collaborators the TUI drives. Everything stateful lives behind
// them; the Model itself only caches what the current frame renders.
type Deps struct {
	Store      storage.Store
	Repository *storage.QuestRepository
	Completion *engine.Completion
	Clock      engine.Clock
	Scheduler  *scheduler.Engine
	Watcher    *Watcher
	Notifier   DesktopNotifier
	Logger     *zap.Logger
}

type Model struct {
	CurrentView     View
	SelectedQuestID string
	Quests          QuestsState
	Dashboard       DashboardState
	Timeline        TimelineState
	Journal         JournalState
	Reminders       RemindersState
	Settings        model.UserSettings
	Palette         CommandPaletteState
	HelpVisible     bool
	Notifications   []Notification
	DesktopEnabled  bool
	Status          StatusBar
	Keys            GlobalKeyMap
	Quitting        bool
	LastError       error

	store      storage.Store
	repo       *storage.QuestRepository
	completion *engine.Completion
	clock      engine.Clock
	Scheduler  *scheduler.Engine
	watcher    *Watcher
	notifier   DesktopNotifier
	logger     *zap.Logger

	heatmapWeeks int

	// Bubble components used for rich TUI controls
	questList       list.Model
	timelineTable   table.Model
	commandInput    textinput.Model
	reflectionArea  textarea.Model
	previewViewport viewport.Model
	questProgress   progress.Model
	helpModel       help.Model
}

func NewModel(deps Deps) Model {
	return NewModelWithConfig(deps, DefaultRuntimeConfig())
}

func NewModelWithConfig(deps Deps, cfg RuntimeConfig) Model {
	if deps.Clock == nil {
		deps.Clock = engine.SystemClock{}
	}
	if deps.Notifier == nil {
		deps.Notifier = NoopDesktopNotifier{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	m := Model{
		CurrentView: ViewDashboard,
		Settings:    model.DefaultSettings(),
		Reminders: RemindersState{
			Ack: make(map[string]bool),
		},
		DesktopEnabled: cfg.DesktopNotifications,
		Keys: GlobalKeyMap{
			Dashboard: "1",
			Quests:    "2",
			Timeline:  "3",
			Journal:   "4",
			Reminders: "5",
			Help:      "?",
			Quit:      "q",
		},
		store:        deps.Store,
		repo:         deps.Repository,
		completion:   deps.Completion,
		clock:        deps.Clock,
		Scheduler:    deps.Scheduler,
		watcher:      deps.Watcher,
		notifier:     deps.Notifier,
		logger:       deps.Logger,
		heatmapWeeks: cfg.HeatmapWeeks,
	}
	if m.heatmapWeeks <= 0 {
		m.heatmapWeeks = DefaultRuntimeConfig().HeatmapWeeks
	}
	m.initBubbleComponents()
	m.refreshAll()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.questList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.questList.Title = "Quests (list)"
	m.questList.SetShowHelp(false)
	m.questList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Date", Width: 12},
	}
	m.timelineTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.reflectionArea = textarea.New()
	m.reflectionArea.SetWidth(54)
	m.reflectionArea.SetHeight(8)
	m.reflectionArea.ShowLineNumbers = false
	m.reflectionArea.Placeholder = "How did today go? (markdown)"

	m.questProgress = progress.New(progress.WithDefaultGradient())

	m.helpModel = help.New()
	m.previewViewport = viewport.New(54, 12)
}

func (m *Model) syncBubbleData() {
	items := make([]list.Item, 0, len(m.Quests.Items))
	today := m.clock.Today()
	for _, q := range m.Quests.Items {
		desc := string(q.Cadence)
		if q.EnergyRequired != "" {
			desc += " | " + q.EnergyRequired
		}
		if q.CompletedOn(today) {
			desc += " | done"
		}
		items = append(items, listItem{title: q.Title, description: desc})
	}
	m.questList.SetItems(items)
	if len(items) > 0 {
		m.questList.Select(m.Quests.Cursor)
	}

	m.rebuildTimelineTable()

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}

	if !m.Journal.Editing {
		m.reflectionArea.SetValue(m.Journal.Entry.Reflection)
	}
	md := m.Journal.Entry.Reflection
	if strings.TrimSpace(md) == "" {
		md = "_No reflection yet_"
	}
	m.previewViewport.SetContent(renderMarkdownPreview(md))
}

func (m *Model) rebuildTimelineTable() {
	cols := make([]table.Column, 0, 1+len(m.Settings.TimeSlots))
	cols = append(cols, table.Column{Title: "Date", Width: 12})
	for _, slot := range m.Settings.TimeSlots {
		cols = append(cols, table.Column{Title: slot, Width: 11})
	}
	rows := make([]table.Row, 0, len(m.Timeline.Days))
	for _, day := range m.Timeline.Days {
		row := make(table.Row, 0, len(cols))
		row = append(row, day.Date)
		for i := range m.Settings.TimeSlots {
			cell := "-"
			if i < len(day.Slots) && day.Slots[i] != "" {
				cell = day.Slots[i]
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	m.timelineTable = table.New(table.WithColumns(cols), table.WithRows(rows), table.WithFocused(true), table.WithHeight(10))
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		_ = m.notifier.Send(n)
	}
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.logger.Error("operation failed", zap.Error(err))
}
