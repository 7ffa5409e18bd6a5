package views

import (
	"fmt"
	"strings"
)

type QuestRowData struct {
	ID        string
	Title     string
	Cadence   string
	Energy    string
	TimeSlot  string
	Category  string
	Streak    int
	Progress  string
	Completed bool
	Skipped   bool
}

type QuestsPanelData struct {
	ListView    string
	Rows        []QuestRowData
	SelectedID  string
	HiddenCount int
	Energy      string
	ShowAll     bool
}

type QuestMetadataData struct {
	Row          QuestRowData
	ProgressView string
	ProgressPct  int
}

type HeatmapDayData struct {
	Date  string
	Count int
	Level string
}

type DashboardPanelData struct {
	Today         string
	Energy        string
	StreakCurrent int
	StreakLongest int
	Heatmap       []HeatmapDayData
	ThresholdLow  int
	ThresholdMid  int
	ThresholdHigh int
	WeekCompleted int
	WeekTotal     int
	WeekRate      int
	BestDay       string
	BestDayRate   int
}

type InsightData struct {
	Kind    string
	Message string
}

type MoodDayData struct {
	Date  string
	Slots []string
}

type TimelinePanelData struct {
	TableView string
	EndDate   string
	SlotNames []string
	Days      []MoodDayData
}

type ReadingData struct {
	PagesRead        int
	TimeSpentMinutes int
	BookTitle        string
}

type CheckInData struct {
	Hour     int
	Energy   string
	TimeSlot string
}

type JournalPanelData struct {
	Date       string
	EditorView string
	Editing    bool
	Reading    *ReadingData
	CheckIns   []CheckInData
}

type ReminderRowData struct {
	ID            string
	Label         string
	TimeOfDay     string
	Weekdays      []string
	Enabled       bool
	LastFiredDate string
	Acked         bool
}

type ReminderLogData struct {
	Label string
	At    string
}

type RemindersPanelData struct {
	Rows       []ReminderRowData
	SelectedID string
	Log        []ReminderLogData
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderQuestsPanel(data QuestsPanelData) string {
	var b strings.Builder
	b.WriteString("quests:\n")
	if data.ShowAll {
		b.WriteString("filter: all\n")
	} else if data.Energy != "" {
		b.WriteString(fmt.Sprintf("filter: energy=%s (%d hidden)\n", data.Energy, data.HiddenCount))
	} else {
		b.WriteString(fmt.Sprintf("filter: no check-in yet (%d hidden)\n", data.HiddenCount))
	}
	b.WriteString("actions: [c]done [x]undo [+/-]progress [s]skip [a]all\n")
	b.WriteString(data.ListView + "\n")

	if len(data.Rows) == 0 {
		b.WriteString("(no quests; /add one)")
		return strings.TrimSpace(b.String())
	}
	for _, row := range data.Rows {
		cursor := " "
		if data.SelectedID == row.ID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s", cursor, questBadge(row), row.Title))
		if row.Progress != "" {
			b.WriteString(" " + row.Progress)
		}
		if row.Streak > 1 {
			b.WriteString(fmt.Sprintf(" (streak %d)", row.Streak))
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func questBadge(row QuestRowData) string {
	switch {
	case row.Skipped:
		return "[SKIP]"
	case row.Completed:
		return "[DONE]"
	default:
		return "[    ]"
	}
}

func RenderQuestMetadataPane(data QuestMetadataData) string {
	var b strings.Builder
	b.WriteString("metadata:\n")
	b.WriteString(fmt.Sprintf("id: %s\n", data.Row.ID))
	b.WriteString(fmt.Sprintf("cadence: %s\n", data.Row.Cadence))
	if data.Row.Energy != "" {
		b.WriteString(fmt.Sprintf("energy: %s\n", data.Row.Energy))
	}
	if data.Row.TimeSlot != "" {
		b.WriteString(fmt.Sprintf("slot: %s\n", data.Row.TimeSlot))
	}
	if data.Row.Category != "" {
		b.WriteString(fmt.Sprintf("category: %s\n", data.Row.Category))
	}
	b.WriteString(fmt.Sprintf("streak: %d\n", data.Row.Streak))
	if data.Row.Progress != "" {
		b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	}
	return strings.TrimSpace(b.String())
}

func RenderDashboardPanel(data DashboardPanelData) string {
	var b strings.Builder
	b.WriteString("dashboard:\n")
	b.WriteString(fmt.Sprintf("today: %s", data.Today))
	if data.Energy != "" {
		b.WriteString(fmt.Sprintf(" | energy: %s", data.Energy))
	} else {
		b.WriteString(" | energy: (no check-in)")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("streak: %d (longest %d)\n", data.StreakCurrent, data.StreakLongest))

	b.WriteString("\nheatmap:\n")
	b.WriteString(renderHeatmapGrid(data.Heatmap))
	b.WriteString(fmt.Sprintf("legend: . none | - <=%d | = <=%d | # >%d\n",
		data.ThresholdLow, data.ThresholdMid, data.ThresholdMid))

	b.WriteString("\nweek:\n")
	b.WriteString(fmt.Sprintf("completed: %d/%d (%d%%)\n", data.WeekCompleted, data.WeekTotal, data.WeekRate))
	if data.BestDay != "" {
		b.WriteString(fmt.Sprintf("best day: %s (%d%%)\n", data.BestDay, data.BestDayRate))
	}
	return strings.TrimSpace(b.String())
}

// renderHeatmapGrid prints one row of symbols per week, oldest week first.
func renderHeatmapGrid(days []HeatmapDayData) string {
	var b strings.Builder
	for i, day := range days {
		b.WriteString(heatSymbol(day.Level))
		if (i+1)%7 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	out := b.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

func heatSymbol(level string) string {
	switch level {
	case "low":
		return "-"
	case "mid":
		return "="
	case "high":
		return "#"
	default:
		return "."
	}
}

func RenderInsightsPanel(insights []InsightData) string {
	var b strings.Builder
	b.WriteString("insights:\n")
	if len(insights) == 0 {
		b.WriteString("(nothing notable yet)")
		return b.String()
	}
	for _, insight := range insights {
		b.WriteString(fmt.Sprintf("- [%s] %s\n", insight.Kind, insight.Message))
	}
	return strings.TrimSpace(b.String())
}

func RenderTimelinePanel(data TimelinePanelData) string {
	var b strings.Builder
	b.WriteString("timeline:\n")
	b.WriteString(fmt.Sprintf("week ending: %s\n", data.EndDate))
	b.WriteString("actions: [h/l]week [t]today\n")
	b.WriteString(data.TableView + "\n")

	for _, day := range data.Days {
		b.WriteString(fmt.Sprintf("\n%s:", day.Date))
		empty := true
		for i, slot := range day.Slots {
			if slot == "" {
				continue
			}
			name := ""
			if i < len(data.SlotNames) {
				name = data.SlotNames[i]
			}
			b.WriteString(fmt.Sprintf(" %s=%s", name, slot))
			empty = false
		}
		if empty {
			b.WriteString(" (no check-ins)")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderJournalPanel(data JournalPanelData) string {
	var b strings.Builder
	b.WriteString("journal:\n")
	b.WriteString(fmt.Sprintf("date: %s\n", data.Date))
	if data.Editing {
		b.WriteString("mode: editing (esc saves)\n")
	} else {
		b.WriteString("actions: [i]edit reflection | /energy | /read\n")
	}
	b.WriteString("\nreflection:\n")
	b.WriteString(data.EditorView + "\n")

	if data.Reading != nil {
		b.WriteString("\nreading:\n")
		b.WriteString(fmt.Sprintf("%d pages, %d min", data.Reading.PagesRead, data.Reading.TimeSpentMinutes))
		if data.Reading.BookTitle != "" {
			b.WriteString(" | " + data.Reading.BookTitle)
		}
		b.WriteString("\n")
	}
	if len(data.CheckIns) > 0 {
		b.WriteString("\ncheck-ins:\n")
		for _, check := range data.CheckIns {
			b.WriteString(fmt.Sprintf("- %02d:00 %s", check.Hour, check.Energy))
			if check.TimeSlot != "" {
				b.WriteString(" (" + check.TimeSlot + ")")
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderRemindersPanel(data RemindersPanelData) string {
	var b strings.Builder
	b.WriteString("reminders:\n")
	b.WriteString("actions: [j/k]move [space]toggle [a]ack [D]delete | /remind\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no reminders; /remind 21:00 evening check-in)")
		return b.String()
	}
	for _, row := range data.Rows {
		cursor := " "
		if data.SelectedID == row.ID {
			cursor = ">"
		}
		state := "off"
		if row.Enabled {
			state = "on "
		}
		b.WriteString(fmt.Sprintf("%s [%s] %s %s", cursor, state, row.TimeOfDay, row.Label))
		if len(row.Weekdays) > 0 {
			b.WriteString(" (" + strings.Join(row.Weekdays, ",") + ")")
		}
		if row.LastFiredDate != "" {
			b.WriteString(" last:" + row.LastFiredDate)
		}
		if row.Acked {
			b.WriteString(" [ack]")
		}
		b.WriteString("\n")
	}
	if len(data.Log) > 0 {
		b.WriteString("\nfired:\n")
		for _, ev := range data.Log {
			b.WriteString(fmt.Sprintf("- %s %s\n", ev.At, ev.Label))
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("\nnotification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
