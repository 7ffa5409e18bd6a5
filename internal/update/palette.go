package update

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"inkquest/internal/commands"
	"inkquest/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette.Active = false
		m.Palette.Input = ""
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add:    m.paletteAdd,
		Done:   m.paletteDone,
		Skip:   m.paletteSkip,
		Energy: m.paletteEnergy,
		Remind: m.paletteRemind,
		Read:   m.paletteRead,
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
		m.notify("Command", res.Message, "info")
	}

	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	return m
}

func (m *Model) paletteAdd(a commands.AddArgs) (commands.Result, error) {
	cadence := model.CadenceDaily
	if a.Cadence != "" {
		parsed, err := model.ParseCadence(a.Cadence)
		if err != nil {
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
		}
		cadence = parsed
	}
	quest := model.Quest{
		Title:          a.Title,
		Cadence:        cadence,
		EnergyRequired: a.Energy,
		TimeSlot:       a.Slot,
		CreatedAt:      m.clock.Now(),
	}
	if a.Target != "" {
		target, err := strconv.Atoi(a.Target)
		if err != nil || target <= 0 {
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid target: %q", a.Target)}
		}
		quest.IsProgressive = true
		quest.ProgressTarget = target
		quest.ProgressUnit = a.Unit
	}
	added, err := m.repo.Add(context.Background(), quest)
	if err != nil {
		return commands.Result{}, err
	}
	m.CurrentView = ViewQuests
	m.refreshQuests()
	return commands.Result{Message: fmt.Sprintf("added %s quest: %s", added.Cadence, added.Title)}, nil
}

func (m *Model) paletteDone(a commands.DoneArgs) (commands.Result, error) {
	quest, ok := m.findQuestByTitle(a.Target)
	if !ok {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no quest matching %q", a.Target)}
	}
	updated, err := m.completion.Complete(context.Background(), quest.ID, m.clock.Today())
	if err != nil {
		return commands.Result{}, err
	}
	m.afterCompletionEvent()
	return commands.Result{Message: fmt.Sprintf("completed: %s (streak %d)", updated.Title, updated.Streak)}, nil
}

func (m *Model) paletteSkip(a commands.SkipArgs) (commands.Result, error) {
	quest, ok := m.findQuestByTitle(a.Target)
	if !ok {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no quest matching %q", a.Target)}
	}
	if _, err := m.completion.Skip(context.Background(), quest.ID, m.clock.Today()); err != nil {
		return commands.Result{}, err
	}
	m.refreshQuests()
	return commands.Result{Message: fmt.Sprintf("skipped for today: %s", quest.Title)}, nil
}

func (m *Model) paletteEnergy(a commands.EnergyArgs) (commands.Result, error) {
	if err := m.recordEnergyCheckIn(a.Level); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: fmt.Sprintf("energy set to %s", m.Settings.TodayEnergy)}, nil
}

func (m *Model) paletteRemind(a commands.RemindArgs) (commands.Result, error) {
	rem := model.Reminder{
		ID:        uuid.NewString(),
		Label:     a.Label,
		TimeOfDay: a.TimeOfDay,
		Enabled:   true,
	}
	if quest, ok := m.findQuestByTitle(a.Label); ok {
		rem.QuestID = quest.ID
	}
	if err := m.addReminder(rem); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: fmt.Sprintf("reminder set for %s: %s", rem.TimeOfDay, rem.Label)}, nil
}

func (m *Model) paletteRead(a commands.ReadArgs) (commands.Result, error) {
	pages, err := strconv.Atoi(a.Pages)
	if err != nil || pages < 0 {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid page count: %q", a.Pages)}
	}
	minutes := 0
	if a.Minutes != "" {
		minutes, err = strconv.Atoi(a.Minutes)
		if err != nil || minutes < 0 {
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid minutes: %q", a.Minutes)}
		}
	}
	if err := m.recordReading(pages, minutes, a.Book); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: fmt.Sprintf("logged %d pages today", pages)}, nil
}
