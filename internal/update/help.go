package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"inkquest/internal/views"
)

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Dashboard, Action: "switch to Dashboard"},
		{Key: m.Keys.Quests, Action: "switch to Quests"},
		{Key: m.Keys.Timeline, Action: "switch to Timeline"},
		{Key: m.Keys.Journal, Action: "switch to Journal"},
		{Key: m.Keys.Reminders, Action: "switch to Reminders"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewQuests:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "c/enter", Action: "complete (or advance progress)"},
			{Key: "x", Action: "uncomplete"},
			{Key: "+/-", Action: "increment/decrement progress"},
			{Key: "s/S", Action: "skip today / unskip"},
			{Key: "a", Action: "toggle show-all"},
			{Key: "D", Action: "delete quest"},
		}
	case ViewTimeline:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next week"},
			{Key: "t", Action: "back to today"},
		}
	case ViewJournal:
		return []KeyBinding{
			{Key: "i", Action: "edit reflection (esc saves)"},
		}
	case ViewReminders:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "space", Action: "enable/disable"},
			{Key: "a", Action: "acknowledge"},
			{Key: "D", Action: "delete reminder"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
