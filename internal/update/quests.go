package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"inkquest/internal/engine"
	"inkquest/internal/model"
	"inkquest/internal/storage"
	"inkquest/internal/views"
)

// refreshQuests reloads the quest collection and applies the energy filter for
// today, unless the user toggled show-all.
func (m *Model) refreshQuests() {
	ctx := context.Background()
	book, err := m.repo.ListAll(ctx)
	if err != nil {
		m.fail(err)
		return
	}
	all := book.All()
	today := m.clock.Today()
	if m.Quests.ShowAll {
		m.Quests.Items = all
		m.Quests.HiddenCount = 0
	} else {
		visible := engine.FilterByEnergy(all, m.Settings, m.Settings.CurrentEnergy(today), today)
		m.Quests.Items = visible
		m.Quests.HiddenCount = len(all) - len(visible)
	}
	if m.Quests.Cursor >= len(m.Quests.Items) {
		m.Quests.Cursor = 0
	}
	m.syncSelectedQuestToCursor()
}

func (m *Model) refreshSettings() {
	settings, err := storage.LoadSettings(context.Background(), m.store)
	if err != nil {
		m.fail(err)
		return
	}
	m.Settings = settings
}

func (m Model) handleQuestsKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.Quests.Cursor > 0 {
			m.Quests.Cursor--
		}
		m.syncSelectedQuestToCursor()
	case "down", "j":
		if m.Quests.Cursor < len(m.Quests.Items)-1 {
			m.Quests.Cursor++
		}
		m.syncSelectedQuestToCursor()
	case "c", "enter":
		m.completeSelected()
	case "x":
		m.uncompleteSelected()
	case "+", "=":
		m.incrementSelected()
	case "-":
		m.decrementSelected()
	case "s":
		m.skipSelected()
	case "S":
		m.unskipSelected()
	case "a":
		m.Quests.ShowAll = !m.Quests.ShowAll
		m.refreshQuests()
		if m.Quests.ShowAll {
			m.Status = StatusBar{Text: "showing all quests", IsError: false}
		} else {
			m.Status = StatusBar{Text: "showing quests for current energy", IsError: false}
		}
	case "D":
		m.deleteSelected()
	}
	return m
}

func (m *Model) syncSelectedQuestToCursor() {
	if q, ok := m.currentQuest(); ok {
		m.SelectedQuestID = q.ID
	}
}

func (m Model) currentQuest() (model.Quest, bool) {
	if len(m.Quests.Items) == 0 {
		return model.Quest{}, false
	}
	if m.Quests.Cursor < 0 || m.Quests.Cursor >= len(m.Quests.Items) {
		return model.Quest{}, false
	}
	return m.Quests.Items[m.Quests.Cursor], true
}

func (m *Model) completeSelected() {
	quest, ok := m.currentQuest()
	if !ok {
		return
	}
	if quest.IsProgressive {
		m.incrementSelected()
		return
	}
	updated, err := m.completion.Complete(context.Background(), quest.ID, m.clock.Today())
	if err != nil {
		m.fail(err)
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("completed: %s (streak %d)", updated.Title, updated.Streak), IsError: false}
	m.afterCompletionEvent()
}

func (m *Model) uncompleteSelected() {
	quest, ok := m.currentQuest()
	if !ok {
		return
	}
	if _, err := m.completion.Uncomplete(context.Background(), quest.ID, m.clock.Today()); err != nil {
		m.fail(err)
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("uncompleted: %s", quest.Title), IsError: false}
	m.afterCompletionEvent()
}

func (m *Model) incrementSelected() {
	quest, ok := m.currentQuest()
	if !ok {
		return
	}
	updated, err := m.completion.Increment(context.Background(), quest.ID)
	if err != nil {
		m.fail(err)
		return
	}
	m.Status = StatusBar{
		Text:    fmt.Sprintf("%s: %d/%d %s", updated.Title, updated.ProgressCurrent, updated.ProgressTarget, updated.ProgressUnit),
		IsError: false,
	}
	m.afterCompletionEvent()
}

func (m *Model) decrementSelected() {
	quest, ok := m.currentQuest()
	if !ok {
		return
	}
	updated, err := m.completion.Decrement(context.Background(), quest.ID)
	if err != nil {
		m.fail(err)
		return
	}
	m.Status = StatusBar{
		Text:    fmt.Sprintf("%s: %d/%d %s", updated.Title, updated.ProgressCurrent, updated.ProgressTarget, updated.ProgressUnit),
		IsError: false,
	}
	m.afterCompletionEvent()
}

func (m *Model) skipSelected() {
	quest, ok := m.currentQuest()
	if !ok {
		return
	}
	if _, err := m.completion.Skip(context.Background(), quest.ID, m.clock.Today()); err != nil {
		m.fail(err)
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("skipped for today: %s", quest.Title), IsError: false}
	m.refreshQuests()
}

func (m *Model) unskipSelected() {
	quest, ok := m.currentQuest()
	if !ok {
		return
	}
	if _, err := m.completion.Unskip(context.Background(), quest.ID); err != nil {
		m.fail(err)
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("unskipped: %s", quest.Title), IsError: false}
	m.refreshQuests()
}

func (m *Model) deleteSelected() {
	quest, ok := m.currentQuest()
	if !ok {
		return
	}
	if err := m.repo.Delete(context.Background(), quest.Cadence, quest.ID); err != nil {
		m.fail(err)
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", quest.Title), IsError: false}
	m.SelectedQuestID = ""
	m.refreshQuests()
}

// afterCompletionEvent refreshes every surface that renders completion data.
func (m *Model) afterCompletionEvent() {
	m.refreshSettings()
	m.refreshQuests()
	m.refreshDashboard()
}

// findQuestByTitle resolves a palette target against visible quests first,
// then the full collection, matching case-insensitively on title prefix.
func (m Model) findQuestByTitle(target string) (model.Quest, bool) {
	needle := strings.ToLower(strings.TrimSpace(target))
	if needle == "" {
		return model.Quest{}, false
	}
	match := func(quests []model.Quest) (model.Quest, bool) {
		for _, q := range quests {
			if strings.HasPrefix(strings.ToLower(q.Title), needle) {
				return q, true
			}
		}
		return model.Quest{}, false
	}
	if q, ok := match(m.Quests.Items); ok {
		return q, true
	}
	book, err := m.repo.ListAll(context.Background())
	if err != nil {
		return model.Quest{}, false
	}
	return match(book.All())
}

func (m Model) renderQuestsView() string {
	today := m.clock.Today()
	rows := make([]views.QuestRowData, 0, len(m.Quests.Items))
	for _, q := range m.Quests.Items {
		rows = append(rows, questRowData(q, today))
	}
	return views.RenderQuestsPanel(views.QuestsPanelData{
		ListView:    m.questList.View(),
		Rows:        rows,
		SelectedID:  m.SelectedQuestID,
		HiddenCount: m.Quests.HiddenCount,
		Energy:      m.Settings.CurrentEnergy(today),
		ShowAll:     m.Quests.ShowAll,
	})
}

func (m Model) renderQuestMetadataPane() string {
	quest, ok := m.currentQuest()
	if !ok {
		return "metadata:\n(no selection)"
	}
	progressView := ""
	pct := 0
	if quest.IsProgressive && quest.ProgressTarget > 0 {
		ratio := float64(quest.ProgressCurrent) / float64(quest.ProgressTarget)
		if ratio > 1 {
			ratio = 1
		}
		progressView = m.questProgress.ViewAs(ratio)
		pct = int(ratio * 100)
	}
	return views.RenderQuestMetadataPane(views.QuestMetadataData{
		Row:          questRowData(quest, m.clock.Today()),
		ProgressView: progressView,
		ProgressPct:  pct,
	})
}

func questRowData(q model.Quest, today string) views.QuestRowData {
	progress := ""
	if q.IsProgressive {
		progress = fmt.Sprintf("%d/%d %s", q.ProgressCurrent, q.ProgressTarget, q.ProgressUnit)
	}
	return views.QuestRowData{
		ID:        q.ID,
		Title:     q.Title,
		Cadence:   string(q.Cadence),
		Energy:    q.EnergyRequired,
		TimeSlot:  q.TimeSlot,
		Category:  q.Category,
		Streak:    q.Streak,
		Progress:  progress,
		Completed: q.CompletedOn(today),
		Skipped:   q.SkippedOn(today),
	}
}
