package engine

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"inkquest/internal/model"
	"inkquest/internal/storage"
)

var (
	ErrNegativeProgress = errors.New("engine: progress value must not be negative")
	ErrNotProgressive   = errors.New("engine: quest is not progressive")
)

// Completion is the per-quest completion/streak/progress state machine. Every
// operation is a synchronous read-modify-write against the store; a write
// failure is propagated to the caller without retry and the caller reconciles
// by reloading.
//
// Operating on an unknown quest id is a silent no-op (the returned quest has
// an empty ID): repeated taps on a since-deleted quest must not error.
type Completion struct {
	store  storage.Store
	clock  Clock
	logger *zap.Logger
}

func NewCompletion(store storage.Store, clock Clock, logger *zap.Logger) *Completion {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Completion{store: store, clock: clock, logger: logger}
}

// Complete records the quest as done on date. Completing an already-completed
// date is a no-op, not an error.
func (c *Completion) Complete(ctx context.Context, questID, date string) (model.Quest, error) {
	if err := ValidateDate(date); err != nil {
		return model.Quest{}, err
	}
	book, quest, err := c.locate(ctx, questID)
	if err != nil || quest == nil {
		return model.Quest{}, err
	}
	if quest.CompletedOn(date) {
		return *quest, nil
	}
	markComplete(quest, date)
	c.logger.Debug("quest completed",
		zap.String("quest_id", quest.ID),
		zap.String("date", date),
		zap.Int("streak", quest.Streak),
	)
	return c.persist(ctx, book, quest, date, true)
}

// Uncomplete removes the completion for date. The per-quest streak counter is
// deliberately not rolled back; see the daily-log recompute for how displayed
// totals stay consistent.
func (c *Completion) Uncomplete(ctx context.Context, questID, date string) (model.Quest, error) {
	if err := ValidateDate(date); err != nil {
		return model.Quest{}, err
	}
	book, quest, err := c.locate(ctx, questID)
	if err != nil || quest == nil {
		return model.Quest{}, err
	}
	markUncomplete(quest, date)
	return c.persist(ctx, book, quest, date, false)
}

// Increment advances a progressive quest by one unit, completing it when the
// target is reached. Callers compare the returned quest against the previous
// state to detect a fresh completion.
func (c *Completion) Increment(ctx context.Context, questID string) (model.Quest, error) {
	return c.adjustProgress(ctx, questID, +1)
}

// Decrement backs a progressive quest off by one unit, uncompleting it when
// it drops below target after having been complete.
func (c *Completion) Decrement(ctx context.Context, questID string) (model.Quest, error) {
	return c.adjustProgress(ctx, questID, -1)
}

// SetProgress is the absolute variant of Increment/Decrement. Negative
// values are rejected at the boundary.
func (c *Completion) SetProgress(ctx context.Context, questID string, value int) (model.Quest, error) {
	if value < 0 {
		return model.Quest{}, ErrNegativeProgress
	}
	return c.applyProgress(ctx, questID, func(current, target int) int {
		if value > target {
			return target
		}
		return value
	})
}

// Skip hides the quest from today's active list until the date advances.
// Completion history is untouched.
func (c *Completion) Skip(ctx context.Context, questID, date string) (model.Quest, error) {
	if err := ValidateDate(date); err != nil {
		return model.Quest{}, err
	}
	book, quest, err := c.locate(ctx, questID)
	if err != nil || quest == nil {
		return model.Quest{}, err
	}
	quest.SkippedDate = date
	if err := c.store.Save(ctx, storage.CollectionQuests, book); err != nil {
		return model.Quest{}, err
	}
	return *quest, nil
}

func (c *Completion) Unskip(ctx context.Context, questID string) (model.Quest, error) {
	book, quest, err := c.locate(ctx, questID)
	if err != nil || quest == nil {
		return model.Quest{}, err
	}
	quest.SkippedDate = ""
	if err := c.store.Save(ctx, storage.CollectionQuests, book); err != nil {
		return model.Quest{}, err
	}
	return *quest, nil
}

func (c *Completion) adjustProgress(ctx context.Context, questID string, delta int) (model.Quest, error) {
	return c.applyProgress(ctx, questID, func(current, target int) int {
		next := current + delta
		if next < 0 {
			return 0
		}
		if next > target {
			return target
		}
		return next
	})
}

func (c *Completion) applyProgress(ctx context.Context, questID string, next func(current, target int) int) (model.Quest, error) {
	book, quest, err := c.locate(ctx, questID)
	if err != nil || quest == nil {
		return model.Quest{}, err
	}
	if !quest.IsProgressive {
		return model.Quest{}, ErrNotProgressive
	}

	today := c.clock.Today()
	// Lazy daily reset: no background job ever clears progress, so any
	// operation that observes a stale ProgressLastDate resets first.
	if quest.ProgressLastDate != today {
		quest.ProgressCurrent = 0
	}
	wasComplete := quest.CompletedOn(today)
	quest.ProgressCurrent = next(quest.ProgressCurrent, quest.ProgressTarget)
	quest.ProgressLastDate = today

	switch {
	case quest.ProgressCurrent >= quest.ProgressTarget && !wasComplete:
		markComplete(quest, today)
		return c.persist(ctx, book, quest, today, true)
	case quest.ProgressCurrent < quest.ProgressTarget && wasComplete:
		markUncomplete(quest, today)
		return c.persist(ctx, book, quest, today, false)
	default:
		if err := c.store.Save(ctx, storage.CollectionQuests, book); err != nil {
			return model.Quest{}, err
		}
		return *quest, nil
	}
}

func (c *Completion) locate(ctx context.Context, questID string) (*storage.QuestBook, *model.Quest, error) {
	book, err := storage.LoadQuests(ctx, c.store)
	if err != nil {
		return nil, nil, err
	}
	for _, part := range []*[]model.Quest{&book.Daily, &book.Weekly, &book.Monthly} {
		for i := range *part {
			if (*part)[i].ID == questID {
				return &book, &(*part)[i], nil
			}
		}
	}
	return &book, nil, nil
}

// persist writes the mutated quest book, recomputes the daily log snapshot
// for date from the full collection, and (for completions) advances the
// global streak. Saves are sequential; a failure leaves earlier collections
// written, which the recompute-on-next-event semantics tolerate.
func (c *Completion) persist(ctx context.Context, book *storage.QuestBook, quest *model.Quest, date string, completion bool) (model.Quest, error) {
	if err := c.store.Save(ctx, storage.CollectionQuests, book); err != nil {
		return model.Quest{}, err
	}
	if err := c.recomputeDailyLog(ctx, book, date); err != nil {
		return model.Quest{}, err
	}
	if completion {
		if err := c.advanceGlobalStreak(ctx, date); err != nil {
			return model.Quest{}, err
		}
	}
	return *quest, nil
}

// recomputeDailyLog rebuilds the total/completed snapshot for date by
// scanning every quest. O(total quests) per event, accepted at this scale;
// re-running it is idempotent.
func (c *Completion) recomputeDailyLog(ctx context.Context, book *storage.QuestBook, date string) error {
	logs, err := storage.LoadDailyLogs(ctx, c.store)
	if err != nil {
		return err
	}
	entry := logs.Log(date)
	entry.QuestsTotal = 0
	entry.QuestsCompleted = 0
	for _, q := range book.All() {
		entry.QuestsTotal++
		if q.CompletedOn(date) {
			entry.QuestsCompleted++
		}
	}
	logs[date] = entry
	return c.store.Save(ctx, storage.CollectionDailyLogs, logs)
}

// advanceGlobalStreak applies the consecutive-day rule to the cross-quest
// streak, gated so a day full of completions only counts once.
func (c *Completion) advanceGlobalStreak(ctx context.Context, date string) error {
	settings, err := storage.LoadSettings(ctx, c.store)
	if err != nil {
		return err
	}
	sd := settings.StreakData
	if sd.LastCompletedDate == date {
		return nil
	}
	if sd.LastCompletedDate == AddDays(date, -1) {
		sd.Current++
	} else {
		sd.Current = 1
	}
	if sd.Current > sd.Longest {
		sd.Longest = sd.Current
	}
	sd.LastCompletedDate = date
	settings.StreakData = sd
	return c.store.Save(ctx, storage.CollectionUserSettings, settings)
}

func markComplete(quest *model.Quest, date string) {
	if quest.CompletionHistory == nil {
		quest.CompletionHistory = make(map[string]bool)
	}
	quest.CompletionHistory[date] = true
	switch {
	case quest.CompletedDate == AddDays(date, -1):
		quest.Streak++
	case quest.CompletedDate != date:
		quest.Streak = 1
	}
	quest.Completed = true
	quest.CompletedDate = date
}

func markUncomplete(quest *model.Quest, date string) {
	delete(quest.CompletionHistory, date)
	if quest.CompletedDate == date {
		quest.Completed = false
		quest.CompletedDate = ""
	}
}
