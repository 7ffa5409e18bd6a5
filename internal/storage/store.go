package storage

import (
	"context"
	"errors"

	"inkquest/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// Collection names. Each collection is one durable document; writes are
// read-modify-write with last-write-wins semantics.
const (
	CollectionQuests       = "quests"
	CollectionDailyLogs    = "daily_logs"
	CollectionUserSettings = "user_settings"
	CollectionReminders    = "reminders"
)

// Store persists named collections as whole documents. Load leaves out
// untouched when the document does not exist yet, so callers pre-populate out
// with their empty default.
type Store interface {
	Load(ctx context.Context, collection string, out any) error
	Save(ctx context.Context, collection string, doc any) error
}

// QuestBook is the document shape of the quests collection, partitioned by
// cadence.
type QuestBook struct {
	Daily   []model.Quest `json:"daily"`
	Weekly  []model.Quest `json:"weekly"`
	Monthly []model.Quest `json:"monthly"`
}

// All returns every quest across the three partitions, daily first.
func (b QuestBook) All() []model.Quest {
	out := make([]model.Quest, 0, len(b.Daily)+len(b.Weekly)+len(b.Monthly))
	out = append(out, b.Daily...)
	out = append(out, b.Weekly...)
	out = append(out, b.Monthly...)
	return out
}

// Partition returns the slice for a cadence. The returned pointer addresses
// the book's own slice so callers can mutate in place.
func (b *QuestBook) Partition(cadence model.Cadence) *[]model.Quest {
	switch cadence {
	case model.CadenceWeekly:
		return &b.Weekly
	case model.CadenceMonthly:
		return &b.Monthly
	default:
		return &b.Daily
	}
}

// DailyLogBook is the document shape of the daily_logs collection, keyed by
// date string (YYYY-MM-DD). Entries accumulate for the lifetime of the
// install; there is no pruning.
type DailyLogBook map[string]model.DailyLog

// Log returns the entry for a date, creating the lazy default when absent.
func (b DailyLogBook) Log(date string) model.DailyLog {
	if log, ok := b[date]; ok {
		return log
	}
	return model.DailyLog{Date: date}
}

func LoadQuests(ctx context.Context, store Store) (QuestBook, error) {
	var book QuestBook
	if err := store.Load(ctx, CollectionQuests, &book); err != nil {
		return QuestBook{}, err
	}
	return book, nil
}

func LoadDailyLogs(ctx context.Context, store Store) (DailyLogBook, error) {
	logs := make(DailyLogBook)
	if err := store.Load(ctx, CollectionDailyLogs, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func LoadSettings(ctx context.Context, store Store) (model.UserSettings, error) {
	settings := model.DefaultSettings()
	if err := store.Load(ctx, CollectionUserSettings, &settings); err != nil {
		return model.UserSettings{}, err
	}
	if len(settings.EnergyCategories) == 0 {
		settings.EnergyCategories = model.DefaultSettings().EnergyCategories
	}
	if len(settings.TimeSlots) == 0 {
		settings.TimeSlots = model.DefaultSettings().TimeSlots
	}
	return settings, nil
}

func LoadReminders(ctx context.Context, store Store) ([]model.Reminder, error) {
	reminders := make([]model.Reminder, 0)
	if err := store.Load(ctx, CollectionReminders, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}
