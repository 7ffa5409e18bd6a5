package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"inkquest/internal/model"
)

// QuestRepository provides CRUD and queries over the quests collection.
// Updates and deletes of unknown ids are silent no-ops: repeated taps on a
// since-deleted quest must never surface an error to the screen.
type QuestRepository struct {
	store Store
}

func NewQuestRepository(store Store) *QuestRepository {
	return &QuestRepository{store: store}
}

// Add assigns an id when the quest does not carry one, validates, and appends
// the quest to its cadence partition.
func (r *QuestRepository) Add(ctx context.Context, quest model.Quest) (model.Quest, error) {
	if quest.ID == "" {
		quest.ID = uuid.NewString()
	}
	if err := quest.Validate(); err != nil {
		return model.Quest{}, err
	}
	book, err := LoadQuests(ctx, r.store)
	if err != nil {
		return model.Quest{}, err
	}
	part := book.Partition(quest.Cadence)
	*part = append(*part, quest)
	if err := r.store.Save(ctx, CollectionQuests, book); err != nil {
		return model.Quest{}, fmt.Errorf("add quest: %w", err)
	}
	return quest, nil
}

// Update replaces the stored quest with the same id inside its cadence
// partition. Cadence is immutable, so the partition is taken from the quest.
func (r *QuestRepository) Update(ctx context.Context, quest model.Quest) error {
	if err := quest.Validate(); err != nil {
		return err
	}
	book, err := LoadQuests(ctx, r.store)
	if err != nil {
		return err
	}
	part := book.Partition(quest.Cadence)
	replaced := false
	for i := range *part {
		if (*part)[i].ID == quest.ID {
			(*part)[i] = quest
			replaced = true
			break
		}
	}
	if !replaced {
		return nil
	}
	return r.store.Save(ctx, CollectionQuests, book)
}

func (r *QuestRepository) Delete(ctx context.Context, cadence model.Cadence, id string) error {
	book, err := LoadQuests(ctx, r.store)
	if err != nil {
		return err
	}
	part := book.Partition(cadence)
	kept := (*part)[:0]
	removed := false
	for _, q := range *part {
		if q.ID == id {
			removed = true
			continue
		}
		kept = append(kept, q)
	}
	if !removed {
		return nil
	}
	*part = kept
	return r.store.Save(ctx, CollectionQuests, book)
}

func (r *QuestRepository) ListAll(ctx context.Context) (QuestBook, error) {
	return LoadQuests(ctx, r.store)
}

func (r *QuestRepository) List(ctx context.Context, cadence model.Cadence) ([]model.Quest, error) {
	book, err := LoadQuests(ctx, r.store)
	if err != nil {
		return nil, err
	}
	return *book.Partition(cadence), nil
}

// FindByID scans all three partitions; most callers do not know the cadence
// up front. Linear scan is fine at the expected scale (tens of quests).
func (r *QuestRepository) FindByID(ctx context.Context, id string) (model.Quest, bool, error) {
	book, err := LoadQuests(ctx, r.store)
	if err != nil {
		return model.Quest{}, false, err
	}
	for _, q := range book.All() {
		if q.ID == id {
			return q, true, nil
		}
	}
	return model.Quest{}, false, nil
}
