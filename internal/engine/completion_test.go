package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkquest/internal/model"
	"inkquest/internal/storage"
)

var errSaveFailed = errors.New("save failed")

// memStore is an in-memory Store with the same empty-default Load semantics
// as the SQLite implementation.
type memStore struct {
	docs     map[string][]byte
	failSave bool
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string][]byte)}
}

func (s *memStore) Load(_ context.Context, collection string, out any) error {
	body, ok := s.docs[collection]
	if !ok {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (s *memStore) Save(_ context.Context, collection string, doc any) error {
	if s.failSave {
		return errSaveFailed
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.docs[collection] = body
	return nil
}

func seedQuests(t *testing.T, store storage.Store, quests ...model.Quest) {
	t.Helper()
	book := storage.QuestBook{}
	for _, q := range quests {
		part := book.Partition(q.Cadence)
		*part = append(*part, q)
	}
	require.NoError(t, store.Save(context.Background(), storage.CollectionQuests, book))
}

func dailyQuest(id string) model.Quest {
	return model.Quest{
		ID:        id,
		Title:     "Quest " + id,
		Cadence:   model.CadenceDaily,
		CreatedAt: time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC),
	}
}

func progressiveQuest(id string, target int) model.Quest {
	q := dailyQuest(id)
	q.IsProgressive = true
	q.ProgressTarget = target
	q.ProgressUnit = "pages"
	return q
}

func newCompletion(store storage.Store, today string) *Completion {
	return NewCompletion(store, FixedClock{Date: today}, nil)
}

func TestCompleteIsIdempotent(t *testing.T) {
	store := newMemStore()
	seedQuests(t, store, dailyQuest("q1"))
	engine := newCompletion(store, "2026-08-03")
	ctx := context.Background()

	first, err := engine.Complete(ctx, "q1", "2026-08-03")
	require.NoError(t, err)
	second, err := engine.Complete(ctx, "q1", "2026-08-03")
	require.NoError(t, err)

	assert.Equal(t, first.Streak, second.Streak)
	assert.Equal(t, first.CompletionHistory, second.CompletionHistory)
	assert.True(t, second.Completed)
	assert.Equal(t, "2026-08-03", second.CompletedDate)
}

func TestCompleteStreakAccounting(t *testing.T) {
	store := newMemStore()
	seedQuests(t, store, dailyQuest("q1"))
	engine := newCompletion(store, "2026-08-03")
	ctx := context.Background()

	quest, err := engine.Complete(ctx, "q1", "2026-08-01")
	require.NoError(t, err)
	assert.Equal(t, 1, quest.Streak)

	quest, err = engine.Complete(ctx, "q1", "2026-08-02")
	require.NoError(t, err)
	assert.Equal(t, 2, quest.Streak, "consecutive day extends the streak")

	// Gap: 08-02 -> 08-04 resets to 1.
	quest, err = engine.Complete(ctx, "q1", "2026-08-04")
	require.NoError(t, err)
	assert.Equal(t, 1, quest.Streak)
}

func TestCompleteUnknownQuestIsSilentNoOp(t *testing.T) {
	store := newMemStore()
	seedQuests(t, store, dailyQuest("q1"))
	engine := newCompletion(store, "2026-08-03")

	quest, err := engine.Complete(context.Background(), "deleted", "2026-08-03")
	require.NoError(t, err)
	assert.Empty(t, quest.ID)
}

func TestCompleteRejectsMalformedDate(t *testing.T) {
	engine := newCompletion(newMemStore(), "2026-08-03")
	_, err := engine.Complete(context.Background(), "q1", "03/08/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCompleteRecomputesDailyLogAcrossAllQuests(t *testing.T) {
	store := newMemStore()
	other := dailyQuest("q2")
	other.CompletionHistory = map[string]bool{"2026-08-03": true}
	seedQuests(t, store, dailyQuest("q1"), other, dailyQuest("q3"))
	engine := newCompletion(store, "2026-08-03")
	ctx := context.Background()

	_, err := engine.Complete(ctx, "q1", "2026-08-03")
	require.NoError(t, err)

	logs, err := storage.LoadDailyLogs(ctx, store)
	require.NoError(t, err)
	entry := logs["2026-08-03"]
	assert.Equal(t, 3, entry.QuestsTotal)
	assert.Equal(t, 2, entry.QuestsCompleted)
}

func TestGlobalStreakAdvancesOncePerDay(t *testing.T) {
	store := newMemStore()
	seedQuests(t, store, dailyQuest("q1"), dailyQuest("q2"))
	engine := newCompletion(store, "2026-08-03")
	ctx := context.Background()

	_, err := engine.Complete(ctx, "q1", "2026-08-02")
	require.NoError(t, err)
	_, err = engine.Complete(ctx, "q1", "2026-08-03")
	require.NoError(t, err)
	_, err = engine.Complete(ctx, "q2", "2026-08-03")
	require.NoError(t, err)

	settings, err := storage.LoadSettings(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 2, settings.StreakData.Current, "second completion on the same day must not advance")
	assert.Equal(t, 2, settings.StreakData.Longest)
	assert.Equal(t, "2026-08-03", settings.StreakData.LastCompletedDate)
}

func TestUncompleteClearsLegacyProjection(t *testing.T) {
	store := newMemStore()
	seedQuests(t, store, dailyQuest("q1"))
	engine := newCompletion(store, "2026-08-03")
	ctx := context.Background()

	_, err := engine.Complete(ctx, "q1", "2026-08-03")
	require.NoError(t, err)

	quest, err := engine.Uncomplete(ctx, "q1", "2026-08-03")
	require.NoError(t, err)
	assert.False(t, quest.Completed)
	assert.Empty(t, quest.CompletedDate)
	assert.False(t, quest.CompletedOn("2026-08-03"))
	// Streak is intentionally left as-is on undo.
	assert.Equal(t, 1, quest.Streak)

	logs, err := storage.LoadDailyLogs(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 0, logs["2026-08-03"].QuestsCompleted)
}

func TestProgressiveClampAndCompletion(t *testing.T) {
	store := newMemStore()
	quest := progressiveQuest("q1", 3)
	quest.ProgressLastDate = "2026-08-03"
	seedQuests(t, store, quest)
	engine := newCompletion(store, "2026-08-03")
	ctx := context.Background()

	got, err := engine.Decrement(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.ProgressCurrent, "decrement clamps at zero")

	for i := 1; i <= 3; i++ {
		got, err = engine.Increment(ctx, "q1")
		require.NoError(t, err)
		assert.Equal(t, i, got.ProgressCurrent)
	}
	assert.True(t, got.CompletedOn("2026-08-03"), "reaching target completes the quest")

	got, err = engine.Increment(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.ProgressCurrent, "increment clamps at target")

	got, err = engine.Decrement(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.ProgressCurrent)
	assert.False(t, got.CompletedOn("2026-08-03"), "dropping below target uncompletes")
}

func TestProgressiveLazyDailyReset(t *testing.T) {
	store := newMemStore()
	quest := progressiveQuest("q1", 10)
	quest.ProgressCurrent = 3
	quest.ProgressLastDate = "2026-08-02"
	seedQuests(t, store, quest)
	engine := newCompletion(store, "2026-08-03")

	got, err := engine.Increment(context.Background(), "q1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.ProgressCurrent, "stale progress resets before incrementing")
	assert.Equal(t, "2026-08-03", got.ProgressLastDate)
}

func TestSetProgress(t *testing.T) {
	store := newMemStore()
	seedQuests(t, store, progressiveQuest("q1", 10))
	engine := newCompletion(store, "2026-08-03")
	ctx := context.Background()

	_, err := engine.SetProgress(ctx, "q1", -1)
	assert.ErrorIs(t, err, ErrNegativeProgress)

	got, err := engine.SetProgress(ctx, "q1", 15)
	require.NoError(t, err)
	assert.Equal(t, 10, got.ProgressCurrent, "absolute value clamps to target")
	assert.True(t, got.CompletedOn("2026-08-03"))

	got, err = engine.SetProgress(ctx, "q1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, got.ProgressCurrent)
	assert.False(t, got.CompletedOn("2026-08-03"))
}

func TestProgressOpsRejectNonProgressive(t *testing.T) {
	store := newMemStore()
	seedQuests(t, store, dailyQuest("q1"))
	engine := newCompletion(store, "2026-08-03")

	_, err := engine.Increment(context.Background(), "q1")
	assert.ErrorIs(t, err, ErrNotProgressive)
}

func TestSkipAndUnskip(t *testing.T) {
	store := newMemStore()
	seedQuests(t, store, dailyQuest("q1"))
	engine := newCompletion(store, "2026-08-03")
	ctx := context.Background()

	quest, err := engine.Skip(ctx, "q1", "2026-08-03")
	require.NoError(t, err)
	assert.True(t, quest.SkippedOn("2026-08-03"))
	assert.False(t, quest.SkippedOn("2026-08-04"), "skip covers a single day only")
	assert.Empty(t, quest.CompletionHistory)

	quest, err = engine.Unskip(ctx, "q1")
	require.NoError(t, err)
	assert.Empty(t, quest.SkippedDate)
}

func TestStoreWriteFailurePropagates(t *testing.T) {
	store := newMemStore()
	seedQuests(t, store, dailyQuest("q1"))
	store.failSave = true
	engine := newCompletion(store, "2026-08-03")

	_, err := engine.Complete(context.Background(), "q1", "2026-08-03")
	assert.ErrorIs(t, err, errSaveFailed)
}
