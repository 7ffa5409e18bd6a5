package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkquest/internal/model"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "inkquest-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoadMissingCollectionLeavesDefault(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	settings := model.DefaultSettings()
	require.NoError(t, store.Load(ctx, CollectionUserSettings, &settings))
	assert.Equal(t, []string{"Energetic", "Average", "Down"}, settings.EnergyCategories)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	book := QuestBook{
		Daily: []model.Quest{{
			ID:        "quest-1",
			Title:     "Morning stretch",
			Cadence:   model.CadenceDaily,
			CreatedAt: time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC),
		}},
	}
	require.NoError(t, store.Save(ctx, CollectionQuests, book))

	var got QuestBook
	require.NoError(t, store.Load(ctx, CollectionQuests, &got))
	require.Len(t, got.Daily, 1)
	assert.Equal(t, "Morning stretch", got.Daily[0].Title)
	assert.Empty(t, got.Weekly)
}

func TestSaveOverwritesLastWriteWins(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	logs := DailyLogBook{"2026-08-03": {Date: "2026-08-03", QuestsCompleted: 2, QuestsTotal: 5}}
	require.NoError(t, store.Save(ctx, CollectionDailyLogs, logs))

	logs["2026-08-03"] = model.DailyLog{Date: "2026-08-03", QuestsCompleted: 3, QuestsTotal: 5}
	require.NoError(t, store.Save(ctx, CollectionDailyLogs, logs))

	got, err := LoadDailyLogs(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 3, got["2026-08-03"].QuestsCompleted)
}
