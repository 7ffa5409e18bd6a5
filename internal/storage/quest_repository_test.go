package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkquest/internal/model"
)

func newQuest(title string, cadence model.Cadence) model.Quest {
	return model.Quest{
		Title:     title,
		Cadence:   cadence,
		CreatedAt: time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC),
	}
}

func TestAddAssignsIDAndPartitions(t *testing.T) {
	repo := NewQuestRepository(setupStore(t))
	ctx := context.Background()

	daily, err := repo.Add(ctx, newQuest("Stretch", model.CadenceDaily))
	require.NoError(t, err)
	assert.NotEmpty(t, daily.ID)

	weekly, err := repo.Add(ctx, newQuest("Deep clean", model.CadenceWeekly))
	require.NoError(t, err)

	book, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, book.Daily, 1)
	assert.Len(t, book.Weekly, 1)
	assert.Equal(t, weekly.ID, book.Weekly[0].ID)
}

func TestAddRejectsInvalidQuest(t *testing.T) {
	repo := NewQuestRepository(setupStore(t))
	_, err := repo.Add(context.Background(), model.Quest{Cadence: model.CadenceDaily})
	assert.Error(t, err)
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	repo := NewQuestRepository(setupStore(t))
	ctx := context.Background()

	_, err := repo.Add(ctx, newQuest("Stretch", model.CadenceDaily))
	require.NoError(t, err)

	ghost := newQuest("Ghost", model.CadenceDaily)
	ghost.ID = "no-such-id"
	require.NoError(t, repo.Update(ctx, ghost))

	book, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, book.Daily, 1)
	assert.Equal(t, "Stretch", book.Daily[0].Title)
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	repo := NewQuestRepository(setupStore(t))
	ctx := context.Background()

	quest, err := repo.Add(ctx, newQuest("Stretch", model.CadenceDaily))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, model.CadenceDaily, "no-such-id"))
	require.NoError(t, repo.Delete(ctx, model.CadenceDaily, quest.ID))

	book, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, book.Daily)
}

func TestFindByIDScansAllPartitions(t *testing.T) {
	repo := NewQuestRepository(setupStore(t))
	ctx := context.Background()

	monthly, err := repo.Add(ctx, newQuest("Budget review", model.CadenceMonthly))
	require.NoError(t, err)

	got, found, err := repo.FindByID(ctx, monthly.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Budget review", got.Title)

	_, found, err = repo.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}
