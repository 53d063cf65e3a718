package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/lineup"
	"github.com/riskibarqy/season-sim/internal/domain/team"
	lineupmock "github.com/riskibarqy/season-sim/internal/mocks/domain/lineup"
	teammock "github.com/riskibarqy/season-sim/internal/mocks/domain/team"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTeamRepository_CachesLookups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := teammock.NewRepository(t)
	repo := NewTeamRepository(next, time.Minute)

	next.On("List", mock.Anything).Return([]team.Team{{ID: "a"}, {ID: "b"}}, nil).Once()
	next.On("GetByID", mock.Anything, "a").Return(team.Team{ID: "a", Name: "A"}, true, nil).Once()
	next.On("GetByID", mock.Anything, "ghost").Return(team.Team{}, false, nil).Once()

	for i := 0; i < 3; i++ {
		items, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)

		item, ok, err := repo.GetByID(ctx, "a")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "A", item.Name)

		_, ok, err = repo.GetByID(ctx, "ghost")
		require.NoError(t, err)
		require.False(t, ok)
	}

	// callers get their own slice
	items, err := repo.List(ctx)
	require.NoError(t, err)
	items[0].ID = "mutated"
	again, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "a", again[0].ID)
}

func TestLineupRepository_UpsertInvalidates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := lineupmock.NewRepository(t)
	repo := NewLineupRepository(next, time.Minute)

	first := lineup.Lineup{TeamID: "a", Slots: map[lineup.Slot]string{lineup.SlotGoalkeeper: "gk-1"}}
	second := lineup.Lineup{TeamID: "a", Slots: map[lineup.Slot]string{lineup.SlotGoalkeeper: "gk-2"}}

	next.On("GetByTeam", mock.Anything, "a").Return(first, true, nil).Once()
	got, ok, err := repo.GetByTeam(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	got.Slots[lineup.SlotGoalkeeper] = "changed by caller"

	got, _, err = repo.GetByTeam(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "gk-1", got.Slots[lineup.SlotGoalkeeper])

	next.On("Upsert", mock.Anything, second).Return(nil).Once()
	require.NoError(t, repo.Upsert(ctx, second))

	next.On("GetByTeam", mock.Anything, "a").Return(second, true, nil).Once()
	got, _, err = repo.GetByTeam(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "gk-2", got.Slots[lineup.SlotGoalkeeper])
}

func TestLineupRepository_FailedUpsertKeepsEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := lineupmock.NewRepository(t)
	repo := NewLineupRepository(next, time.Minute)
	current := lineup.Lineup{TeamID: "a"}

	next.On("GetByTeam", mock.Anything, "a").Return(current, true, nil).Once()
	next.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("conn reset")).Once()

	_, _, err := repo.GetByTeam(ctx, "a")
	require.NoError(t, err)
	require.Error(t, repo.Upsert(ctx, lineup.Lineup{TeamID: "a"}))
	_, ok, err := repo.GetByTeam(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
}
