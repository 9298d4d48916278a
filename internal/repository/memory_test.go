package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

func TestMemoryGameRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores and returns a copy", func(t *testing.T) {
		// Given: an in-memory repository holding a game
		gameRepo := NewMemoryGameRepository()
		game := newPlayedGame(t, "123", 0)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: the caller keeps playing on its own copy
		require.True(t, game.ApplyMove(1))

		// Then: the stored game is unchanged
		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Len(t, stored.History, 2)

		// When: the returned game is modified
		require.True(t, stored.ApplyMove(2))

		// Then: the store still holds its own copy
		again, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Len(t, again.History, 2)
	})

	t.Run("Unknown game", func(t *testing.T) {
		gameRepo := NewMemoryGameRepository()

		_, err := gameRepo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)

		err = gameRepo.DeleteByID(ctx, "missing")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		// Given: a stored game
		gameRepo := NewMemoryGameRepository()
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, entity.NewGame("123")))

		// When: it is deleted
		require.NoError(t, gameRepo.DeleteByID(ctx, "123"))

		// Then: it can no longer be loaded
		_, err := gameRepo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
	t.Run("Update", func(t *testing.T) {
		// Given: a stored game
		gameRepo := NewMemoryGameRepository()
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, entity.NewGame("123")))

		// When: a move is applied and a failing update follows
		game, err := gameRepo.Update(ctx, "123", func(game *entity.Game) (bool, error) {
			return game.ApplyMove(4), nil
		})
		require.NoError(t, err)

		_, err = gameRepo.Update(ctx, "123", func(game *entity.Game) (bool, error) {
			game.Restart()
			return false, apperror.ErrInvalidStep
		})

		// Then: only the successful update is stored
		require.ErrorIs(t, err, apperror.ErrInvalidStep)

		stored, getErr := gameRepo.GetByID(ctx, "123")
		require.NoError(t, getErr)
		assert.Equal(t, game, stored)
		assert.Equal(t, entity.Board{4: entity.PlayerX}, stored.CurrentBoard())

		_, err = gameRepo.Update(ctx, "missing", func(*entity.Game) (bool, error) { return true, nil })
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}
