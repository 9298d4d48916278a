package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, apply repository.UpdateFunc) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager runs every load-apply-save cycle through the repository's atomic Update, so each
// game has a single writer even with several managers sharing one store.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
	}
}

func (that *GameManager) CreateGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString())

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// MakeMove plays cell for the current player. A rejected move returns the game unchanged
// and is not saved.
func (that *GameManager) MakeMove(ctx context.Context, id string, cell int) (*entity.Game, error) {
	var applied bool

	game, err := that.gameRepo.Update(ctx, id, func(game *entity.Game) (bool, error) {
		applied = game.ApplyMove(cell)
		return applied, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	if applied && game.Outcome() != entity.StatusOngoing {
		that.logger.Info("game decided", "gameID", game.ID, "outcome", game.Outcome(), "winner", game.Winner())
	}

	return game, nil
}

func (that *GameManager) JumpTo(ctx context.Context, id string, step int) (*entity.Game, error) {
	game, err := that.gameRepo.Update(ctx, id, func(game *entity.Game) (bool, error) {
		if err := game.JumpTo(step); err != nil {
			return false, err
		}

		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to jump: %w", err)
	}

	return game, nil
}

func (that *GameManager) Restart(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.Update(ctx, id, func(game *entity.Game) (bool, error) {
		game.Restart()
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restart game: %w", err)
	}

	that.logger.Info("game restarted", "gameID", game.ID)

	return game, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}
