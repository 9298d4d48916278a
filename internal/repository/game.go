package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

const (
	gameKeyPrefix = "game:"

	// every retry follows a committed write, and a game takes at most nine of those
	maxUpdateRetries = 16
)

// UpdateFunc mutates a loaded game and reports whether it changed. Unchanged games are not written.
type UpdateFunc func(game *entity.Game) (bool, error)

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	// Update runs load-apply-save atomically, so a game has one writer even across processes.
	Update(ctx context.Context, id string, apply UpdateFunc) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbGame struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameRepository stores games as JSON in Redis. A zero ttl keeps games forever.
func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &dbGame{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	err = that.client.Set(ctx, gameKeyPrefix+game.ID, gameJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	return decodeGame(id, that.client.Get(ctx, gameKeyPrefix+id))
}

// Update watches the game key and commits with MULTI/EXEC. A write by anyone else between the
// load and the commit aborts the transaction and the cycle starts over on the fresh game.
func (that *dbGame) Update(ctx context.Context, id string, apply UpdateFunc) (*entity.Game, error) {
	key := gameKeyPrefix + id

	for range maxUpdateRetries {
		var game *entity.Game

		err := that.client.Watch(ctx, func(tx *redis.Tx) error {
			loaded, err := decodeGame(id, tx.Get(ctx, key))
			if err != nil {
				return err
			}

			changed, err := apply(loaded)
			if err != nil {
				return err
			}

			game = loaded
			if !changed {
				return nil
			}

			gameJSON, err := json.Marshal(loaded)
			if err != nil {
				return fmt.Errorf("could not marshal game: %w", err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, gameJSON, that.ttl)
				return nil
			})

			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return nil, err
		}

		return game, nil
	}

	return nil, fmt.Errorf("%w: game %s", apperror.ErrGameConflict, id)
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, gameKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game by ID: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrGameNotFound
	}

	return nil
}

func decodeGame(id string, cmd *redis.StringCmd) (*entity.Game, error) {
	response, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal(response, &existingGame); err != nil {
		return nil, fmt.Errorf("stored game %s: %w: %w", id, apperror.ErrCorruptedGame, err)
	}

	if err = existingGame.Validate(); err != nil {
		return nil, fmt.Errorf("stored game %s: %w", id, err)
	}

	return &existingGame, nil
}
