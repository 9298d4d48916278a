package websocket

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
)

var (
	errGameIDRequired = errors.New("game_id is required")
	errCellRequired   = errors.New("cell is required")
	errStepRequired   = errors.New("step is required")
)

func (that *Server) handleNewGame(ctx context.Context, _ *RequestPayload) (*ResponsePayload, error) {
	game, err := that.games.CreateGame(ctx)
	if err != nil {
		return nil, err
	}

	return render(game, view.OrderAsc), nil
}

func (that *Server) handleState(ctx context.Context, payload *RequestPayload) (*ResponsePayload, error) {
	if payload.GameID == "" {
		return nil, errGameIDRequired
	}

	game, err := that.games.GetGame(ctx, payload.GameID)
	if err != nil {
		return nil, err
	}

	return render(game, view.ParseOrder(payload.Order)), nil
}

func (that *Server) handleMove(ctx context.Context, payload *RequestPayload) (*ResponsePayload, error) {
	if payload.GameID == "" {
		return nil, errGameIDRequired
	}

	if payload.Cell == nil {
		return nil, errCellRequired
	}

	game, err := that.games.MakeMove(ctx, payload.GameID, *payload.Cell)
	if err != nil {
		return nil, err
	}

	return render(game, view.ParseOrder(payload.Order)), nil
}

func (that *Server) handleJump(ctx context.Context, payload *RequestPayload) (*ResponsePayload, error) {
	if payload.GameID == "" {
		return nil, errGameIDRequired
	}

	if payload.Step == nil {
		return nil, errStepRequired
	}

	game, err := that.games.JumpTo(ctx, payload.GameID, *payload.Step)
	if err != nil {
		return nil, err
	}

	return render(game, view.ParseOrder(payload.Order)), nil
}

func (that *Server) handleRestart(ctx context.Context, payload *RequestPayload) (*ResponsePayload, error) {
	if payload.GameID == "" {
		return nil, errGameIDRequired
	}

	game, err := that.games.Restart(ctx, payload.GameID)
	if err != nil {
		return nil, err
	}

	return render(game, view.ParseOrder(payload.Order)), nil
}

func render(game *entity.Game, order view.Order) *ResponsePayload {
	return &ResponsePayload{Game: view.Render(game, order)}
}

// errorText returns the message sent to the client and whether the error is unexpected.
func errorText(err error) (string, bool) {
	for _, known := range []error{
		apperror.ErrGameNotFound,
		apperror.ErrInvalidStep,
		apperror.ErrGameConflict,
		errGameIDRequired,
		errCellRequired,
		errStepRequired,
	} {
		if errors.Is(err, known) {
			return known.Error(), false
		}
	}

	return "internal server error", true
}
