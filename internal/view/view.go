// Package view turns a game into what a client draws: nine squares, a status line and the
// list of moves to travel back to. Nothing here holds state.
package view

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder falls back to ascending for anything it does not recognise.
func ParseOrder(value string) Order {
	if Order(value) == OrderDesc {
		return OrderDesc
	}

	return OrderAsc
}

type Square struct {
	Index       int         `json:"index"`
	Value       entity.Mark `json:"value"`
	Highlighted bool        `json:"highlighted,omitempty"`
}

type Location struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Move struct {
	Step     int       `json:"step"`
	Label    string    `json:"label"`
	Current  bool      `json:"current,omitempty"`
	Location *Location `json:"location,omitempty"`
}

type Game struct {
	ID         string      `json:"id"`
	Status     string      `json:"status"`
	Outcome    string      `json:"outcome"`
	NextPlayer entity.Mark `json:"next_player,omitempty"`
	Winner     entity.Mark `json:"winner,omitempty"`
	Step       int         `json:"step"`
	Squares    []Square    `json:"squares"`
	Moves      []Move      `json:"moves"`
}

func Render(game *entity.Game, order Order) *Game {
	result := &Game{
		ID:      game.ID,
		Status:  Status(game),
		Outcome: game.Outcome(),
		Winner:  game.Winner(),
		Step:    game.StepNumber,
		Squares: Squares(game.CurrentBoard()),
		Moves:   Moves(game, order),
	}

	if result.Outcome == entity.StatusOngoing {
		result.NextPlayer = game.CurrentPlayer()
	}

	return result
}

func Status(game *entity.Game) string {
	switch game.Outcome() {
	case entity.StatusWon:
		return fmt.Sprintf("Winner: %s", game.Winner())
	case entity.StatusDraw:
		return "Draw"
	default:
		return fmt.Sprintf("Next player: %s", game.CurrentPlayer())
	}
}

func Squares(board entity.Board) []Square {
	line, won := entity.WinningLine(board)

	squares := make([]Square, entity.BoardSize)
	for i, mark := range board {
		squares[i] = Square{Index: i, Value: mark}
	}

	if won {
		for _, i := range line {
			squares[i].Highlighted = true
		}
	}

	return squares
}

func Moves(game *entity.Game, order Order) []Move {
	moves := make([]Move, 0, len(game.History))

	for step := range game.History {
		move := Move{
			Step:    step,
			Label:   moveLabel(step, step == game.StepNumber),
			Current: step == game.StepNumber,
		}

		if cell, ok := game.MoveAt(step); ok {
			move.Location = &Location{Row: cell/3 + 1, Col: cell%3 + 1}
		}

		moves = append(moves, move)
	}

	if order == OrderDesc {
		for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
			moves[i], moves[j] = moves[j], moves[i]
		}
	}

	return moves
}

func moveLabel(step int, current bool) string {
	switch {
	case current && step == 0:
		return "You are at game start"
	case current:
		return fmt.Sprintf("You are at move #%d", step)
	case step == 0:
		return "Go to game start"
	default:
		return fmt.Sprintf("Go to move #%d", step)
	}
}
