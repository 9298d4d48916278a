package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
)

const (
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusDraw    = "draw"
)

// Game owns the board history and the pointer to the displayed snapshot.
// History[k] is the board after k moves; entries are never modified once appended.
type Game struct {
	ID         string  `json:"id"`
	History    []Board `json:"history"`
	StepNumber int     `json:"step_number"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:         id,
		History:    []Board{{}},
		StepNumber: 0,
	}
}

func (that *Game) CurrentBoard() Board {
	return that.History[that.StepNumber]
}

// CurrentPlayer is derived from the step parity: X moves on even steps.
func (that *Game) CurrentPlayer() Mark {
	return playerForStep(that.StepNumber)
}

func (that *Game) Winner() Mark {
	return CalculateWinner(that.CurrentBoard())
}

func (that *Game) Outcome() string {
	board := that.CurrentBoard()

	switch {
	case CalculateWinner(board) != EmptyCell:
		return StatusWon
	case board.IsFull():
		return StatusDraw
	default:
		return StatusOngoing
	}
}

// ApplyMove places the current player's mark on cell and reports whether the move was accepted.
// Moves to an occupied or out-of-range cell, or on a decided board, leave the game unchanged.
func (that *Game) ApplyMove(cell int) bool {
	if !IsValidCell(cell) {
		return false
	}

	current := that.CurrentBoard()
	if CalculateWinner(current) != EmptyCell || current[cell] != EmptyCell {
		return false
	}

	next := current
	next[cell] = that.CurrentPlayer()

	// cap the slice so the append never writes into a backing array shared with a discarded future
	past := that.History[:that.StepNumber+1 : that.StepNumber+1]
	that.History = append(past, next)
	that.StepNumber = len(that.History) - 1

	return true
}

// JumpTo moves the pointer to step without touching the history.
func (that *Game) JumpTo(step int) error {
	if step < 0 || step >= len(that.History) {
		return fmt.Errorf("%w: step %d, history length %d", apperror.ErrInvalidStep, step, len(that.History))
	}

	that.StepNumber = step

	return nil
}

func (that *Game) Restart() {
	that.History = []Board{{}}
	that.StepNumber = 0
}

// MoveAt returns the cell filled by the move that produced History[step].
func (that *Game) MoveAt(step int) (int, bool) {
	if step <= 0 || step >= len(that.History) {
		return 0, false
	}

	prev, next := that.History[step-1], that.History[step]
	for i := range next {
		if prev[i] != next[i] {
			return i, true
		}
	}

	return 0, false
}

func (that *Game) Clone() *Game {
	history := make([]Board, len(that.History))
	copy(history, that.History)

	return &Game{
		ID:         that.ID,
		History:    history,
		StepNumber: that.StepNumber,
	}
}

// Validate checks that the history is a legal sequence of alternating moves starting from an
// empty board and that the pointer is within it.
func (that *Game) Validate() error {
	if len(that.History) == 0 {
		return fmt.Errorf("%w: empty history", apperror.ErrCorruptedGame)
	}

	if that.StepNumber < 0 || that.StepNumber >= len(that.History) {
		return fmt.Errorf("%w: step %d out of range", apperror.ErrCorruptedGame, that.StepNumber)
	}

	if that.History[0] != (Board{}) {
		return fmt.Errorf("%w: first entry is not an empty board", apperror.ErrCorruptedGame)
	}

	for step := 1; step < len(that.History); step++ {
		if err := validateTransition(that.History[step-1], that.History[step], playerForStep(step-1)); err != nil {
			return fmt.Errorf("%w: step %d: %w", apperror.ErrCorruptedGame, step, err)
		}
	}

	return nil
}

func validateTransition(prev, next Board, mark Mark) error {
	if CalculateWinner(prev) != EmptyCell {
		return errors.New("move after the game was decided")
	}

	changed := 0
	for i := range next {
		if prev[i] == next[i] {
			continue
		}

		if prev[i] != EmptyCell || next[i] != mark {
			return fmt.Errorf("cell %d changed from %q to %q", i, prev[i], next[i])
		}
		changed++
	}

	if changed != 1 {
		return fmt.Errorf("%d cells changed, expected 1", changed)
	}

	return nil
}

func playerForStep(step int) Mark {
	if step%2 == 0 {
		return PlayerX
	}

	return PlayerO
}
