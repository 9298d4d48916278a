package entity

import (
	"encoding/json"
	"fmt"
)

type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

const BoardSize = 9

// WinCombos is checked in order: rows, columns, diagonal, anti-diagonal.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is a row-major 3x3 grid. It is an array, so assigning it copies every cell.
type Board [BoardSize]Mark

// CalculateWinner returns the mark of the first uniform line, or EmptyCell if there is none.
func CalculateWinner(board Board) Mark {
	line, ok := WinningLine(board)
	if !ok {
		return EmptyCell
	}

	return board[line[0]]
}

// WinningLine returns the first line whose three cells hold the same mark.
func WinningLine(board Board) ([3]int, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return combo, true
		}
	}

	return [3]int{}, false
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}

	return count
}

// UnmarshalJSON rejects arrays that are not exactly BoardSize long.
func (that *Board) UnmarshalJSON(data []byte) error {
	var cells []Mark
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}

	if len(cells) != BoardSize {
		return fmt.Errorf("board has %d cells, expected %d", len(cells), BoardSize)
	}

	copy(that[:], cells)

	return nil
}

func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}
