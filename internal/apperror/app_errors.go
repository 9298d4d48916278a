package apperror

import "errors"

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrInvalidStep   = errors.New("invalid history step")
	ErrCorruptedGame = errors.New("game history is corrupted")
	ErrGameConflict  = errors.New("game is being modified, try again")
)
