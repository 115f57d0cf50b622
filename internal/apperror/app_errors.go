package apperror

import "errors"

var (
	ErrConfig      = errors.New("invalid board configuration")
	ErrIllegalMove = errors.New("illegal move")
	ErrNoLegalMove = errors.New("no legal move available")

	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrGameNotFound = errors.New("game not found")
)
