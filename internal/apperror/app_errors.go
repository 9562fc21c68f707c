package apperror

import "errors"

var (
	ErrGameIsNotStarted     = errors.New("game is not started")
	ErrNotYourTurn          = errors.New("it's not your turn")
	ErrCellOccupied         = errors.New("cell is already occupied")
	ErrOutOfBounds          = errors.New("coordinates are out of bounds")
	ErrInvalidColor         = errors.New("invalid color")
	ErrColorTaken           = errors.New("color is already taken")
	ErrColorSelectionClosed = errors.New("color selection is closed")
	ErrSessionFull          = errors.New("session already has two players")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrMalformedMessage     = errors.New("malformed message")
	ErrUnknownCommand       = errors.New("unknown command")
)
