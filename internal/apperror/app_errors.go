package apperror

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrUnknownMode      = errors.New("unknown game mode")
	ErrUnknownMark      = errors.New("unknown player mark")
	ErrUnknownStorage   = errors.New("unknown storage driver")
	ErrInvalidDelay     = errors.New("invalid AI delay")
)
