package apperror

import "errors"

var (
	ErrGameInactive      = errors.New("game is over, reset to play again")
	ErrAwaitingServer    = errors.New("waiting for the server to answer")
	ErrCellOutOfRange    = errors.New("cell is outside the board")
	ErrCellNotClickable  = errors.New("cell is not clickable")
	ErrNothingToRetry    = errors.New("no failed request to retry")
	ErrMoveRejected      = errors.New("move rejected by server")
	ErrUnexpectedStatus  = errors.New("unexpected response status")
	ErrMalformedResponse = errors.New("malformed server response")
)
