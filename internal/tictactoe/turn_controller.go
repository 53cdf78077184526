package tictactoe

import (
	"github.com/rocketscienceinc/tictactoe-client/internal/apperror"
)

// Phase tells whether the client may submit input or is waiting on the server.
type Phase int

const (
	AwaitingInput Phase = iota
	AwaitingServer
)

func (p Phase) String() string {
	switch p {
	case AwaitingInput:
		return "awaiting_input"
	case AwaitingServer:
		return "awaiting_server"
	default:
		return "unknown"
	}
}

// TurnController gates move submission. GameActive only changes through EndGame and
// Restart; the request phase only through BeginRequest and FinishRequest.
//
// It is not safe for concurrent use, the owner serialises access.
type TurnController struct {
	active bool
	phase  Phase
}

func NewTurnController() *TurnController {
	return &TurnController{
		active: true,
		phase:  AwaitingInput,
	}
}

func (that *TurnController) Active() bool {
	return that.active
}

func (that *TurnController) Phase() Phase {
	return that.phase
}

// CanSubmit reports whether a move may be sent right now.
func (that *TurnController) CanSubmit() bool {
	return that.active && that.phase == AwaitingInput
}

// BeginRequest enters AwaitingServer. Only one request may be outstanding.
func (that *TurnController) BeginRequest() error {
	if that.phase == AwaitingServer {
		return apperror.ErrAwaitingServer
	}

	that.phase = AwaitingServer

	return nil
}

func (that *TurnController) FinishRequest() {
	that.phase = AwaitingInput
}

// EndGame - Active -> Inactive, on a game over answer.
func (that *TurnController) EndGame() {
	that.active = false
}

// Restart - Inactive -> Active, on reset.
func (that *TurnController) Restart() {
	that.active = true
}
