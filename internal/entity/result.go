package entity

const (
	StatusInProgress = "in_progress"
	StatusGameOver   = "game_over"
)

// MoveResult is the server's answer to a submitted move.
type MoveResult struct {
	Board  Board  `json:"board"`
	Status string `json:"status"`
	Winner string `json:"winner,omitempty"`
}

func (that *MoveResult) IsGameOver() bool {
	return that.Status == StatusGameOver
}

func (that *MoveResult) IsTie() bool {
	return that.Winner == PlayerTie
}

// ResetResult is the server's answer to a reset.
type ResetResult struct {
	Board Board `json:"board"`
}
