package entity

import (
	"errors"
	"fmt"
)

const (
	EmptyCell = " "

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "Tie"
)

var (
	ErrEmptyBoard  = errors.New("board has no cells")
	ErrRaggedBoard = errors.New("board rows differ in length")
	ErrCellOnBoard = errors.New("cell is not on the board")
)

// Board is the grid of markers as last returned by the server, indexed [row][col].
type Board [][]string

// Cell is a (row, col) coordinate on a board.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Board) Rows() int {
	return len(that)
}

func (that Board) Cols() int {
	if len(that) == 0 {
		return 0
	}
	return len(that[0])
}

// Validate checks the board is non-empty and rectangular.
func (that Board) Validate() error {
	if len(that) == 0 || len(that[0]) == 0 {
		return ErrEmptyBoard
	}

	width := len(that[0])
	for i, row := range that {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedBoard, i, len(row), width)
		}
	}

	return nil
}

func (that Board) Contains(cell Cell) bool {
	return cell.Row >= 0 && cell.Row < that.Rows() && cell.Col >= 0 && cell.Col < len(that[cell.Row])
}

func (that Board) Marker(cell Cell) (string, error) {
	if !that.Contains(cell) {
		return "", fmt.Errorf("%w: (%d,%d)", ErrCellOnBoard, cell.Row, cell.Col)
	}
	return that[cell.Row][cell.Col], nil
}

// Clone returns a deep copy so callers can't alias the session's board.
func (that Board) Clone() Board {
	if that == nil {
		return nil
	}

	out := make(Board, len(that))
	for i, row := range that {
		out[i] = make([]string, len(row))
		copy(out[i], row)
	}

	return out
}

// NewBoard returns a rows x cols board filled with the empty marker.
func NewBoard(rows, cols int, empty string) Board {
	board := make(Board, rows)
	for i := range board {
		board[i] = make([]string, cols)
		for j := range board[i] {
			board[i][j] = empty
		}
	}
	return board
}
