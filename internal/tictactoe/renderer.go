package tictactoe

import "github.com/rocketscienceinc/tictactoe-client/internal/entity"

// DisplayCell is one rendered cell. Clickable cells accept a move.
type DisplayCell struct {
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Marker    string `json:"marker"`
	Clickable bool   `json:"clickable"`
}

// Render rebuilds every display cell from board, row-major. A cell is clickable iff
// active is set and its marker is the empty marker. Nothing from a previous render
// is reused.
func Render(board entity.Board, emptyMarker string, active bool) []DisplayCell {
	cells := make([]DisplayCell, 0, board.Rows()*board.Cols())

	for row, markers := range board {
		for col, marker := range markers {
			cells = append(cells, DisplayCell{
				Row:       row,
				Col:       col,
				Marker:    marker,
				Clickable: active && marker == emptyMarker,
			})
		}
	}

	return cells
}

func ClickableCount(cells []DisplayCell) int {
	count := 0
	for _, cell := range cells {
		if cell.Clickable {
			count++
		}
	}
	return count
}

// Lookup finds the rendered cell at (row, col).
func Lookup(cells []DisplayCell, row, col int) (DisplayCell, bool) {
	for _, cell := range cells {
		if cell.Row == row && cell.Col == col {
			return cell, true
		}
	}
	return DisplayCell{}, false
}
