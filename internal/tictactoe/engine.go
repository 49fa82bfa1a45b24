// Package tictactoe holds the game engine: pure transitions over entity.GameState.
// Every function returns a new state and never mutates its input.
package tictactoe

import (
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// WinCombos are scanned in this order; the first uniform triple wins.
var WinCombos = [8]entity.Line{
	// rows
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	// columns
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	// diagonals
	{0, 4, 8},
	{2, 4, 6},
}

// IndexSource returns a value in [0, n).
type IndexSource func(n int) int

type Winner struct {
	Mark entity.Mark
	Line entity.Line
}

// NewGame - empty board, X to move, zero scores.
func NewGame(mode entity.Mode) entity.GameState {
	return entity.GameState{
		CurrentMover: entity.PlayerX,
		Mode:         mode,
	}
}

// IsLegalMove - reports whether the current mover may mark the cell.
func IsLegalMove(state entity.GameState, cell int) bool {
	if cell < 0 || cell >= len(state.Board) {
		return false
	}

	return state.IsOngoing() && state.Board[cell] == entity.EmptyCell
}

// ApplyMove - places the current mover's mark. Illegal moves return the state unchanged.
func ApplyMove(state entity.GameState, cell int) entity.GameState {
	if !IsLegalMove(state, cell) {
		return state
	}

	next := state
	next.Board[cell] = state.CurrentMover

	if winner, ok := DetectWinner(next.Board); ok {
		line := winner.Line
		next.Outcome = entity.WinFor(winner.Mark)
		next.WinningLine = &line
		next.Scores = countWin(next.Scores, winner.Mark)

		return next
	}

	if next.Board.IsFull() {
		next.Outcome = entity.OutcomeDraw
		next.Scores.Draws++

		return next
	}

	next.CurrentMover = state.CurrentMover.Opponent()

	return next
}

// DetectWinner - returns the first uniformly marked triple in WinCombos order.
func DetectWinner(board entity.Board) (Winner, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return Winner{Mark: a, Line: combo}, true
		}
	}

	return Winner{}, false
}

// SelectAiMove - picks one empty cell uniformly through next.
// Returns false when the board is full.
func SelectAiMove(board entity.Board, next IndexSource) (int, bool) {
	available := board.EmptyCells()
	if len(available) == 0 {
		return -1, false
	}

	return available[next(len(available))], true
}

// ResetBoard - fresh board with X to move; mode and scores are carried over.
func ResetBoard(state entity.GameState) entity.GameState {
	return entity.GameState{
		CurrentMover: entity.PlayerX,
		Mode:         state.Mode,
		Scores:       state.Scores,
	}
}

// SwitchMode - toggles the mode and resets the board.
func SwitchMode(state entity.GameState) entity.GameState {
	state.Mode = state.Mode.Toggle()
	return ResetBoard(state)
}

func countWin(scores entity.Scores, mark entity.Mark) entity.Scores {
	switch mark {
	case entity.PlayerX:
		scores.X++
	case entity.PlayerO:
		scores.O++
	}
	return scores
}
