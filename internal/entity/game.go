package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// Opponent - returns the other player's mark. EmptyCell has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

type Mode string

const (
	ModeSingle    Mode = "single"
	ModeTwoPlayer Mode = "two-player"
)

// ParseMode - accepts the wire names of a game mode, case-insensitive.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeSingle:
		return ModeSingle, nil
	case ModeTwoPlayer:
		return ModeTwoPlayer, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownMode, value)
	}
}

func (that Mode) Toggle() Mode {
	if that == ModeSingle {
		return ModeTwoPlayer
	}
	return ModeSingle
}

type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWinX Outcome = "x"
	OutcomeWinO Outcome = "o"
	OutcomeDraw Outcome = "draw"
)

// WinFor - maps a winning mark to its outcome.
func WinFor(mark Mark) Outcome {
	switch mark {
	case PlayerX:
		return OutcomeWinX
	case PlayerO:
		return OutcomeWinO
	default:
		return OutcomeNone
	}
}

func (that Outcome) IsWin() bool {
	return that == OutcomeWinX || that == OutcomeWinO
}

// Board cells are laid out row-major:
//
//	0 1 2
//	3 4 5
//	6 7 8
type Board [9]Mark

// Line holds the three cell indexes of a winning triple.
type Line [3]int

// EmptyCells - returns indexes of empty cells in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}
	return cells
}

func (that Board) Filled() int {
	return len(that) - len(that.EmptyCells())
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

type Scores struct {
	X     int `json:"x"`
	O     int `json:"o"`
	Draws int `json:"draws"`
}

// Total - number of completed games.
func (that Scores) Total() int {
	return that.X + that.O + that.Draws
}

// GameState is replaced on every transition and never mutated in place.
// CurrentMover is meaningless once Outcome is not OutcomeNone.
type GameState struct {
	Board        Board   `json:"board"`
	CurrentMover Mark    `json:"current_mover"`
	Mode         Mode    `json:"mode"`
	Outcome      Outcome `json:"outcome"`
	WinningLine  *Line   `json:"winning_line,omitempty"`
	Scores       Scores  `json:"scores"`
}

func (that GameState) IsTerminal() bool {
	return that.Outcome != OutcomeNone
}

func (that GameState) IsOngoing() bool {
	return that.Outcome == OutcomeNone
}
